package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"net/mail"
	"strings"

	"github.com/ims/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

// Field limits for profiles
const (
	MinFullNameLength = 3
	MinPasswordLength = 6
)

// Profile is an authenticated person using the system.
// Role decides who receives stock alerts and who may manage users.
type Profile struct {
	shared.BaseEntity
	FullName     string
	Email        string
	Role         shared.Role
	PasswordHash string
}

// NewProfile creates a profile with a hashed password
func NewProfile(fullName, email, password string, role shared.Role) (*Profile, error) {
	verr := shared.NewValidationError()
	fullName = strings.TrimSpace(fullName)
	email = strings.ToLower(strings.TrimSpace(email))
	if len([]rune(fullName)) < MinFullNameLength {
		verr.Add("full_name", "Full name must be at least 3 characters")
	}
	if err := validateEmail(email); err != nil {
		verr.Add("email", err.Error())
	}
	if len(password) < MinPasswordLength {
		verr.Add("password", "Password must be at least 6 characters")
	}
	if !role.IsValid() {
		verr.Add("role", "Role must be one of admin, manager, staff")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	return &Profile{
		BaseEntity:   shared.NewBaseEntity(),
		FullName:     fullName,
		Email:        email,
		Role:         role,
		PasswordHash: hash,
	}, nil
}

// Actor returns the identity used to thread this profile through operations
func (p *Profile) Actor() shared.Actor {
	return shared.NewActor(p.ID, p.Role)
}

// Rename changes the display name
func (p *Profile) Rename(fullName string) error {
	fullName = strings.TrimSpace(fullName)
	if len([]rune(fullName)) < MinFullNameLength {
		return shared.NewValidationError().Add("full_name", "Full name must be at least 3 characters")
	}
	p.FullName = fullName
	p.Touch()
	return nil
}

// SetPassword replaces the password after checking the confirmation matches
func (p *Profile) SetPassword(password, confirmation string) error {
	verr := shared.NewValidationError()
	if len(password) < MinPasswordLength {
		verr.Add("password", "Password must be at least 6 characters")
	}
	if password != confirmation {
		verr.Add("confirm_password", "Passwords do not match")
	}
	if err := verr.OrNil(); err != nil {
		return err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	p.PasswordHash = hash
	p.Touch()
	return nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (p *Profile) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) == nil
}

// PasswordFingerprint identifies the current password hash without exposing
// it. It changes whenever the password does.
func (p *Profile) PasswordFingerprint() string {
	sum := sha256.Sum256([]byte(p.PasswordHash))
	return hex.EncodeToString(sum[:8])
}

// IsAlertRecipient reports whether the profile receives low-stock alerts
func (p *Profile) IsAlertRecipient() bool {
	return p.Role == shared.RoleAdmin || p.Role == shared.RoleManager
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return shared.NewDomainError("INVALID_EMAIL", "Must be a valid email address")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
