package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Channels an alert is delivered through
const (
	ChannelInApp = "in_app"
	ChannelEmail = "email"
)

// LowStockAlert is the payload describing one product at or below its
// minimum stock level.
type LowStockAlert struct {
	ProductID     uuid.UUID
	ProductName   string
	SKU           string
	CurrentStock  int
	MinStockLevel int
	UnitPrice     decimal.Decimal
	ProductURL    string
}

// Title is the inbox title for the alert
func (a LowStockAlert) Title() string {
	return "Low stock: " + a.ProductName
}

// Message is the inbox body for the alert
func (a LowStockAlert) Message() string {
	return fmt.Sprintf("%s has %d unit(s) left, at or below the minimum of %d.",
		a.ProductName, a.CurrentStock, a.MinStockLevel)
}

// ProductURL joins the dashboard base URL and a product id
func ProductURL(baseURL string, productID uuid.UUID) string {
	if baseURL == "" {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + "/dashboard/products/" + productID.String()
}

// EmailMessage is one outgoing email. Bcc recipients are hidden from each other.
type EmailMessage struct {
	To      []string
	Bcc     []string
	Subject string
	HTML    string
}

// Mailer delivers email
type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
}
