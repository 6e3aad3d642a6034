package partner

import (
	"errors"
	"testing"

	"github.com/ims/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSupplier(t *testing.T) {
	t.Run("trims and stores fields", func(t *testing.T) {
		s, err := NewSupplier(SupplierDetails{
			Name:          " PT Sumber Makmur ",
			ContactPerson: "Budi",
			Email:         "sales@sumber.co.id",
			Phone:         "0812",
		})
		require.NoError(t, err)
		assert.Equal(t, "PT Sumber Makmur", s.Name)
		assert.Equal(t, "sales@sumber.co.id", s.Email)
	})

	t.Run("email is optional", func(t *testing.T) {
		_, err := NewSupplier(SupplierDetails{Name: "CV Maju"})
		assert.NoError(t, err)
	})

	t.Run("rejects short name and bad email", func(t *testing.T) {
		_, err := NewSupplier(SupplierDetails{Name: "CV", Email: "not-an-email"})
		var verr *shared.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, []string{"email", "name"}, verr.FieldNames())
	})
}
