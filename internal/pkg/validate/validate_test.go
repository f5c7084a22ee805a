package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edulegal/internal/domain"
	"edulegal/internal/pkg/validate"
)

func TestStruct(t *testing.T) {
	t.Run("Missing required field uses json name", func(t *testing.T) {
		err := validate.Struct(domain.CreateCaseInput{Description: "D", Category: "harassment"})

		var fe *validate.FieldError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "title", fe.Field)
		assert.Equal(t, "title is required", fe.Error())
	})

	t.Run("Short password", func(t *testing.T) {
		err := validate.Struct(domain.CreateUserInput{Name: "Ann", Email: "ann@example.com", Password: "12345"})

		require.Error(t, err)
		assert.Equal(t, "password must be at least 6 characters", err.Error())
	})

	t.Run("Form tags name complaint fields", func(t *testing.T) {
		err := validate.Struct(domain.CreateComplaintInput{
			ReporterType:  domain.ReporterStudent,
			ReporterEmail: "not-an-email",
			Title:         "T",
			Description:   "D",
			Category:      domain.CategoryOther,
		})

		require.Error(t, err)
		assert.Equal(t, "reporterEmail must be a valid email address", err.Error())
	})

	t.Run("Valid input", func(t *testing.T) {
		assert.NoError(t, validate.Struct(domain.LoginInput{Email: "a@b.co", Password: "x"}))
	})
}
