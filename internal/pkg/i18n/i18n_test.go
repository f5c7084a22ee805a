package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	require.NoError(t, Load())

	for _, locale := range []string{"en", "es", "fr", "sw"} {
		assert.Contains(t, locales, locale)
	}
}

func TestTranslate(t *testing.T) {
	assert.Equal(t, "New case assignment", Translate("en", "case_assigned_title"))
	assert.Equal(t, "Cerrado", Translate("es", "status_closed"))
	assert.Equal(t, "En cours", Translate("fr", "status_inProgress"))
	assert.Equal(t, "Imefungwa", Translate("sw", "status_closed"))

	// Unknown locale falls back to English.
	assert.Equal(t, "Case assigned", Translate("de", "case_assigned_subject"))

	assert.Equal(t, "NON_EXISTENT_KEY", Translate("en", "NON_EXISTENT_KEY"))
}
