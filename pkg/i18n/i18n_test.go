package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpanishIsDefault(t *testing.T) {
	support, err := NewI18nSupport("es")
	require.NoError(t, err)

	assert.Equal(t, "Nueva alerta de pánico", support.TWithDefaultLang("alert_push_title", nil))
	assert.Equal(t, "Nueva alerta de pánico", support.T("es", "alert_push_title", nil))
}

func TestEnglishTranslation(t *testing.T) {
	support, err := NewI18nSupport("es")
	require.NoError(t, err)

	assert.Equal(t, "New panic alert", support.T("en", "alert_push_title", nil))
	assert.Equal(t, "Someone you follow created an alert.", support.T("en", "alert_push_body", nil))
}

func TestUnknownLanguageFallsBackToDefault(t *testing.T) {
	support, err := NewI18nSupport("es")
	require.NoError(t, err)

	assert.Equal(t, "Nueva alerta de pánico", support.T("fr", "alert_push_title", nil))
}

func TestUnknownKeyReturnsKey(t *testing.T) {
	support, err := NewI18nSupport("es")
	require.NoError(t, err)

	assert.Equal(t, "no_such_key", support.T("es", "no_such_key", nil))
}
