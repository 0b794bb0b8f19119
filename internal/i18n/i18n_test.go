package i18n_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftdesk/giftdesk-bot/internal/i18n"
)

func writeLocale(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()
	writeLocale(t, dir, "en.yaml", "en:\n  menu:\n    title: \"Hello\"\n  btn:\n    cancel: \"Cancel\"\n")
	writeLocale(t, dir, "uk.yaml", "uk:\n  menu:\n    title: \"Привіт\"\n")

	m, err := i18n.LoadFromDir(dir, "en")
	require.NoError(t, err)

	en := m.Translator("en")
	assert.Equal(t, "Hello", en.T("menu.title"))
	assert.Equal(t, "Cancel", en.T("btn.cancel"))
	assert.Equal(t, "en", en.Lang())

	uk := m.Translator("uk")
	assert.Equal(t, "Привіт", uk.T("menu.title"))
	// Missing keys fall back to the default language.
	assert.Equal(t, "Cancel", uk.T("btn.cancel"))
}

func TestTranslatorUnknownKeyReturnsKey(t *testing.T) {
	dir := t.TempDir()
	writeLocale(t, dir, "en.yaml", "en:\n  menu:\n    title: \"Hello\"\n")

	m, err := i18n.LoadFromDir(dir, "en")
	require.NoError(t, err)

	assert.Equal(t, "no.such.key", m.Translator("en").T("no.such.key"))
}

func TestLoadFromDirMissingDefaultLang(t *testing.T) {
	dir := t.TempDir()
	writeLocale(t, dir, "uk.yaml", "uk:\n  menu:\n    title: \"Привіт\"\n")

	_, err := i18n.LoadFromDir(dir, "en")
	assert.Error(t, err)
}

func TestShippedLocalesParse(t *testing.T) {
	m, err := i18n.LoadFromDir("locales", "en")
	require.NoError(t, err)

	for _, lang := range []string{"en", "uk"} {
		tr := m.Translator(lang)
		for _, key := range []string{
			"menu.title",
			"prompt.order.gift_name",
			"prompt.monitoring.account_user_id",
			"prompt.edit.minprice",
			"btn.exact",
			"btn.percentage",
			"btn.menu",
			"notice.gift_picker_only",
			"label.accounts",
		} {
			assert.NotEqual(t, key, tr.T(key), "key %s missing for %s", key, lang)
		}
	}
}
