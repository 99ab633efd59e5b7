package i18n

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestMatchLanguage(t *testing.T) {
	tests := []struct {
		accept   string
		expected language.Tag
	}{
		{"en-US,en;q=0.9", language.English},
		{"nl-NL,nl;q=0.9", language.Dutch},
		{"fr-FR", language.English}, // Fallback
		{"", language.English},      // Empty
	}

	for _, tt := range tests {
		got := MatchLanguage(tt.accept)
		// Only the base language matters here, region matching is lossy
		base, _ := got.Base()
		exp, _ := tt.expected.Base()
		assert.Equal(t, exp, base, "Accept: %s", tt.accept)
	}
}

func TestPrinterContext(t *testing.T) {
	ctx := context.Background()

	// Without a printer we still get a usable default
	p := GetPrinter(ctx)
	assert.NotNil(t, p)

	injected := NewPrinter(language.Dutch)
	ctx = WithPrinter(ctx, injected)
	assert.Same(t, injected, GetPrinter(ctx))
}

func TestNewCLIPrinter(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LANG", "nl_NL.UTF-8")
	p := NewCLIPrinter()
	assert.NotNil(t, p)

	t.Setenv("LANG", "")
	p = NewCLIPrinter()
	assert.NotNil(t, p)

	t.Setenv("LANG", "not a locale")
	p = NewCLIPrinter()
	assert.NotNil(t, p)
}
