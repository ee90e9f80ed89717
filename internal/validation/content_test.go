package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateText(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateText("hello"))
	assert.EqualError(t, ValidateText(""), RequiredMessage)
	assert.EqualError(t, ValidateText(" "), RequiredMessage)
	assert.EqualError(t, ValidateText("\n\t "), RequiredMessage)
}

func TestValidateGroupSlug(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		slug string
		ok   bool
	}{
		{name: "lowercase", slug: "cats", ok: true},
		{name: "underscore", slug: "test_slug", ok: true},
		{name: "hyphen and digits", slug: "leo-2", ok: true},
		{name: "uppercase", slug: "Movies", ok: true},
		{name: "maximum length", slug: strings.Repeat("a", 50), ok: true},
		{name: "too long", slug: strings.Repeat("a", 51), ok: false},
		{name: "empty", slug: "", ok: false},
		{name: "space", slug: "pc gaming", ok: false},
		{name: "symbol", slug: "pc!gaming", ok: false},
		{name: "cyrillic", slug: "котики", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGroupSlug(tt.slug)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateGroupTitle(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateGroupTitle("Cats"))
	assert.Error(t, ValidateGroupTitle("  "))
	assert.Error(t, ValidateGroupTitle(strings.Repeat("я", 201)))
}
