package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostString(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "short text kept", text: "hello", want: "hello"},
		{name: "long text cut to fifteen runes", text: "Test post, test text", want: "Test post, test"},
		{name: "cyrillic counted by rune", text: "Тестовый пост, тестовый текст", want: "Тестовый пост, "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Post{Text: tt.text}.String())
		})
	}
}

func TestGroupString(t *testing.T) {
	assert.Equal(t, "Test group", Group{Title: "Test group", Slug: "test_slug"}.String())
}

func TestUserFullName(t *testing.T) {
	assert.Equal(t, "Leo Tolstoy", User{Username: "leo", FirstName: "Leo", LastName: "Tolstoy"}.FullName())
	assert.Equal(t, "Leo", User{Username: "leo", FirstName: "Leo"}.FullName())
	assert.Equal(t, "leo", User{Username: "leo"}.FullName())
}

func TestErrorCodes(t *testing.T) {
	wrapped := fmt.Errorf("load post: %w", NewNotFoundError("Post", 7))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsValidation(wrapped))
	assert.Equal(t, CodeNotFound, ErrorCode(wrapped))

	field := NewFieldError("text", "This field is required.")
	assert.True(t, IsValidation(field))
	assert.Equal(t, "text", field.Field)

	assert.True(t, IsForbidden(NewForbiddenError("nope")))
	assert.Equal(t, CodeInternal, ErrorCode(errors.New("boom")))

	internal := NewInternalError(errors.New("db down"))
	assert.Equal(t, "Internal server error: db down", internal.Error())
	assert.ErrorContains(t, errors.Unwrap(internal), "db down")
}
