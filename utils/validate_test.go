package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Title string `json:"title" validate:"required,min=3"`
	Email string `json:"guestEmail" validate:"required,email"`
	Kind  string `json:"propertyType" validate:"oneof=house villa"`
}

func TestValidationMessage_UsesJSONNames(t *testing.T) {
	err := NewValidator().Struct(sample{Title: "ab", Email: "nope", Kind: "tent"})
	require.Error(t, err)

	msg := ValidationMessage(err)
	assert.Contains(t, msg, "title must satisfy min=3")
	assert.Contains(t, msg, "guestEmail must be a valid email address")
	assert.Contains(t, msg, "propertyType must be one of [house villa]")
}

func TestValidationMessage_Required(t *testing.T) {
	err := NewValidator().Struct(sample{Kind: "house"})
	require.Error(t, err)
	assert.Contains(t, ValidationMessage(err), "title is required")
}

func TestValidationMessage_PlainError(t *testing.T) {
	assert.Equal(t, "boom", ValidationMessage(errors.New("boom")))
}
