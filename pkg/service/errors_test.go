package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Matching(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("wrapped: %w", storeError("load cart", cause))

	assert.ErrorIs(t, err, ErrStore)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "wrapped: failed to load cart: connection reset", err.Error())
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Cart is empty", Message(fail(ErrEmptyCart, "Cart is empty")))
	assert.Equal(t, "Something went wrong. Please try again.", Message(storeError("x", errors.New("boom"))))
	assert.Equal(t, "Something went wrong. Please try again.", Message(errors.New("plain")))
}
