package util

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrWrap(t *testing.T) {
	assert.Equal(t, "value", ErrWrap("fallback")("value", nil))
	assert.Equal(t, "fallback", ErrWrap("fallback")("value", errors.New("failure")))
	assert.Equal(t, 0, ErrWrap(0)(42, errors.New("failure")))
}

func TestErrSuppress(t *testing.T) {
	assert.NotPanics(t, func() { ErrSuppress(errors.New("failure")) })
}
