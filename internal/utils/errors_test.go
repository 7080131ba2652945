package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorKindsMatchSentinels(t *testing.T) {
	cause := errors.New("boom")

	parse := NewParseError("time.resolve", "bad date", cause)
	assert.ErrorIs(t, parse, ErrParse)
	assert.NotErrorIs(t, parse, ErrRange)
	assert.ErrorIs(t, parse, cause)

	rng := NewRangeError("input.validate", "latitude", nil)
	assert.ErrorIs(t, rng, ErrRange)
	assert.NotErrorIs(t, rng, ErrComputation)

	comp := fmt.Errorf("outer: %w", NewComputationError("ephemeris.houses", "failed", cause))
	assert.ErrorIs(t, comp, ErrComputation)
	assert.Equal(t, KindComputation, KindOf(comp))
}

func TestAppErrorMessage(t *testing.T) {
	err := NewParseError("time.resolve", "bad date", errors.New("month out of range"))
	assert.Equal(t, "time.resolve: bad date: month out of range", err.Error())

	err = NewRangeError("input.validate", "latitude must be within [-90, 90]", nil)
	assert.Equal(t, "input.validate: latitude must be within [-90, 90]", err.Error())
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, KindComputation, KindOf(errors.New("plain")))
	assert.Equal(t, KindRange, KindOf(NewRangeError("op", "msg", nil)))
}
