package api_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/frobnicators/tweaklib/api"
)

func TestWrapUnwrapsToCause(t *testing.T) {
	err := api.Wrap(api.ErrCodeIPC, "refresh", api.ErrClosed).WithContext("slot", 3)
	assert.True(t, errors.Is(err, api.ErrClosed))
	assert.Equal(t, "refresh: resource is closed (context: map[slot:3])", err.Error())

	var e *api.Error
	assert.True(t, errors.As(error(err), &e))
	assert.Equal(t, api.ErrCodeIPC, e.Code)
}

func TestErrorCodeString(t *testing.T) {
	assert.Equal(t, "subsystem", api.ErrCodeSubsystem.String())
	assert.Equal(t, "admission", api.ErrCodeAdmission.String())
	assert.Equal(t, "unknown", api.ErrorCode(99).String())
}
