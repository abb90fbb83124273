package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Name   string `json:"name" validate:"required,max=5"`
	Status string `json:"status" validate:"omitempty,oneof=open closed"`
	Min    *int64 `json:"salary_min" validate:"omitempty,min=0"`
}

func TestValidateStruct(t *testing.T) {
	require.NoError(t, ValidateStruct(samplePayload{Name: "ok"}))

	neg := int64(-1)
	err := ValidateStruct(samplePayload{Name: "toolong", Status: "maybe", Min: &neg})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "name must be at most 5")
	assert.Contains(t, err.Error(), "status must be one of [open closed]")
	assert.Contains(t, err.Error(), "salary_min must be at least 0")

	err = ValidateStruct(samplePayload{})
	assert.Contains(t, err.Error(), "name is required")
}
