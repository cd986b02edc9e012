package response

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	resp := Error("something failed")
	assert.Equal(t, "something failed", resp.Error)
}

func TestValidationError(t *testing.T) {
	type payload struct {
		ServiceID string  `validate:"required"`
		StartDate string  `validate:"required,datetime=2006-01-02"`
		Amount    float64 `validate:"gte=0"`
	}

	err := validator.New().Struct(payload{StartDate: "31-01-2024", Amount: -1})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))
	assert.Contains(t, resp.Error, "ServiceID is a required field")
	assert.Contains(t, resp.Error, "StartDate must be a date in format YYYY-MM-DD")
	assert.Contains(t, resp.Error, "Amount must be non-negative")
}
