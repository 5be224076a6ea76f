package model

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIError_Classification(t *testing.T) {
	tests := []struct {
		name         string
		err          *APIError
		unauthorized bool
		notFound     bool
		transient    bool
	}{
		{
			name:         "401 is unauthorized",
			err:          &APIError{StatusCode: http.StatusUnauthorized},
			unauthorized: true,
		},
		{
			name:     "404 is not found",
			err:      &APIError{StatusCode: http.StatusNotFound},
			notFound: true,
		},
		{
			name:      "unreachable server is transient",
			err:       &APIError{StatusCode: 0},
			transient: true,
		},
		{
			name:      "5xx is transient",
			err:       &APIError{StatusCode: http.StatusBadGateway},
			transient: true,
		},
		{
			name: "business rejection is none of the above",
			err:  &APIError{StatusCode: http.StatusConflict, Message: "Stock insuficiente"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.unauthorized, IsUnauthorized(tt.err))
			assert.Equal(t, tt.notFound, IsNotFound(tt.err))
			assert.Equal(t, tt.transient, IsTransient(tt.err))
		})
	}
}

func TestAPIError_ClassifiersRejectOtherErrors(t *testing.T) {
	err := fmt.Errorf("decode response: %w", assert.AnError)

	assert.False(t, IsUnauthorized(err))
	assert.False(t, IsNotFound(err))
	assert.False(t, IsTransient(err))
}

func TestUserMessage(t *testing.T) {
	rejection := &APIError{StatusCode: http.StatusBadRequest, Message: "Fondos insuficientes"}
	assert.Equal(t, "Fondos insuficientes", UserMessage(rejection, "generic"))

	// Wrapped errors still expose the server message.
	wrapped := fmt.Errorf("card payment: %w", rejection)
	assert.Equal(t, "Fondos insuficientes", UserMessage(wrapped, "generic"))

	// Transient failures never leak infrastructure text to the user.
	transient := &APIError{StatusCode: http.StatusServiceUnavailable, Message: "upstream timeout"}
	assert.Equal(t, "generic", UserMessage(transient, "generic"))

	assert.Equal(t, "generic", UserMessage(assert.AnError, "generic"))
}

func TestAPIError_ErrorText(t *testing.T) {
	assert.Equal(t, "Stock insuficiente", (&APIError{StatusCode: 409, Message: "Stock insuficiente"}).Error())
	assert.Equal(t, "storefront API unreachable", (&APIError{}).Error())
	assert.Equal(t, "storefront API returned status 500", (&APIError{StatusCode: 500}).Error())
}
