package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSession_IsAuthenticated(t *testing.T) {
	var nilSession *Session
	assert.False(t, nilSession.IsAuthenticated())

	assert.False(t, (&Session{}).IsAuthenticated())
	assert.True(t, (&Session{Token: "jwt"}).IsAuthenticated())
	assert.True(t, (&Session{User: &User{ID: "42"}}).IsAuthenticated())
}

func TestPaymentStatus_IsTerminal(t *testing.T) {
	assert.False(t, PaymentPending.IsTerminal())
	assert.True(t, PaymentPaid.IsTerminal())
	assert.True(t, PaymentFailed.IsTerminal())
	assert.True(t, PaymentCancelled.IsTerminal())
}

func TestPaymentStatus_IsValid(t *testing.T) {
	assert.True(t, PaymentPending.IsValid())
	assert.False(t, PaymentStatus("Refunded").IsValid())
}
