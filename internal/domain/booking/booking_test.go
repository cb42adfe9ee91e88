package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBooking_StartsPending(t *testing.T) {
	b, err := NewBooking("bkg_test00000001", 7, 3, 15000, "ARS", "booking_bkg_test00000001")
	require.NoError(t, err)

	assert.Equal(t, StatusPending, b.Status())
	assert.False(t, b.IsPaid())
	assert.Empty(t, b.ProviderPaymentID())
}

func TestBooking_MarkPaid(t *testing.T) {
	b, err := NewBooking("bkg_x", 7, 3, 15000, "ARS", "")
	require.NoError(t, err)

	require.NoError(t, b.MarkPaid("mp-pay-1"))
	assert.True(t, b.IsPaid())
	assert.Equal(t, "mp-pay-1", b.ProviderPaymentID())

	// Duplicate delivery: no-op, original payment id retained.
	require.NoError(t, b.MarkPaid("mp-pay-2"))
	assert.Equal(t, "mp-pay-1", b.ProviderPaymentID())
}

func TestBooking_MarkPaid_Rejections(t *testing.T) {
	b, err := NewBooking("bkg_x", 7, 3, 15000, "ARS", "")
	require.NoError(t, err)
	assert.Error(t, b.MarkPaid(""))

	now := time.Now().UTC()
	cancelled, err := ReconstructBooking(1, "bkg_x", 7, 3, 15000, "ARS", StatusCancelled, nil, "", now, now)
	require.NoError(t, err)
	assert.Error(t, cancelled.MarkPaid("mp-pay-1"))
}
