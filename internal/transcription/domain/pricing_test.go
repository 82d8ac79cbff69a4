package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardPricing_MinimumCharge(t *testing.T) {
	pricing := NewStandardPricing()

	price, err := pricing.EstimatePrice(1, English(), false)
	require.NoError(t, err)
	assert.Equal(t, 0.10, price.Amount())
	assert.Equal(t, "USD", price.Currency())
}

func TestStandardPricing_BillsStartedMinutes(t *testing.T) {
	pricing := NewStandardPricing()

	// 30.5 minutes bill as 31
	price, err := pricing.EstimatePrice(30.5, English(), false)
	require.NoError(t, err)
	assert.Equal(t, 0.19, price.Amount()) // 31 * 0.006 rounded
}

func TestStandardPricing_ComplexLanguageCostsMore(t *testing.T) {
	pricing := NewStandardPricing()

	chinese, err := NewLanguage("zh")
	require.NoError(t, err)

	base, err := pricing.EstimatePrice(100, English(), false)
	require.NoError(t, err)
	complexPrice, err := pricing.EstimatePrice(100, chinese, false)
	require.NoError(t, err)

	more, err := complexPrice.GreaterThan(base)
	require.NoError(t, err)
	assert.True(t, more)
	assert.Equal(t, 0.90, complexPrice.Amount()) // 100 * 0.006 * 1.5
}

func TestStandardPricing_PriorityMultiplier(t *testing.T) {
	pricing := NewStandardPricing()

	normal, err := pricing.EstimatePrice(100, English(), false)
	require.NoError(t, err)
	priority, err := pricing.EstimatePrice(100, English(), true)
	require.NoError(t, err)

	assert.Equal(t, 0.60, normal.Amount())
	assert.Equal(t, 1.50, priority.Amount())
}

func TestStandardPricing_CalculatePriceFallsBackToSize(t *testing.T) {
	pricing := NewStandardPricing()

	// 5MB without duration estimates ~5 minutes
	file, err := NewAudioFile("/tmp/a.mp3", "a.mp3", "audio/mpeg", 5*1024*1024)
	require.NoError(t, err)

	price, err := pricing.CalculatePrice(file, English(), false)
	require.NoError(t, err)
	assert.Equal(t, 0.10, price.Amount()) // 5 * 0.006 under minimum charge

	timed := file.WithDuration(3600)
	price, err = pricing.CalculatePrice(timed, English(), false)
	require.NoError(t, err)
	assert.Equal(t, 0.36, price.Amount()) // 60 minutes
}
