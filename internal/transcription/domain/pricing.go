package domain

import "math"

// Whisper API rate plus house multipliers.
const (
	baseRatePerMinute  = 0.006
	priorityMultiplier = 2.5
	minimumCharge      = 0.10
)

var languageRateMultipliers = map[string]float64{
	"en": 1.0, "es": 1.0, "fr": 1.0, "de": 1.0, "it": 1.0,
	"pt": 1.0, "nl": 1.0, "sv": 1.0, "da": 1.0, "no": 1.0, "fi": 1.0,
	"zh": 1.5, "ja": 1.5, "ko": 1.5, "ar": 1.5, "hi": 1.3,
	"ru": 1.2, "pl": 1.1, "tr": 1.1,
}

// PricingService quotes transcription prices from audio duration and
// language complexity.
type PricingService interface {
	CalculatePrice(file AudioFile, language Language, priority bool) (Money, error)
	EstimatePrice(durationMinutes float64, language Language, priority bool) (Money, error)
}

// StandardPricing bills per started minute with language and priority
// multipliers and a minimum charge, in USD.
type StandardPricing struct{}

func NewStandardPricing() StandardPricing { return StandardPricing{} }

func (p StandardPricing) CalculatePrice(file AudioFile, language Language, priority bool) (Money, error) {
	minutes := file.DurationInMinutes()
	if minutes <= 0 {
		minutes = p.estimateMinutes(file)
	}
	return p.EstimatePrice(minutes, language, priority)
}

func (p StandardPricing) EstimatePrice(durationMinutes float64, language Language, priority bool) (Money, error) {
	billable := math.Ceil(durationMinutes)
	price := billable * baseRatePerMinute * p.languageMultiplier(language)
	if priority {
		price *= priorityMultiplier
	}
	if price < minimumCharge {
		price = minimumCharge
	}
	return USD(price)
}

func (p StandardPricing) languageMultiplier(language Language) float64 {
	if m, ok := languageRateMultipliers[language.Code()]; ok {
		return m
	}
	return 1.2
}

// estimateMinutes guesses duration from size when no probe ran: ~1MB per
// minute for compressed audio.
func (p StandardPricing) estimateMinutes(file AudioFile) float64 {
	return float64(file.Size()) / (1024 * 1024)
}
