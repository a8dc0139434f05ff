package providers

import (
	"context"
	"fmt"

	"clubaereo/bitacora/internal/constants"

	"github.com/shopspring/decimal"
)

// MeterExtraction is what the recognizer read off one meter photo.
type MeterExtraction struct {
	Value      decimal.Decimal `json:"value"`
	Confidence int             `json:"confidence"` // 0..100
}

// OCRProvider extracts a counter value from a meter photo reference.
// Implementations may fail; callers treat any failure as confidence 0.
type OCRProvider interface {
	Extract(ctx context.Context, imageRef string, meterType constants.MeterType) (*MeterExtraction, error)
	GetProviderType() string
}

// ProviderError carries a machine-readable code alongside the message
type ProviderError struct {
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Provider error codes
const (
	ErrCodeInvalidAPIKey     = "INVALID_API_KEY"
	ErrCodeInvalidDataFormat = "INVALID_DATA_FORMAT"
	ErrCodeRequestFailed     = "REQUEST_FAILED"
	ErrCodeBadStatus         = "BAD_STATUS"
)
