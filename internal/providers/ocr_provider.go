package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"clubaereo/bitacora/internal/constants"
)

// HTTPOCRProvider calls the external image-recognition service, one request
// per meter photo. The client timeout doubles as the per-image OCR timeout;
// callers downgrade any error here to confidence 0.
type HTTPOCRProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewHTTPOCRProvider creates a provider configured from the environment
func NewHTTPOCRProvider() *HTTPOCRProvider {
	baseURL := os.Getenv("OCR_API_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:9090/v1" // Default
	}
	apiKey := os.Getenv("OCR_API_KEY")

	return &HTTPOCRProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetProviderType returns the provider type identifier
func (p *HTTPOCRProvider) GetProviderType() string {
	return "http_meter_ocr"
}

type ocrExtractRequest struct {
	ImageRef  string `json:"image_ref"`
	MeterType string `json:"meter_type"`
}

// Extract asks the recognition service to read one meter photo
func (p *HTTPOCRProvider) Extract(ctx context.Context, imageRef string, meterType constants.MeterType) (*MeterExtraction, error) {
	if imageRef == "" {
		return nil, &ProviderError{
			Code:    ErrCodeInvalidDataFormat,
			Message: "image reference cannot be empty",
		}
	}

	reqBody := ocrExtractRequest{
		ImageRef:  imageRef,
		MeterType: meterType.String(),
	}

	var result MeterExtraction
	if err := p.doPost(ctx, "/extract", reqBody, &result); err != nil {
		return nil, err
	}

	if result.Confidence < 0 || result.Confidence > 100 {
		return nil, &ProviderError{
			Code:    ErrCodeInvalidDataFormat,
			Message: fmt.Sprintf("confidence out of range: %d", result.Confidence),
		}
	}

	return &result, nil
}

// doPost performs a POST request with authentication
func (p *HTTPOCRProvider) doPost(ctx context.Context, endpoint string, body interface{}, result interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &ProviderError{
			Code:    ErrCodeInvalidDataFormat,
			Message: fmt.Sprintf("failed to marshal request: %v", err),
		}
	}

	url := p.BaseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(payload))
	if err != nil {
		return &ProviderError{
			Code:    ErrCodeRequestFailed,
			Message: fmt.Sprintf("failed to build request: %v", err),
		}
	}

	req.Header.Set("Content-Type", "application/json")
	if p.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.APIKey)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return &ProviderError{
			Code:    ErrCodeRequestFailed,
			Message: fmt.Sprintf("request failed: %v", err),
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ProviderError{
			Code:    ErrCodeRequestFailed,
			Message: fmt.Sprintf("failed to read response: %v", err),
		}
	}

	if resp.StatusCode != http.StatusOK {
		return &ProviderError{
			Code:    ErrCodeBadStatus,
			Message: fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(raw)),
		}
	}

	if err := json.Unmarshal(raw, result); err != nil {
		return &ProviderError{
			Code:    ErrCodeInvalidDataFormat,
			Message: fmt.Sprintf("failed to decode response: %v", err),
		}
	}

	return nil
}
