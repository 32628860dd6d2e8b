package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/platewise/menuflow/internal/models"
)

// ExtractionClient turns raw menu text into structured items. The
// returned string is JSON in the models.ExtractionResult shape.
type ExtractionClient interface {
	ExtractMenuText(ctx context.Context, text string) (string, error)
}

// MenuExtractor runs the document-to-items path: OCR for image
// uploads, then the extraction client, then decoding.
type MenuExtractor struct {
	ocr    *OCRService
	client ExtractionClient
}

// NewMenuExtractor creates a new menu extractor. The OCR service may
// be nil; image uploads are then rejected.
func NewMenuExtractor(ocr *OCRService, client ExtractionClient) *MenuExtractor {
	return &MenuExtractor{ocr: ocr, client: client}
}

// Extract parses one uploaded document into extraction candidates. An
// empty item list is not an error: the warning travels with the result
// so the preview can still be shown.
func (e *MenuExtractor) Extract(ctx context.Context, document []byte, contentType string) (*models.ExtractionResult, error) {
	text := string(document)
	if strings.HasPrefix(contentType, "image/") {
		if e.ocr == nil {
			return nil, fmt.Errorf("image uploads require OCR support")
		}
		ocrRes, err := e.ocr.ProcessImage(document)
		if err != nil {
			return nil, fmt.Errorf("failed to read document image: %w", err)
		}
		text = ocrRes.Text
	}

	raw, err := e.client.ExtractMenuText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}

	result := &models.ExtractionResult{}
	if err := json.Unmarshal([]byte(raw), result); err != nil {
		return nil, fmt.Errorf("extraction returned malformed JSON: %w", err)
	}
	if len(result.Items) == 0 {
		result.Warnings = append(result.Warnings, "no items parsed from document")
	}
	return result, nil
}

// HTTPExtractionClient calls an external structured-extraction
// endpoint that accepts {"text": ...} and answers with an
// ExtractionResult payload.
type HTTPExtractionClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTPExtractionClient creates a client for a hosted extraction endpoint
func NewHTTPExtractionClient(endpoint, apiKey string) *HTTPExtractionClient {
	return &HTTPExtractionClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 90 * time.Second},
	}
}

// ExtractMenuText posts the document text and returns the raw response body
func (c *HTTPExtractionClient) ExtractMenuText(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build extraction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("extraction request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read extraction response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("extraction endpoint returned status %d", resp.StatusCode)
	}
	return string(data), nil
}
