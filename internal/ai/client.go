package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrDisabled is returned when AI features are switched off by
// configuration. The check runs before any network call.
var ErrDisabled = errors.New("ai: features disabled")

// Client talks to the generative text/JSON completion API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	disabled   bool
}

// NewClient creates a completion client. When disabled is true every
// request short-circuits with ErrDisabled without touching the network.
func NewClient(baseURL, apiKey, model string, disabled bool) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		disabled:   disabled,
	}
}

// Request describes one completion call.
type Request struct {
	Prompt      string
	System      string
	Temperature *float64
	// JSONMode asks the model to respond with a JSON document.
	JSONMode bool
	// ImageData carries an optional base64-encoded image payload; when
	// set, ImageMIME must name its media type.
	ImageData string
	ImageMIME string
}

// Response holds the model's text output.
type Response struct {
	Text string
}

// APIError is returned when the completion API responds with an error.
type APIError struct {
	StatusCode int
	Message    string
}

func (err *APIError) Error() string {
	return fmt.Sprintf("ai: HTTP %d: %s", err.StatusCode, err.Message)
}

// wire types for the generateContent endpoint.
type wirePart struct {
	Text       string          `json:"text,omitempty"`
	InlineData *wireInlineData `json:"inline_data,omitempty"`
}

type wireInlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type wireContent struct {
	Parts []wirePart `json:"parts"`
}

type wireGenerationConfig struct {
	Temperature      *float64 `json:"temperature,omitempty"`
	ResponseMIMEType string   `json:"response_mime_type,omitempty"`
}

type wireRequest struct {
	Contents          []wireContent         `json:"contents"`
	SystemInstruction *wireContent          `json:"system_instruction,omitempty"`
	GenerationConfig  *wireGenerationConfig `json:"generationConfig,omitempty"`
}

type wireResponse struct {
	Candidates []struct {
		Content wireContent `json:"content"`
	} `json:"candidates"`
}

// Complete sends a request and blocks until the full response is
// available or ctx is done.
func (c *Client) Complete(ctx context.Context, request Request) (*Response, error) {
	if c.disabled {
		return nil, ErrDisabled
	}

	wireReq := c.buildRequest(request)

	body, err := json.Marshal(wireReq)
	if err != nil {
		return nil, fmt.Errorf("ai: marshaling request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.baseURL, c.model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ai: creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ai: sending request: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, readAPIError(httpResp)
	}

	var wireResp wireResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&wireResp); err != nil {
		return nil, fmt.Errorf("ai: decoding response: %w", err)
	}

	return &Response{Text: extractText(&wireResp)}, nil
}

// buildRequest converts a Request to the wire format.
func (c *Client) buildRequest(request Request) wireRequest {
	parts := []wirePart{{Text: request.Prompt}}
	if request.ImageData != "" {
		parts = append(parts, wirePart{InlineData: &wireInlineData{
			MIMEType: request.ImageMIME,
			Data:     request.ImageData,
		}})
	}

	wireReq := wireRequest{
		Contents: []wireContent{{Parts: parts}},
	}
	if request.System != "" {
		wireReq.SystemInstruction = &wireContent{Parts: []wirePart{{Text: request.System}}}
	}
	if request.Temperature != nil || request.JSONMode {
		cfg := &wireGenerationConfig{Temperature: request.Temperature}
		if request.JSONMode {
			cfg.ResponseMIMEType = "application/json"
		}
		wireReq.GenerationConfig = cfg
	}
	return wireReq
}

// extractText concatenates the text parts of the first candidate.
func extractText(wireResp *wireResponse) string {
	if len(wireResp.Candidates) == 0 {
		return ""
	}
	var text string
	for _, part := range wireResp.Candidates[0].Content.Parts {
		text += part.Text
	}
	return text
}

// readAPIError parses an error response body in the common
// {"error":{"message":"..."}} format.
func readAPIError(httpResp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(httpResp.Body, 4096))

	var wireErr struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &wireErr) == nil && wireErr.Error.Message != "" {
		return &APIError{StatusCode: httpResp.StatusCode, Message: wireErr.Error.Message}
	}

	return &APIError{StatusCode: httpResp.StatusCode, Message: string(body)}
}
