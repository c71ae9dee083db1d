package services

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxImageBytes caps how much slide image the quiz overlay will embed
// into an AI request.
const maxImageBytes = 5 << 20

var imageHTTPClient = &http.Client{Timeout: 15 * time.Second}

// FetchImage resolves a slide content reference into a base64 payload
// and media type. Data URLs are decoded in place; anything else is
// fetched over HTTP.
func FetchImage(ref string) (string, string, error) {
	if strings.HasPrefix(ref, "data:") {
		return decodeDataURL(ref)
	}

	resp, err := imageHTTPClient.Get(ref)
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("image fetch returned HTTP %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return "", "", fmt.Errorf("failed to read image body: %w", err)
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(raw)
	}

	return base64.StdEncoding.EncodeToString(raw), mimeType, nil
}

// decodeDataURL splits a data:mime;base64,payload reference.
func decodeDataURL(ref string) (string, string, error) {
	rest := strings.TrimPrefix(ref, "data:")
	comma := strings.IndexByte(rest, ',')
	if comma < 0 {
		return "", "", fmt.Errorf("malformed data URL")
	}

	meta := rest[:comma]
	payload := rest[comma+1:]
	if !strings.HasSuffix(meta, ";base64") {
		return "", "", fmt.Errorf("data URL is not base64 encoded")
	}

	mimeType := strings.TrimSuffix(meta, ";base64")
	if mimeType == "" {
		mimeType = "image/png"
	}

	// Round-trip to validate the payload.
	if _, err := base64.StdEncoding.DecodeString(payload); err != nil {
		return "", "", fmt.Errorf("invalid base64 image payload: %w", err)
	}
	return payload, mimeType, nil
}
