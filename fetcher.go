package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

const fetchTimeout = 10 * time.Second

// maxMenuChars bounds the extracted text cached per source and sent to
// the email agent.
const maxMenuChars = 20000

var debugEnabled bool

// SetDebugMode enables or disables debug logging
func SetDebugMode(enabled bool) {
	debugEnabled = enabled
}

func debugLog(format string, args ...interface{}) {
	if debugEnabled {
		log.Printf("[DEBUG] "+format, args...)
	}
}

// HTTPError represents an HTTP error with status code
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

// MenuFetcher retrieves a restaurant page and extracts its text
// content. Response bodies are untrusted markup; they only ever pass
// through the markdown converter.
type MenuFetcher struct {
	client    *http.Client
	converter *md.Converter
}

// NewMenuFetcher creates a fetcher with the bounded request timeout
func NewMenuFetcher() *MenuFetcher {
	return &MenuFetcher{
		client:    &http.Client{Timeout: fetchTimeout},
		converter: md.NewConverter("", true, nil),
	}
}

// Fetch downloads url and returns its extracted text
func (f *MenuFetcher) Fetch(url string) (string, error) {
	resp, err := f.client.Get(url)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &HTTPError{StatusCode: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", url, err)
	}

	text, err := f.converter.ConvertString(string(body))
	if err != nil {
		return "", fmt.Errorf("extracting menu text from %s: %w", url, err)
	}

	debugLog("fetched %s: %d chars extracted", url, len(text))
	return text, nil
}

// truncateMenu caps text at maxMenuChars characters. Counted in runes,
// matching how the downstream model sees the text.
func truncateMenu(text string) string {
	runes := []rune(text)
	if len(runes) <= maxMenuChars {
		return text
	}
	return string(runes[:maxMenuChars])
}
