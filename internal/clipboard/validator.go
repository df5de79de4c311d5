package clipboard

import (
	"net/url"
	"strings"

	"github.com/atotto/clipboard"
)

// maxURLLength rejects pasted blobs that are clearly not a link.
const maxURLLength = 2048

// Validator checks and extracts page URLs from pasted text.
type Validator struct {
	allowedSchemes map[string]bool
}

// NewValidator creates a validator that accepts http and https links.
func NewValidator() *Validator {
	return &Validator{
		allowedSchemes: map[string]bool{"http": true, "https": true},
	}
}

// ExtractURL validates a single line and returns the clean URL, or "".
func (v *Validator) ExtractURL(text string) string {
	text = strings.TrimSpace(text)

	if len(text) > maxURLLength || strings.ContainsAny(text, "\n\r \t") {
		return ""
	}
	if !strings.HasPrefix(text, "http://") && !strings.HasPrefix(text, "https://") {
		return ""
	}

	parsed, err := url.Parse(text)
	if err != nil || parsed.Host == "" || !v.allowedSchemes[parsed.Scheme] {
		return ""
	}
	return parsed.String()
}

// ExtractURLs returns every valid URL in text, one per line, in order.
// Blank lines, '#' comments and anything that is not a link are skipped.
func (v *Validator) ExtractURLs(text string) []string {
	var urls []string
	for _, line := range strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' }) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if u := v.ExtractURL(line); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// ReadURLs reads the system clipboard and returns the URLs found there.
func ReadURLs() ([]string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return nil, err
	}
	return NewValidator().ExtractURLs(text), nil
}
