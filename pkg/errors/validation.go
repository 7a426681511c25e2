package errors

import (
	"net/url"
	"strings"
	"unicode"
)

// maxSearchTermLength bounds a single search term. The ERP accepts longer
// strings, but nothing in a product catalog needs them.
const maxSearchTermLength = 256

// ValidateServerURL validates the base address of the ERP server.
//
// Validation rules:
//   - URL cannot be empty
//   - Scheme must be http or https
//   - Host must be present
//   - No query string or fragment (service paths are appended to it)
func ValidateServerURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "server URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidConfig, "server URL must use http or https scheme")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidConfig, err, "invalid server URL %q", rawURL)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidConfig, "server URL %q has no host", rawURL)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return New(ErrCodeInvalidConfig, "server URL cannot contain a query or fragment")
	}

	return nil
}

// ValidateSearchTerm validates an optional search term.
//
// An empty term is valid and means "no constraint". Format is otherwise left
// to the ERP; only control characters and oversized input are rejected.
func ValidateSearchTerm(field, term string) error {
	if term == "" {
		return nil
	}

	if len(term) > maxSearchTermLength {
		return New(ErrCodeInvalidInput, "%s too long (max %d characters)", field, maxSearchTermLength)
	}

	for _, r := range term {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s contains invalid control characters", field)
		}
	}

	return nil
}
