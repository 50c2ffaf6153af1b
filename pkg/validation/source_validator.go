package validation

import (
	"net/url"
	"strings"

	apperrors "go-image-quality/internal/errors"
)

// SourceValidator checks image references before anything is fetched
type SourceValidator struct {
	allowedSchemes []string
	allowedHosts   []string
	allowLocal     bool
}

// NewSourceValidator creates a validator accepting http(s) URLs from any
// host. Local paths are accepted only when allowLocal is set.
func NewSourceValidator(allowLocal bool) *SourceValidator {
	return &SourceValidator{
		allowedSchemes: []string{"http", "https"},
		allowedHosts:   []string{}, // empty means all hosts allowed
		allowLocal:     allowLocal,
	}
}

// NewSourceValidatorWithOptions creates a validator with custom options
func NewSourceValidatorWithOptions(schemes, hosts []string, allowLocal bool) *SourceValidator {
	return &SourceValidator{
		allowedSchemes: schemes,
		allowedHosts:   hosts,
		allowLocal:     allowLocal,
	}
}

// IsURL reports whether ref looks like a URL rather than a filesystem path
func IsURL(ref string) bool {
	return strings.Contains(ref, "://")
}

// Validate returns a validation error when ref may not be evaluated
func (v *SourceValidator) Validate(ref string) error {
	if strings.TrimSpace(ref) == "" {
		return apperrors.NewValidationError("source cannot be empty", nil)
	}

	if !IsURL(ref) {
		if !v.allowLocal {
			return apperrors.NewValidationError("local paths are not allowed", nil)
		}
		return nil
	}

	parsedURL, err := url.Parse(ref)
	if err != nil {
		return apperrors.NewValidationError("invalid URL format", err)
	}

	if !v.isSchemeAllowed(parsedURL.Scheme) {
		return apperrors.NewValidationError("URL scheme not allowed", nil)
	}

	if parsedURL.Host == "" {
		return apperrors.NewValidationError("URL must have a valid host", nil)
	}

	if !v.isHostAllowed(parsedURL.Hostname()) {
		return apperrors.NewValidationError("URL host not allowed", nil)
	}

	return nil
}

func (v *SourceValidator) isSchemeAllowed(scheme string) bool {
	for _, allowed := range v.allowedSchemes {
		if strings.EqualFold(scheme, allowed) {
			return true
		}
	}
	return false
}

// isHostAllowed returns true if no host restrictions are set
func (v *SourceValidator) isHostAllowed(host string) bool {
	if len(v.allowedHosts) == 0 {
		return true
	}
	for _, allowed := range v.allowedHosts {
		if host == allowed {
			return true
		}
	}
	return false
}
