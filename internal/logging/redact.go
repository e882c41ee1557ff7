package logging

import (
	"net/url"
	"regexp"
	"strings"
)

// Sensitive field names that should be redacted.
var sensitiveFields = []string{
	"password",
	"secret",
	"token",
	"api_key",
	"apikey",
	"api-key",
	"authorization",
	"credential",
}

// Patterns for secrets that may show up inside free-form strings such as
// server error messages.
var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)bearer\s+([a-zA-Z0-9._-]{20,})`),
	regexp.MustCompile(`(?i)(password|token|secret)[=:]\s*["']?([^\s"'&]+)["']?`),
}

// RedactedValue is the replacement for sensitive values.
const RedactedValue = "[REDACTED]"

// Redact replaces sensitive information in a string.
func Redact(s string) string {
	result := s
	for _, pattern := range secretPatterns {
		result = pattern.ReplaceAllString(result, RedactedValue)
	}
	return result
}

// RedactMap redacts sensitive fields in a decoded JSON object.
func RedactMap(m map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(m))

	for k, v := range m {
		switch {
		case IsSensitiveField(k):
			result[k] = RedactedValue
		default:
			switch typed := v.(type) {
			case map[string]interface{}:
				result[k] = RedactMap(typed)
			case string:
				result[k] = Redact(typed)
			default:
				result[k] = v
			}
		}
	}

	return result
}

// RedactURL drops userinfo and sensitive query values from a URL string.
func RedactURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return Redact(raw)
	}
	if parsed.User != nil {
		parsed.User = url.User(RedactedValue)
	}
	query := parsed.Query()
	changed := false
	for key := range query {
		if IsSensitiveField(key) {
			query.Set(key, RedactedValue)
			changed = true
		}
	}
	if changed {
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

// IsSensitiveField checks if a field name is considered sensitive.
func IsSensitiveField(name string) bool {
	lowerName := strings.ToLower(name)
	for _, field := range sensitiveFields {
		if strings.Contains(lowerName, field) {
			return true
		}
	}
	return false
}
