package logger

import (
	"log/slog"
	"slices"
	"strings"
)

// Key fragments that mark an attribute as a credential.
var sensitiveKeyPatterns = []string{"password", "secret", "token", "credential", "passphrase"}

const redactedValue = "***REDACTED***"

// redactSensitive is the handler's ReplaceAttr. slog calls it for every
// leaf attribute with the names of its enclosing groups, so a leaf is
// redacted when its own key or any group name looks like a credential.
// Empty strings are left alone.
func redactSensitive(groups []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString && a.Value.String() == "" {
		return a
	}
	if IsSensitiveKey(a.Key) || slices.ContainsFunc(groups, IsSensitiveKey) {
		return slog.String(a.Key, redactedValue)
	}
	return a
}

// IsSensitiveKey reports whether key, case-insensitively, contains one of
// the credential fragments.
func IsSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	return slices.ContainsFunc(sensitiveKeyPatterns, func(p string) bool {
		return strings.Contains(key, p)
	})
}
