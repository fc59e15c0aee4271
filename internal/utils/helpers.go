package utils

// MakeMap builds a single-entry map[string]string. It exists to keep Sentry
// tag construction at call sites to one line.
func MakeMap(key, value string) map[string]string {
	return map[string]string{key: value}
}
