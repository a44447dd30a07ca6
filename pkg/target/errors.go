package target

// ConfigurationError is returned when a notification names a
// repository that cannot or may not be mirrored.  It is never retried
// automatically.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid " + e.Field + ": " + e.Reason
}

func configErr(field, reason string) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: reason}
}
