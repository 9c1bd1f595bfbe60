package bindery

import "fmt"

// ConfigError reports an invalid formatting configuration. It is fatal
// and is always raised before any document mutation, so a failed run
// leaves the input untouched.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// DocumentParseError reports input that is not a well-formed DOCX
// document. It is fatal; nothing is returned for the job.
type DocumentParseError struct {
	Err error
}

func (e *DocumentParseError) Error() string {
	return fmt.Sprintf("parsing document: %v", e.Err)
}

func (e *DocumentParseError) Unwrap() error {
	return e.Err
}
