package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure.
type ValidationError struct {
	Field   string // config key, e.g. "log.level"
	Value   any
	Message string
}

// Error implements the error interface for ValidationError.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the accepted log levels.
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidLogFormats returns the accepted log formats.
func ValidLogFormats() []string {
	return []string{"text", "json"}
}

// ValidOutputFormats returns the accepted CLI output formats.
func ValidOutputFormats() []string {
	return []string{"json", "text"}
}

const (
	maxIndent     = 8
	maxMaxResults = 500
)

// Validate checks the Config and returns every problem found.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Log.Level)) {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Value:   c.Log.Level,
			Message: "must be one of " + strings.Join(ValidLogLevels(), ", "),
		})
	}
	if !slices.Contains(ValidLogFormats(), strings.ToLower(c.Log.Format)) {
		errs = append(errs, ValidationError{
			Field:   "log.format",
			Value:   c.Log.Format,
			Message: "must be one of " + strings.Join(ValidLogFormats(), ", "),
		})
	}

	if c.History.Enabled && strings.TrimSpace(c.DataDir) == "" {
		errs = append(errs, ValidationError{
			Field:   "data_dir",
			Value:   c.DataDir,
			Message: "required when history is enabled",
		})
	}
	if c.History.MaxResults < 1 || c.History.MaxResults > maxMaxResults {
		errs = append(errs, ValidationError{
			Field:   "history.max_results",
			Value:   c.History.MaxResults,
			Message: fmt.Sprintf("must be between 1 and %d", maxMaxResults),
		})
	}

	if !slices.Contains(ValidOutputFormats(), strings.ToLower(c.Output.Format)) {
		errs = append(errs, ValidationError{
			Field:   "output.format",
			Value:   c.Output.Format,
			Message: "must be one of " + strings.Join(ValidOutputFormats(), ", "),
		})
	}
	if c.Output.Indent < 0 || c.Output.Indent > maxIndent {
		errs = append(errs, ValidationError{
			Field:   "output.indent",
			Value:   c.Output.Indent,
			Message: fmt.Sprintf("must be between 0 and %d", maxIndent),
		})
	}

	return errs
}
