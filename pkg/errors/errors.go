package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorCode represents a unique error code for categorizing errors
type ErrorCode string

const (
	// Resolution errors (1xxx)
	ErrCodeResolveFailed  ErrorCode = "VPUL1001"
	ErrCodeNoReleases     ErrorCode = "VPUL1002"
	ErrCodeEmptyRepo      ErrorCode = "VPUL1003"
	ErrCodeNetworkFailure ErrorCode = "VPUL1004"

	// Configuration errors (2xxx)
	ErrCodeConfigNotFound ErrorCode = "VPUL2001"
	ErrCodeConfigInvalid  ErrorCode = "VPUL2002"
	ErrCodeTargetUnknown  ErrorCode = "VPUL2003"

	// Repository errors (3xxx)
	ErrCodeCloneFailed     ErrorCode = "VPUL3001"
	ErrCodeRepoInvalidRef  ErrorCode = "VPUL3002"
	ErrCodeStageFailed     ErrorCode = "VPUL3003"
	ErrCodeCommitFailed    ErrorCode = "VPUL3004"
	ErrCodePatchFailed     ErrorCode = "VPUL3005"
	ErrCodeRepoNotFound    ErrorCode = "VPUL3006"

	// File system errors (5xxx)
	ErrCodeNoFilesMatched ErrorCode = "VPUL5001"
	ErrCodeFileOperation  ErrorCode = "VPUL5002"
	ErrCodeFilePermission ErrorCode = "VPUL5003"

	// Validation errors (6xxx)
	ErrCodeValidationFailed ErrorCode = "VPUL6001"
	ErrCodeInvalidInput     ErrorCode = "VPUL6002"

	// System errors (9xxx)
	ErrCodeInternal ErrorCode = "VPUL9001"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityCritical ErrorSeverity = "CRITICAL" // System failure, requires immediate attention
	SeverityError    ErrorSeverity = "ERROR"    // Operation failed, but system continues
	SeverityWarning  ErrorSeverity = "WARNING"  // Operation succeeded with issues
	SeverityInfo     ErrorSeverity = "INFO"     // Informational, not an error
)

// AppError represents a structured application error with context
type AppError struct {
	Code        ErrorCode
	Message     string
	Severity    ErrorSeverity
	Context     map[string]interface{}
	Cause       error
	Stack       string
	Timestamp   time.Time
	Recoverable bool
	Suggestions []string
}

// Error implements the error interface
func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s: %s", e.Code, e.Severity, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\nCaused by: %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\nSuggestions:")
		for i, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  %d. %s", i+1, suggestion))
		}
	}

	return b.String()
}

// Unwrap returns the cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:        code,
		Message:     message,
		Severity:    SeverityError,
		Context:     make(map[string]interface{}),
		Stack:       captureStack(),
		Timestamp:   time.Now(),
		Recoverable: false,
	}
}

// Wrap wraps an existing error with AppError
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}

	appErr := New(code, message)
	appErr.Cause = err

	// If wrapping another AppError, inherit some properties
	if ae, ok := err.(*AppError); ok {
		for k, v := range ae.Context {
			appErr.Context[k] = v
		}
	}

	return appErr
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSeverity sets the error severity
func (e *AppError) WithSeverity(severity ErrorSeverity) *AppError {
	e.Severity = severity
	return e
}

// WithSuggestions adds recovery suggestions
func (e *AppError) WithSuggestions(suggestions ...string) *AppError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// AsRecoverable marks the error as recoverable
func (e *AppError) AsRecoverable() *AppError {
	e.Recoverable = true
	return e
}

// captureStack captures the current stack trace
func captureStack() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])

	var b strings.Builder
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			b.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}

	return b.String()
}

// Common error constructors

// ResolveError creates a version resolution error
func ResolveError(message string, repo string, cause error) *AppError {
	return Wrap(cause, ErrCodeResolveFailed, message).
		WithContext("repository", repo).
		WithSuggestions(
			"Check your network connection",
			"Verify the repository exists and is public, or set GITHUB_TOKEN",
		)
}

// CloneError creates a repository clone error
func CloneError(message string, url string, cause error) *AppError {
	return Wrap(cause, ErrCodeCloneFailed, message).
		WithContext("url", url).
		WithSuggestions(
			"Verify the repository URL and the requested tag or branch",
			"Try cloning the repository manually to verify access",
		)
}

// SelectionEmptyError signals that no files matched any of the patterns
func SelectionEmptyError(patterns []string) *AppError {
	return New(ErrCodeNoFilesMatched, "no files matched any pattern").
		WithContext("patterns", patterns).
		WithSuggestions(
			"Check the glob patterns against the upstream repository layout",
			"Patterns are evaluated relative to the clone root",
		)
}

// PatchError creates a patch application error
func PatchError(message string, patchFile string, cause error) *AppError {
	return Wrap(cause, ErrCodePatchFailed, message).
		WithContext("patch", patchFile).
		WithSuggestions(
			"Regenerate the patch against the newly vendored files",
			"Run 'git apply -v --ignore-whitespace' manually to inspect the failure",
		)
}

// ConfigError creates a configuration-related error
func ConfigError(message string, field string) *AppError {
	return New(ErrCodeConfigInvalid, message).
		WithContext("field", field).
		WithSuggestions(
			fmt.Sprintf("Check the '%s' configuration value", field),
			"Run 'vendorpull setup' to reconfigure",
		)
}

// ValidationError creates a validation error
func ValidationError(field string, value interface{}, reason string) *AppError {
	return New(ErrCodeValidationFailed, fmt.Sprintf("Validation failed for %s: %s", field, reason)).
		WithContext("field", field).
		WithContext("value", value).
		WithSeverity(SeverityWarning).
		AsRecoverable()
}

// IsRecoverable checks if an error is recoverable
func IsRecoverable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Recoverable
	}
	return false
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}
