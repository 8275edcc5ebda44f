package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MimeLyc/srtrans/pkg/log"
)

type ErrorType int

const (
	ErrEmptyDocument ErrorType = iota
	ErrFileRead
	ErrFileWrite
	ErrFileDelete
	ErrTranslation
	ErrConfig
	ErrCanceled
	ErrUnknown
)

// Error is the typed error returned by the pipeline and the orchestrator.
// Cause keeps the underlying error reachable with errors.Is / errors.As.
type Error struct {
	Type    ErrorType
	Message string
	Context map[string]any
	Cause   error
}

func NewError(errorType ErrorType, message string) *Error {
	return &Error{
		Type:    errorType,
		Message: message,
		Context: make(map[string]any),
	}
}

func NewErrorWithCause(errorType ErrorType, message string, cause error) *Error {
	return &Error{
		Type:    errorType,
		Message: message,
		Context: make(map[string]any),
		Cause:   cause,
	}
}

func (e *Error) Error() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s] %s", e.Type.String(), e.Message))

	if len(e.Context) > 0 {
		var ctxParts []string
		for k, v := range e.Context {
			ctxParts = append(ctxParts, fmt.Sprintf("%s=%v", k, v))
		}
		parts = append(parts, fmt.Sprintf("context: %s", strings.Join(ctxParts, ", ")))
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause: %v", e.Cause))
	}

	return strings.Join(parts, " | ")
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) WithContext(key string, value any) *Error {
	e.Context[key] = value
	return e
}

func (t ErrorType) String() string {
	switch t {
	case ErrEmptyDocument:
		return "EmptyDocument"
	case ErrFileRead:
		return "FileRead"
	case ErrFileWrite:
		return "FileWrite"
	case ErrFileDelete:
		return "FileDelete"
	case ErrTranslation:
		return "Translation"
	case ErrConfig:
		return "Config"
	case ErrCanceled:
		return "Canceled"
	default:
		return "Unknown"
	}
}

// IsFileIO reports whether err came from the file access layer.
func IsFileIO(err error) bool {
	return IsErrorType(err, ErrFileRead) || IsErrorType(err, ErrFileWrite) || IsErrorType(err, ErrFileDelete)
}

func IsErrorType(err error, errorType ErrorType) bool {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Type == errorType
	}
	return false
}

func WrapError(err error, errorType ErrorType, message string) *Error {
	return NewErrorWithCause(errorType, message, err)
}

// GetAdvice returns a short hint for the operator, used when logging failed files.
func GetAdvice(err error) string {
	var svcErr *Error
	if !errors.As(err, &svcErr) {
		return "Please review the detailed error information"
	}

	switch svcErr.Type {
	case ErrEmptyDocument:
		return "The file has no valid SRT blocks; check that it is a SubRip file"
	case ErrFileRead:
		return "Please check that the file exists and is readable"
	case ErrFileWrite:
		return "Please ensure the folder is writable and the disk is not full"
	case ErrFileDelete:
		return "The translated file was written but the source could not be removed; check folder permissions"
	case ErrTranslation:
		return "Please check the API key and network connectivity, or lower MAX_CHUNK_CHARS"
	case ErrConfig:
		return "Please check TRANSLATE_API_KEY, SOURCE_LANG and TARGET_LANG"
	case ErrCanceled:
		return "The batch was canceled"
	default:
		return "Please review the detailed error information"
	}
}

// logFailure logs err together with its advice
func logFailure(path string, err error) {
	log.Error("Failed to translate %s: %v (advice: %s)", path, err, GetAdvice(err))
}
