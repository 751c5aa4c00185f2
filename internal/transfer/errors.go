package transfer

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorKind int

const (
	ErrUpload ErrorKind = iota
	ErrMalformedResponse
	ErrTranslationTimeout
	ErrExportRequest
	ErrDownloadTimeout
	ErrDownload
	ErrOutputWrite
	ErrCancelled
	ErrUnknown
)

// TransferError is the error type for all document transfer failures.
// The kind drives handling decisions; context carries request details.
type TransferError struct {
	Kind    ErrorKind
	Message string
	Context map[string]any
	Cause   error
}

func NewError(kind ErrorKind, message string) *TransferError {
	return &TransferError{
		Kind:    kind,
		Message: message,
		Context: make(map[string]any),
	}
}

func NewErrorWithCause(kind ErrorKind, message string, cause error) *TransferError {
	return &TransferError{
		Kind:    kind,
		Message: message,
		Context: make(map[string]any),
		Cause:   cause,
	}
}

func (e *TransferError) Error() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s] %s", e.Kind.String(), e.Message))

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

func (e *TransferError) Unwrap() error {
	return e.Cause
}

func (e *TransferError) WithContext(key string, value any) *TransferError {
	e.Context[key] = value
	return e
}

func (k ErrorKind) String() string {
	switch k {
	case ErrUpload:
		return "Upload"
	case ErrMalformedResponse:
		return "MalformedResponse"
	case ErrTranslationTimeout:
		return "TranslationTimeout"
	case ErrExportRequest:
		return "ExportRequest"
	case ErrDownloadTimeout:
		return "DownloadTimeout"
	case ErrDownload:
		return "Download"
	case ErrOutputWrite:
		return "OutputWrite"
	case ErrCancelled:
		return "Cancelled"
	case ErrUnknown:
		return "Unknown"
	default:
		return "Unknown"
	}
}

// IsKind reports whether err is a TransferError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var transferErr *TransferError
	if errors.As(err, &transferErr) {
		return transferErr.Kind == kind
	}
	return false
}

func WrapError(err error, kind ErrorKind, message string) *TransferError {
	return NewErrorWithCause(kind, message, err)
}
