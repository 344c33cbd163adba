package errors

import (
	"context"
	"strings"

	"github.com/louisbranch/feedstore/internal/platform/errors/i18n"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Domain is the error domain for feedstore errors.
const Domain = "github.com/louisbranch/feedstore"

// DefaultLocale is used when a caller sends no usable accept-language.
const DefaultLocale = i18n.BaseLocale

// AcceptLanguageKey is the gRPC metadata key carrying the caller's locales.
const AcceptLanguageKey = "accept-language"

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Internal message (for logs/telemetry)
	Metadata map[string]string // Additional context attached to ErrorInfo
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a simple domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithMetadata returns a copy of e carrying metadata.
func (e *Error) WithMetadata(metadata map[string]string) *Error {
	clone := *e
	clone.Metadata = metadata
	return &clone
}

// ToGRPCStatus converts the error to a gRPC status with errdetails.
// The status message contains the internal message for logging.
// The LocalizedMessage carries the catalog text for the code in the locale
// best matching locale.
func (e *Error) ToGRPCStatus(locale string) error {
	grpcCode := e.Code.GRPCCode()
	catalog := i18n.GetCatalog(locale)
	st := status.New(grpcCode, e.Error())

	st, err := st.WithDetails(
		&errdetails.ErrorInfo{
			Reason:   string(e.Code),
			Domain:   Domain,
			Metadata: e.Metadata,
		},
		&errdetails.LocalizedMessage{
			Locale:  catalog.Locale(),
			Message: catalog.Format(string(e.Code), e.Metadata),
		},
	)
	if err != nil {
		// If we can't attach details, return the basic status
		return status.New(grpcCode, e.Error()).Err()
	}
	return st.Err()
}

// LocaleFromContext returns the accept-language metadata of an incoming gRPC
// call, or DefaultLocale when absent.
func LocaleFromContext(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return DefaultLocale
	}
	values := md.Get(AcceptLanguageKey)
	if len(values) == 0 || strings.TrimSpace(values[0]) == "" {
		return DefaultLocale
	}
	return strings.Join(values, ",")
}

// UserMessageFromStatus extracts the localized message from a gRPC error.
func UserMessageFromStatus(err error) (string, bool) {
	st, ok := status.FromError(err)
	if !ok {
		return "", false
	}
	for _, detail := range st.Details() {
		if msg, ok := detail.(*errdetails.LocalizedMessage); ok {
			return msg.GetMessage(), true
		}
	}
	return "", false
}

// ReasonFromStatus extracts the domain code from a gRPC error, if present.
func ReasonFromStatus(err error) (Code, bool) {
	st, ok := status.FromError(err)
	if !ok {
		return "", false
	}
	for _, detail := range st.Details() {
		if info, ok := detail.(*errdetails.ErrorInfo); ok && info.GetDomain() == Domain {
			return Code(info.GetReason()), true
		}
	}
	return "", false
}
