package graph

import (
	"context"
	"errors"
	"log/slog"

	"github.com/odyssey-erp/pharmacy-inventory/internal/shared"
)

// Error codes reported in extensions.code.
const (
	CodeValidation       = "VALIDATION_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeInternal         = "INTERNAL"
)

// Error is what resolvers return to clients.
type Error struct {
	Message string
	Code    string
	Fields  map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

// Extensions is picked up by graphql-go and copied into the response.
func (e *Error) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": e.Code}
	if len(e.Fields) > 0 {
		ext["fields"] = e.Fields
	}
	return ext
}

// ErrorRecorder counts errors by code.
type ErrorRecorder interface {
	ObserveGraphQLError(code string)
}

// fail maps a service error to a client error. Internal details are logged, not returned.
func (r *Resolver) fail(ctx context.Context, op string, err error) error {
	out := classify(err)
	switch out.Code {
	case CodeInternal:
		r.logger.ErrorContext(ctx, "graphql resolver failed", slog.String("op", op), slog.Any("error", err))
	case CodeStoreUnavailable:
		r.logger.WarnContext(ctx, "store unavailable", slog.String("op", op), slog.Any("error", err))
	}
	if r.errors != nil {
		r.errors.ObserveGraphQLError(out.Code)
	}
	return out
}

func classify(err error) *Error {
	var verr *shared.ValidationError
	switch {
	case errors.As(err, &verr):
		return &Error{Message: verr.Error(), Code: CodeValidation, Fields: verr.Fields}
	case errors.Is(err, shared.ErrNotFound):
		return &Error{Message: err.Error(), Code: CodeNotFound}
	case errors.Is(err, shared.ErrConflict):
		return &Error{Message: err.Error(), Code: CodeConflict}
	case errors.Is(err, shared.ErrStoreUnavailable):
		return &Error{Message: "store unavailable", Code: CodeStoreUnavailable}
	}
	return &Error{Message: "internal error", Code: CodeInternal}
}
