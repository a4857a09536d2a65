package errors

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Code codes.Code

const (
	CodeInvalidArgument    = Code(codes.InvalidArgument)
	CodeNotFound           = Code(codes.NotFound)
	CodeAlreadyExists      = Code(codes.AlreadyExists)
	CodeFailedPrecondition = Code(codes.FailedPrecondition)
	CodeAborted            = Code(codes.Aborted)
	CodeUnimplemented      = Code(codes.Unimplemented)
	CodeInternal           = Code(codes.Internal)
)

var code2http = map[Code]int{
	CodeInvalidArgument:    http.StatusBadRequest,
	CodeNotFound:           http.StatusNotFound,
	CodeAlreadyExists:      http.StatusConflict,
	CodeFailedPrecondition: http.StatusPreconditionFailed,
	CodeAborted:            http.StatusConflict,
	CodeUnimplemented:      http.StatusMethodNotAllowed,
	CodeInternal:           http.StatusInternalServerError,
}

// Kinds of recoverable draw failures. They are matched with errors.Is against
// any *Error carrying the same kind, whatever its message.
var (
	NoEligibleCandidates  = &Error{Code: CodeFailedPrecondition, Message: "no eligible candidates", kind: "no_eligible_candidates"}
	DrawAlreadyInProgress = &Error{Code: CodeAborted, Message: "draw already in progress", kind: "draw_already_in_progress"}
	ResetUnsupported      = &Error{Code: CodeUnimplemented, Message: "reset is not offered for this board", kind: "reset_unsupported"}
)

type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	kind    string
	err     error
}

func New(code Code, opts ...Option) *Error {
	e := &Error{
		Code:    code,
		Message: codes.Code(code).String(),
	}

	for _, opt := range opts {
		opt.apply(e)
	}

	return e
}

// From copies a sentinel so callers can attach a message or cause without
// losing errors.Is matching.
func From(sentinel *Error, opts ...Option) *Error {
	e := &Error{
		Code:    sentinel.Code,
		Message: sentinel.Message,
		kind:    sentinel.kind,
	}

	for _, opt := range opts {
		opt.apply(e)
	}

	return e
}

func (e *Error) Error() string {
	s := fmt.Sprintf("code: %d, message: %s", e.Code, e.Message)
	if e.err != nil {
		s += fmt.Sprintf(", err: %s", e.err)
	}

	return s
}

func (e *Error) Unwrap() error {
	return e.err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	if t.kind != "" {
		return e.kind == t.kind
	}

	return e == t
}

// Kind returns the stable identifier of a sentinel-derived error, or "" for
// plain coded errors.
func (e *Error) Kind() string {
	return e.kind
}

func (e *Error) GRPCStatus() *status.Status {
	return status.New(codes.Code(e.Code), e.Message)
}

func (e *Error) HTTPStatusCode() int {
	if c, ok := code2http[e.Code]; ok {
		return c
	}

	return http.StatusInternalServerError
}

func Convert(err error) *Error {
	var e *Error
	if !errors.As(err, &e) {
		return Internal(err)
	}

	return e
}

func Internal(err error) *Error {
	return New(CodeInternal, WithCause(err))
}

func NotFound(format string, args ...any) *Error {
	return New(CodeNotFound, WithMessagef(format, args...))
}

func InvalidArgument(format string, args ...any) *Error {
	return New(CodeInvalidArgument, WithMessagef(format, args...))
}

type Option interface {
	apply(*Error)
}

type optionFunc func(*Error)

func (f optionFunc) apply(e *Error) {
	f(e)
}

func WithCause(err error) Option {
	return optionFunc(func(e *Error) {
		e.err = err
	})
}

func WithMessagef(format string, args ...any) Option {
	return optionFunc(func(e *Error) {
		e.Message = fmt.Sprintf(format, args...)
	})
}
