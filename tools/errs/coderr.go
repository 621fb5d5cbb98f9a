package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Stable error codes for the REST/storage boundary.
const (
	CodeInternal     = 500
	CodeUnauthorized = 1101
	CodeTokenExpired = 1102
	CodeBadRequest   = 1200
)

var (
	ErrUnauthorized = NewCodeError(CodeUnauthorized, "unauthorized")
	ErrTokenExpired = NewCodeError(CodeTokenExpired, "token expired or invalid")
)

type CodeError struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Detail string `json:"detail,omitempty"`
}

func NewCodeError(code int, msg string) CodeError {
	return CodeError{Code: code, Msg: msg}
}

func (e CodeError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("code=%d msg=%s detail=%s", e.Code, e.Msg, e.Detail)
	}
	return fmt.Sprintf("code=%d msg=%s", e.Code, e.Msg)
}

func (e CodeError) WithDetail(detail string) CodeError {
	e.Detail = detail
	return e
}

func New(msg string) error {
	return errors.New(msg)
}

// WrapMsg wraps err with a message plus optional key/value pairs.
func WrapMsg(err error, msg string, kv ...any) error {
	if err == nil {
		return nil
	}
	if len(kv) > 0 {
		msg = fmt.Sprintf("%s %v", msg, kv)
	}
	return errors.Wrap(err, msg)
}
