// Package clierr provides a uniform error payload for pie's CLI,
// mirroring the teacher's internal/core/errorfmt.go CLIError pattern.
package clierr

import "encoding/json"

// Error codes used across the driver and cmd/pie.
const (
	CodeIO        = "ERR_IO"
	CodeParse     = "ERR_PARSE"
	CodeType      = "ERR_TYPE"
	CodeRuntime   = "ERR_RUNTIME"
	CodeBadOption = "ERR_BAD_OPTION"
)

// CLIError is a uniform error payload for human and machine output.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func (e CLIError) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

// JSON renders the error as a JSON object.
func (e CLIError) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// Wrap builds a CLIError carrying an inner error's message as detail.
func Wrap(code, msg string, inner error) error {
	return CLIError{Code: code, Message: msg, Detail: inner.Error()}
}

// New builds a CLIError with no wrapped detail.
func New(code, msg string) error {
	return CLIError{Code: code, Message: msg}
}
