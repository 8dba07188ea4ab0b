package parser

import "github.com/oxhq/luascript/internal/ir"

// ParseError mirrors the teacher's CLIError shape (internal/core/errorfmt.go)
// rather than introducing a second error type: every stage in this module
// reports through the same Code/Message/Detail triple.
type ParseError = ir.CLIError

// Wrap pairs the parse error code with an underlying cause.
func Wrap(msg string, inner error) error {
	return ir.Wrap(ir.CodeParseError, msg, inner)
}
