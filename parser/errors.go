package parser

import "fmt"

// SyntaxError is returned by Parse when the input cannot be parsed. It
// carries the byte position (via the arena's diagnostic formatting) so
// callers can point at the exact offending byte, mirroring mvdan-sh's
// own *ParseError.
type SyntaxError struct {
	Filename string
	Line, Column int
	Message  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Filename, e.Line, e.Column, e.Message)
}
