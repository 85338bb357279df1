package extract

import "fmt"

// ParseError reports syntactically invalid SQL. Extraction never returns
// partial results alongside one.
type ParseError struct {
	Row    uint32
	Column uint32
	Near   string
	Detail string
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("sql parse error at line %d, column %d", e.Row+1, e.Column+1)
	if e.Near != "" {
		msg += fmt.Sprintf(" near %q", e.Near)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}
