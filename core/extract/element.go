// Package extract recovers (alias, defining-code) pairs from a parsed SQL
// statement. It trusts the external grammar's syntax tree and only walks it;
// no SQL is ever re-validated or rewritten here.
package extract

import (
	"fmt"
	"strings"
)

// ElementType is the closed set of aliasable SQL fragments.
type ElementType int

const (
	// CTE is a common-table-expression defined in a WITH clause.
	CTE ElementType = iota
	// TableAlias names a table reference or derived subquery.
	TableAlias
	// ColumnAlias names a projected expression.
	ColumnAlias
)

func (t ElementType) String() string {
	switch t {
	case CTE:
		return "CTE"
	case TableAlias:
		return "TABLE_ALIAS"
	case ColumnAlias:
		return "COLUMN_ALIAS"
	default:
		return fmt.Sprintf("ElementType(%d)", int(t))
	}
}

// Span locates an element's code in the original statement.
type Span struct {
	StartByte uint   `json:"start_byte"`
	EndByte   uint   `json:"end_byte"`
	Row       uint32 `json:"row"`
	Column    uint32 `json:"column"`
}

// Element is one named fragment found in a statement. Alias preserves the
// case as written; Code is a verbatim substring of the input. Elements are
// immutable values created once per extraction.
type Element struct {
	Type      ElementType `json:"element_type"`
	Alias     string      `json:"alias"`
	Code      string      `json:"code"`
	ScopePath []string    `json:"scope_path,omitempty"`
	Span      Span        `json:"span"`
}

// Ref is the identity attached to element-level errors and skip reports.
func (e Element) Ref() string {
	if len(e.ScopePath) == 0 {
		return fmt.Sprintf("%s %q", e.Type, e.Alias)
	}
	return fmt.Sprintf("%s %q (in %s)", e.Type, e.Alias, strings.Join(e.ScopePath, "."))
}
