package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adalundhe/nameguard/core/sqltree"
)

// =============================================================================
// Element Tests
// =============================================================================

func TestElementType_String(t *testing.T) {
	assert.Equal(t, "CTE", CTE.String())
	assert.Equal(t, "TABLE_ALIAS", TableAlias.String())
	assert.Equal(t, "COLUMN_ALIAS", ColumnAlias.String())
}

func TestElement_Ref(t *testing.T) {
	top := Element{Type: CTE, Alias: "totals"}
	assert.Equal(t, `CTE "totals"`, top.Ref())

	nested := Element{Type: ColumnAlias, Alias: "n", ScopePath: []string{"totals", "sub"}}
	assert.Equal(t, `COLUMN_ALIAS "n" (in totals.sub)`, nested.Ref())
}

func TestParseError_Message(t *testing.T) {
	err := &ParseError{Row: 2, Column: 4, Near: "FORM orders", Detail: "syntax error"}

	msg := err.Error()
	assert.Contains(t, msg, "line 3")
	assert.Contains(t, msg, "column 5")
	assert.Contains(t, msg, `"FORM orders"`)
}

// =============================================================================
// Extraction Tests
// =============================================================================

// newTestExtractor skips when no compiled SQL grammar is installed locally.
func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()

	grammar := sqltree.NewGrammar()
	if !grammar.Installed() {
		t.Skip("sql grammar library not installed")
	}

	x, err := New(grammar)
	require.NoError(t, err)
	return x
}

func TestExtract_SingleCTE(t *testing.T) {
	x := newTestExtractor(t)

	sql := `WITH xyz AS (SELECT revenue FROM orders) SELECT * FROM xyz`
	elements, err := x.Extract(sql)
	require.NoError(t, err)
	require.Len(t, elements, 1)

	elem := elements[0]
	assert.Equal(t, CTE, elem.Type)
	assert.Equal(t, "xyz", elem.Alias)
	assert.Equal(t, "SELECT revenue FROM orders", elem.Code)
	assert.NotContains(t, elem.Code, "(")
}

func TestExtract_TableAndColumnAliases(t *testing.T) {
	x := newTestExtractor(t)

	sql := `SELECT o.total AS t FROM orders AS o`
	elements, err := x.Extract(sql)
	require.NoError(t, err)
	require.Len(t, elements, 2)

	assert.Equal(t, ColumnAlias, elements[0].Type)
	assert.Equal(t, "t", elements[0].Alias)
	assert.Equal(t, "o.total", elements[0].Code)

	assert.Equal(t, TableAlias, elements[1].Type)
	assert.Equal(t, "o", elements[1].Alias)
	assert.Equal(t, "orders", elements[1].Code)
}

func TestExtract_UnaliasedElementsIgnored(t *testing.T) {
	x := newTestExtractor(t)

	elements, err := x.Extract(`SELECT id, total FROM orders`)
	require.NoError(t, err)
	assert.Empty(t, elements)
}

func TestExtract_CodeIsVerbatimSubstring(t *testing.T) {
	x := newTestExtractor(t)

	sql := "WITH daily AS (SELECT day,\n  SUM(amount) AS total\nFROM payments GROUP BY day)\nSELECT * FROM daily"
	elements, err := x.Extract(sql)
	require.NoError(t, err)
	require.NotEmpty(t, elements)

	for _, elem := range elements {
		assert.Equal(t, elem.Code, sql[elem.Span.StartByte:elem.Span.EndByte])
		assert.Contains(t, sql, elem.Code)
	}
}

func TestExtract_SourceOrder(t *testing.T) {
	x := newTestExtractor(t)

	sql := `WITH a AS (SELECT 1 AS one), b AS (SELECT 2 AS two) SELECT * FROM a JOIN b ON 1 = 1`
	elements, err := x.Extract(sql)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(elements), 4)

	for i := 1; i < len(elements); i++ {
		assert.LessOrEqual(t, elements[i-1].Span.StartByte, elements[i].Span.StartByte)
	}
}

func TestExtract_ScopePathForNestedElements(t *testing.T) {
	x := newTestExtractor(t)

	sql := `WITH totals AS (SELECT SUM(amount) AS s FROM payments) SELECT * FROM totals`
	elements, err := x.Extract(sql)
	require.NoError(t, err)

	var column *Element
	for i := range elements {
		if elements[i].Type == ColumnAlias {
			column = &elements[i]
		}
	}
	require.NotNil(t, column)
	assert.Equal(t, []string{"totals"}, column.ScopePath)
}

func TestExtract_MalformedSQL(t *testing.T) {
	x := newTestExtractor(t)

	_, err := x.Extract(`SELECT * FROM`)
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, strings.ToLower(err.Error()), "parse error")
}

func TestExtract_Deterministic(t *testing.T) {
	x := newTestExtractor(t)

	sql := `WITH a AS (SELECT 1 AS x) SELECT a.x AS y FROM a AS src`
	first, err := x.Extract(sql)
	require.NoError(t, err)
	second, err := x.Extract(sql)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
