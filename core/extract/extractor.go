package extract

import (
	"fmt"
	"sort"
	"strings"

	"github.com/adalundhe/nameguard/core/sqltree"
)

// Queries against the DerekStride SQL grammar. A cte's inner statement node
// sits between the AS ( … ) delimiters, so its span already excludes them.
// Relations and terms carry their alias in the grammar's `alias` field; the
// field is absent for implicit names, which keeps unaliased references out
// of the match set entirely.
const (
	ctePattern = `(cte (identifier) @alias (statement) @code) @container`

	tableAliasPattern = `(relation (object_reference) @code alias: (identifier) @alias) @container
(relation (subquery) @code alias: (identifier) @alias) @container`

	columnAliasPattern = `(term value: (_) @code alias: (identifier) @alias) @container`
)

// Extractor walks parsed SQL and emits every explicitly aliased element in
// source order. Safe for concurrent use; each call gets its own parser.
type Extractor struct {
	grammar *sqltree.Grammar
	queries map[ElementType]*sqltree.Query
}

// New compiles the extraction queries against the loaded grammar. Grammar
// loading happens here, at construction, so callers own the failure mode.
func New(grammar *sqltree.Grammar) (*Extractor, error) {
	lang, err := grammar.Language()
	if err != nil {
		return nil, err
	}

	patterns := map[ElementType]string{
		CTE:         ctePattern,
		TableAlias:  tableAliasPattern,
		ColumnAlias: columnAliasPattern,
	}

	queries := make(map[ElementType]*sqltree.Query, len(patterns))
	for typ, pattern := range patterns {
		q, err := sqltree.NewQuery(lang, pattern)
		if err != nil {
			return nil, fmt.Errorf("compile %s query: %w", typ, err)
		}
		queries[typ] = q
	}

	return &Extractor{grammar: grammar, queries: queries}, nil
}

// Extract returns every CTE, table alias, and column alias in the statement,
// ordered by source position. Malformed SQL yields a *ParseError and no
// elements.
func (x *Extractor) Extract(sql string) ([]Element, error) {
	lang, err := x.grammar.Language()
	if err != nil {
		return nil, err
	}

	parser, err := sqltree.NewParser(lang)
	if err != nil {
		return nil, err
	}
	defer parser.Close()

	source := []byte(sql)
	tree, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	if errNode := tree.FirstError(); errNode != nil {
		return nil, parseErrorFrom(errNode, source)
	}

	root := tree.RootNode()
	cursor := sqltree.NewQueryCursor()
	defer cursor.Close()

	var elements []Element
	for typ, query := range x.queries {
		for _, match := range cursor.Matches(query, root, source) {
			if elem, ok := elementFromMatch(typ, match); ok {
				elements = append(elements, elem)
			}
		}
	}

	sort.SliceStable(elements, func(i, j int) bool {
		if elements[i].Span.StartByte != elements[j].Span.StartByte {
			return elements[i].Span.StartByte < elements[j].Span.StartByte
		}
		return elements[i].Type < elements[j].Type
	})

	return elements, nil
}

func elementFromMatch(typ ElementType, match sqltree.QueryMatch) (Element, bool) {
	var alias, code, container *sqltree.Node
	for _, cap := range match.Captures {
		switch cap.Name {
		case "alias":
			alias = cap.Node
		case "code":
			code = cap.Node
		case "container":
			container = cap.Node
		}
	}
	if alias == nil || code == nil {
		return Element{}, false
	}

	aliasText := alias.Content()
	codeText := code.Content()
	if strings.TrimSpace(aliasText) == "" || strings.TrimSpace(codeText) == "" {
		return Element{}, false
	}

	pos := code.StartPosition()
	elem := Element{
		Type:  typ,
		Alias: aliasText,
		Code:  codeText,
		Span: Span{
			StartByte: code.StartByte(),
			EndByte:   code.EndByte(),
			Row:       pos.Row,
			Column:    pos.Column,
		},
	}
	if container != nil {
		elem.ScopePath = scopePath(container)
	}
	return elem, true
}

// scopePath walks the ancestors of an element's container and records the
// lexical nesting: enclosing CTE names and derived-table aliases, outermost
// first. Anonymous subqueries contribute the literal "subquery" marker.
func scopePath(container *sqltree.Node) []string {
	var path []string
	for anc := container.Parent(); anc != nil; anc = anc.Parent() {
		switch anc.Kind() {
		case "cte":
			if name := cteName(anc); name != "" {
				path = append(path, name)
			}
		case "subquery":
			path = append(path, subqueryName(anc))
		}
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func cteName(cte *sqltree.Node) string {
	for i := uint(0); i < cte.NamedChildCount(); i++ {
		child := cte.NamedChild(i)
		if child != nil && child.Kind() == "identifier" {
			return child.Content()
		}
	}
	return ""
}

func subqueryName(sub *sqltree.Node) string {
	if rel := sub.Parent(); rel != nil && rel.Kind() == "relation" {
		if alias := rel.ChildByFieldName("alias"); alias != nil {
			return alias.Content()
		}
	}
	return "subquery"
}

func parseErrorFrom(node *sqltree.Node, source []byte) *ParseError {
	pos := node.StartPosition()
	near := node.Content()
	if near == "" {
		// MISSING nodes span zero bytes; show the surrounding text instead.
		near = contextAround(source, node.StartByte())
	}
	if len(near) > 40 {
		near = near[:40] + "…"
	}

	detail := "syntax error"
	if node.IsMissing() {
		detail = fmt.Sprintf("missing %s", node.Kind())
	}

	return &ParseError{
		Row:    pos.Row,
		Column: pos.Column,
		Near:   near,
		Detail: detail,
	}
}

func contextAround(source []byte, offset uint) string {
	start := int(offset) - 20
	if start < 0 {
		start = 0
	}
	end := int(offset) + 20
	if end > len(source) {
		end = len(source)
	}
	return strings.TrimSpace(string(source[start:end]))
}
