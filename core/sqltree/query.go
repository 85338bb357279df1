package sqltree

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

type Query struct {
	inner   *sitter.Query
	pattern string
}

type QueryMatch struct {
	PatternIndex uint
	Captures     []QueryCapture
}

type QueryCapture struct {
	Name string
	Node *Node
}

func NewQuery(lang *sitter.Language, pattern string) (*Query, error) {
	q, err := sitter.NewQuery(lang, pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return &Query{inner: q, pattern: pattern}, nil
}

func (q *Query) Pattern() string {
	return q.pattern
}

func (q *Query) CaptureNames() []string {
	return q.inner.CaptureNames()
}

func (q *Query) Close() {
	q.inner.Close()
}

type QueryCursor struct {
	inner *sitter.QueryCursor
}

func NewQueryCursor() *QueryCursor {
	return &QueryCursor{inner: sitter.NewQueryCursor()}
}

func (c *QueryCursor) Close() {
	c.inner.Close()
}

// Matches runs the query over node and collects every match eagerly.
func (c *QueryCursor) Matches(query *Query, node *Node, source []byte) []QueryMatch {
	iter := c.inner.Matches(query.inner, node.inner, source)
	names := query.CaptureNames()

	var matches []QueryMatch
	for {
		match := iter.Next()
		if match == nil {
			break
		}

		qm := QueryMatch{
			PatternIndex: uint(match.PatternIndex),
			Captures:     make([]QueryCapture, 0, len(match.Captures)),
		}
		for _, cap := range match.Captures {
			name := ""
			if int(cap.Index) < len(names) {
				name = names[cap.Index]
			}
			qm.Captures = append(qm.Captures, QueryCapture{
				Name: name,
				Node: &Node{inner: &cap.Node, source: source},
			})
		}
		matches = append(matches, qm)
	}

	return matches
}
