package sqltree

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Parser wraps a tree-sitter parser bound to the SQL language.
// A Parser is not safe for concurrent use; create one per goroutine.
type Parser struct {
	inner *sitter.Parser
}

func NewParser(lang *sitter.Language) (*Parser, error) {
	p := sitter.NewParser()
	if err := p.SetLanguage(lang); err != nil {
		p.Close()
		return nil, fmt.Errorf("%w: %v", ErrGrammarLoadFailed, err)
	}
	return &Parser{inner: p}, nil
}

// Parse produces a syntax tree for the given SQL text. The tree keeps a
// reference to source so node content can be sliced out verbatim.
func (p *Parser) Parse(source []byte) (*Tree, error) {
	tree := p.inner.Parse(source, nil)
	if tree == nil {
		return nil, ErrParseFailed
	}
	return &Tree{inner: tree, source: source}, nil
}

func (p *Parser) Reset() {
	p.inner.Reset()
}

func (p *Parser) Close() {
	p.inner.Close()
}
