// Package suggest asks a text-generation provider for better alias names
// given a finding's element type and defining code. The provider response is
// treated as an open mapping of ranked candidates, never a fixed schema.
package suggest

import (
	"context"
	"fmt"
	"strings"

	"github.com/adalundhe/nameguard/core/extract"
)

// Suggestion is one provider answer: candidates ranked best-first, plus the
// raw response text for callers that want to audit it.
type Suggestion struct {
	Candidates []string `json:"candidates"`
	Raw        string   `json:"raw"`
}

// Suggester produces ranked replacement names for a poorly named element.
type Suggester interface {
	Suggest(ctx context.Context, elemType extract.ElementType, code string) (*Suggestion, error)
}

func buildPrompt(elemType extract.ElementType, code string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are reviewing SQL code for proper semantics.\n\n")
	fmt.Fprintf(&b, "Given the following %s, suggest a couple of alias names that accurately reflect its purpose from a semantic standpoint. Order them by appropriateness.\n", elemType)
	fmt.Fprintf(&b, "code:\n```\n%s\n```\n\n", code)
	b.WriteString(`Return a response in JSON format like the following:
{
    "suggested_alias1": "first_appropriate_alias_name",
    "suggested_alias2": "second_appropriate_alias_name",
    "suggested_alias3": "third_appropriate_alias_name"
}
`)
	return b.String()
}
