package suggest

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// parseCandidates extracts ranked alias candidates from a provider response.
// Providers wrap JSON in prose and code fences and do not guarantee any key
// set or count, so this takes the first balanced {…} block and reads every
// string value out of it. Keys of the form suggested_alias<N> are ordered by
// N; any other keys keep their document order after those.
func parseCandidates(text string) ([]string, error) {
	block := firstJSONObject(text)
	if block == "" {
		return nil, fmt.Errorf("no JSON object in response: %q", summarizeRaw(text))
	}

	parsed := gjson.Parse(block)
	if !parsed.IsObject() {
		return nil, fmt.Errorf("response JSON is not an object: %q", summarizeRaw(block))
	}

	type candidate struct {
		rank  int
		order int
		value string
	}

	var candidates []candidate
	order := 0
	parsed.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.String || strings.TrimSpace(value.String()) == "" {
			return true
		}
		candidates = append(candidates, candidate{
			rank:  rankFromKey(key.String()),
			order: order,
			value: value.String(),
		})
		order++
		return true
	})

	if len(candidates) == 0 {
		return nil, fmt.Errorf("response JSON contains no candidate strings: %q", summarizeRaw(block))
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].rank != candidates[j].rank {
			return candidates[i].rank < candidates[j].rank
		}
		return candidates[i].order < candidates[j].order
	})

	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.value
	}
	return out, nil
}

const unrankedKey = 1 << 20

func rankFromKey(key string) int {
	const prefix = "suggested_alias"
	if !strings.HasPrefix(key, prefix) {
		return unrankedKey
	}
	n, err := strconv.Atoi(key[len(prefix):])
	if err != nil {
		return unrankedKey
	}
	return n
}

// firstJSONObject returns the first balanced top-level {…} block, tolerant
// of braces inside string literals.
func firstJSONObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

func summarizeRaw(text string) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) > 120 {
		return trimmed[:120] + "…"
	}
	return trimmed
}
