// Package checklist turns the heterogeneous "missing documents" field of a
// file record into an ordered list and decides whether the file is complete.
package checklist

import (
	"fmt"
	"regexp"
	"strings"
)

var separatorRe = regexp.MustCompile(`[,;\r\n]+`)

// Completeness is the normalized form of a missing-documents value.
// Items is never nil.
type Completeness struct {
	Complete bool     `json:"complete"`
	Items    []string `json:"items"`
}

// Layout selects how a checklist is presented.
type Layout int

const (
	// LayoutComplete shows the "complete" badge; nothing is missing.
	LayoutComplete Layout = iota
	// LayoutSingle shows the one missing document as an inline message.
	LayoutSingle
	// LayoutNumbered shows the missing documents as a numbered list.
	LayoutNumbered
)

func (l Layout) String() string {
	switch l {
	case LayoutSingle:
		return "single"
	case LayoutNumbered:
		return "numbered"
	default:
		return "complete"
	}
}

// Derive normalizes a missing-documents value.
//
// nil, "" and empty lists are complete. Lists are trimmed element-wise with
// empties dropped; strings are split on any run of comma, semicolon or
// newline first. Other scalars are treated as their string form.
func Derive(v any) Completeness {
	items := []string{}
	switch x := v.(type) {
	case nil:
	case string:
		items = clean(separatorRe.Split(x, -1))
	case []string:
		items = clean(x)
	case []any:
		parts := make([]string, 0, len(x))
		for _, e := range x {
			if e == nil {
				continue
			}
			if s, ok := e.(string); ok {
				parts = append(parts, s)
				continue
			}
			parts = append(parts, fmt.Sprint(e))
		}
		items = clean(parts)
	default:
		items = clean(separatorRe.Split(fmt.Sprint(x), -1))
	}
	return Completeness{Complete: len(items) == 0, Items: items}
}

// Layout reports the presentation for c.
func (c Completeness) Layout() Layout {
	switch n := len(c.Items); {
	case n > 1:
		return LayoutNumbered
	case n == 1:
		return LayoutSingle
	default:
		return LayoutComplete
	}
}

func clean(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
