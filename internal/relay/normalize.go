package relay

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const maxDetailBytes = 2 << 10 // 2 KB

var utf8BOM = []byte("\xef\xbb\xbf")

// Normalize converts an upstream success body into a JSON array.
//
// Arrays pass through element by element, a single object becomes a
// one-element array, and everything else (null, scalars, invalid JSON,
// empty body) becomes an empty array. The result is never nil.
func Normalize(body []byte) []json.RawMessage {
	body = bytes.TrimSpace(bytes.TrimPrefix(body, utf8BOM))
	if len(body) == 0 {
		return []json.RawMessage{}
	}

	switch body[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil || items == nil {
			return []json.RawMessage{}
		}
		return items
	case '{':
		if !json.Valid(body) {
			return []json.RawMessage{}
		}
		obj := make(json.RawMessage, len(body))
		copy(obj, body)
		return []json.RawMessage{obj}
	default:
		return []json.RawMessage{}
	}
}

// diagnosticText extracts readable text from a failed upstream answer.
// Apps Script reports script errors as HTML pages, so those are reduced to
// their visible text.
func diagnosticText(contentType string, body []byte, status string) string {
	var text string
	if isHTML(contentType, body) {
		text = htmlText(body)
	} else {
		text = string(body)
	}
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return status
	}
	return truncate(text, maxDetailBytes)
}

func isHTML(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		return true
	}
	head := bytes.ToLower(bytes.TrimSpace(body))
	return bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html"))
}

func htmlText(body []byte) string {
	z := html.NewTokenizer(bytes.NewReader(body))
	var sb strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return sb.String()
		case html.StartTagToken:
			name, _ := z.TagName()
			if a := atom.Lookup(name); a == atom.Script || a == atom.Style {
				skip++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if a := atom.Lookup(name); (a == atom.Script || a == atom.Style) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				sb.Write(z.Text())
				sb.WriteByte(' ')
			}
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s + "..."
}
