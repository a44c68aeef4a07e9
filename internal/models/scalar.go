package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Text is a string field that tolerates spreadsheet typing: numbers and
// booleans are kept as their literal text, null becomes "".
type Text string

func (t Text) String() string { return string(t) }

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	v, err := decodeAny(data)
	if err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*t = ""
	case string:
		*t = Text(strings.TrimSpace(x))
	case json.Number:
		*t = Text(x.String())
	case bool:
		*t = Text(strconv.FormatBool(x))
	default:
		// Objects and arrays are kept verbatim rather than rejected.
		*t = Text(strings.TrimSpace(string(data)))
	}
	return nil
}

// Year is the application year, sent either as text or as a number.
type Year string

func (y Year) String() string { return string(y) }

// UnmarshalJSON implements json.Unmarshaler.
func (y *Year) UnmarshalJSON(data []byte) error {
	var t Text
	if err := t.UnmarshalJSON(data); err != nil {
		return err
	}
	*y = Year(t)
	return nil
}

// MarshalJSON emits null for an unknown year.
func (y Year) MarshalJSON() ([]byte, error) {
	if y == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(y))
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.DateOnly,
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
}

// Date is a nullable calendar date. Values that cannot be parsed keep their
// raw text so they can still be shown.
type Date struct {
	Time  time.Time
	Raw   string
	Valid bool
}

// IsZero reports whether the upstream sent no date at all.
func (d Date) IsZero() bool { return !d.Valid && d.Raw == "" }

// String formats the date the way the office prints it (dd-mm-yyyy).
func (d Date) String() string {
	if d.Valid {
		return d.Time.Format("02-01-2006")
	}
	return d.Raw
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	var t Text
	if err := t.UnmarshalJSON(data); err != nil {
		return err
	}
	*d = ParseDate(string(t))
	return nil
}

// MarshalJSON emits an ISO date, the raw text, or null.
func (d Date) MarshalJSON() ([]byte, error) {
	switch {
	case d.Valid:
		return json.Marshal(d.Time.Format(time.DateOnly))
	case d.Raw != "":
		return json.Marshal(d.Raw)
	default:
		return []byte("null"), nil
	}
}

// ParseDate parses s with the layouts seen in the spreadsheet.
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return Date{Time: ts, Raw: s, Valid: true}
		}
	}
	return Date{Raw: s}
}
