package models

import (
	"bytes"
	"strconv"
)

// Marks holds a student's marks as an explicit parse result instead of a raw
// number, so that records with garbage marks coming off the wire never feed
// NaN-style values into averages or comparisons. Valid is false when the
// source value was missing or not a plain unsigned decimal integer.
type Marks struct {
	Value int
	Valid bool
}

// NewMarks returns a valid Marks carrying v.
func NewMarks(v int) Marks {
	return Marks{Value: v, Valid: true}
}

// ParseMarks parses a raw marks string. Only strings composed entirely of
// decimal digits parse successfully; signs, blanks and decimal points all
// yield an invalid result.
func ParseMarks(s string) Marks {
	if s == "" {
		return Marks{}
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return Marks{}
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return Marks{}
	}
	return Marks{Value: v, Valid: true}
}

// String renders the value for display, or an empty string when invalid.
func (m Marks) String() string {
	if !m.Valid {
		return ""
	}
	return strconv.Itoa(m.Value)
}

// UnmarshalJSON accepts a JSON number, a numeric string, or null. Anything
// else decodes as an invalid Marks rather than failing the whole record.
func (m *Marks) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = Marks{}
		return nil
	}
	if data[0] == '"' {
		if len(data) < 2 || data[len(data)-1] != '"' {
			*m = Marks{}
			return nil
		}
		data = data[1 : len(data)-1]
	}
	*m = ParseMarks(string(data))
	return nil
}

// MarshalJSON emits the marks as a JSON number, or null when invalid.
func (m Marks) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(m.Value)), nil
}
