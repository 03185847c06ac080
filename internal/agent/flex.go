package agent

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/jonathan/creator-pitch/internal/normalize"
)

// The flex types decode loosely typed model output. null leaves the zero value.

var jsonNull = []byte("null")

// flexText accepts a JSON string, number or boolean. Numbers and booleans keep
// their literal text; null, objects and arrays leave it empty.
type flexText string

func (f *flexText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexText(s)
	case '{', '[':
		return nil
	default:
		*f = flexText(data)
	}
	return nil
}

// flexCount is a flexText whose numbers are compacted ("127K").
type flexCount string

func (f *flexCount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && (data[0] == '-' || (data[0] >= '0' && data[0] <= '9')) {
		if n, err := strconv.ParseFloat(string(data), 64); err == nil {
			*f = flexCount(normalize.FormatCount(n))
			return nil
		}
	}
	var t flexText
	if err := t.UnmarshalJSON(data); err != nil {
		return err
	}
	*f = flexCount(t)
	return nil
}

// flexList accepts an array of scalars or a single string. Blank entries are
// dropped.
type flexList []string

func (f *flexList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		return nil
	}
	var items []flexText
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
	case '"':
		var s flexText
		if err := s.UnmarshalJSON(data); err != nil {
			return err
		}
		items = []flexText{s}
	default:
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(string(item)); s != "" {
			out = append(out, s)
		}
	}
	*f = out
	return nil
}

// strings returns the list, never nil.
func (f flexList) strings() []string {
	if f == nil {
		return []string{}
	}
	return []string(f)
}

// flexScore accepts a JSON number or numeric string. Anything else is unset.
type flexScore struct {
	value int
	set   bool
}

func (f *flexScore) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	*f = flexScore{value: int(math.Round(n)), set: true}
	return nil
}
