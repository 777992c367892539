package dto

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Rating forms submitted by static pages arrive as whatever the page felt
// like sending: numbers, numeric strings, "true"/"on" checkboxes. These types
// absorb that at the parse step so validation can work on clean values.

// FlexInt unmarshals from a JSON number or a numeric string.
type FlexInt struct {
	Value int
	Set   bool
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return err
		}
		f.Value, f.Set = n, true
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	// 4.7 must not silently become 4
	if n != float64(int(n)) {
		return fmt.Errorf("non-integer value %s", raw)
	}
	f.Value, f.Set = int(n), true
	return nil
}

// FlexBool unmarshals truthiness: bool, non-zero number, or a string such as
// "true", "1", "yes", "on". Anything else is false.
type FlexBool struct {
	Value bool
	Set   bool
}

func (f *FlexBool) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	f.Set = true
	switch raw {
	case "true":
		f.Value = true
		return nil
	case "false":
		f.Value = false
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "1", "yes", "on":
			f.Value = true
		default:
			f.Value = false
		}
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		f.Set = false
		return err
	}
	f.Value = n != 0
	return nil
}

// FlexID unmarshals an identifier sent as a number or string and reports the
// trimmed textual form.
type FlexID struct {
	Raw string
}

func (f *FlexID) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f.Raw = strings.TrimSpace(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	f.Raw = n.String()
	return nil
}

// Int64 parses the id; ok is false for empty or non-numeric input.
func (f FlexID) Int64() (int64, bool) {
	if f.Raw == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(f.Raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
