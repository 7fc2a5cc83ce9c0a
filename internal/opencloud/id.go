package opencloud

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is a universe or place identifier. Open Cloud returns them as JSON
// numbers while mobile clients send either numbers or strings, so both decode.
// Canonical numeric IDs encode back as numbers; anything else, including
// digits with a leading zero, stays a string.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) String() string {
	return string(id)
}

// IsZero reports whether the id is unset. A literal 0 counts as unset.
func (id ID) IsZero() bool {
	return id == "" || id == "0"
}

// numeric reports whether id is a valid JSON integer token: ASCII digits with
// no leading zero unless it is exactly "0".
func (id ID) numeric() bool {
	if id == "" || (len(id) > 1 && id[0] == '0') {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return false
		}
	}
	return true
}
