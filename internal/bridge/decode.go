package bridge

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Decode unmarshals a backend result into dest.
//
// The host hands results over either pre-parsed (a JSON object) or as a
// string the caller still has to parse. Both shapes are accepted; null and
// empty results leave dest untouched.
func Decode(raw json.RawMessage, dest any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		inner = string(bytes.TrimSpace([]byte(inner)))
		if inner == "" || inner == "null" {
			return nil
		}
		raw = json.RawMessage(inner)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
