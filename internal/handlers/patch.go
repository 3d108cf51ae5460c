package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// patchBody holds a raw JSON object so handlers can tell an absent field from
// an explicit null.
type patchBody map[string]json.RawMessage

// Only returns the listed fields so anything else is never decoded.
func (p patchBody) Only(keys ...string) patchBody {
	kept := make(patchBody, len(keys))
	for _, key := range keys {
		if raw, ok := p[key]; ok {
			kept[key] = raw
		}
	}
	return kept
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// String returns the field's value, or nil when absent or null.
func (p patchBody) String(key string) (*string, error) {
	raw, ok := p[key]
	if !ok || isNull(raw) {
		return nil, nil
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("%s must be a string", key)
	}
	return &value, nil
}

// Uint returns the field's value and whether it was explicitly set to null.
func (p patchBody) Uint(key string) (*uint64, bool, error) {
	raw, ok := p[key]
	if !ok {
		return nil, false, nil
	}
	if isNull(raw) {
		return nil, true, nil
	}
	var value uint64
	if err := json.Unmarshal(raw, &value); err != nil || value == 0 {
		return nil, false, fmt.Errorf("%s must be a positive integer", key)
	}
	return &value, false, nil
}

// Time returns an RFC 3339 timestamp and whether it was explicitly set to null.
func (p patchBody) Time(key string) (*time.Time, bool, error) {
	raw, ok := p[key]
	if !ok {
		return nil, false, nil
	}
	if isNull(raw) {
		return nil, true, nil
	}
	var value time.Time
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, false, fmt.Errorf("%s must be an RFC 3339 timestamp", key)
	}
	return &value, false, nil
}
