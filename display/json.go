package display

import (
	json "github.com/goccy/go-json"
)

// MarshalJSON marshals JSON with two-space indentation for terminal output
func MarshalJSON(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// MarshalCompact marshals JSON on a single line, used for MCP tool payloads
func MarshalCompact(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}
