// Package api defines the wire messages of the tripsplit Connect services.
//
// Messages are plain structs encoded as JSON by Codec, so browsers can call
// every procedure with a POST of Content-Type application/json.
package api

import (
	"encoding/json"
	"fmt"
)

// Codec is a connect.Codec that encodes messages with encoding/json.
// It replaces connect's built-in "json" codec, which only accepts proto messages.
type Codec struct{}

// Name implements connect.Codec.
func (Codec) Name() string { return "json" }

// Marshal implements connect.Codec.
func (Codec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", msg, err)
	}
	return data, nil
}

// Unmarshal implements connect.Codec. An empty body decodes to the zero message.
func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal into %T: %w", msg, err)
	}
	return nil
}
