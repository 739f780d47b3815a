package localstore

import (
	"encoding/json"
	"fmt"
)

// SnapshotVersion is the current snapshot envelope version. Timestamps
// inside snapshot payloads travel as RFC 3339 strings and are decoded back
// into time values by the JSON layer, so revival happens in exactly one
// place instead of at every read site.
const SnapshotVersion = 1

type envelope struct {
	Version int             `json:"v"`
	Data    json.RawMessage `json:"data"`
}

// EncodeSnapshot wraps v in a versioned envelope for storage.
func EncodeSnapshot(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(envelope{Version: SnapshotVersion, Data: data})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeSnapshot unwraps a stored envelope into out, rejecting versions this
// build does not understand.
func DecodeSnapshot(raw string, out any) error {
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return fmt.Errorf("snapshot envelope: %w", err)
	}
	if env.Version != SnapshotVersion {
		return fmt.Errorf("snapshot version %d not supported", env.Version)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("snapshot payload: %w", err)
	}
	return nil
}
