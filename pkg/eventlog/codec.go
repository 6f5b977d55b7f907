package eventlog

import "encoding/json"

// ToData marshals a typed payload into the map[string]any shape Envelope.Data
// carries, round-tripping through JSON so the stored representation matches
// exactly what a reader will get back from Postgres' jsonb column.
func ToData(payload any) (map[string]any, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// DecodeData unmarshals an envelope's opaque Data map into a typed payload.
// Used by the projection package's per-kind switch.
func DecodeData[T any](data map[string]any) (T, error) {
	var out T
	raw, err := json.Marshal(data)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, err
	}
	return out, nil
}
