// Package decode re-decodes loosely typed JSON values into concrete types.
package decode

import "encoding/json"

// FromMap decodes a generic map (for example JWT claims) into T.
func FromMap[T any](data map[string]any) (T, error) {
	var result T
	err := Into(data, &result)
	return result, err
}

// Into round-trips v through JSON into out, which must be a pointer.
func Into(v any, out any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
