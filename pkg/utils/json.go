package utils

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// DecodePayload converts a loosely typed message payload into T. Raw JSON is
// decoded directly, anything else is re-encoded first.
func DecodePayload[T any](v any) (T, error) {
	var data []byte
	switch raw := v.(type) {
	case []byte:
		data = raw
	case jsoniter.RawMessage:
		data = raw
	default:
		var err error
		data, err = jsoniter.Marshal(v)
		if err != nil {
			return *new(T), errors.WithMessage(err, "marshal json")
		}
	}
	var result T
	if err := jsoniter.Unmarshal(data, &result); err != nil {
		return *new(T), errors.WithMessage(err, "unmarshal json")
	}
	return result, nil
}
