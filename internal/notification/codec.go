package notification

import "encoding/json"

// StorageCodec serializes the opaque data payload attached to a notification.
// The subsystem never interprets the blob; it only carries it between the
// caller and the handle layer.
type StorageCodec interface {
	// SerializeForStorage encodes a caller-supplied value into an opaque blob.
	SerializeForStorage(v any) ([]byte, error)
	// Deserialize decodes a previously stored blob back into a value.
	Deserialize(blob []byte) (any, error)
}

// JSONCodec is the default StorageCodec, backed by encoding/json.
type JSONCodec struct{}

// SerializeForStorage encodes v as JSON.
func (JSONCodec) SerializeForStorage(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Deserialize decodes a JSON blob. An empty blob decodes to nil.
func (JSONCodec) Deserialize(blob []byte) (any, error) {
	if len(blob) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(blob, &v); err != nil {
		return nil, err
	}
	return v, nil
}
