package httputil

import (
	"bytes"
	"encoding/json"
)

// Optional tracks presence and value of a JSON field for PATCH semantics
// (RFC 7396), which a plain pointer cannot express:
//   - Present=false: field absent (don't change)
//   - Present=true, Value=nil: field is JSON null (clear)
//   - Present=true, Value!=nil: field has a value
type Optional[T any] struct {
	Present bool
	Value   *T
}

// UnmarshalJSON implements json.Unmarshaler. It only runs when the field
// is present in the document.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}
