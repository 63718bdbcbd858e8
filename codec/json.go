package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// It is the most portable option: optimized-mesh documents are plain
// structs of numbers and arrays, which encoding/json handles exactly.
// Use it when the output must be byte-stable across toolchains.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is the default codec used by the library.
//
// Large meshes produce documents with hundreds of thousands of float
// literals; the go-json codec encodes those considerably faster than
// encoding/json with identical output.
var Default Codec = GoJSON{}
