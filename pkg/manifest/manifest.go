// Package manifest compiles YAML field manifests into membuf writers.
// A manifest names each field's key, type and contents, nesting manifests
// for nested buffers:
//
//	fields:
//	  - key: 0
//	    type: text
//	    value: "Earth"
//	  - key: 1
//	    type: int32
//	    value: "100"
//	  - key: 2
//	    type: bytes
//	    path: body.bin
//	  - key: 3
//	    type: uint64s
//	    words: [3, 1, 4, 1, 5]
//	  - key: 4
//	    type: buffer
//	    fields:
//	      - key: 0
//	        type: text
//	        value: "X"
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/ssargent/membuf/pkg/membuf"
)

// Manifest is the root of a field manifest document.
type Manifest struct {
	Fields []Field `yaml:"fields"`
}

// Field describes one field of the buffer being built.
type Field struct {
	Key   int32  `yaml:"key"`
	Type  string `yaml:"type"`
	Value string `yaml:"value,omitempty"` // text, int32 and json fields
	Path  string `yaml:"path,omitempty"`  // bytes fields: file to embed

	Words []uint64 `yaml:"words,omitempty"` // uint64s fields

	Fields []Field `yaml:"fields,omitempty"` // buffer fields: nested manifest
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

// Compile builds a writer from the manifest. File paths referenced by
// bytes fields are resolved relative to baseDir.
func (m *Manifest) Compile(baseDir string) (*membuf.Writer, error) {
	return compile(m.Fields, baseDir)
}

func compile(fields []Field, baseDir string) (*membuf.Writer, error) {
	w := membuf.NewWriter()
	for _, f := range fields {
		switch f.Type {
		case "text":
			w.AddString(f.Key, f.Value)
		case "int32":
			v, err := strconv.ParseInt(f.Value, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("field %d: int32 value %q: %w", f.Key, f.Value, err)
			}
			w.AddInt32(f.Key, int32(v))
		case "bytes":
			data, err := os.ReadFile(filepath.Join(baseDir, filepath.Clean(f.Path)))
			if err != nil {
				return nil, fmt.Errorf("field %d: %w", f.Key, err)
			}
			w.AddBytes(f.Key, data)
		case "uint64s":
			w.AddUint64s(f.Key, f.Words)
		case "json":
			if !json.Valid([]byte(f.Value)) {
				return nil, fmt.Errorf("field %d: value is not valid JSON", f.Key)
			}
			w.AddString(f.Key, f.Value)
		case "buffer":
			inner, err := compile(f.Fields, baseDir)
			if err != nil {
				return nil, err
			}
			w.AddWriter(f.Key, inner)
		default:
			return nil, fmt.Errorf("field %d: unknown type %q", f.Key, f.Type)
		}
	}
	return w, nil
}
