package roadmap

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Parse decodes a roadmap document. Item ids in the document are optional;
// the store assigns ids on import.
func Parse(r io.Reader) (*Roadmap, error) {
	var rm Roadmap
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&rm); err != nil {
		return nil, fmt.Errorf("decode roadmap: %w", err)
	}
	if err := Validate(&rm); err != nil {
		return nil, err
	}
	return &rm, nil
}

// LoadFile reads and validates a roadmap document from disk.
func LoadFile(path string) (*Roadmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roadmap %s: %w", path, err)
	}
	defer f.Close()

	rm, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return rm, nil
}
