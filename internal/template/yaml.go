package template

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Decode reads a YAML statement template.
func Decode(r io.Reader) (Statement, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var st Statement
	if err := dec.Decode(&st); err != nil {
		return Statement{}, fmt.Errorf("parsing template: %w", err)
	}
	if st.Kind == "" {
		return Statement{}, fmt.Errorf("parsing template: missing kind")
	}
	return st, nil
}

// LoadFile reads a YAML statement template from disk.
func LoadFile(path string) (Statement, error) {
	f, err := os.Open(path)
	if err != nil {
		return Statement{}, fmt.Errorf("opening template: %w", err)
	}
	defer f.Close()

	st, err := Decode(f)
	if err != nil {
		return Statement{}, fmt.Errorf("%s: %w", path, err)
	}
	return st, nil
}

// Encode writes st as YAML.
func Encode(w io.Writer, st Statement) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(st); err != nil {
		return fmt.Errorf("encoding template: %w", err)
	}
	return enc.Close()
}
