package rig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Decode parses rig YAML. Strict mode rejects unknown keys.
func Decode(data []byte, strict bool) (*Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(strict)

	var def Definition
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty rig file")
		}
		return nil, fmt.Errorf("parsing rig: %w", err)
	}
	return &def, nil
}

// LoadDefinition reads and decodes a rig file without building it.
func LoadDefinition(path string, strict bool) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rig: %w", err)
	}
	def, err := Decode(data, strict)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// Parse decodes and builds rig YAML using only the clips it defines.
func Parse(data []byte, opts Options) (*Rig, error) {
	def, err := Decode(data, opts.Strict)
	if err != nil {
		return nil, err
	}
	return Build(def, nil, opts)
}

// Load reads, decodes and builds a rig file.
func Load(path string, opts Options) (*Rig, error) {
	def, err := LoadDefinition(path, opts.Strict)
	if err != nil {
		return nil, err
	}
	r, err := Build(def, nil, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}
