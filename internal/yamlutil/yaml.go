// Package yamlutil wraps goccy/go-yaml for config files, front matter and
// extension settings, so callers share one set of size limits and errors.
package yamlutil

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize caps YAML documents (config files and front matter) at 1MB.
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

func Unmarshal(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// UnmarshalStrict rejects unknown fields in the input.
func UnmarshalStrict(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// UnmarshalBlock decodes a front matter block. A block holding only
// whitespace leaves v untouched instead of failing like Unmarshal.
func UnmarshalBlock(data []byte, v any) error {
	if v == nil {
		return ErrNilDestination
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return Unmarshal(data, v)
}

// Marshal encodes v as YAML.
func Marshal(v any) ([]byte, error) {
	result, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return result, nil
}

// Decode copies a loosely typed value (usually a map decoded from a config
// file) into the typed destination. Unknown keys are rejected. A nil src
// leaves dst untouched.
func Decode(src, dst any) error {
	if dst == nil {
		return ErrNilDestination
	}
	if src == nil {
		return nil
	}
	data, err := Marshal(src)
	if err != nil {
		return err
	}
	if s := bytes.TrimSpace(data); bytes.Equal(s, []byte("{}")) || bytes.Equal(s, []byte("null")) {
		return nil
	}
	return UnmarshalStrict(data, dst)
}
