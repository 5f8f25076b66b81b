package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/modeler/internal/atomicfile"
)

// DefaultFile is the document name used when the configuration names none.
const DefaultFile = "datamodel.json"

// ErrNotExist is returned by Load when the document file is missing.
var ErrNotExist = errors.New("schema document does not exist")

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Load reads the document at path. A missing file yields ErrNotExist; a
// present but unparsable file is an error the caller must treat as fatal.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}
	s, err := Decode(data, isYAML(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema file %s: %w", path, err)
	}
	return s, nil
}

// Decode parses a document from JSON, or YAML when asYAML is set.
func Decode(data []byte, asYAML bool) (*Schema, error) {
	var s Schema
	if asYAML {
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, err
		}
	} else {
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
	}
	s.normalize()
	return &s, nil
}

// Encode renders s as indented JSON, or YAML when asYAML is set.
func Encode(s *Schema, asYAML bool) ([]byte, error) {
	if asYAML {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Save writes s to path atomically, choosing the format from the extension.
func Save(path string, s *Schema) error {
	data, err := Encode(s, isYAML(path))
	if err != nil {
		return fmt.Errorf("failed to encode schema: %w", err)
	}
	if err := atomicfile.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write schema file %s: %w", path, err)
	}
	return nil
}
