package cli

import (
	"errors"

	"github.com/aidanlsb/modeler/internal/schema"
)

// loadSchema reads the project document for the non-interactive commands.
func loadSchema() (*schema.Schema, string, error) {
	path := getConfig().SchemaPath(resolvedDir, schema.DefaultFile)
	s, err := schema.Load(path)
	if errors.Is(err, schema.ErrNotExist) {
		return nil, path, handleError(ErrSchemaNotFound, errors.New("no data model found at "+path), "Run modeler in this directory to create one")
	}
	if err != nil {
		return nil, path, handleError(ErrSchemaInvalid, err, "")
	}
	return s, path, nil
}
