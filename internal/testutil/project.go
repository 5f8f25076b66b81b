// Package testutil provides reusable test utilities for modeler integration
// tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aidanlsb/modeler/internal/config"
	"github.com/aidanlsb/modeler/internal/schema"
)

// TestProject represents a temporary project directory for testing.
type TestProject struct {
	Path   string
	t      *testing.T
	schema *schema.Schema
	name   string
	files  map[string]string
}

// NewTestProject creates a new test project builder.
// Call Build() to create the actual project directory.
func NewTestProject(t *testing.T) *TestProject {
	t.Helper()
	return &TestProject{
		t:     t,
		name:  schema.DefaultFile,
		files: make(map[string]string),
	}
}

// WithSchema sets the document written by Build.
func (p *TestProject) WithSchema(s *schema.Schema) *TestProject {
	p.schema = s
	return p
}

// WithSchemaFile changes the document file name. A .yaml name selects YAML.
func (p *TestProject) WithSchemaFile(name string) *TestProject {
	p.name = name
	return p
}

// WithConfig sets the modeler.toml content for the project.
func (p *TestProject) WithConfig(toml string) *TestProject {
	p.files[config.FileName] = toml
	return p
}

// WithFile adds a file to the project.
// The path is relative to the project root.
func (p *TestProject) WithFile(path, content string) *TestProject {
	p.files[path] = content
	return p
}

// Build creates the project directory and all configured files.
// Returns the TestProject for method chaining.
func (p *TestProject) Build() *TestProject {
	p.t.Helper()

	p.Path = p.t.TempDir()

	if p.schema != nil {
		if err := schema.Save(p.SchemaPath(), p.schema); err != nil {
			p.t.Fatalf("failed to write schema: %v", err)
		}
	}
	for path, content := range p.files {
		p.writeFile(path, content)
	}
	return p
}

// SchemaPath returns the absolute path of the document.
func (p *TestProject) SchemaPath() string {
	return filepath.Join(p.Path, p.name)
}

// LoadSchema reads the document back.
func (p *TestProject) LoadSchema() *schema.Schema {
	p.t.Helper()
	s, err := schema.Load(p.SchemaPath())
	if err != nil {
		p.t.Fatalf("failed to load schema: %v", err)
	}
	return s
}

func (p *TestProject) writeFile(relPath, content string) {
	p.t.Helper()
	fullPath := filepath.Join(p.Path, relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		p.t.Fatalf("failed to create directory %s: %v", dir, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		p.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
}

// ReadFile reads a file from the project.
// Returns the content as a string.
func (p *TestProject) ReadFile(relPath string) string {
	p.t.Helper()
	fullPath := filepath.Join(p.Path, relPath)
	content, err := os.ReadFile(fullPath)
	if err != nil {
		p.t.Fatalf("failed to read file %s: %v", fullPath, err)
	}
	return string(content)
}

// FileExists checks if a file exists in the project.
func (p *TestProject) FileExists(relPath string) bool {
	p.t.Helper()
	_, err := os.Stat(filepath.Join(p.Path, relPath))
	return err == nil
}

// Glob returns the project-relative paths matching pattern.
func (p *TestProject) Glob(pattern string) []string {
	p.t.Helper()
	matches, err := filepath.Glob(filepath.Join(p.Path, pattern))
	if err != nil {
		p.t.Fatalf("bad glob %s: %v", pattern, err)
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		rel, err := filepath.Rel(p.Path, m)
		if err != nil {
			p.t.Fatalf("failed to relativize %s: %v", m, err)
		}
		out = append(out, rel)
	}
	return out
}

// Shop returns a small document with a reference and an action.
func Shop() *schema.Schema {
	s := schema.New(map[string]string{"migrations": "migrations"})
	s.Entities = append(s.Entities,
		&schema.Entity{Name: "Customer", Fields: []*schema.Field{
			{Name: "id", Type: schema.TypeNumber, Primary: true, PrimaryAuto: true},
			{Name: "email", Type: schema.TypeString},
		}},
		&schema.Entity{Name: "Order", Fields: []*schema.Field{
			{Name: "id", Type: schema.TypeString, Primary: true, PrimaryAuto: true},
			{Name: "customer", Type: "Customer"},
			{Name: "total", Type: schema.TypeNumber, Nullable: true},
		}},
	)
	s.Actions["orders"] = []*schema.Action{
		{Name: "byCustomer", Type: schema.ActionRead, Returns: "Order", ReturnsArray: true, Arguments: []*schema.Field{
			{Name: "customer", Type: "Customer"},
		}},
	}
	return s
}
