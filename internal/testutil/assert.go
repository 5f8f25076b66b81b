package testutil

import (
	"strings"
)

// AssertFileExists fails the test if the file does not exist.
func (p *TestProject) AssertFileExists(relPath string) {
	p.t.Helper()
	if !p.FileExists(relPath) {
		p.t.Errorf("expected file to exist: %s", relPath)
	}
}

// AssertFileNotExists fails the test if the file exists.
func (p *TestProject) AssertFileNotExists(relPath string) {
	p.t.Helper()
	if p.FileExists(relPath) {
		p.t.Errorf("expected file to not exist: %s", relPath)
	}
}

// AssertFileContains fails the test if the file does not contain the substring.
func (p *TestProject) AssertFileContains(relPath, substr string) {
	p.t.Helper()
	content := p.ReadFile(relPath)
	if !strings.Contains(content, substr) {
		p.t.Errorf("expected file %s to contain %q, got:\n%s", relPath, substr, content)
	}
}

// AssertFileNotContains fails the test if the file contains the substring.
func (p *TestProject) AssertFileNotContains(relPath, substr string) {
	p.t.Helper()
	content := p.ReadFile(relPath)
	if strings.Contains(content, substr) {
		p.t.Errorf("expected file %s to not contain %q, got:\n%s", relPath, substr, content)
	}
}

// AssertEntities fails the test if the persisted document does not hold
// exactly the named entities, in order.
func (p *TestProject) AssertEntities(names ...string) {
	p.t.Helper()
	got := p.LoadSchema().EntityNames()
	if strings.Join(got, ",") != strings.Join(names, ",") {
		p.t.Errorf("expected entities %v, got %v", names, got)
	}
}
