package schema

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleSchema() *Schema {
	s := New(map[string]string{"migrations": "db/migrations", "swift": ""})
	s.Entities = append(s.Entities,
		&Entity{Name: "User", Fields: []*Field{
			{Name: "id", Type: TypeNumber, Primary: true, PrimaryAuto: true},
			{Name: "tags", Type: TypeString, Array: true},
		}},
		&Entity{Name: "Post", Fields: []*Field{
			{Name: "id", Type: TypeString, Primary: true, PrimaryAuto: true},
			{Name: "author", Type: "User", Validations: map[string]any{"min": 1}},
		}},
	)
	s.Actions["users"] = []*Action{
		{Name: "login", Type: ActionCreate, Returns: "User", Arguments: []*Field{{Name: "email", Type: TypeString}}},
	}
	return s
}

func TestNewDropsEmptyPaths(t *testing.T) {
	s := New(map[string]string{"migrations": "db", "swift": "  "})
	if len(s.Paths) != 1 || s.Paths["migrations"] != "db" {
		t.Fatalf("unexpected paths: %v", s.Paths)
	}
	if s.Entities == nil || s.Actions == nil {
		t.Fatal("collections should be initialized")
	}
}

func TestLookups(t *testing.T) {
	s := sampleSchema()

	t.Run("entity", func(t *testing.T) {
		e, err := s.FindEntity("Post")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if e.Name != "Post" {
			t.Errorf("expected Post, got %s", e.Name)
		}
		if _, err := s.FindEntity("Nope"); !IsLookup(err) {
			t.Errorf("expected lookup error, got %v", err)
		}
	})

	t.Run("field", func(t *testing.T) {
		e, f, err := s.FindField("Post", "author")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if e.Name != "Post" || f.Type != "User" {
			t.Errorf("unexpected result %s.%s", e.Name, f.Name)
		}
		_, _, err = s.FindField("Post", "title")
		var le *LookupError
		if !errors.As(err, &le) {
			t.Fatalf("expected lookup error, got %v", err)
		}
		if le.Kind != "field" || le.Container != "Post" {
			t.Errorf("unexpected lookup error %+v", le)
		}
		if !strings.Contains(err.Error(), "'title' in 'Post'") {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("action", func(t *testing.T) {
		a, err := s.FindAction("users.login")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.Name != "login" {
			t.Errorf("expected login, got %s", a.Name)
		}
		for _, id := range []string{"users.logout", "posts.list", "users", ""} {
			if _, err := s.FindAction(id); !IsLookup(err) {
				t.Errorf("%q: expected lookup error, got %v", id, err)
			}
		}
	})
}

func TestSplitActionID(t *testing.T) {
	tests := []struct {
		id      string
		group   string
		name    string
		wantErr bool
	}{
		{id: "users.login", group: "users", name: "login"},
		{id: "users", wantErr: true},
		{id: ".login", wantErr: true},
		{id: "users.", wantErr: true},
		{id: "a.b.c", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			group, name, err := SplitActionID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if group != tt.group || name != tt.name {
				t.Errorf("got %q %q", group, name)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := sampleSchema()
	c := s.Clone()

	c.Entities[0].Name = "Account"
	c.Entities[1].Fields[1].Validations["min"] = 2
	c.Actions["users"][0].Arguments[0].Name = "mail"
	c.Paths["migrations"] = "elsewhere"

	if s.Entities[0].Name != "User" {
		t.Error("entity name leaked into original")
	}
	if s.Entities[1].Fields[1].Validations["min"] != 1 {
		t.Error("validations leaked into original")
	}
	if s.Actions["users"][0].Arguments[0].Name != "email" {
		t.Error("argument leaked into original")
	}
	if s.Paths["migrations"] != "db/migrations" {
		t.Error("paths leaked into original")
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		if issues := Validate(sampleSchema()); len(issues) != 0 {
			t.Fatalf("expected no issues, got %v", issues)
		}
	})

	t.Run("dangling reference and duplicates", func(t *testing.T) {
		s := sampleSchema()
		s.Entities[1].Fields[1].Type = "Ghost"
		s.Entities = append(s.Entities, &Entity{Name: "User"})
		s.Actions["users"] = append(s.Actions["users"], &Action{Name: "login", Type: "fetch", Returns: Void})

		issues := Validate(s)
		want := []string{
			"Post.author: type \"Ghost\" does not resolve",
			"User: duplicate entity name",
			"users.login: duplicate action name",
			"users.login: unknown action type \"fetch\"",
		}
		got := make(map[string]bool)
		for _, i := range issues {
			got[i.String()] = true
		}
		for _, w := range want {
			if !got[w] {
				t.Errorf("missing issue %q in %v", w, issues)
			}
		}
	})
}

func TestReferences(t *testing.T) {
	s := sampleSchema()
	s.Actions["posts"] = []*Action{{Name: "byAuthor", Type: ActionRead, Returns: "Post", Arguments: []*Field{{Name: "author", Type: "User"}}}}

	refs := s.References("User")
	want := []string{"Post.author", "posts.byAuthor(author)"}
	if strings.Join(refs, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, refs)
	}
}

func TestTypeChoices(t *testing.T) {
	s := sampleSchema()
	got := s.TypeChoices(true)
	if got[len(Primitives)] != Void {
		t.Errorf("expected void after primitives, got %v", got)
	}
	if got[len(got)-1] != "Post" {
		t.Errorf("expected entity names last, got %v", got)
	}
	if len(s.TypeChoices(false)) != len(Primitives)+2 {
		t.Errorf("unexpected choices %v", s.TypeChoices(false))
	}
}

func TestLoadAndSave(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), DefaultFile))
		if !errors.Is(err, ErrNotExist) {
			t.Fatalf("expected ErrNotExist, got %v", err)
		}
	})

	t.Run("unparsable file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultFile)
		if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := Load(path)
		if err == nil || errors.Is(err, ErrNotExist) {
			t.Fatalf("expected parse error, got %v", err)
		}
	})

	t.Run("void return normalized", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultFile)
		doc := `{"entities":[],"actions":{"users":[{"name":"delete","type":"delete"}]},"paths":{}}`
		if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
			t.Fatal(err)
		}
		s, err := Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		a := s.Actions["users"][0]
		if a.Returns != Void {
			t.Errorf("expected void return, got %q", a.Returns)
		}
		if a.Arguments == nil {
			t.Error("arguments should be initialized")
		}
	})

	for _, name := range []string{"datamodel.json", "datamodel.yaml"} {
		t.Run("round trip "+name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := Save(path, sampleSchema()); err != nil {
				t.Fatalf("save: %v", err)
			}
			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if got := strings.Join(loaded.EntityNames(), ","); got != "User,Post" {
				t.Errorf("unexpected entities %s", got)
			}
			if loaded.Entities[0].Fields[1].Array != true {
				t.Error("array flag lost")
			}
			if loaded.Paths["migrations"] != "db/migrations" {
				t.Errorf("paths lost: %v", loaded.Paths)
			}
			if loaded.Actions["users"][0].Arguments[0].Name != "email" {
				t.Error("arguments lost")
			}
		})
	}
}
