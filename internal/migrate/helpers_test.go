package migrate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aidanlsb/modeler/internal/actionlog"
	"github.com/aidanlsb/modeler/internal/mutate"
	"github.com/aidanlsb/modeler/internal/schema"
)

// recorder applies mutations to a document and logs them the way the
// resolver does.
type recorder struct {
	t   *testing.T
	doc *schema.Schema
	log *actionlog.Log
}

func newRecorder(t *testing.T, doc *schema.Schema) *recorder {
	start := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	tick := start.Add(-time.Second)
	return &recorder{t: t, doc: doc, log: actionlog.New(actionlog.WithClock(func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}))}
}

func (r *recorder) do(fn func(s *schema.Schema) (mutate.Result, error)) {
	r.t.Helper()
	before := r.doc.Clone()
	res, err := fn(r.doc)
	require.NoError(r.t, err)
	r.log.Append(string(res.Op()), nil, res, before, r.doc)
}

func bookstore() *schema.Schema {
	s := schema.New(map[string]string{"migrations": "migrations"})
	s.Entities = append(s.Entities,
		&schema.Entity{Name: "Author", Fields: []*schema.Field{
			{Name: "id", Type: schema.TypeNumber, Primary: true, PrimaryAuto: true},
			{Name: "name", Type: schema.TypeString},
		}},
		&schema.Entity{Name: "Book", Fields: []*schema.Field{
			{Name: "id", Type: schema.TypeString, Primary: true, PrimaryAuto: true},
			{Name: "author", Type: "Author"},
			{Name: "title", Type: schema.TypeString, Nullable: true},
		}},
	)
	return s
}

// fullSession exercises every registered mutation, plus an action edit
// that has no storage impact.
func fullSession(t *testing.T) *recorder {
	r := newRecorder(t, bookstore())
	r.do(func(s *schema.Schema) (mutate.Result, error) {
		return mutate.CreateEntity(s, "Tag", []*schema.Field{
			{Name: "id", Type: schema.TypeInteger, Primary: true, PrimaryAuto: true},
			{Name: "label", Type: schema.TypeString},
			{Name: "book", Type: "Book", Nullable: true},
		})
	})
	r.do(func(s *schema.Schema) (mutate.Result, error) {
		return mutate.AddField(s, "Author", &schema.Field{Name: "bio", Type: schema.TypeString, Nullable: true})
	})
	r.do(func(s *schema.Schema) (mutate.Result, error) {
		return mutate.RenameField(s, "Book", "title", "headline")
	})
	r.do(func(s *schema.Schema) (mutate.Result, error) {
		return mutate.SetFieldType(s, "Author", "id", &schema.Field{Type: schema.TypeString, Primary: true, PrimaryAuto: true})
	})
	r.do(func(s *schema.Schema) (mutate.Result, error) {
		return mutate.DropField(s, "Author", "id")
	})
	r.do(func(s *schema.Schema) (mutate.Result, error) {
		return mutate.RenameEntity(s, "Author", "Writer")
	})
	r.do(func(s *schema.Schema) (mutate.Result, error) {
		return mutate.SetFieldType(s, "Book", "headline", &schema.Field{Type: schema.TypeString, Array: true, Nullable: true})
	})
	r.do(func(s *schema.Schema) (mutate.Result, error) {
		return mutate.CreateAction(s, "books.list", &schema.Action{Type: schema.ActionRead, Returns: "Book", ReturnsArray: true})
	})
	r.do(func(s *schema.Schema) (mutate.Result, error) {
		return mutate.DropField(s, "Tag", "label")
	})
	r.do(func(s *schema.Schema) (mutate.Result, error) {
		return mutate.DropEntity(s, "Writer")
	})
	return r
}
