// Package migrate derives reversible storage migrations from the action log.
// Each logged mutation maps to a pair of generators producing dialect-neutral
// statements; dialects render them as SQL.
package migrate

// Storage types a column can take. Primitive field types map onto the
// first six directly.
const (
	ColString     = "string"
	ColNumber     = "number"
	ColInteger    = "integer"
	ColBoolean    = "boolean"
	ColDate       = "date"
	ColDatetime   = "datetime"
	ColJSON       = "json"
	ColIncrements = "increments"
	ColUUID       = "uuid"
)

// DefaultUUID is the default expression of generated string primary keys.
const DefaultUUID = "uuid_generate_v4()"

// Column describes one storage column.
type Column struct {
	Name    string
	Type    string
	NotNull bool
	Primary bool
	// Default is a raw SQL expression, empty for none.
	Default string
}

// Statement is one dialect-neutral schema change.
type Statement interface {
	statement()
}

type CreateTable struct {
	Table   string
	Columns []Column
}

type DropTable struct {
	Table string
}

type RenameTable struct {
	From, To string
}

// AddColumn and DropColumn carry Target, the whole table after the
// statement, when the column is a key. Dialects that cannot add or drop a
// key in place rebuild the table from it.
type AddColumn struct {
	Table  string
	Column Column
	Target *CreateTable
}

type DropColumn struct {
	Table  string
	Column string
	Target *CreateTable
}

type RenameColumn struct {
	Table    string
	From, To string
}

// AlterColumn redefines an existing column in place. Target is the whole
// table after the change, for dialects that rebuild instead.
type AlterColumn struct {
	Table  string
	Column Column
	Target *CreateTable
}

func (CreateTable) statement()  {}
func (DropTable) statement()    {}
func (RenameTable) statement()  {}
func (AddColumn) statement()    {}
func (DropColumn) statement()   {}
func (RenameColumn) statement() {}
func (AlterColumn) statement()  {}
