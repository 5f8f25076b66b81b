package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidanlsb/modeler/internal/actionlog"
	"github.com/aidanlsb/modeler/internal/grammar"
	"github.com/aidanlsb/modeler/internal/mutate"
	"github.com/aidanlsb/modeler/internal/prompt"
	"github.com/aidanlsb/modeler/internal/schema"
)

type session struct {
	r   *grammar.Resolver
	s   *schema.Schema
	log *actionlog.Log
	p   *prompt.Scripted
	out *bytes.Buffer
}

func newSession(t *testing.T, s *schema.Schema, answers ...string) *session {
	t.Helper()
	p := prompt.NewScripted(answers...)
	out := &bytes.Buffer{}
	tree, err := NewTree(p, out)
	require.NoError(t, err)
	log := actionlog.New()
	return &session{r: grammar.NewResolver(tree, s, log), s: s, log: log, p: p, out: out}
}

func (ss *session) run(t *testing.T, input string) *grammar.Execution {
	t.Helper()
	exec, err := ss.r.Execute(context.Background(), input)
	require.NoError(t, err, input)
	return exec
}

func shop() *schema.Schema {
	s := schema.New(nil)
	s.Entities = append(s.Entities,
		&schema.Entity{Name: "Customer", Fields: []*schema.Field{
			{Name: "id", Type: schema.TypeNumber, Primary: true, PrimaryAuto: true},
			{Name: "email", Type: schema.TypeString},
		}},
		&schema.Entity{Name: "Order", Fields: []*schema.Field{
			{Name: "id", Type: schema.TypeNumber, Primary: true, PrimaryAuto: true},
			{Name: "customer", Type: "Customer"},
		}},
	)
	s.Actions["orders"] = []*schema.Action{
		{Name: "byCustomer", Type: schema.ActionRead, Returns: "Order", ReturnsArray: true, Arguments: []*schema.Field{
			{Name: "customer", Type: "Customer"},
			{Name: "limit", Type: schema.TypeInteger, Nullable: true},
		}},
	}
	return s
}

func TestTreeIsValid(t *testing.T) {
	tree, err := NewTree(prompt.NewScripted(), &bytes.Buffer{})
	require.NoError(t, err)

	var usages []string
	for _, c := range tree.Commands() {
		usages = append(usages, c.Usage)
		assert.NotEmpty(t, c.Action.Description, c.Usage)
	}
	assert.Contains(t, usages, "alter entity <entityId> modify field <fieldId> set type")
	assert.Contains(t, usages, "alter action <actionId> modify arguments drop <argumentName>")
	assert.Contains(t, usages, "exit")
}

func TestCreateEntity(t *testing.T) {
	ss := newSession(t, shop(),
		"Product", // entity name
		"sku",     // field name
		"string",  // type
		"n",       // array
		"y",       // primary
		"n",       // auto generated
		"n",       // nullable
		"y",       // another field
		"price",   // field name
		"number",  // type
		"",        // array, default no
		"",        // primary, default no
		"y",       // nullable
		"",        // another field, default no
	)

	exec := ss.run(t, "create entity")
	require.NotNil(t, exec.Entry)
	assert.Equal(t, string(mutate.OpCreateEntity), exec.Entry.Command)
	assert.Equal(t, "Product", exec.Entry.Param(ParamName))
	assert.Zero(t, ss.p.Remaining())
	assert.Contains(t, ss.out.String(), "at least one field")

	e, err := ss.s.FindEntity("Product")
	require.NoError(t, err)
	require.Len(t, e.Fields, 2)
	assert.Equal(t, &schema.Field{Name: "sku", Type: schema.TypeString, Primary: true}, e.Fields[0])
	assert.Equal(t, &schema.Field{Name: "price", Type: schema.TypeNumber, Nullable: true}, e.Fields[1])
	assert.Equal(t, "Created entity Product with 2 fields", Summarize(exec.Result.(mutate.Result)))
}

func TestCreateEntityRejectsDuplicate(t *testing.T) {
	s := shop()
	ss := newSession(t, s, "Customer")
	_, err := ss.r.Execute(context.Background(), "create entity")
	var conflict *mutate.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{"Customer", "Order"}, s.EntityNames())
	assert.Zero(t, ss.log.Len())
}

func TestCreateEntitySelfReference(t *testing.T) {
	ss := newSession(t, shop(),
		"Category", "id", "integer", "n", "y", "y", "n", "y",
		"parent", "Category", "n", "n", "y", "n",
	)
	ss.run(t, "create entity")
	_, f, err := ss.s.FindField("Category", "parent")
	require.NoError(t, err)
	assert.Equal(t, "Category", f.Type)
}

func TestRenameEntityUpdatesReferences(t *testing.T) {
	ss := newSession(t, shop(), "Client")
	exec := ss.run(t, "alter entity Customer modify name")

	assert.Equal(t, []string{"Client", "Order"}, ss.s.EntityNames())
	_, f, err := ss.s.FindField("Order", "customer")
	require.NoError(t, err)
	assert.Equal(t, "Client", f.Type)
	a, err := ss.s.FindAction("orders.byCustomer")
	require.NoError(t, err)
	assert.Equal(t, "Client", a.Arguments[0].Type)
	assert.Equal(t, "Client", exec.Entry.Param(ParamName))
	assert.Contains(t, Summarize(exec.Result.(mutate.Result)), "Order.customer")
}

func TestDropEntityReportsCascade(t *testing.T) {
	ss := newSession(t, shop())
	exec := ss.run(t, "drop entity Customer")

	assert.Equal(t, []string{"Order"}, ss.s.EntityNames())
	order, err := ss.s.FindEntity("Order")
	require.NoError(t, err)
	assert.Len(t, order.Fields, 1)

	summary := Summarize(exec.Result.(mutate.Result))
	assert.Contains(t, summary, "Dropped entity Customer")
	assert.Contains(t, summary, "removed field Order.customer")
	assert.Contains(t, summary, "removed argument orders.byCustomer(customer)")
	assert.Len(t, exec.Entry.Before.Entities, 2)
	assert.Len(t, exec.Entry.After.Entities, 1)
}

func TestDropEntityUnknownLeavesDocument(t *testing.T) {
	s := shop()
	ss := newSession(t, s)
	_, err := ss.r.Execute(context.Background(), "drop entity Ghost")
	require.Error(t, err)
	assert.True(t, schema.IsLookup(err))
	assert.Equal(t, "no entity found with name 'Ghost'", err.Error())
	assert.Len(t, s.Entities, 2)
	assert.Zero(t, ss.log.Len())
}

func TestFieldCommands(t *testing.T) {
	t.Run("add field", func(t *testing.T) {
		ss := newSession(t, shop(), "placedAt", "datetime", "n", "n", "n")
		exec := ss.run(t, "alter entity Order add field")
		_, f, err := ss.s.FindField("Order", "placedAt")
		require.NoError(t, err)
		assert.Equal(t, schema.TypeDatetime, f.Type)
		assert.Equal(t, "placedAt", exec.Entry.Param(ParamName))
	})

	t.Run("set type keeps the name and offers current values", func(t *testing.T) {
		ss := newSession(t, shop(), "", "y", "", "")
		ss.run(t, "alter entity Customer modify field email set type")
		_, f, err := ss.s.FindField("Customer", "email")
		require.NoError(t, err)
		assert.Equal(t, &schema.Field{Name: "email", Type: schema.TypeString, Array: true}, f)
		assert.Equal(t, "What's the type of the new field?", ss.p.Asked[0])
	})

	t.Run("rename", func(t *testing.T) {
		ss := newSession(t, shop(), "mail")
		ss.run(t, "alter entity Customer modify field email set name")
		assert.Equal(t, []string{"Customer.id", "Customer.mail"}, fieldPaths(ss.s, "Customer"))
	})

	t.Run("drop", func(t *testing.T) {
		ss := newSession(t, shop())
		exec := ss.run(t, "alter entity Customer modify field email drop")
		assert.Equal(t, []string{"Customer.id"}, fieldPaths(ss.s, "Customer"))
		assert.Equal(t, "Dropped field Customer.email", Summarize(exec.Result.(mutate.Result)))
	})

	t.Run("unknown field", func(t *testing.T) {
		ss := newSession(t, shop())
		_, err := ss.r.Execute(context.Background(), "alter entity Customer modify field phone drop")
		assert.True(t, schema.IsLookup(err))
	})
}

func fieldPaths(s *schema.Schema, entity string) []string {
	e, err := s.FindEntity(entity)
	if err != nil {
		return nil
	}
	var out []string
	for _, f := range e.Fields {
		out = append(out, e.Name+"."+f.Name)
	}
	return out
}

func TestActionCommands(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		ss := newSession(t, shop(),
			"customers.register", // id
			"create",             // kind
			"Customer",           // returns
			"n",                  // returns array
			"n",                  // returns nullable
			"y",                  // add argument
			"email", "string", "n", "n",
			"n", // no more arguments
		)
		exec := ss.run(t, "create action")
		a, err := ss.s.FindAction("customers.register")
		require.NoError(t, err)
		assert.Equal(t, schema.ActionCreate, a.Type)
		assert.Equal(t, "Customer", a.Returns)
		require.Len(t, a.Arguments, 1)
		assert.Equal(t, "email", a.Arguments[0].Name)
		assert.Equal(t, "customers.register", exec.Entry.Param(ParamAction))
		assert.Contains(t, Summarize(exec.Result.(mutate.Result)), "in new group customers")
	})

	t.Run("void return skips return flags", func(t *testing.T) {
		ss := newSession(t, shop(), "orders.purge", "delete", "", "n")
		ss.run(t, "create action")
		a, err := ss.s.FindAction("orders.purge")
		require.NoError(t, err)
		assert.Equal(t, schema.Void, a.Returns)
		assert.Zero(t, ss.p.Remaining())
	})

	t.Run("rename", func(t *testing.T) {
		ss := newSession(t, shop(), "forCustomer")
		ss.run(t, "alter action orders.byCustomer modify name")
		assert.Equal(t, []string{"orders.forCustomer"}, ss.s.ActionIDs())
	})

	t.Run("set kind", func(t *testing.T) {
		ss := newSession(t, shop(), "update")
		exec := ss.run(t, "alter action orders.byCustomer modify type")
		assert.Equal(t, "Changed orders.byCustomer from read to update", Summarize(exec.Result.(mutate.Result)))
	})

	t.Run("drop argument", func(t *testing.T) {
		ss := newSession(t, shop())
		ss.run(t, "alter action orders.byCustomer modify arguments drop limit")
		a, err := ss.s.FindAction("orders.byCustomer")
		require.NoError(t, err)
		assert.Len(t, a.Arguments, 1)
	})

	t.Run("drop", func(t *testing.T) {
		ss := newSession(t, shop())
		ss.run(t, "drop action orders.byCustomer")
		assert.Empty(t, ss.s.ActionIDs())
	})
}

func TestSuggestions(t *testing.T) {
	ss := newSession(t, shop())
	r := ss.r

	assert.Equal(t, []string{"drop entity Customer", "drop entity Order"}, r.Suggest("drop entity "))
	assert.Equal(t, []string{"alter entity Customer modify field email"}, r.Suggest("alter entity Customer modify field em"))
	assert.Equal(t, []string{"alter action orders.byCustomer modify arguments drop customer", "alter action orders.byCustomer modify arguments drop limit"},
		r.Suggest("alter action orders.byCustomer modify arguments drop "))
	assert.Equal(t, []string{"exit"}, r.Suggest("ex"))

	for _, line := range r.Suggest("describe entity ") {
		assert.True(t, r.Validate(line), line)
	}
	assert.True(t, r.Validate("quit"))
	assert.Equal(t, []string{"quit"}, r.Suggest("quit"))
}

func TestReadOnlyCommands(t *testing.T) {
	ss := newSession(t, shop())

	exec := ss.run(t, "describe entity Customer")
	d, ok := exec.Result.(*Description)
	require.True(t, ok)
	assert.Contains(t, d.Markdown, "| email | string | yes |")
	assert.Contains(t, d.Markdown, "Referenced by: Order.customer, orders.byCustomer(customer)")
	assert.Nil(t, exec.Entry)

	exec = ss.run(t, "describe action orders.byCustomer")
	d = exec.Result.(*Description)
	assert.Contains(t, d.Markdown, "returns **[Order]**")
	assert.Contains(t, d.Markdown, "| limit | integer |  |")

	exec = ss.run(t, "help")
	h, ok := exec.Result.(*Help)
	require.True(t, ok)
	assert.Contains(t, HelpMarkdown(h), "`drop entity <entityId>`")

	exec = ss.run(t, "quit")
	assert.Equal(t, Exit{}, exec.Result)
	assert.Zero(t, ss.log.Len())
}

func TestSchemaMarkdown(t *testing.T) {
	md := SchemaMarkdown(shop())
	assert.Contains(t, md, "## Customer")
	assert.Contains(t, md, "## orders.byCustomer")
	assert.Contains(t, SchemaMarkdown(schema.New(nil)), "No entities yet.")
}
