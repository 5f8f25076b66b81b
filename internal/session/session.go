// Package session runs the interactive editing loop: read a command line,
// resolve it against the command grammar, execute it, then persist the
// document and regenerate the migration scripts of the session.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aidanlsb/modeler/internal/actionlog"
	"github.com/aidanlsb/modeler/internal/commands"
	"github.com/aidanlsb/modeler/internal/config"
	"github.com/aidanlsb/modeler/internal/grammar"
	"github.com/aidanlsb/modeler/internal/migrate"
	"github.com/aidanlsb/modeler/internal/mutate"
	"github.com/aidanlsb/modeler/internal/prompt"
	"github.com/aidanlsb/modeler/internal/schema"
	"github.com/aidanlsb/modeler/internal/ui"
)

// Prompt is shown before every command line.
const Prompt = "modeler> "

// LineReader reads command lines. It returns io.EOF when input ends and
// prompt.ErrAborted when the user interrupts the current line.
type LineReader interface {
	ReadCommand() (string, error)
}

// Options configures a session.
type Options struct {
	// Dir is the project directory.
	Dir string
	// Config is the loaded project configuration.
	Config *config.Config
	// ConfigPath is where the setup dialogue records its choices.
	ConfigPath string
	Prompter   prompt.Prompter
	Reader     LineReader
	Out        io.Writer
	Logger     *zap.Logger
	// Clock stamps log entries and so names the migration scripts.
	Clock func() time.Time
	// Width is the markdown rendering width. Zero prints markdown as is.
	Width int
}

// Session is one interactive editing run.
type Session struct {
	opts       Options
	cfg        *config.Config
	schemaPath string
	resolver   *grammar.Resolver
	log        *actionlog.Log
	deriver    *migrate.Deriver
	dialect    migrate.Dialect
	logger     *zap.Logger
	out        io.Writer
}

// Open loads the document, running the setup dialogue when it does not
// exist yet. A document that exists but cannot be parsed is an error.
func Open(ctx context.Context, opts Options) (*Session, error) {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = filepath.Join(opts.Dir, config.FileName)
	}
	dialect, err := migrate.LookupDialect(opts.Config.Dialect())
	if err != nil {
		return nil, err
	}

	s := &Session{
		opts:       opts,
		cfg:        opts.Config,
		schemaPath: opts.Config.SchemaPath(opts.Dir, schema.DefaultFile),
		dialect:    dialect,
		logger:     opts.Logger,
		out:        opts.Out,
	}

	doc, err := schema.Load(s.schemaPath)
	switch {
	case errors.Is(err, schema.ErrNotExist):
		doc, err = s.setup()
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}
	for _, issue := range schema.Validate(doc) {
		s.logger.Warn("schema integrity issue", zap.String("path", issue.Path), zap.String("message", issue.Message))
		fmt.Fprintln(s.out, ui.Warning(issue.String()))
	}

	tree, err := commands.NewTree(opts.Prompter, opts.Out)
	if err != nil {
		return nil, err
	}
	var logOpts []actionlog.Option
	if opts.Clock != nil {
		logOpts = append(logOpts, actionlog.WithClock(opts.Clock))
	}
	s.log = actionlog.New(logOpts...)
	s.resolver = grammar.NewResolver(tree, doc, s.log, grammar.WithLogger(s.logger))
	s.deriver = migrate.NewDeriver(migrate.DefaultRegistry(), s.logger)
	return s, nil
}

// Resolver returns the grammar resolver over the live document.
func (s *Session) Resolver() *grammar.Resolver { return s.resolver }

// Schema returns the live document.
func (s *Session) Schema() *schema.Schema { return s.resolver.Schema() }

// SchemaPath returns the path the document is saved to.
func (s *Session) SchemaPath() string { return s.schemaPath }

// Run reads and handles command lines until exit, end of input or a fatal
// error.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := s.opts.Reader.ReadCommand()
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, prompt.ErrAborted):
			continue
		case err != nil:
			return fmt.Errorf("failed to read command: %w", err)
		}
		done, err := s.Handle(ctx, line)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// Handle processes one command line. It reports whether the session should
// end. Only failures to persist are returned as errors; everything else is
// reported inline and the session continues.
func (s *Session) Handle(ctx context.Context, line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}
	if !s.resolver.Validate(line) {
		msg := fmt.Sprintf("not a complete command: %s", line)
		if candidates := s.resolver.Suggest(line); len(candidates) > 0 && len(candidates) <= 5 {
			msg += " (did you mean " + strings.Join(candidates, ", ") + "?)"
		}
		fmt.Fprintln(s.out, ui.Error(msg))
		fmt.Fprintln(s.out, ui.Hint("Type help to list the commands."))
		return false, nil
	}

	exec, err := s.resolver.Execute(ctx, line)
	if err != nil {
		s.report(err)
		return false, nil
	}

	switch res := exec.Result.(type) {
	case commands.Exit:
		return true, nil
	case *commands.Description:
		s.render(res.Markdown)
		return false, nil
	case *commands.Help:
		s.render(commands.HelpMarkdown(res))
		return false, nil
	case mutate.Result:
		fmt.Fprintln(s.out, ui.Success(commands.Summarize(res)))
	}

	if exec.Entry == nil {
		return false, nil
	}
	if err := schema.Save(s.schemaPath, s.resolver.Schema()); err != nil {
		return false, err
	}
	if err := s.regenerate(ctx); err != nil {
		return false, err
	}
	return false, nil
}

func (s *Session) report(err error) {
	var lookup *schema.LookupError
	var conflict *mutate.ConflictError
	switch {
	case errors.Is(err, prompt.ErrAborted):
		fmt.Fprintln(s.out, ui.Warning("Cancelled, nothing was changed"))
	case errors.As(err, &lookup), errors.As(err, &conflict):
		fmt.Fprintln(s.out, ui.Error(err.Error()))
	default:
		s.logger.Debug("command failed", zap.Error(err))
		fmt.Fprintln(s.out, ui.Error(err.Error()))
	}
}

func (s *Session) render(md string) {
	if s.opts.Width <= 0 {
		fmt.Fprint(s.out, md)
		return
	}
	out, err := ui.RenderMarkdown(md, s.opts.Width)
	if err != nil {
		s.logger.Debug("markdown rendering failed", zap.Error(err))
		out = md
	}
	fmt.Fprint(s.out, out)
}

// MigrationsDir returns the directory scripts are written to, or "" when the
// document configures none.
func (s *Session) MigrationsDir() string {
	dir := strings.TrimSpace(s.resolver.Schema().Paths["migrations"])
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(s.opts.Dir, dir)
}

// regenerate rewrites the migration pair from the whole session log.
func (s *Session) regenerate(ctx context.Context) error {
	dir := s.MigrationsDir()
	if dir == "" {
		return nil
	}
	em := &migrate.Emitter{
		Dir:     dir,
		Name:    s.cfg.MigrationName(migrate.DefaultName),
		Dialect: s.dialect,
		Deriver: s.deriver,
	}
	entries := s.log.Entries()
	files, script, err := em.Emit(entries)
	if err != nil {
		return err
	}
	if files == nil {
		return nil
	}
	s.logger.Debug("migrations written",
		zap.String("up", files.Up),
		zap.String("down", files.Down),
		zap.Int("up_statements", len(script.Up)),
		zap.Int("down_statements", len(script.Down)),
	)
	fmt.Fprintln(s.out, ui.Hint("Migrations: "+filepath.Base(files.Up)))

	if !s.cfg.VerifyMigrations() || script.Empty() {
		return nil
	}
	verr := ui.WithSpinner(s.out, "Verifying migrations...", func() error {
		return migrate.Verify(ctx, entries[0].Before, script)
	})
	if verr != nil {
		s.logger.Warn("migration verification failed", zap.Error(verr))
		fmt.Fprintln(s.out, ui.Warning("Migration check failed: "+verr.Error()))
	}
	return nil
}
