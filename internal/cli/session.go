package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ergochat/readline"
	"github.com/mattn/go-isatty"

	"github.com/aidanlsb/modeler/internal/prompt"
	"github.com/aidanlsb/modeler/internal/schema"
	"github.com/aidanlsb/modeler/internal/session"
	"github.com/aidanlsb/modeler/internal/ui"
)

// historyFile keeps command history per project.
const historyFile = ".modeler_history"

func runSession(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	opts := session.Options{
		Dir:        resolvedDir,
		Config:     getConfig(),
		ConfigPath: resolvedConfigPath,
		Out:        os.Stdout,
		Logger:     logger,
	}

	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		// Piped input: commands and answers are read line by line.
		path := opts.Config.SchemaPath(resolvedDir, schema.DefaultFile)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return handleError(ErrNotInteractive, fmt.Errorf("no data model found at %s", path), "Run modeler in a terminal to create one")
		}
		stream := prompt.NewStream(os.Stdin, os.Stdout)
		opts.Prompter = stream
		opts.Reader = stream
		return start(ctx, opts)
	}

	completer := &session.Completer{}
	rl, err := readline.NewFromConfig(&readline.Config{
		Prompt:          ui.Accent.Render(session.Prompt),
		HistoryFile:     filepath.Join(resolvedDir, historyFile),
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return handleError(ErrInternal, err, "")
	}
	defer rl.Close()

	term := prompt.NewTerminal(rl, os.Stdout, ui.Accent.Render(session.Prompt))
	completer.Enabled = term.Completing
	opts.Prompter = term
	opts.Reader = term
	opts.Width = ui.DetectDisplay(os.Stdout).ContentWidth()

	return start(ctx, opts, func(s *session.Session) {
		completer.Resolver = s.Resolver()
		fmt.Fprintln(os.Stdout, ui.Hint("Editing "+s.SchemaPath()+". Type help to list the commands, tab to complete."))
	})
}

func start(ctx context.Context, opts session.Options, ready ...func(*session.Session)) error {
	s, err := session.Open(ctx, opts)
	if errors.Is(err, session.ErrDeclined) {
		fmt.Fprintln(os.Stdout, ui.Hint("Nothing to edit. Bye."))
		return nil
	}
	if errors.Is(err, prompt.ErrAborted) {
		return nil
	}
	if err != nil {
		return handleError(ErrSchemaInvalid, err, "Fix the document by hand or move it away to start over")
	}
	for _, fn := range ready {
		fn(s)
	}
	if err := s.Run(ctx); err != nil {
		return handleError(ErrInternal, err, "")
	}
	if isJSONOutput() {
		doc := s.Schema()
		outputSuccess(map[string]interface{}{
			"file":       s.SchemaPath(),
			"entities":   len(doc.Entities),
			"actions":    len(doc.ActionIDs()),
			"migrations": s.MigrationsDir(),
		})
	}
	return nil
}
