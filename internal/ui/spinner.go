package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
)

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

const spinnerInterval = 80 * time.Millisecond

// IsTerminal reports whether w is a terminal file.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// WithSpinner runs fn while animating message on out. Nothing is drawn when
// out is not a terminal. The spinner line is cleared before WithSpinner
// returns fn's error.
func WithSpinner(out io.Writer, message string, fn func() error) error {
	if !IsTerminal(out) {
		return fn()
	}

	stop := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()
		for i := 0; ; i++ {
			fmt.Fprintf(out, "\r%s %s", Accent.Render(string(spinnerFrames[i%len(spinnerFrames)])), message)
			select {
			case <-stop:
				fmt.Fprint(out, "\r\033[K")
				return
			case <-ticker.C:
			}
		}
	}()

	err := fn()
	close(stop)
	<-stopped
	return err
}
