// Package repl drives the interactive read-eval-print loop: build a
// command resolver over $PATH, load history, then alternate printing a
// prompt, reading a line, and running it as a pipeline until exit is
// requested. Shaped after fluid-cli/cmd/fluid-cli/main.go's runTUI:
// config load, service init, run loop, persist-on-exit — with the
// bubbletea model swapped for a raw-mode read/edit/execute loop.
package repl

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aspectrr/gosh/internal/builtin"
	"github.com/aspectrr/gosh/internal/catalog"
	"github.com/aspectrr/gosh/internal/config"
	"github.com/aspectrr/gosh/internal/history"
	"github.com/aspectrr/gosh/internal/lineedit"
	"github.com/aspectrr/gosh/internal/pipeline"
	"github.com/aspectrr/gosh/internal/resolve"
	"github.com/aspectrr/gosh/internal/shellstate"
	"github.com/aspectrr/gosh/internal/terminal"
)

// Session bundles the long-lived state of one shell run: the resolved
// command catalog, the history store, and the logger everything
// reports to.
type Session struct {
	Config      *config.Config
	Catalog     *catalog.Catalog
	Resolver    *resolve.Resolver
	History     *history.Store
	HistoryPath string
	Logger      *slog.Logger
}

// New builds a session: scans $PATH into a catalog (consulting cache
// if non-nil) and best-effort loads the configured history file.
func New(cfg *config.Config, cache *catalog.Cache, historyPath string, logger *slog.Logger) *Session {
	cat := catalog.Build(splitPath(os.Getenv("PATH")), cache)
	resolver := &resolve.Resolver{Catalog: cat}

	hist := history.New()
	if err := hist.ReadFile(historyPath); err != nil {
		logger.Debug("no history file loaded", "path", historyPath, "error", err)
	}

	return &Session{
		Config:      cfg,
		Catalog:     cat,
		Resolver:    resolver,
		History:     hist,
		HistoryPath: historyPath,
		Logger:      logger,
	}
}

func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, string(os.PathListSeparator))
}

// Run executes the read-eval-print loop over in/out until the exit
// builtin is invoked (directly, or via Ctrl-D) or the key decoder
// hits EOF. History is persisted to HistoryPath on every exit path.
func (s *Session) Run(in io.Reader, out io.Writer) error {
	state := shellstate.NewState()
	editor := lineedit.New(terminal.NewDecoder(in), out, s.Resolver, s.Config.Prompt)

	deps := &pipeline.Deps{
		Resolver: s.Resolver,
		Builtin: &builtin.Deps{
			State:    state,
			Resolver: s.Resolver,
			History:  s.History,
		},
		Stdin:  os.Stdin,
		Stdout: out,
		Stderr: os.Stderr,
	}

	for state.Control != shellstate.ExitRequested {
		fmt.Fprint(out, s.Config.Prompt)

		line, err := editor.ReadLine()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.Logger.Error("read line", "error", err)
			}
			break
		}
		if line == "" {
			continue
		}

		s.History.Push(line)
		if err := pipeline.Run(line, deps); err != nil {
			s.Logger.Error("pipeline run", "error", err)
		}
	}

	if err := s.History.WriteFile(s.HistoryPath, s.Config.HistoryLimit); err != nil {
		s.Logger.Warn("history save", "path", s.HistoryPath, "error", err)
	}
	return nil
}
