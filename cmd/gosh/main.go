// Command gosh is an interactive POSIX-flavoured shell: raw-mode line
// editing with tab completion, pipelines, redirection, and a small set
// of builtins, shaped after fluid-cli/cmd/fluid-cli/main.go's cobra
// root command and config/log/service wiring.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aspectrr/gosh/internal/catalog"
	"github.com/aspectrr/gosh/internal/config"
	"github.com/aspectrr/gosh/internal/doctor"
	"github.com/aspectrr/gosh/internal/gshlog"
	"github.com/aspectrr/gosh/internal/mcpsrv"
	"github.com/aspectrr/gosh/internal/paths"
	"github.com/aspectrr/gosh/internal/repl"
	"github.com/aspectrr/gosh/internal/terminal"
)

var cfgFile string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "gosh: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gosh",
	Short: "gosh is a small interactive POSIX-flavoured shell",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShell()
	},
}

var mcpCmd = &cobra.Command{
	Use:    "mcp",
	Short:  "Start a read-only MCP introspection server on stdio",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCP()
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the local shell environment is usable",
	RunE: func(cmd *cobra.Command, args []string) error {
		results := doctor.RunAll()
		allPassed := doctor.PrintResults(results, os.Stdout)
		if !allPassed {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/gosh/config.yaml)")
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(doctorCmd)
}

func resolveConfigPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	return paths.ConfigFile()
}

func openSession() (*repl.Session, func(), error) {
	configPath, err := resolveConfigPath()
	if err != nil {
		return nil, nil, fmt.Errorf("determine config path: %w", err)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logPath, err := paths.LogFile()
	if err != nil {
		return nil, nil, fmt.Errorf("determine log path: %w", err)
	}
	if err := paths.EnsureDir(filepath.Dir(logPath)); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	logger, logCloser, err := gshlog.Open(logPath, gshlog.ParseLevel(cfg.LogLevel))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open log file %s: %v\n", logPath, err)
	}

	cacheFile, err := paths.CatalogCacheFile()
	if err != nil {
		return nil, nil, fmt.Errorf("determine catalog cache path: %w", err)
	}
	if err := paths.EnsureDir(filepath.Dir(cacheFile)); err != nil {
		return nil, nil, fmt.Errorf("create catalog cache dir: %w", err)
	}
	cache, err := catalog.OpenCache(cacheFile)
	if err != nil {
		logger.Warn("catalog cache unavailable, rescanning every start", "error", err)
		cache = nil
	}

	histPath := cfg.HistoryFile
	if histPath == "" {
		histPath, err = paths.HistoryFile()
		if err != nil {
			return nil, nil, fmt.Errorf("determine history path: %w", err)
		}
	}
	if err := paths.EnsureDir(filepath.Dir(histPath)); err != nil {
		return nil, nil, fmt.Errorf("create history dir: %w", err)
	}

	sess := repl.New(cfg, cache, histPath, logger)

	cleanup := func() {
		if cache != nil {
			_ = cache.Close()
		}
		_ = logCloser.Close()
	}
	return sess, cleanup, nil
}

func runShell() error {
	sess, cleanup, err := openSession()
	if err != nil {
		return err
	}
	defer cleanup()

	guard, err := terminal.EnterRaw(terminal.StdinFD())
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	defer func() { _ = guard.Release() }()

	return sess.Run(os.Stdin, os.Stdout)
}

func runMCP() error {
	sess, cleanup, err := openSession()
	if err != nil {
		return err
	}
	defer cleanup()

	srv := mcpsrv.NewServer(sess.Resolver, sess.History, sess.Logger)
	return srv.Serve()
}
