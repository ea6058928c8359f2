// Package builtin implements the six in-process builtins, generalised
// from original_source/src/builtin.rs's Builtin enum. Every builtin
// writes through its command's stdout/stderr sinks rather than the
// process's own streams, so it composes correctly inside a pipeline.
package builtin

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aspectrr/gosh/internal/history"
	"github.com/aspectrr/gosh/internal/shellstate"
)

// Resolver resolves a command name to its CommandKind, used by `type` to
// classify each of its operands (builtin, program, or not found).
type Resolver interface {
	Resolve(name string) shellstate.CommandKind
}

// Deps bundles the external state builtins need: the shell's long-lived
// state, the command resolver, and the history store.
type Deps struct {
	State    *shellstate.State
	Resolver Resolver
	History  *history.Store
}

// Run executes a builtin command, writing to stdout/stderr and mutating
// deps.State as needed (exit, cd). Returns an error only for conditions
// that should be logged; builtin-level user errors are written to
// stderr directly and do not propagate.
func Run(name shellstate.BuiltinName, args []string, stdout, stderr io.Writer, deps *Deps) error {
	switch name {
	case shellstate.BuiltinExit:
		deps.State.Control = shellstate.ExitRequested
		return nil
	case shellstate.BuiltinType:
		return runType(args, stdout, stderr, deps.Resolver)
	case shellstate.BuiltinEcho:
		_, err := fmt.Fprintln(stdout, strings.Join(args, " "))
		return err
	case shellstate.BuiltinPwd:
		return runPwd(stdout)
	case shellstate.BuiltinCd:
		return runCd(args, stderr)
	case shellstate.BuiltinHistory:
		return runHistory(args, stdout, stderr, deps.History)
	default:
		return fmt.Errorf("builtin: unknown builtin %q", name)
	}
}

// runType resolves every operand independently: the Rust original
// (original_source/src/builtin.rs) recurses CommandKind::parse per
// argument, so `type type` reports "type is a shell builtin" rather than
// only ever resolving programs.
func runType(args []string, stdout, stderr io.Writer, resolver Resolver) error {
	for _, arg := range args {
		kind := resolver.Resolve(arg)
		switch kind.Variant {
		case shellstate.KindBuiltin:
			fmt.Fprintf(stdout, "%s is a shell builtin\n", kind.Builtin)
		case shellstate.KindProgram:
			fmt.Fprintln(stdout, kind.ResolvedPath)
		case shellstate.KindNotFound:
			fmt.Fprintf(stderr, "%s: not found\n", kind.Name)
		}
	}
	return nil
}

func runPwd(stdout io.Writer) error {
	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("pwd: %w", err)
	}
	_, err = fmt.Fprintln(stdout, dir)
	return err
}

func runCd(args []string, stderr io.Writer) error {
	target := "~"
	if len(args) > 0 {
		target = args[0]
	}
	home := os.Getenv("HOME")
	target = strings.ReplaceAll(target, "~", home)

	if err := os.Chdir(target); err != nil {
		fmt.Fprintf(stderr, "%s: No such file or directory\n", target)
	}
	return nil
}

func runHistory(args []string, stdout, stderr io.Writer, store *history.Store) error {
	var (
		readPath, writePath, appendPath string
		numeric                         = -1
	)

	i := 0
	for i < len(args) {
		switch args[i] {
		case "-r":
			if i+1 >= len(args) {
				fmt.Fprintln(stderr, "history: -r requires a file argument")
				return nil
			}
			readPath = args[i+1]
			i += 2
		case "-w":
			if i+1 >= len(args) {
				fmt.Fprintln(stderr, "history: -w requires a file argument")
				return nil
			}
			writePath = args[i+1]
			i += 2
		case "-a":
			if i+1 >= len(args) {
				fmt.Fprintln(stderr, "history: -a requires a file argument")
				return nil
			}
			appendPath = args[i+1]
			i += 2
		default:
			n, err := strconv.Atoi(args[i])
			if err != nil {
				fmt.Fprintf(stderr, "history: invalid argument %q\n", args[i])
				return nil
			}
			numeric = n
			i++
		}
	}

	if writePath != "" && appendPath != "" {
		fmt.Fprintln(stderr, "history: -w and -a are mutually exclusive")
		return nil
	}
	if readPath != "" && (writePath != "" || appendPath != "" || numeric >= 0) {
		fmt.Fprintln(stderr, "history: -r cannot be combined with -w, -a, or a numeric argument")
		return nil
	}
	if appendPath != "" && numeric >= 0 {
		fmt.Fprintln(stderr, "history: -a cannot be combined with a numeric argument")
		return nil
	}

	switch {
	case readPath != "":
		if err := store.ReadFile(readPath); err != nil {
			fmt.Fprintf(stderr, "history: %v\n", err)
		}
	case writePath != "":
		if err := store.WriteFile(writePath, numericOrZero(numeric)); err != nil {
			fmt.Fprintf(stderr, "history: %v\n", err)
		}
	case appendPath != "":
		if err := store.AppendFile(appendPath); err != nil {
			fmt.Fprintf(stderr, "history: %v\n", err)
		}
	default:
		fmt.Fprint(stdout, store.Show(numericOrZero(numeric)))
	}
	return nil
}

func numericOrZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
