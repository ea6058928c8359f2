// Package pipeline splits an accepted input line on `|`, resolves and
// wires each stage, and runs the result: builtins execute in-process,
// external programs via os/exec, connected stdout-to-stdin with
// os.Pipe, generalised from original_source/src/main.rs's single-process
// command loop and fluid-cli/internal/hostexec/hostexec.go's exec.Cmd
// wiring.
package pipeline

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/aspectrr/gosh/internal/builtin"
	"github.com/aspectrr/gosh/internal/redirect"
	"github.com/aspectrr/gosh/internal/shellstate"
	"github.com/aspectrr/gosh/internal/words"
)

// Deps bundles what a pipeline needs to build and run its stages.
type Deps struct {
	Resolver builtin.Resolver
	Builtin  *builtin.Deps
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
}

// Run splits line on `|`, resolves each stage, and executes it. A
// syntax error from the word splitter or the redirection parser in any
// stage aborts the whole pipeline; everything else is reported to
// Stderr and does not stop the REPL.
func Run(line string, deps *Deps) error {
	cmds, err := build(line, deps.Resolver)
	if err != nil {
		fmt.Fprintln(deps.Stderr, err)
		return nil
	}
	if len(cmds) == 0 {
		return nil
	}
	return execute(cmds, deps)
}

func build(line string, resolver builtin.Resolver) ([]*shellstate.Command, error) {
	var cmds []*shellstate.Command
	for _, segment := range strings.Split(line, "|") {
		argv, err := words.Split(segment)
		if err != nil {
			return nil, err
		}
		if len(argv) == 0 {
			continue
		}

		residual, stdout, stderr, err := redirect.Parse(argv[1:])
		if err != nil {
			return nil, err
		}

		cmds = append(cmds, &shellstate.Command{
			Kind:   resolver.Resolve(argv[0]),
			Args:   append([]string{argv[0]}, residual...),
			Stdout: stdout,
			Stderr: stderr,
		})
	}
	return cmds, nil
}

// execute wires the resolved stages together and runs them. Builtins
// run synchronously as their stage is reached; external programs are
// started and reaped after the last stage finishes, with any stage
// still running at that point killed best-effort (e.g. `yes | head`).
func execute(cmds []*shellstate.Command, deps *Deps) error {
	n := len(cmds)
	pipeRead := make([]*os.File, n)
	pipeWrite := make([]*os.File, n)

	for i := 0; i < n-1; i++ {
		r, w, err := os.Pipe()
		if err != nil {
			return fmt.Errorf("pipeline: create pipe: %w", err)
		}
		pipeRead[i+1] = r
		pipeWrite[i] = w
	}

	procs := make([]*exec.Cmd, n)

	for i, cmd := range cmds {
		stdin := deps.Stdin
		if pipeRead[i] != nil {
			stdin = pipeRead[i]
		}

		stdoutWriter, stdoutCloser := resolveStageStdout(cmd, pipeWrite[i], deps.Stdout)
		stderrWriter, stderrCloser, err := cmd.Stderr.Open(deps.Stderr)
		if err != nil {
			fmt.Fprintln(deps.Stderr, err)
			stderrWriter = deps.Stderr
			stderrCloser = nil
		}

		switch cmd.Kind.Variant {
		case shellstate.KindNotFound:
			fmt.Fprintf(stderrWriter, "%s: command not found\n", cmd.Kind.Name)

		case shellstate.KindBuiltin:
			if err := builtin.Run(cmd.Kind.Builtin, cmd.Args[1:], stdoutWriter, stderrWriter, deps.Builtin); err != nil {
				fmt.Fprintf(stderrWriter, "%s: %v\n", cmd.Args[0], err)
			}

		case shellstate.KindProgram:
			ec := exec.Command(cmd.Kind.ResolvedPath, cmd.Args[1:]...)
			ec.Stdin = stdin
			ec.Stdout = stdoutWriter
			ec.Stderr = stderrWriter
			if err := ec.Start(); err != nil {
				fmt.Fprintf(stderrWriter, "%s: %v\n", cmd.Args[0], err)
			} else {
				procs[i] = ec
			}
		}

		closeIfNotNil(stdoutCloser)
		closeIfNotNil(stderrCloser)
		closeIfNotNil(pipeRead[i])
	}

	return reap(procs)
}

// resolveStageStdout decides a stage's stdout writer. Any stage but the
// last always writes to the pipe feeding the next stage, even if it
// also carries its own `>`/`>>` redirect: the upstream pipe wins over
// intra-stage redirection, so the redirect is simply discarded for that
// stage. Only the last stage's own redirect (or the pipeline's default
// sink) applies.
func resolveStageStdout(cmd *shellstate.Command, pipeW *os.File, def io.Writer) (io.Writer, io.Closer) {
	if pipeW != nil {
		return pipeW, pipeW
	}
	w, c, err := cmd.Stdout.Open(def)
	if err != nil {
		return def, nil
	}
	return w, c
}

// reap waits on the last external stage, then best-effort kills any
// earlier stage still running (an upstream producer like `yes` that
// never sees EOF on its own).
func reap(procs []*exec.Cmd) error {
	last := -1
	for i := len(procs) - 1; i >= 0; i-- {
		if procs[i] != nil {
			last = i
			break
		}
	}
	var lastErr error
	if last >= 0 {
		lastErr = procs[last].Wait()
	}
	for i := 0; i < last; i++ {
		p := procs[i]
		if p == nil || p.Process == nil {
			continue
		}
		_ = p.Process.Kill()
		_ = p.Wait()
	}
	if _, ok := lastErr.(*exec.ExitError); ok {
		return nil
	}
	return lastErr
}

func closeIfNotNil(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}
