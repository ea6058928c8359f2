// Package shellstate holds the data model shared by the shell's engines:
// commands, pipelines, I/O sinks, and the long-lived shell state threaded
// through a REPL session.
package shellstate

import (
	"fmt"
	"io"
	"os"
)

// ControlFlow drives REPL termination.
type ControlFlow int

const (
	Repl ControlFlow = iota
	ExitRequested
)

// BuiltinName is one of the six in-process builtins.
type BuiltinName string

const (
	BuiltinExit    BuiltinName = "exit"
	BuiltinType    BuiltinName = "type"
	BuiltinEcho    BuiltinName = "echo"
	BuiltinPwd     BuiltinName = "pwd"
	BuiltinCd      BuiltinName = "cd"
	BuiltinHistory BuiltinName = "history"
)

// BuiltinNames lists all builtins in a stable order, used by completion
// and by `type`'s self-recognition.
var BuiltinNames = []BuiltinName{BuiltinExit, BuiltinType, BuiltinEcho, BuiltinPwd, BuiltinCd, BuiltinHistory}

// IsBuiltin reports whether name resolves to one of the six builtins.
func IsBuiltin(name string) (BuiltinName, bool) {
	for _, b := range BuiltinNames {
		if string(b) == name {
			return b, true
		}
	}
	return "", false
}

// CommandKind is a tagged union: builtin, resolved external program, or
// unresolved name.
type CommandKind struct {
	Builtin      BuiltinName // non-empty iff Variant == KindBuiltin
	ResolvedPath string      // non-empty iff Variant == KindProgram
	Name         string      // original name, always set; used by KindNotFound
	Variant      KindVariant
}

type KindVariant int

const (
	KindBuiltin KindVariant = iota
	KindProgram
	KindNotFound
)

// SinkKind tags the variants of a Sink.
type SinkKind int

const (
	SinkDefault SinkKind = iota
	SinkFile
	SinkPipe
)

// Sink is one of: the default inherited stream, a create-truncate or
// create-append file, or the write end of an anonymous pipe.
type Sink struct {
	Kind   SinkKind
	Path   string // set when Kind == SinkFile
	Append bool   // set when Kind == SinkFile
	Writer io.WriteCloser // set when Kind == SinkPipe
}

// Open resolves the sink to a writer, opening a file if necessary. The
// returned closer (if non-nil) must be closed by the caller once writing
// is finished. def is the stream to use for SinkDefault.
func (s *Sink) Open(def io.Writer) (io.Writer, io.Closer, error) {
	switch s.Kind {
	case SinkDefault:
		return def, nil, nil
	case SinkPipe:
		return s.Writer, s.Writer, nil
	case SinkFile:
		flags := os.O_CREATE | os.O_WRONLY
		if s.Append {
			flags |= os.O_APPEND
		} else {
			flags |= os.O_TRUNC
		}
		f, err := os.OpenFile(s.Path, flags, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", s.Path, err)
		}
		return f, f, nil
	default:
		return def, nil, nil
	}
}

// Command is a single pipeline stage: its resolved kind, its argument
// vector after redirection stripping, and its stdout/stderr sinks.
type Command struct {
	Kind   CommandKind
	Args   []string // args[0] is the command name, args[1:] are the operands
	Stdout Sink
	Stderr Sink
	Stdin  io.ReadCloser // nil => inherit
}

// Pipeline is an ordered sequence of commands connected stdout-to-stdin.
type Pipeline []*Command

// State is the shell's long-lived, per-session state. Command history
// itself lives in history.Store, which the repl threads through
// alongside State; State only tracks REPL-level control flow.
type State struct {
	Control ControlFlow
	Cwd     string
}

// NewState returns a freshly initialised shell state.
func NewState() *State {
	return &State{Control: Repl}
}
