// Package resolve implements CommandKind resolution (§3, §4.2): a name is
// first checked against the six builtins, then against the executable
// catalog, and failing both is reported NotFound.
package resolve

import (
	"github.com/aspectrr/gosh/internal/catalog"
	"github.com/aspectrr/gosh/internal/shellstate"
)

// Resolver resolves command names using a fixed executable catalog.
type Resolver struct {
	Catalog *catalog.Catalog
}

// Resolve implements builtin.Resolver and is used throughout the
// pipeline executor.
func (r *Resolver) Resolve(name string) shellstate.CommandKind {
	if b, ok := shellstate.IsBuiltin(name); ok {
		return shellstate.CommandKind{Variant: shellstate.KindBuiltin, Builtin: b, Name: name}
	}
	if path, ok := r.Catalog.Resolve(name); ok {
		return shellstate.CommandKind{Variant: shellstate.KindProgram, ResolvedPath: path, Name: name}
	}
	return shellstate.CommandKind{Variant: shellstate.KindNotFound, Name: name}
}

// Names implements lineedit.Completer: every builtin name plus every
// catalog basename, the candidate set tab completion prefix-matches
// against.
func (r *Resolver) Names() []string {
	names := make([]string, 0, len(shellstate.BuiltinNames))
	for _, b := range shellstate.BuiltinNames {
		names = append(names, string(b))
	}
	return append(names, r.Catalog.List()...)
}

// IsBuiltin implements lineedit.Completer.
func (r *Resolver) IsBuiltin(name string) bool {
	_, ok := shellstate.IsBuiltin(name)
	return ok
}
