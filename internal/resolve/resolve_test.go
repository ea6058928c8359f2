package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aspectrr/gosh/internal/catalog"
	"github.com/aspectrr/gosh/internal/shellstate"
)

func TestResolve_BuiltinTakesPriority(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "echo"), []byte("x"), 0o755))
	r := &Resolver{Catalog: catalog.Build([]string{dir}, nil)}

	kind := r.Resolve("echo")
	assert.Equal(t, shellstate.KindBuiltin, kind.Variant)
}

func TestResolve_ProgramFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mytool"), []byte("x"), 0o755))
	r := &Resolver{Catalog: catalog.Build([]string{dir}, nil)}

	kind := r.Resolve("mytool")
	require.Equal(t, shellstate.KindProgram, kind.Variant)
	assert.Equal(t, filepath.Join(dir, "mytool"), kind.ResolvedPath)
}

func TestResolve_NotFound(t *testing.T) {
	r := &Resolver{Catalog: catalog.Build(nil, nil)}
	kind := r.Resolve("nope")
	assert.Equal(t, shellstate.KindNotFound, kind.Variant)
	assert.Equal(t, "nope", kind.Name)
}
