package builtin

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aspectrr/gosh/internal/history"
	"github.com/aspectrr/gosh/internal/shellstate"
)

type fakeResolver struct{}

func (fakeResolver) Resolve(name string) shellstate.CommandKind {
	if b, ok := shellstate.IsBuiltin(name); ok {
		return shellstate.CommandKind{Variant: shellstate.KindBuiltin, Builtin: b}
	}
	if name == "ls" {
		return shellstate.CommandKind{Variant: shellstate.KindProgram, ResolvedPath: "/bin/ls"}
	}
	return shellstate.CommandKind{Variant: shellstate.KindNotFound, Name: name}
}

func newDeps() *Deps {
	return &Deps{
		State:    shellstate.NewState(),
		Resolver: fakeResolver{},
		History:  history.New(),
	}
}

func TestRun_Exit(t *testing.T) {
	deps := newDeps()
	var out, errOut bytes.Buffer
	require.NoError(t, Run(shellstate.BuiltinExit, nil, &out, &errOut, deps))
	assert.Equal(t, shellstate.ExitRequested, deps.State.Control)
}

func TestRun_Echo(t *testing.T) {
	deps := newDeps()
	var out bytes.Buffer
	require.NoError(t, Run(shellstate.BuiltinEcho, []string{"hello", "world"}, &out, nil, deps))
	assert.Equal(t, "hello world\n", out.String())
}

func TestRun_TypeBuiltinProgramAndNotFound(t *testing.T) {
	deps := newDeps()
	var out, errOut bytes.Buffer
	require.NoError(t, Run(shellstate.BuiltinType, []string{"echo", "ls", "missing"}, &out, &errOut, deps))
	assert.Equal(t, "echo is a shell builtin\n/bin/ls\n", out.String())
	assert.Equal(t, "missing: not found\n", errOut.String())
}

func TestRun_TypeRecursesOnItself(t *testing.T) {
	deps := newDeps()
	var out bytes.Buffer
	require.NoError(t, Run(shellstate.BuiltinType, []string{"type"}, &out, nil, deps))
	assert.Equal(t, "type is a shell builtin\n", out.String())
}

func TestRun_Pwd(t *testing.T) {
	deps := newDeps()
	var out bytes.Buffer
	require.NoError(t, Run(shellstate.BuiltinPwd, nil, &out, nil, deps))
	wd, _ := os.Getwd()
	assert.Equal(t, wd+"\n", out.String())
}

func TestRun_CdSuccessAndFailure(t *testing.T) {
	deps := newDeps()
	origWd, _ := os.Getwd()
	defer os.Chdir(origWd)

	tmp := t.TempDir()
	var errOut bytes.Buffer
	require.NoError(t, Run(shellstate.BuiltinCd, []string{tmp}, nil, &errOut, deps))
	assert.Empty(t, errOut.String())
	wd, _ := os.Getwd()
	realTmp, _ := filepath.EvalSymlinks(tmp)
	realWd, _ := filepath.EvalSymlinks(wd)
	assert.Equal(t, realTmp, realWd)

	errOut.Reset()
	require.NoError(t, Run(shellstate.BuiltinCd, []string{"/definitely/not/a/real/path"}, nil, &errOut, deps))
	assert.Equal(t, "/definitely/not/a/real/path: No such file or directory\n", errOut.String())
}

func TestRun_CdHomeSubstitution(t *testing.T) {
	deps := newDeps()
	origWd, _ := os.Getwd()
	defer os.Chdir(origWd)

	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	var errOut bytes.Buffer
	require.NoError(t, Run(shellstate.BuiltinCd, []string{"~"}, nil, &errOut, deps))
	assert.Empty(t, errOut.String())
	wd, _ := os.Getwd()
	realTmp, _ := filepath.EvalSymlinks(tmp)
	realWd, _ := filepath.EvalSymlinks(wd)
	assert.Equal(t, realTmp, realWd)
}

func TestRun_HistoryNumeric(t *testing.T) {
	deps := newDeps()
	deps.History.Push("one")
	deps.History.Push("two")
	var out bytes.Buffer
	require.NoError(t, Run(shellstate.BuiltinHistory, nil, &out, nil, deps))
	assert.Equal(t, "    1  one\n    2  two\n", out.String())
}

func TestRun_HistoryWriteThenRead(t *testing.T) {
	deps := newDeps()
	deps.History.Push("a")
	deps.History.Push("b")
	path := filepath.Join(t.TempDir(), "h")

	var out bytes.Buffer
	require.NoError(t, Run(shellstate.BuiltinHistory, []string{"-w", path}, &out, nil, deps))

	deps2 := newDeps()
	require.NoError(t, Run(shellstate.BuiltinHistory, []string{"-r", path}, &out, nil, deps2))
	assert.Equal(t, []string{"a", "b"}, deps2.History.Entries)
}

func TestRun_HistoryWAndAMutuallyExclusive(t *testing.T) {
	deps := newDeps()
	var out, errOut bytes.Buffer
	require.NoError(t, Run(shellstate.BuiltinHistory, []string{"-w", "a", "-a", "b"}, &out, &errOut, deps))
	assert.Contains(t, errOut.String(), "mutually exclusive")
}
