package lineedit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aspectrr/gosh/internal/terminal"
)

type fakeCompleter struct {
	names    []string
	builtins map[string]bool
}

func (f fakeCompleter) Names() []string { return f.names }

func (f fakeCompleter) IsBuiltin(name string) bool { return f.builtins[name] }

func newEditor(input string, completer Completer) (*Editor, *bytes.Buffer) {
	var out bytes.Buffer
	dec := terminal.NewDecoder(strings.NewReader(input))
	return New(dec, &out, completer, "$ "), &out
}

func TestReadLine_SimpleWordThenNewline(t *testing.T) {
	e, out := newEditor("echo hi\n", fakeCompleter{})
	line, err := e.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "echo hi", line)
	assert.Contains(t, out.String(), "\n")
}

func TestReadLine_Backspace(t *testing.T) {
	e, _ := newEditor("abc\x7f\n", fakeCompleter{})
	line, err := e.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "ab", line)
}

func TestReadLine_LeftArrowThenInsertMidBuffer(t *testing.T) {
	e, _ := newEditor("ac\x1b[DX\n", fakeCompleter{})
	line, err := e.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "aXc", line)
}

func TestReadLine_DeleteAtCursor(t *testing.T) {
	e, _ := newEditor("abc\x1b[D\x1b[D\x1b[3~\n", fakeCompleter{})
	line, err := e.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "ac", line)
}

func TestReadLine_CtrlDReturnsExit(t *testing.T) {
	e, _ := newEditor("\x04", fakeCompleter{})
	line, err := e.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "exit", line)
}

func TestReadLine_TabSingleMatchCompletes(t *testing.T) {
	completer := fakeCompleter{names: []string{"echo", "exit"}, builtins: map[string]bool{"echo": true, "exit": true}}
	e, out := newEditor("ech\t\n", completer)
	line, err := e.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "echo ", line)
	assert.Contains(t, out.String(), "o ")
}

func TestReadLine_TabNoMatchRingsBell(t *testing.T) {
	completer := fakeCompleter{names: []string{"echo"}, builtins: map[string]bool{"echo": true}}
	e, out := newEditor("zz\t\n", completer)
	_, err := e.ReadLine()
	require.NoError(t, err)
	assert.Contains(t, out.String(), "\a")
}

func TestReadLine_TabExtendsLongestCommonPrefixWithoutBell(t *testing.T) {
	completer := fakeCompleter{names: []string{"history", "histogram"}}
	e, out := newEditor("hi\t\n", completer)
	line, err := e.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "histo", line)
	assert.NotContains(t, out.String(), "\a")
}

func TestReadLine_SecondTabListsCandidates(t *testing.T) {
	completer := fakeCompleter{names: []string{"cat", "cp"}}
	e, out := newEditor("c\t\t\n", completer)
	_, err := e.ReadLine()
	require.NoError(t, err)
	assert.Contains(t, out.String(), "cat")
	assert.Contains(t, out.String(), "cp")
}

func TestLongestCommonPrefix(t *testing.T) {
	assert.Equal(t, "sto", longestCommonPrefix([]string{"story", "stock"}))
	assert.Equal(t, "", longestCommonPrefix([]string{"a", "b"}))
	assert.Equal(t, "", longestCommonPrefix(nil))
}
