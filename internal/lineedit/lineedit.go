// Package lineedit implements an interactive line editor: a (buffer,
// cursor, tab_count) state machine driven by decoded terminal.Key
// events, echoing the ANSI control sequences that keep the real
// terminal's display in sync with the in-memory buffer. Completion-
// candidate styling follows fluid-cli/internal/doctor/doctor.go's
// coloured-output pattern, ported from hand-rolled ANSI escapes to
// lipgloss styles, with github.com/alecthomas/chroma/v2's bash lexer
// used read-only to tell builtins from external programs when
// colouring the candidate list.
package lineedit

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/charmbracelet/lipgloss"

	"github.com/aspectrr/gosh/internal/terminal"
)

var (
	builtinStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	programStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	bashLexer    = chroma.Coalesce(lexerOrFallback())
)

func lexerOrFallback() chroma.Lexer {
	if l := lexers.Get("bash"); l != nil {
		return l
	}
	return lexers.Fallback
}

// Completer supplies the names tab-completion draws candidates from:
// the six builtin names plus the executable catalog's basenames.
type Completer interface {
	Names() []string
	IsBuiltin(name string) bool
}

// Editor holds the (buffer, cursor, tab_count) state of a single
// ReadLine call. ReadLine resets that state on entry, so one Editor can
// read every line of a session.
type Editor struct {
	decoder   *terminal.Decoder
	out       io.Writer
	completer Completer
	prompt    string

	buf      []rune
	cursor   int
	tabCount int
}

// New returns a line editor reading keys from decoder and echoing
// control sequences to out.
func New(decoder *terminal.Decoder, out io.Writer, completer Completer, prompt string) *Editor {
	return &Editor{decoder: decoder, out: out, completer: completer, prompt: prompt}
}

// ReadLine runs the per-key state machine until Newline or Ctrl-D and
// returns the accepted line (or the literal string "exit" on Ctrl-D).
func (e *Editor) ReadLine() (string, error) {
	e.buf = nil
	e.cursor = 0
	e.tabCount = 0

	for {
		key, err := e.decoder.ReadKey()
		if err != nil {
			return "", err
		}

		if key.Kind != terminal.KeyTab {
			e.tabCount = 0
		}

		switch key.Kind {
		case terminal.KeyChar:
			if key.Char == 0 {
				continue
			}
			e.insert(key.Char)
			fmt.Fprintf(e.out, "\x1b[4h%c\x1b[4l", key.Char)
		case terminal.KeyRightArrow:
			if e.cursor < len(e.buf) {
				e.cursor++
			}
			fmt.Fprint(e.out, "\x1b[C")
		case terminal.KeyLeftArrow:
			if e.cursor > 0 {
				e.cursor--
			}
			fmt.Fprint(e.out, "\x1b[D")
		case terminal.KeyUpArrow, terminal.KeyDownArrow:
			// History recall is out of scope for this core; arrows
			// are decoded but otherwise inert here.
		case terminal.KeyBackspace:
			if e.cursor > 0 {
				e.buf = append(e.buf[:e.cursor-1], e.buf[e.cursor:]...)
				e.cursor--
				fmt.Fprint(e.out, "\b\x1b[1P")
			}
		case terminal.KeyDelete:
			if e.cursor < len(e.buf) {
				e.buf = append(e.buf[:e.cursor], e.buf[e.cursor+1:]...)
				fmt.Fprint(e.out, "\x1b[1P")
			}
		case terminal.KeyNewline:
			fmt.Fprint(e.out, "\n")
			return string(e.buf), nil
		case terminal.KeyCtrlL:
			fmt.Fprint(e.out, "\x1b[1;1H\x1b[0J")
			fmt.Fprintf(e.out, "%s%s", e.prompt, string(e.buf))
		case terminal.KeyCtrlD:
			fmt.Fprint(e.out, "\n")
			return "exit", nil
		case terminal.KeyTab:
			e.handleTab()
		}
	}
}

func (e *Editor) insert(r rune) {
	e.buf = append(e.buf, 0)
	copy(e.buf[e.cursor+1:], e.buf[e.cursor:])
	e.buf[e.cursor] = r
	e.cursor++
}

func (e *Editor) insertString(s string) {
	for _, r := range s {
		e.insert(r)
	}
}

func (e *Editor) handleTab() {
	prefix := string(e.buf)
	suffixes := e.matchingSuffixes(prefix)

	switch len(suffixes) {
	case 0:
		fmt.Fprint(e.out, "\a")
		e.tabCount = 0
	case 1:
		s := suffixes[0] + " "
		e.insertString(s)
		fmt.Fprint(e.out, s)
		e.tabCount = 0
	default:
		if lcp := longestCommonPrefix(suffixes); lcp != "" {
			e.insertString(lcp)
			fmt.Fprint(e.out, lcp)
			e.tabCount = 0
			return
		}
		if e.tabCount == 0 {
			fmt.Fprint(e.out, "\a")
			e.tabCount = 1
			return
		}
		e.listCandidates(prefix, suffixes)
		e.tabCount = 0
	}
}

// matchingSuffixes returns the sorted, de-duplicated suffixes of every
// completer name that starts with prefix.
func (e *Editor) matchingSuffixes(prefix string) []string {
	seen := make(map[string]struct{})
	var suffixes []string
	for _, name := range e.completer.Names() {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		suffix := name[len(prefix):]
		if _, ok := seen[suffix]; ok {
			continue
		}
		seen[suffix] = struct{}{}
		suffixes = append(suffixes, suffix)
	}
	sort.Strings(suffixes)
	return suffixes
}

func (e *Editor) listCandidates(prefix string, suffixes []string) {
	words := make([]string, len(suffixes))
	for i, s := range suffixes {
		words[i] = e.styleCandidate(prefix + s)
	}
	fmt.Fprintf(e.out, "\n%s\n%s%s", strings.Join(words, "  "), e.prompt, string(e.buf))
}

// styleCandidate colours a candidate word by the chroma bash lexer's
// classification: builtins are coloured distinctly from resolved
// programs. Lexing failures fall back to the plain word.
func (e *Editor) styleCandidate(word string) string {
	if e.completer.IsBuiltin(word) {
		return builtinStyle.Render(word)
	}
	iter, err := bashLexer.Tokenise(nil, word)
	if err != nil {
		return word
	}
	for _, tok := range iter.Tokens() {
		if tok.Type == chroma.NameBuiltin || tok.Type == chroma.Keyword {
			return builtinStyle.Render(word)
		}
	}
	return programStyle.Render(word)
}

func longestCommonPrefix(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	prefix := ss[0]
	for _, s := range ss[1:] {
		for !strings.HasPrefix(s, prefix) {
			prefix = prefix[:len(prefix)-1]
			if prefix == "" {
				return ""
			}
		}
	}
	return prefix
}
