// Package terminal owns raw-mode entry/exit and decodes raw stdin bytes
// into the Key events the line editor consumes.
package terminal

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// KeyKind tags the variants of a decoded Key.
type KeyKind int

const (
	KeyChar KeyKind = iota
	KeyBackspace
	KeyTab
	KeyNewline
	KeyDelete
	KeyLeftArrow
	KeyRightArrow
	KeyUpArrow
	KeyDownArrow
	KeyCtrlL
	KeyCtrlD
)

// Key is a single decoded keystroke event.
type Key struct {
	Kind KeyKind
	Char rune // set when Kind == KeyChar
}

// Guard holds the terminal's original attribute snapshot and restores it
// exactly once, on any exit path. It is an RAII-style raw-mode guard:
// acquire once at startup, release on every return from main.
type Guard struct {
	fd       int
	oldState *term.State
}

// EnterRaw snapshots the terminal attached to fd and switches it to raw
// mode (echo and canonical input disabled). The returned Guard's Release
// must be called on every exit path.
func EnterRaw(fd int) (*Guard, error) {
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("terminal: enter raw mode: %w", err)
	}
	return &Guard{fd: fd, oldState: oldState}, nil
}

// Release restores the terminal to the snapshot taken by EnterRaw. Safe to
// call multiple times; only the first call has effect.
func (g *Guard) Release() error {
	if g == nil || g.oldState == nil {
		return nil
	}
	err := term.Restore(g.fd, g.oldState)
	g.oldState = nil
	return err
}

// StdinFD returns the file descriptor of os.Stdin, the only terminal gosh
// ever attaches to (non-POSIX terminals are a Non-goal).
func StdinFD() int { return int(os.Stdin.Fd()) }

// Decoder reads raw bytes from r one at a time and decodes them into Key
// events, recognising printable runes, control characters, and the
// ANSI escape sequences for the arrow and delete keys.
type Decoder struct {
	r *bufio.Reader
}

// NewDecoder wraps r for key-at-a-time decoding.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// ReadKey blocks until a full key event is available.
func (d *Decoder) ReadKey() (Key, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return Key{}, err
	}

	switch b {
	case 0x08, 0x7F:
		return Key{Kind: KeyBackspace}, nil
	case 0x0C:
		return Key{Kind: KeyCtrlL}, nil
	case 0x04:
		return Key{Kind: KeyCtrlD}, nil
	case '\t':
		return Key{Kind: KeyTab}, nil
	case '\n', '\r':
		return Key{Kind: KeyNewline}, nil
	case 0x1B:
		return d.decodeEscape()
	default:
		return d.decodeRune(b)
	}
}

// decodeEscape reads the remainder of a CSI sequence: ESC '[' <final>,
// optionally followed by a '~' for sequences like Delete (ESC [ 3 ~).
func (d *Decoder) decodeEscape() (Key, error) {
	b1, err := d.r.ReadByte()
	if err != nil {
		return Key{}, err
	}
	if b1 != '[' {
		// Unknown escape; treat as a no-op rather than aborting.
		return Key{Kind: KeyChar, Char: 0}, nil
	}
	b2, err := d.r.ReadByte()
	if err != nil {
		return Key{}, err
	}
	switch b2 {
	case 'A':
		return Key{Kind: KeyUpArrow}, nil
	case 'B':
		return Key{Kind: KeyDownArrow}, nil
	case 'C':
		return Key{Kind: KeyRightArrow}, nil
	case 'D':
		return Key{Kind: KeyLeftArrow}, nil
	case '3':
		// Optionally consume a trailing '~'.
		if peek, err := d.r.Peek(1); err == nil && len(peek) == 1 && peek[0] == '~' {
			_, _ = d.r.ReadByte()
		}
		return Key{Kind: KeyDelete}, nil
	default:
		// Unrecognised final byte: treat as a no-op rather than erroring.
		return Key{Kind: KeyChar, Char: 0}, nil
	}
}

// decodeRune reassembles a (possibly multi-byte) UTF-8 rune starting at b.
func (d *Decoder) decodeRune(b byte) (Key, error) {
	if b < 0x80 {
		return Key{Kind: KeyChar, Char: rune(b)}, nil
	}
	n := utf8SeqLen(b)
	buf := make([]byte, n)
	buf[0] = b
	for i := 1; i < n; i++ {
		nb, err := d.r.ReadByte()
		if err != nil {
			return Key{}, err
		}
		buf[i] = nb
	}
	r := []rune(string(buf))
	if len(r) == 0 {
		return Key{Kind: KeyChar, Char: 0xFFFD}, nil
	}
	return Key{Kind: KeyChar, Char: r[0]}, nil
}

func utf8SeqLen(b byte) int {
	switch {
	case b&0xE0 == 0xC0:
		return 2
	case b&0xF0 == 0xE0:
		return 3
	case b&0xF8 == 0xF0:
		return 4
	default:
		return 1
	}
}
