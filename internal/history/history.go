// Package history implements the shell's in-memory history sequence and
// its file read/write/append operations, grounded on
// fluid-cli/internal/tui/history.go's LoadHistory/AppendHistory pair,
// generalised to the -r/-w/-a/numeric grammar of the history builtin.
package history

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Store holds the in-memory history sequence and the boundary marking
// what -a has already flushed to disk.
type Store struct {
	Entries    []string
	AppendPos  int // 0 <= AppendPos <= len(Entries)
}

// New returns an empty history store.
func New() *Store {
	return &Store{}
}

// Push appends a line to in-memory history. Called for every accepted
// input line, before the pipeline executing it runs.
func (s *Store) Push(line string) {
	s.Entries = append(s.Entries, line)
}

// ReadFile reads path line by line and appends each line to in-memory
// history. The in-memory history is left unchanged if the file can't be
// read.
func (s *Store) ReadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("history: read %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("history: read %s: %w", path, err)
	}
	s.Entries = append(s.Entries, lines...)
	return nil
}

// WriteFile truncate-creates path and writes the last n entries (all of
// them if n <= 0), newline-separated with a trailing newline.
func (s *Store) WriteFile(path string, n int) error {
	return writeLines(path, os.O_TRUNC, s.selectLast(n))
}

// AppendFile create-appends path with the slice of entries not yet
// flushed by a previous -a, then advances AppendPos to len(Entries).
func (s *Store) AppendFile(path string) error {
	pending := s.Entries[s.AppendPos:]
	if err := writeLines(path, os.O_APPEND, pending); err != nil {
		return err
	}
	s.AppendPos = len(s.Entries)
	return nil
}

// Show renders the last n entries (all of them if n <= 0) the way the
// numeric `history` builtin argument does: 1-indexed, right-aligned width
// 5, two spaces, entry.
func (s *Store) Show(n int) string {
	entries := s.selectLast(n)
	offset := len(s.Entries) - len(entries) + 1
	var b strings.Builder
	for i, e := range entries {
		fmt.Fprintf(&b, "%5d  %s\n", offset+i, e)
	}
	return b.String()
}

func (s *Store) selectLast(n int) []string {
	if n <= 0 || n > len(s.Entries) {
		return s.Entries
	}
	return s.Entries[len(s.Entries)-n:]
}

func writeLines(path string, extraFlag int, lines []string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|extraFlag, 0o644)
	if err != nil {
		return fmt.Errorf("history: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := bufio.NewWriter(f)
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return fmt.Errorf("history: write %s: %w", path, err)
		}
	}
	return w.Flush()
}
