// Package doctor runs local shell-environment health checks,
// repurposing fluid-cli/internal/doctor/doctor.go's CheckResult/RunAll/
// PrintResults shape from remote daemon checks (run over SSH/hostexec)
// to in-process checks of the environment gosh itself depends on:
// $PATH readability, $HOME, stdin being a terminal, and the history
// file's directory being writable. Output styling is ported from that
// file's hand-rolled ANSI escapes to lipgloss.
package doctor

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/aspectrr/gosh/internal/paths"
)

// CheckResult holds the outcome of a single doctor check.
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
	FixHint string // empty if passed
}

type check struct {
	name string
	fn   func() CheckResult
}

// RunAll executes every check and returns the results in a fixed order.
func RunAll() []CheckResult {
	checks := []check{
		{"path", checkPath},
		{"home", checkHome},
		{"stdin-tty", checkStdinTTY},
		{"history-dir", checkHistoryDir},
	}
	results := make([]CheckResult, 0, len(checks))
	for _, c := range checks {
		results = append(results, c.fn())
	}
	return results
}

var (
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// PrintResults writes check results to w and reports whether every
// check passed.
func PrintResults(results []CheckResult, w io.Writer) bool {
	allPassed := true
	passed := 0

	for _, r := range results {
		icon, style := "v", passStyle
		if !r.Passed {
			allPassed = false
			icon, style = "x", failStyle
		} else {
			passed++
		}
		fmt.Fprintf(w, "  %s %s\n", style.Render(icon), r.Message)
		if !r.Passed && r.FixHint != "" {
			fmt.Fprintf(w, "     %s\n", hintStyle.Render("Fix: "+r.FixHint))
		}
	}

	fmt.Fprintln(w)
	if allPassed {
		fmt.Fprintf(w, "  %d/%d passed\n", passed, len(results))
	} else {
		fmt.Fprintf(w, "  %d/%d passed, %d failed\n", passed, len(results), len(results)-passed)
	}
	return allPassed
}

func checkPath() CheckResult {
	entries := os.Getenv("PATH")
	if entries == "" {
		return CheckResult{
			Name:    "path",
			Passed:  false,
			Message: "$PATH is unset",
			FixHint: "export PATH so external commands can be resolved",
		}
	}
	return CheckResult{Name: "path", Passed: true, Message: "$PATH is set"}
}

func checkHome() CheckResult {
	if os.Getenv("HOME") == "" {
		return CheckResult{
			Name:    "home",
			Passed:  false,
			Message: "$HOME is unset",
			FixHint: "export HOME so `cd` and `~` expansion work",
		}
	}
	return CheckResult{Name: "home", Passed: true, Message: "$HOME is set"}
}

func checkStdinTTY() CheckResult {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return CheckResult{
			Name:    "stdin-tty",
			Passed:  false,
			Message: "stdin is not a terminal",
			FixHint: "run gosh attached to a tty; non-tty stdin is a Non-goal",
		}
	}
	return CheckResult{Name: "stdin-tty", Passed: true, Message: "stdin is a terminal"}
}

func checkHistoryDir() CheckResult {
	histPath, err := paths.HistoryFile()
	if err != nil {
		return CheckResult{Name: "history-dir", Passed: false, Message: err.Error()}
	}
	dir := filepath.Dir(histPath)
	err = paths.EnsureDir(dir)
	if err == nil {
		var probe *os.File
		if probe, err = os.CreateTemp(dir, ".gosh-doctor-*"); err == nil {
			_ = probe.Close()
			_ = os.Remove(probe.Name())
		}
	}
	if err != nil {
		return CheckResult{
			Name:    "history-dir",
			Passed:  false,
			Message: fmt.Sprintf("history directory %s is not writable", dir),
			FixHint: fmt.Sprintf("mkdir -p %s", dir),
		}
	}
	return CheckResult{Name: "history-dir", Passed: true, Message: "history directory is writable"}
}
