// Package redirect extracts stdout/stderr redirection operators
// (>, >>, 1>, 1>>, 2>, 2>>) from an argument vector.
package redirect

import (
	"errors"

	"github.com/aspectrr/gosh/internal/shellstate"
)

// ErrMissingTarget is returned when a redirection operator is the last
// token in the argument vector, with no filename following it.
var ErrMissingTarget = errors.New("Syntax error")

// Parse walks argv left to right, extracting redirection operator/filename
// pairs and returning the residual argument vector plus the resulting
// stdout/stderr sinks. Later operators targeting the same stream overwrite
// earlier ones.
func Parse(argv []string) (residual []string, stdout, stderr shellstate.Sink, err error) {
	for i := 0; i < len(argv); i++ {
		tok := argv[i]
		switch tok {
		case ">", "1>", ">>", "1>>":
			if i+1 >= len(argv) {
				return nil, shellstate.Sink{}, shellstate.Sink{}, ErrMissingTarget
			}
			stdout = shellstate.Sink{
				Kind:   shellstate.SinkFile,
				Path:   argv[i+1],
				Append: tok == ">>" || tok == "1>>",
			}
			i++
		case "2>", "2>>":
			if i+1 >= len(argv) {
				return nil, shellstate.Sink{}, shellstate.Sink{}, ErrMissingTarget
			}
			stderr = shellstate.Sink{
				Kind:   shellstate.SinkFile,
				Path:   argv[i+1],
				Append: tok == "2>>",
			}
			i++
		default:
			residual = append(residual, tok)
		}
	}
	return residual, stdout, stderr, nil
}
