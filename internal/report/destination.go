package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nao1215/redactor/internal/model"
)

// Named statistics destinations. Anything else is treated as a file path.
const (
	DestinationStdout = "stdout"
	DestinationStderr = "stderr"
)

// Streams are the process streams used for the named destinations.
type Streams struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Open resolves dest to a writer. The names stdout and stderr are matched
// case-insensitively; any other value is created or truncated as a file.
// The returned close function must be called once writing is done.
func (s Streams) Open(dest string) (io.Writer, func() error, error) {
	noop := func() error { return nil }

	switch strings.ToLower(strings.TrimSpace(dest)) {
	case DestinationStdout:
		return s.Stdout, noop, nil
	case DestinationStderr:
		return s.Stderr, noop, nil
	}

	f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600) //nolint:gosec // destination chosen by the user
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// Emit writes the run's statistics to dest in the given format.
//
// A failure is reported on Stderr as "Failed to write statistics to <dest>:
// <err>" and also returned so the caller can log it. Emit never panics on a
// bad destination.
func (s Streams) Emit(run *model.Run, dest, format string) (err error) {
	defer func() {
		if err != nil && s.Stderr != nil {
			fmt.Fprintf(s.Stderr, "Failed to write statistics to %s: %v\n", dest, err)
		}
	}()

	out, closeFn, err := s.Open(dest)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeFn(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	w, err := NewWriter(format, out)
	if err != nil {
		return err
	}
	_, err = w.Write(run)
	return err
}
