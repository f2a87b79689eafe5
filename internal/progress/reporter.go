// Package progress follows generated artifacts as they are written to disk.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Reporter is told about each artifact written into an output directory.
// Done is called once, with the error that stopped the run or nil.
type Reporter interface {
	Begin(dir string, count int)
	Wrote(name string, size int)
	Done(err error)
}

// NewReporter returns a Bar on interactive terminals and a Log under CI,
// where redrawn lines make unreadable output.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &Log{}
	}
	return &Bar{}
}

// tally counts what has been written so far.
type tally struct {
	dir   string
	count int
	files int
	bytes int
}

func (t *tally) begin(dir string, count int) {
	*t = tally{dir: dir, count: count}
}

func (t *tally) add(size int) {
	t.files++
	t.bytes += size
}

func (t *tally) summary(err error) string {
	if err != nil {
		return fmt.Sprintf("Stopped after %d of %d files in %s: %v", t.files, t.count, t.dir, err)
	}
	return fmt.Sprintf("Wrote %d files (%d bytes) to %s", t.files, t.bytes, t.dir)
}

// Bar draws a progress bar on stderr and prints a summary line when done.
type Bar struct {
	bar *progressbar.ProgressBar
	t   tally
}

func (r *Bar) Begin(dir string, count int) {
	r.t.begin(dir, count)
	r.bar = progressbar.NewOptions(count,
		progressbar.OptionSetDescription("Writing to "+dir),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *Bar) Wrote(name string, size int) {
	r.t.add(size)
	if r.bar != nil {
		r.bar.Describe(name)
		_ = r.bar.Add(1)
	}
}

func (r *Bar) Done(err error) {
	if r.bar != nil {
		if err != nil {
			_ = r.bar.Exit()
		} else {
			_ = r.bar.Finish()
		}
	}
	fmt.Fprintln(os.Stderr, r.t.summary(err))
}

// Log prints one line per artifact, suitable for CI logs.
type Log struct {
	// Out defaults to stderr.
	Out io.Writer
	t   tally
}

func (r *Log) out() io.Writer {
	if r.Out == nil {
		return os.Stderr
	}
	return r.Out
}

func (r *Log) Begin(dir string, count int) {
	r.t.begin(dir, count)
}

func (r *Log) Wrote(name string, size int) {
	r.t.add(size)
	fmt.Fprintf(r.out(), "[%d/%d] %s (%d bytes)\n", r.t.files, r.t.count, name, size)
}

func (r *Log) Done(err error) {
	fmt.Fprintln(r.out(), r.t.summary(err))
}
