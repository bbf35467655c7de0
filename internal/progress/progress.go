// Package progress draws terminal progress for classpath scans and IR builds.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Tracker reports progress of one stage. A nil *Tracker is a no-op, so
// callers can hold one unconditionally.
type Tracker struct {
	bar   *progressbar.ProgressBar
	label string
	out   io.Writer
}

var barTheme = progressbar.Theme{
	Saucer:        "=",
	SaucerHead:    ">",
	SaucerPadding: " ",
	BarStart:      "[",
	BarEnd:        "]",
}

// New creates a tracker writing to w. A negative total draws a spinner.
func New(label string, total int, w io.Writer) *Tracker {
	opts := []progressbar.Option{
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(label),
		progressbar.OptionClearOnFinish(),
	}
	if total < 0 {
		opts = append(opts,
			progressbar.OptionSetWidth(20),
			progressbar.OptionSpinnerType(14),
		)
	} else {
		opts = append(opts,
			progressbar.OptionSetWidth(30),
			progressbar.OptionShowCount(),
			progressbar.OptionUseANSICodes(true),
			progressbar.OptionSetElapsedTime(false),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionSetTheme(barTheme),
		)
	}
	return &Tracker{bar: progressbar.NewOptions(total, opts...), label: label, out: w}
}

// ForScan returns a stderr spinner for classpath discovery, or nil when disabled.
func ForScan(enabled bool) *Tracker {
	if !enabled {
		return nil
	}
	return New("Scanning classpath", -1, os.Stderr)
}

// ForClasses returns a stderr bar for reading total classes, or nil when
// disabled or there is nothing to read.
func ForClasses(total int, enabled bool) *Tracker {
	if !enabled || total == 0 {
		return nil
	}
	return New("Reading classes", total, os.Stderr)
}

// Tick advances by one. Safe for concurrent use.
func (t *Tracker) Tick() {
	if t != nil {
		t.bar.Add(1)
	}
}

// Func returns Tick as a callback, or nil for a nil tracker.
func (t *Tracker) Func() func() {
	if t == nil {
		return nil
	}
	return t.Tick
}

func (t *Tracker) clear() {
	t.bar.Finish()
	t.bar.Clear()
}

// FinishSuccess removes the bar without leaving output.
func (t *Tracker) FinishSuccess() {
	if t != nil {
		t.clear()
	}
}

// FinishError removes the bar and reports err under the stage label.
func (t *Tracker) FinishError(err error) {
	if t == nil {
		return
	}
	t.clear()
	fmt.Fprintf(t.out, "  %s error: %v\n", t.label, err)
}
