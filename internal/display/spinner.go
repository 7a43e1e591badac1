package display

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner colors understood by Update
const (
	ColorCyan  = "cyan"
	ColorGreen = "green"
	ColorRed   = "red"
)

var (
	// DotsFrames is shown while waiting on the network
	DotsFrames = spinner.CharSets[14]
	// PromptFrames is the static frame shown next to a suggestion
	PromptFrames = []string{"$"}
)

const frameDelay = 80 * time.Millisecond

// Indicator is a single-line progress indicator
type Indicator interface {
	// Update replaces the label, color and frames in place
	Update(label, color string, frames []string)
	// Succeed stops the indicator and leaves a success line
	Succeed(msg string)
	// Fail stops the indicator and leaves a failure line
	Fail(msg string)
	// Stop clears the indicator line
	Stop()
}

// Spinner wraps briandowns/spinner
type Spinner struct {
	s   *spinner.Spinner
	out io.Writer
}

var _ Indicator = (*Spinner)(nil)

// NewSpinner creates a spinner writing to Stderr. Call Start to show it.
func NewSpinner(message string) *Spinner {
	return newSpinner(message, Stderr)
}

func newSpinner(message string, out io.Writer) *Spinner {
	opts := []spinner.Option{spinner.WithHiddenCursor(true)}
	if f, ok := out.(*os.File); ok {
		// Terminal detection uses the file
		opts = append(opts, spinner.WithWriterFile(f))
	} else {
		opts = append(opts, spinner.WithWriter(out))
	}
	s := spinner.New(DotsFrames, frameDelay, opts...)
	s.Suffix = " " + message
	_ = s.Color(ColorCyan)
	return &Spinner{s: s, out: out}
}

// Start shows the spinner
func (sp *Spinner) Start() {
	sp.s.Start()
}

// Update changes what the spinner shows without restarting the line
func (sp *Spinner) Update(label, color string, frames []string) {
	sp.s.Lock()
	sp.s.Suffix = " " + label
	sp.s.Unlock()

	if len(frames) > 0 {
		sp.s.UpdateCharSet(frames)
	}
	if color != "" {
		_ = sp.s.Color(color)
	}
}

// Succeed stops the spinner and prints a green check with msg
func (sp *Spinner) Succeed(msg string) {
	sp.s.Stop()
	fmt.Fprintln(sp.out, successStyle.Render("✔")+" "+msg)
}

// Fail stops the spinner and prints a red cross with msg
func (sp *Spinner) Fail(msg string) {
	sp.s.Stop()
	fmt.Fprintln(sp.out, errorStyle.Render("✖")+" "+msg)
}

// Stop clears the spinner line
func (sp *Spinner) Stop() {
	sp.s.Stop()
}
