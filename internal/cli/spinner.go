package cli

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner is a progress indicator on stderr that stops when its context is
// cancelled. It draws nothing when stderr is not a terminal.
type Spinner struct {
	s      *spinner.Spinner
	ctx    context.Context
	parent context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// newSpinner creates a new spinner with the given message.
func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

// newSpinnerWithContext creates a spinner that will stop when ctx is cancelled.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + StyleDim.Render(message)
	_ = s.Color("cyan")

	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{s: s, ctx: sctx, parent: ctx, cancel: cancel}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	s.s.Start()
	go func() {
		<-s.ctx.Done()
		s.s.Stop()
	}()
}

// Stop stops the spinner and clears the line. It is safe to call more
// than once.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		s.s.Stop()
	})
}

// StopWithSuccess stops the spinner and shows a success message.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and shows an error message.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the spinner's parent context was cancelled.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
