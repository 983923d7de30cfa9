// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ux

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

const spinnerInterval = 100 * time.Millisecond

// WaitIndicator draws an indeterminate spinner while a step blocks. It draws
// nothing unless the writer is a terminal.
type WaitIndicator struct {
	bar  *progressbar.ProgressBar
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// StartWaitIndicator starts spinning on w with the given description
func StartWaitIndicator(w io.Writer, description string) *WaitIndicator {
	wi := &WaitIndicator{}
	if !isTerminal(w) {
		return wi
	}
	wi.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionThrottle(spinnerInterval),
	)
	wi.stop = make(chan struct{})
	wi.done = make(chan struct{})
	go func() {
		defer close(wi.done)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-wi.stop:
				return
			case <-ticker.C:
				_ = wi.bar.Add(1)
			}
		}
	}()
	return wi
}

// Active reports whether a spinner is being drawn
func (wi *WaitIndicator) Active() bool {
	return wi.bar != nil
}

// Stop clears the spinner. It is safe to call more than once.
func (wi *WaitIndicator) Stop() {
	if wi.bar == nil {
		return
	}
	wi.once.Do(func() {
		close(wi.stop)
		<-wi.done
		_ = wi.bar.Finish()
	})
}

// isTerminal checks if the writer is a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
