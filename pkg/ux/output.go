// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ux

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Logger *UserLog

type UserLog struct {
	log    *zap.Logger
	writer io.Writer
}

// NewUserLog installs the process wide user logger. Later calls are no-ops.
func NewUserLog(log *zap.Logger, userwriter io.Writer) {
	if Logger == nil {
		Logger = New(log, userwriter)
	}
}

// New returns a user logger that is not installed globally.
func New(log *zap.Logger, userwriter io.Writer) *UserLog {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserLog{
		log:    log,
		writer: userwriter,
	}
}

// PrintToUser prints msg directly to stdout (command output)
// Does NOT log to avoid duplication - logs should go to stderr separately
func (ul *UserLog) PrintToUser(msg string, args ...interface{}) {
	formattedMsg := fmt.Sprintf(msg, args...)
	_, _ = fmt.Fprintln(ul.writer, formattedMsg)
}

// PrintLineSeparator prints a line separator
func (ul *UserLog) PrintLineSeparator(msg ...string) {
	separator := "=========================================="
	if len(msg) > 0 && msg[0] != "" {
		separator = msg[0]
	}
	_, _ = fmt.Fprintln(ul.writer, separator)
	ul.log.Debug(separator)
}

// RedXToUser prints a failed check to the user and records it as a warning.
func (ul *UserLog) RedXToUser(msg string, args ...interface{}) {
	ul.mark("✗", zapcore.WarnLevel, msg, args...)
}

// GreenCheckmarkToUser prints a passed check to the user.
func (ul *UserLog) GreenCheckmarkToUser(msg string, args ...interface{}) {
	ul.mark("✓", zapcore.InfoLevel, msg, args...)
}

func (ul *UserLog) mark(symbol string, level zapcore.Level, msg string, args ...interface{}) {
	text := fmt.Sprintf(msg, args...)
	_, _ = fmt.Fprintf(ul.writer, "%s %s\n", symbol, text)
	if ce := ul.log.Check(level, text); ce != nil {
		ce.Write(zap.Bool("passed", symbol == "✓"))
	}
}

// Table creates a table rendered to the user writer
func (ul *UserLog) Table(headers ...any) *tablewriter.Table {
	table := tablewriter.NewWriter(ul.writer)
	if len(headers) > 0 {
		table.Header(headers...)
	}
	return table
}

// StepTracker tracks progress of multi-step operations with elapsed time
type StepTracker struct {
	stepStart    time.Time
	warnAfter    time.Duration
	warningShown bool
	stepName     string
	ul           *UserLog
}

// NewStepTracker creates a tracker that warns if a step takes longer than warnAfter
func NewStepTracker(ul *UserLog, warnAfter time.Duration) *StepTracker {
	return &StepTracker{
		ul:        ul,
		warnAfter: warnAfter,
	}
}

// Start begins tracking a new step. Nothing is printed; the step is only
// reported to the user once it completes or runs late.
func (st *StepTracker) Start(stepName string) {
	st.stepStart = time.Now()
	st.stepName = stepName
	st.warningShown = false
	st.ul.log.Debug("step started", zap.String("step", stepName))
}

// Elapsed returns the elapsed time for the current step
func (st *StepTracker) Elapsed() time.Duration {
	return time.Since(st.stepStart)
}

// CheckWarn logs a warning if the step has taken longer than the threshold
// Returns true if warning was emitted
func (st *StepTracker) CheckWarn() bool {
	if st.warningShown {
		return false
	}
	elapsed := st.Elapsed()
	if elapsed > st.warnAfter {
		st.ul.log.Warn("step taking longer than expected",
			zap.String("step", st.stepName),
			zap.Duration("elapsed", elapsed),
		)
		st.warningShown = true
		return true
	}
	return false
}

// Complete marks the step as done
func (st *StepTracker) Complete() {
	st.ul.log.Debug("step completed",
		zap.String("step", st.stepName),
		zap.Duration("elapsed", st.Elapsed()),
	)
}

// Failed marks the step as failed with an error
func (st *StepTracker) Failed(err error) {
	st.ul.log.Error("step failed",
		zap.String("step", st.stepName),
		zap.Duration("elapsed", st.Elapsed()),
		zap.Error(err),
	)
}
