// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ux

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedUserLog() (*UserLog, *bytes.Buffer, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	out := &bytes.Buffer{}
	return New(zap.New(core), out), out, logs
}

func TestPrintToUserDoesNotLog(t *testing.T) {
	require := require.New(t)
	ul, out, logs := newObservedUserLog()
	ul.PrintToUser("Address Length: %d", 42)
	require.Equal("Address Length: 42\n", out.String())
	require.Zero(logs.Len())
}

func TestPrintLineSeparator(t *testing.T) {
	require := require.New(t)
	ul, out, _ := newObservedUserLog()
	ul.PrintLineSeparator()
	ul.PrintLineSeparator("=====")
	require.Equal("==========================================\n=====\n", out.String())
}

func TestCheckmarks(t *testing.T) {
	require := require.New(t)
	ul, out, logs := newObservedUserLog()
	ul.GreenCheckmarkToUser("code found at %s", "0x5FbDB2315678afecb367f032d93F642f64180aa3")
	ul.RedXToUser("no code at %s", "0x5FbDB2315678afecb367f032d93F642f64180aa3")
	require.Equal("✓ code found at 0x5FbDB2315678afecb367f032d93F642f64180aa3\n"+
		"✗ no code at 0x5FbDB2315678afecb367f032d93F642f64180aa3\n", out.String())
	warnings := logs.FilterLevelExact(zap.WarnLevel).All()
	require.Len(warnings, 1)
	require.Equal(false, warnings[0].ContextMap()["passed"])
	require.Equal(1, logs.FilterLevelExact(zap.InfoLevel).Len())
}

func TestTable(t *testing.T) {
	require := require.New(t)
	ul, out, _ := newObservedUserLog()
	table := ul.Table("Contract", "Address")
	require.NoError(table.Append([]string{"CourseMarketplace", "0xABC"}))
	require.NoError(table.Render())
	require.Contains(out.String(), "CourseMarketplace")
	require.Contains(out.String(), "0xABC")
}

func TestStepTracker(t *testing.T) {
	require := require.New(t)
	ul, out, logs := newObservedUserLog()
	st := NewStepTracker(ul, 0)
	st.Start("confirm")
	time.Sleep(time.Millisecond)
	require.True(st.CheckWarn())
	require.False(st.CheckWarn())
	st.Failed(errors.New("dropped"))
	require.Empty(out.String())
	require.Equal(1, logs.FilterMessage("step taking longer than expected").Len())
	require.Equal(1, logs.FilterMessage("step failed").Len())
}

func TestNewUserLogInstallsOnce(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Logger = prev })
	Logger = nil

	first := &bytes.Buffer{}
	NewUserLog(zap.NewNop(), first)
	NewUserLog(zap.NewNop(), &bytes.Buffer{})
	Logger.PrintToUser("hello")
	require.Equal(t, "hello\n", first.String())
}

func TestWaitIndicatorSilentOffTerminal(t *testing.T) {
	require := require.New(t)
	out := &bytes.Buffer{}
	wi := StartWaitIndicator(out, "waiting for confirmation")
	require.False(wi.Active())
	wi.Stop()
	wi.Stop()
	require.Zero(out.Len())
}
