// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package deployment

import (
	"errors"
	"fmt"
)

// Stage identifies the step of the pipeline that failed.
type Stage int

const (
	StageUnknown Stage = iota
	StageResolution
	StageSubmission
	StageConfirmation
	StageIO
)

func (s Stage) String() string {
	switch s {
	case StageResolution:
		return "resolution"
	case StageSubmission:
		return "submission"
	case StageConfirmation:
		return "confirmation"
	case StageIO:
		return "io"
	default:
		return "unknown"
	}
}

// Error is returned by Runner.Run for every failure. All stages are reported
// the same way by the CLI; the stage is kept so callers can tell them apart.
type Error struct {
	Stage    Stage
	Contract string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s of %s failed: %v", e.Stage, e.Contract, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func stageError(stage Stage, contract string, err error) error {
	return &Error{Stage: stage, Contract: contract, Err: err}
}

// StageOf returns the stage err failed in, or StageUnknown.
func StageOf(err error) Stage {
	var derr *Error
	if errors.As(err, &derr) {
		return derr.Stage
	}
	return StageUnknown
}
