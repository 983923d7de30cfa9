// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package deployment runs a single contract deployment end to end: resolve the
// contract, submit it, wait for confirmation and persist the address.
package deployment

import (
	"context"
	"io"
	"time"

	"github.com/luxfi/marketplace-deployer/pkg/artifacts"
	"github.com/luxfi/marketplace-deployer/pkg/constants"
	"github.com/luxfi/marketplace-deployer/pkg/ux"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Resolver maps a contract name to something deployable.
type Resolver interface {
	Resolve(name string) (*artifacts.Template, error)
}

// Deployer submits a contract creation and returns a handle to it.
type Deployer interface {
	Deploy(ctx context.Context, tmpl *artifacts.Template) (Pending, error)
}

// Pending is a submitted deployment.
type Pending interface {
	WaitForDeployment(ctx context.Context) error
	Address(ctx context.Context) (string, error)
}

type Result struct {
	Contract string
	Address  string
}

type Runner struct {
	Resolver     Resolver
	Deployer     Deployer
	FS           afero.Fs
	Output       *ux.UserLog
	Log          *zap.Logger
	ContractName string
	AddressFile  string
	// WarnAfter is how long confirmation may take before a warning is logged.
	WarnAfter time.Duration
	// Progress, when it is a terminal, shows a spinner during confirmation.
	Progress io.Writer
}

// Run executes the pipeline. Any failure aborts the remaining steps; the
// address file is only written once the deployment is confirmed.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	name := r.ContractName
	if name == "" {
		name = constants.DefaultContractName
	}
	addressFile := r.AddressFile
	if addressFile == "" {
		addressFile = constants.AddressFileName
	}
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("contract", name))

	r.Output.PrintToUser("Deploying %s contract...", name)

	tmpl, err := r.Resolver.Resolve(name)
	if err != nil {
		return Result{}, stageError(StageResolution, name, err)
	}
	log.Debug("resolved contract template",
		zap.String("template", tmpl.FullyQualifiedName()),
		zap.String("artifact", tmpl.Path),
		zap.Int("bytecode-size", len(tmpl.Bytecode)),
	)

	pending, err := r.Deployer.Deploy(ctx, tmpl)
	if err != nil {
		return Result{}, stageError(StageSubmission, name, err)
	}
	log.Info("deployment submitted")

	if err := r.waitForDeployment(ctx, pending); err != nil {
		return Result{}, stageError(StageConfirmation, name, err)
	}

	address, err := pending.Address(ctx)
	if err != nil {
		return Result{}, stageError(StageConfirmation, name, err)
	}

	r.Output.PrintToUser("Contract Address: %s", address)
	r.Output.PrintToUser("Address Length: %d", len(address))
	if len(address) != constants.ExpectedAddressLength {
		log.Debug("unexpected address length",
			zap.Int("length", len(address)),
			zap.Int("expected", constants.ExpectedAddressLength),
		)
	}

	if err := WriteAddressFile(r.FS, addressFile, address); err != nil {
		return Result{}, stageError(StageIO, name, err)
	}
	log.Info("address saved", zap.String("address", address), zap.String("file", addressFile))

	r.Output.PrintToUser("")
	r.Output.PrintToUser(constants.CopyBlockHeader)
	r.Output.PrintToUser("%s", address)
	r.Output.PrintLineSeparator(constants.CopyBlockFooter)

	return Result{Contract: name, Address: address}, nil
}

// waitForDeployment blocks on the network, logging a warning once if it takes
// longer than WarnAfter.
func (r *Runner) waitForDeployment(ctx context.Context, pending Pending) error {
	warnAfter := r.WarnAfter
	if warnAfter <= 0 {
		warnAfter = constants.StepWarnAfter
	}
	tracker := ux.NewStepTracker(r.Output, warnAfter)
	tracker.Start("waiting for deployment confirmation")
	if r.Progress != nil {
		spinner := ux.StartWaitIndicator(r.Progress, "waiting for confirmation")
		defer spinner.Stop()
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if tracker.CheckWarn() {
					return
				}
			}
		}
	}()

	if err := pending.WaitForDeployment(ctx); err != nil {
		tracker.Failed(err)
		return err
	}
	tracker.Complete()
	return nil
}
