// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractcmd

import (
	"context"
	"os"

	"github.com/luxfi/marketplace-deployer/cmd/flags"
	"github.com/luxfi/marketplace-deployer/pkg/artifacts"
	"github.com/luxfi/marketplace-deployer/pkg/cobrautils"
	"github.com/luxfi/marketplace-deployer/pkg/constants"
	"github.com/luxfi/marketplace-deployer/pkg/deployment"
	"github.com/luxfi/marketplace-deployer/pkg/ux"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var deployFlags flags.DeployFlags

// deployer contract deploy
func newDeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy [contract]",
		Short: "Deploy a compiled contract and save its address",
		Long: `Deploys a contract compiled by Hardhat, waits until the deployment is
confirmed and writes the contract address to the address file.

The contract defaults to ` + constants.DefaultContractName + `. It may be given by name or as a fully
qualified "contracts/File.sol:Name" when the name alone is ambiguous.

The address file is only written once the deployment is confirmed. Any
failure leaves an existing address file untouched.`,
		RunE: deployContract,
		Args: cobrautils.MaximumNArgs(1),
	}
	flags.AddDeployFlagsToCmd(cmd, app, &deployFlags)
	return cmd
}

func deployContract(cmd *cobra.Command, args []string) error {
	name := constants.DefaultContractName
	if len(args) == 1 {
		name = args[0]
	}

	cfg, err := app.Conf.LoadDeployConfig()
	if err != nil {
		return err
	}
	app.Log.Debug("loaded deploy config",
		zap.String("network", cfg.Network),
		zap.String("rpc-url", cfg.RPCURL),
		zap.Int64("chain-id", cfg.ChainID),
		zap.String("artifacts", cfg.ArtifactsDir),
		zap.String("output", cfg.OutputFile),
	)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	deployer := &deployment.NetworkDeployer{
		Config: cfg,
		Dial:   dial,
		Log:    app.Log,
	}
	defer deployer.Close()

	runner := &deployment.Runner{
		Resolver:     artifacts.NewStore(app.FS, cfg.ArtifactsDir),
		Deployer:     deployer,
		FS:           app.FS,
		Output:       ux.Logger,
		Log:          app.Log,
		ContractName: name,
		AddressFile:  cfg.OutputFile,
		Progress:     os.Stderr,
	}
	_, err = runner.Run(ctx)
	return err
}
