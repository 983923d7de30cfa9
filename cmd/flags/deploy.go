// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package flags

import (
	"time"

	"github.com/luxfi/marketplace-deployer/pkg/application"
	"github.com/luxfi/marketplace-deployer/pkg/constants"
	"github.com/spf13/cobra"
)

// NetworkFlags select the chain and the account used on it
type NetworkFlags struct {
	Network    string
	RPCURL     string
	ChainID    int64
	PrivateKey string
}

type DeployFlags struct {
	Network      NetworkFlags
	ArtifactsDir string
	Output       string
	GasLimit     uint64
	Timeout      time.Duration
}

func AddNetworkFlagsToCmd(cmd *cobra.Command, app *application.App, f *NetworkFlags) {
	cmd.Flags().StringVar(&f.Network, constants.ConfigNetwork, "", "named network to use (default \"localhost\")")
	cmd.Flags().StringVar(&f.RPCURL, constants.ConfigRPCURL, "", "json-rpc endpoint, overrides the network's")
	cmd.Flags().Int64Var(&f.ChainID, constants.ConfigChainID, 0, "chain id, queried from the endpoint when unset")
	cmd.Flags().StringVar(&f.PrivateKey, constants.ConfigPrivateKey, "", "hex private key of the deployer account")
	chainPreRunE(cmd, app)
}

func AddOutputFlagToCmd(cmd *cobra.Command, app *application.App, output *string) {
	cmd.Flags().StringVar(output, constants.ConfigOutputFile, "", "address file (default \""+constants.AddressFileName+"\")")
	chainPreRunE(cmd, app)
}

func AddArtifactsFlagToCmd(cmd *cobra.Command, app *application.App, dir *string) {
	cmd.Flags().StringVar(dir, constants.ConfigArtifactsDir, "", "hardhat artifacts directory (default \""+constants.DefaultArtifactsDir+"\")")
	chainPreRunE(cmd, app)
}

func AddDeployFlagsToCmd(cmd *cobra.Command, app *application.App, f *DeployFlags) {
	AddNetworkFlagsToCmd(cmd, app, &f.Network)
	AddArtifactsFlagToCmd(cmd, app, &f.ArtifactsDir)
	AddOutputFlagToCmd(cmd, app, &f.Output)
	cmd.Flags().Uint64Var(&f.GasLimit, constants.ConfigGasLimit, 0, "gas limit for the deployment, estimated when unset")
	cmd.Flags().DurationVar(&f.Timeout, constants.ConfigTimeout, constants.DefaultTimeout, "give up after this long (0 waits forever)")
}

// chainPreRunE binds the command's flags into the app config before it runs.
// Binding is idempotent so every Add*FlagToCmd may install it.
func chainPreRunE(cmd *cobra.Command, app *application.App) {
	existingPreRunE := cmd.PreRunE
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if existingPreRunE != nil {
			if err := existingPreRunE(cmd, args); err != nil {
				return err
			}
		}
		return app.Conf.BindFlags(cmd.Flags())
	}
}
