// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contractcmd

import (
	"github.com/luxfi/marketplace-deployer/pkg/application"
	"github.com/luxfi/marketplace-deployer/pkg/cobrautils"
	"github.com/luxfi/marketplace-deployer/pkg/deployment"
	"github.com/spf13/cobra"
)

var (
	app *application.App
	// dial is swapped in tests for an in-process chain
	dial deployment.DialFunc = deployment.DialRPC
)

// deployer contract
func NewCmd(injectedApp *application.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contract",
		Short: "Deploy and inspect compiled contracts",
		Long: `The contract command suite deploys Hardhat compiled contracts and
inspects the results of previous deployments.`,
		RunE: cobrautils.CommandSuiteUsage,
	}
	app = injectedApp
	// contract deploy
	cmd.AddCommand(newDeployCmd())
	// contract list
	cmd.AddCommand(newListCmd())
	// contract address
	cmd.AddCommand(newAddressCmd())
	return cmd
}
