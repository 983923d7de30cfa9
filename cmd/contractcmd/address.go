// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractcmd

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/luxfi/marketplace-deployer/cmd/flags"
	"github.com/luxfi/marketplace-deployer/pkg/cobrautils"
	"github.com/luxfi/marketplace-deployer/pkg/constants"
	"github.com/luxfi/marketplace-deployer/pkg/contract"
	"github.com/luxfi/marketplace-deployer/pkg/deployment"
	"github.com/luxfi/marketplace-deployer/pkg/ux"
	"github.com/spf13/cobra"
)

type AddressFlags struct {
	// Network is only used when the address is checked on chain
	Network flags.NetworkFlags
	Output  string
	Offline bool
}

var addressFlags AddressFlags

// deployer contract address
func newAddressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Show the last deployed address",
		Long: `Reads the address saved by the last successful deploy and shows it with
its length and the size of the code deployed at it. Use --offline to skip
the on-chain lookup.`,
		RunE: showAddress,
		Args: cobrautils.ExactArgs(0),
	}
	flags.AddNetworkFlagsToCmd(cmd, app, &addressFlags.Network)
	flags.AddOutputFlagToCmd(cmd, app, &addressFlags.Output)
	cmd.Flags().BoolVar(&addressFlags.Offline, "offline", false, "do not query the network")
	return cmd
}

func showAddress(cmd *cobra.Command, _ []string) error {
	cfg, err := app.Conf.Load()
	if err != nil {
		return err
	}
	address, err := deployment.ReadAddressFile(app.FS, cfg.OutputFile)
	if err != nil {
		return err
	}

	var (
		codeSize string
		size     int
	)
	if !addressFlags.Offline {
		if cfg.RPCURL == "" {
			return constants.ErrNoRPCURL
		}
		if !common.IsHexAddress(address) {
			return fmt.Errorf("%s does not hold an address: %q", cfg.OutputFile, address)
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		backend, err := dial(ctx, cfg.RPCURL)
		if err != nil {
			return err
		}
		if c, ok := backend.(interface{ Close() }); ok {
			defer c.Close()
		}
		size, err = contract.CodeSize(ctx, backend, common.HexToAddress(address))
		if err != nil {
			return err
		}
		codeSize = fmt.Sprintf("%d bytes", size)
	}

	table := ux.Logger.Table("Field", "Value")
	rows := [][]string{
		{"File", cfg.OutputFile},
		{"Address", address},
		{"Length", fmt.Sprint(len(address))},
	}
	if !addressFlags.Offline {
		rows = append(rows, []string{"Network", cfg.Network}, []string{"Code Size", codeSize})
	}
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	if addressFlags.Offline {
		return nil
	}
	if size == 0 {
		ux.Logger.RedXToUser("no contract code at %s on %s", address, cfg.Network)
	} else {
		ux.Logger.GreenCheckmarkToUser("contract code found at %s on %s", address, cfg.Network)
	}
	return nil
}
