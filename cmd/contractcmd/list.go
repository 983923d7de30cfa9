// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package contractcmd

import (
	"fmt"

	"github.com/luxfi/marketplace-deployer/cmd/flags"
	"github.com/luxfi/marketplace-deployer/pkg/artifacts"
	"github.com/luxfi/marketplace-deployer/pkg/cobrautils"
	"github.com/luxfi/marketplace-deployer/pkg/ux"
	"github.com/spf13/cobra"
)

var listArtifactsDir string

// deployer contract list
func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the contracts that can be deployed",
		Long: `Lists every compiled contract in the Hardhat artifacts directory.
Abstract contracts and interfaces are shown with a bytecode size of 0.
Contracts whose libraries still have to be linked are marked as such.`,
		RunE: listContracts,
		Args: cobrautils.ExactArgs(0),
	}
	flags.AddArtifactsFlagToCmd(cmd, app, &listArtifactsDir)
	return cmd
}

func listContracts(_ *cobra.Command, _ []string) error {
	cfg, err := app.Conf.Load()
	if err != nil {
		return err
	}
	store := artifacts.NewStore(app.FS, cfg.ArtifactsDir)
	summaries, err := store.List()
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		ux.Logger.PrintToUser("No compiled contracts found in %s", store.Dir())
		return nil
	}

	table := ux.Logger.Table("Contract", "Source", "ABI Entries", "Bytecode Size")
	for _, s := range summaries {
		size := fmt.Sprintf("%d bytes", s.BytecodeSize)
		if s.NeedsLinking {
			size += " (needs linking)"
		}
		row := []string{s.Name, s.SourceName, fmt.Sprint(s.ABIEntries), size}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}
