// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

// Command names exported for testing
const (
	// ContractCmd is the contract suite name
	ContractCmd = "contract"

	// DeployCmd deploys a contract
	DeployCmd = "deploy"

	// ListCmd lists deployable contracts
	ListCmd = "list"

	// AddressCmd shows the saved address
	AddressCmd = "address"
)
