// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

import (
	"time"
)

const (
	DefaultPerms755    = 0o755
	WriteReadReadPerms = 0o644

	BaseDirName = ".deployer"
	LogDir      = "logs"
	LogFileName = "deployer.log"

	DefaultConfigFileName = "deployer"
	DefaultConfigFileType = "yaml"
	EnvPrefix             = "DEPLOYER"

	// DefaultContractName is the contract deployed when no name is given.
	DefaultContractName = "CourseMarketplace"
	// AddressFileName receives the deployed address, without a trailing newline.
	AddressFileName = "deployed_address.txt"
	// ExpectedAddressLength is the length of a 0x-prefixed 20 byte hex address.
	// It is only reported, never enforced.
	ExpectedAddressLength = 42

	DefaultArtifactsDir = "artifacts"
	BuildInfoDir        = "build-info"
	DebugArtifactSuffix = ".dbg.json"
	ArtifactSuffix      = ".json"

	CopyBlockHeader = "=== COPY THIS ADDRESS ==="
	CopyBlockFooter = "========================="

	// networks
	LocalNetwork   = "localhost"
	LocalRPCURL    = "http://127.0.0.1:8545"
	LocalChainID   = 31337
	DefaultNetwork = LocalNetwork
	// LocalDevPrivateKey is the first prefunded account of a Hardhat/anvil dev node.
	LocalDevPrivateKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

	// config keys
	ConfigNetwork      = "network"
	ConfigNetworks     = "networks"
	ConfigRPCURL       = "rpc-url"
	ConfigChainID      = "chain-id"
	ConfigPrivateKey   = "private-key"
	ConfigArtifactsDir = "artifacts"
	ConfigOutputFile   = "output"
	ConfigGasLimit     = "gas-limit"
	ConfigTimeout      = "timeout"

	// Timeout of zero means the confirmation wait is unbounded.
	DefaultTimeout = time.Duration(0)

	StepWarnAfter = 30 * time.Second
)
