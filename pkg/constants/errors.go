// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

import "errors"

var (
	ErrNoRPCURL          = errors.New("no rpc url configured. Use --rpc-url, DEPLOYER_RPC_URL or a named --network")
	ErrNoPrivateKey      = errors.New("no private key configured. Use --private-key or DEPLOYER_PRIVATE_KEY")
	ErrUnknownNetwork    = errors.New("unknown network")
	ErrNoContractName    = errors.New("contract name must not be empty")
	ErrNoAddressFile     = errors.New("no deployed address file found. Run 'deployer contract deploy' first")
	ErrNegativeTimeout   = errors.New("timeout must not be negative")
	ErrInvalidPrivateKey = errors.New("invalid private key")
)
