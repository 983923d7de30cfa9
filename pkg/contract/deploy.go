// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/luxfi/marketplace-deployer/pkg/artifacts"
	"github.com/luxfi/marketplace-deployer/pkg/constants"
)

var ErrDeploymentReverted = errors.New("deployment transaction reverted")

// Backend is what a deployment needs from a chain connection. Both
// *ethclient.Client and the simulated backend client satisfy it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

// Dial connects to an EVM json-rpc endpoint
func Dial(ctx context.Context, rpcURL string) (*ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", rpcURL, err)
	}
	return client, nil
}

// ParsePrivateKey decodes a hex private key, with or without 0x prefix
func ParsePrivateKey(v string) (*ecdsa.PrivateKey, error) {
	v = strings.TrimPrefix(strings.TrimSpace(v), "0x")
	if v == "" {
		return nil, constants.ErrNoPrivateKey
	}
	key, err := crypto.HexToECDSA(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", constants.ErrInvalidPrivateKey, err)
	}
	return key, nil
}

type DeployerOpts struct {
	PrivateKey *ecdsa.PrivateKey
	// ChainID of zero is looked up from the backend
	ChainID  *big.Int
	GasLimit uint64
}

type Deployer struct {
	backend Backend
	chainID *big.Int
	from    common.Address
	key     *ecdsa.PrivateKey
	gas     uint64
}

func NewDeployer(ctx context.Context, backend Backend, opts DeployerOpts) (*Deployer, error) {
	if opts.PrivateKey == nil {
		return nil, constants.ErrNoPrivateKey
	}
	chainID := opts.ChainID
	if chainID == nil || chainID.Sign() == 0 {
		var err error
		chainID, err = backend.ChainID(ctx)
		if err != nil {
			return nil, fmt.Errorf("get chain id: %w", err)
		}
	}
	return &Deployer{
		backend: backend,
		chainID: new(big.Int).Set(chainID),
		from:    crypto.PubkeyToAddress(opts.PrivateKey.PublicKey),
		key:     opts.PrivateKey,
		gas:     opts.GasLimit,
	}, nil
}

// From returns the deployer account
func (d *Deployer) From() common.Address {
	return d.from
}

func (d *Deployer) ChainID() *big.Int {
	return new(big.Int).Set(d.chainID)
}

// Deploy signs and submits the creation transaction of tmpl. It does not wait
// for the transaction to be mined.
func (d *Deployer) Deploy(ctx context.Context, tmpl *artifacts.Template) (*Deployment, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(d.key, d.chainID)
	if err != nil {
		return nil, fmt.Errorf("create transactor: %w", err)
	}
	opts.Context = ctx
	opts.GasLimit = d.gas

	addr, tx, _, err := bind.DeployContract(opts, tmpl.ABI, tmpl.Bytecode, d.backend)
	if err != nil {
		return nil, fmt.Errorf("deploy %s: %w", tmpl.Name, err)
	}
	return &Deployment{
		backend: d.backend,
		name:    tmpl.Name,
		tx:      tx,
		address: addr,
	}, nil
}

// Deployment is a submitted contract creation
type Deployment struct {
	backend   Backend
	name      string
	tx        *types.Transaction
	address   common.Address
	confirmed bool
}

func (dep *Deployment) TxHash() common.Hash {
	return dep.tx.Hash()
}

// WaitForDeployment blocks until the creation transaction is mined and code
// is present at the contract address.
func (dep *Deployment) WaitForDeployment(ctx context.Context) error {
	receipt, err := bind.WaitMined(ctx, dep.backend, dep.tx)
	if err != nil {
		return fmt.Errorf("wait for %s deployment %s: %w", dep.name, dep.tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("%w: %s tx %s", ErrDeploymentReverted, dep.name, receipt.TxHash.Hex())
	}
	addr, err := bind.WaitDeployed(ctx, dep.backend, dep.tx)
	if err != nil {
		return fmt.Errorf("wait for %s deployment %s: %w", dep.name, dep.tx.Hash().Hex(), err)
	}
	dep.address = addr
	dep.confirmed = true
	return nil
}

// Address returns the checksummed address of the deployed contract.
func (dep *Deployment) Address(context.Context) (string, error) {
	if !dep.confirmed {
		return "", fmt.Errorf("%s deployment %s is not confirmed", dep.name, dep.tx.Hash().Hex())
	}
	return dep.address.Hex(), nil
}

// CodeSize returns the size of the code stored at address
func CodeSize(ctx context.Context, backend bind.ContractCaller, address common.Address) (int, error) {
	code, err := backend.CodeAt(ctx, address, nil)
	if err != nil {
		return 0, fmt.Errorf("get code at %s: %w", address.Hex(), err)
	}
	return len(code), nil
}
