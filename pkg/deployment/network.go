// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package deployment

import (
	"context"
	"math/big"

	"github.com/luxfi/marketplace-deployer/pkg/artifacts"
	"github.com/luxfi/marketplace-deployer/pkg/config"
	"github.com/luxfi/marketplace-deployer/pkg/contract"
	"go.uber.org/zap"
)

// DialFunc opens a chain connection.
type DialFunc func(ctx context.Context, rpcURL string) (contract.Backend, error)

// DialRPC is the DialFunc used outside of tests.
func DialRPC(ctx context.Context, rpcURL string) (contract.Backend, error) {
	return contract.Dial(ctx, rpcURL)
}

// NetworkDeployer deploys to the network described by Config. The connection
// is only opened by the first Deploy call.
type NetworkDeployer struct {
	Config config.DeployConfig
	Dial   DialFunc
	Log    *zap.Logger

	backend contract.Backend
}

func (n *NetworkDeployer) Deploy(ctx context.Context, tmpl *artifacts.Template) (Pending, error) {
	log := n.Log
	if log == nil {
		log = zap.NewNop()
	}
	key, err := contract.ParsePrivateKey(n.Config.PrivateKey)
	if err != nil {
		return nil, err
	}
	if n.backend == nil {
		dial := n.Dial
		if dial == nil {
			dial = DialRPC
		}
		backend, err := dial(ctx, n.Config.RPCURL)
		if err != nil {
			return nil, err
		}
		n.backend = backend
	}

	opts := contract.DeployerOpts{
		PrivateKey: key,
		GasLimit:   n.Config.GasLimit,
	}
	if n.Config.ChainID != 0 {
		opts.ChainID = big.NewInt(n.Config.ChainID)
	}
	d, err := contract.NewDeployer(ctx, n.backend, opts)
	if err != nil {
		return nil, err
	}
	log.Info("submitting deployment",
		zap.String("network", n.Config.Network),
		zap.String("rpc-url", n.Config.RPCURL),
		zap.Stringer("chain-id", d.ChainID()),
		zap.String("from", d.From().Hex()),
	)

	dep, err := d.Deploy(ctx, tmpl)
	if err != nil {
		return nil, err
	}
	log.Info("deployment transaction sent",
		zap.String("template", tmpl.FullyQualifiedName()),
		zap.String("tx", dep.TxHash().Hex()),
	)
	return dep, nil
}

// Close releases the connection if one was opened.
func (n *NetworkDeployer) Close() {
	if c, ok := n.backend.(interface{ Close() }); ok {
		c.Close()
	}
	n.backend = nil
}
