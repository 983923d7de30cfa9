// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package deployment

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/luxfi/marketplace-deployer/pkg/artifacts"
	"github.com/luxfi/marketplace-deployer/pkg/config"
	"github.com/luxfi/marketplace-deployer/pkg/constants"
	"github.com/luxfi/marketplace-deployer/pkg/contract"
	"github.com/luxfi/marketplace-deployer/pkg/ux"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

const marketplaceArtifact = `{
  "_format": "hh-sol-artifact-1",
  "contractName": "CourseMarketplace",
  "sourceName": "contracts/CourseMarketplace.sol",
  "abi": [{"inputs": [], "stateMutability": "nonpayable", "type": "constructor"}],
  "bytecode": "0x6001600c60003960016000f300",
  "deployedBytecode": "0x00",
  "linkReferences": {},
  "deployedLinkReferences": {}
}`

func TestRunOnSimulatedChain(t *testing.T) {
	require := require.New(t)

	key, err := crypto.GenerateKey()
	require.NoError(err)
	from := crypto.PubkeyToAddress(key.PublicKey)
	sim := simulated.NewBackend(types.GenesisAlloc{
		from: {Balance: big.NewInt(1_000_000_000_000_000_000)},
	})
	t.Cleanup(func() { _ = sim.Close() })

	fs := afero.NewMemMapFs()
	require.NoError(afero.WriteFile(fs,
		"artifacts/contracts/CourseMarketplace.sol/CourseMarketplace.json",
		[]byte(marketplaceArtifact), constants.WriteReadReadPerms))

	dialed := 0
	nd := &NetworkDeployer{
		Config: config.DeployConfig{
			Network:    "simulated",
			RPCURL:     "simulated://",
			PrivateKey: hexutil.Encode(crypto.FromECDSA(key)),
		},
		Dial: func(context.Context, string) (contract.Backend, error) {
			dialed++
			return sim.Client(), nil
		},
	}
	defer nd.Close()

	out := &bytes.Buffer{}
	runner := &Runner{
		Resolver:    artifacts.NewStore(fs, "artifacts"),
		Deployer:    nd,
		FS:          fs,
		Output:      ux.New(nil, out),
		AddressFile: constants.AddressFileName,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var result Result
	g, gctx := errgroup.WithContext(ctx)
	done := make(chan struct{})
	g.Go(func() error {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return nil
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				sim.Commit()
			}
		}
	})
	g.Go(func() error {
		defer close(done)
		var err error
		result, err = runner.Run(gctx)
		return err
	})
	require.NoError(g.Wait())

	expected := crypto.CreateAddress(from, 0).Hex()
	require.Equal(1, dialed)
	require.Equal(Result{Contract: constants.DefaultContractName, Address: expected}, result)

	saved, err := afero.ReadFile(fs, constants.AddressFileName)
	require.NoError(err)
	require.Equal(expected, string(saved))
	require.Contains(out.String(), "Contract Address: "+expected+"\n")
	require.Contains(out.String(), "Address Length: 42\n")
}

func TestNetworkDeployerFailsBeforeDialing(t *testing.T) {
	require := require.New(t)
	dialed := false
	nd := &NetworkDeployer{
		Config: config.DeployConfig{RPCURL: "http://127.0.0.1:1", PrivateKey: "not-a-key"},
		Dial: func(context.Context, string) (contract.Backend, error) {
			dialed = true
			return nil, errors.New("unreachable")
		},
	}
	_, err := nd.Deploy(context.Background(), &artifacts.Template{Name: "CourseMarketplace"})
	require.ErrorIs(err, constants.ErrInvalidPrivateKey)
	require.False(dialed)
}

func TestNetworkDeployerDialFailureIsSubmission(t *testing.T) {
	require := require.New(t)
	errRefused := errors.New("dial tcp 127.0.0.1:8545: connect: connection refused")
	fs := afero.NewMemMapFs()
	require.NoError(afero.WriteFile(fs, constants.AddressFileName, []byte("previous"), constants.WriteReadReadPerms))

	runner, out := newTestRunner(fs, &NetworkDeployer{
		Config: config.DeployConfig{RPCURL: constants.LocalRPCURL, PrivateKey: constants.LocalDevPrivateKey},
		Dial: func(context.Context, string) (contract.Backend, error) {
			return nil, errRefused
		},
	})

	_, err := runner.Run(context.Background())
	require.ErrorIs(err, errRefused)
	require.Equal(StageSubmission, StageOf(err))
	require.Equal("Deploying CourseMarketplace contract...\n", out.String())

	saved, err := afero.ReadFile(fs, constants.AddressFileName)
	require.NoError(err)
	require.Equal("previous", string(saved))
}
