// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contractcmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/luxfi/marketplace-deployer/pkg/application"
	"github.com/luxfi/marketplace-deployer/pkg/artifacts"
	"github.com/luxfi/marketplace-deployer/pkg/config"
	"github.com/luxfi/marketplace-deployer/pkg/constants"
	"github.com/luxfi/marketplace-deployer/pkg/contract"
	"github.com/luxfi/marketplace-deployer/pkg/deployment"
	"github.com/luxfi/marketplace-deployer/pkg/ux"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	marketplacePath = "artifacts/contracts/CourseMarketplace.sol/CourseMarketplace.json"
	marketplaceJSON = `{
  "contractName": "CourseMarketplace",
  "sourceName": "contracts/CourseMarketplace.sol",
  "abi": [
    {"inputs": [], "stateMutability": "nonpayable", "type": "constructor"},
    {"inputs": [{"name": "courseId", "type": "uint256"}], "name": "purchaseCourse", "outputs": [], "stateMutability": "payable", "type": "function"}
  ],
  "bytecode": "0x6001600c60003960016000f300"
}`
	ownablePath = "artifacts/contracts/Ownable.sol/Ownable.json"
	ownableJSON = `{
  "contractName": "Ownable",
  "sourceName": "contracts/Ownable.sol",
  "abi": [],
  "bytecode": "0x"
}`
)

func newTestApp(t *testing.T, fs afero.Fs) (*application.App, *bytes.Buffer) {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	testApp := application.New()
	testApp.Setup(t.TempDir(), zap.NewNop(), config.NewWithViper(v), fs)

	out := &bytes.Buffer{}
	prevLogger, prevDial := ux.Logger, dial
	ux.Logger = ux.New(nil, out)
	t.Cleanup(func() {
		ux.Logger = prevLogger
		dial = prevDial
	})
	return testApp, out
}

func newArtifactsFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, marketplacePath, []byte(marketplaceJSON), constants.WriteReadReadPerms))
	require.NoError(t, afero.WriteFile(fs, ownablePath, []byte(ownableJSON), constants.WriteReadReadPerms))
	return fs
}

func execute(ctx context.Context, testApp *application.App, args ...string) error {
	cmd := NewCmd(testApp)
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return cmd.ExecuteContext(ctx)
}

type simChain struct {
	sim     *simulated.Backend
	keyHex  string
	chainID *big.Int
}

func newSimChain(t *testing.T) *simChain {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	sim := simulated.NewBackend(types.GenesisAlloc{
		crypto.PubkeyToAddress(key.PublicKey): {Balance: big.NewInt(1_000_000_000_000_000_000)},
	})
	t.Cleanup(func() { _ = sim.Close() })
	chainID, err := sim.Client().ChainID(context.Background())
	require.NoError(t, err)
	dial = func(context.Context, string) (contract.Backend, error) {
		return sim.Client(), nil
	}
	return &simChain{sim: sim, keyHex: hexutil.Encode(crypto.FromECDSA(key)), chainID: chainID}
}

// run executes the command while blocks are committed in the background
func (c *simChain) run(ctx context.Context, testApp *application.App, args ...string) error {
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
				c.sim.Commit()
			}
		}
	})
	g.Go(func() error {
		defer close(done)
		return execute(gctx, testApp, args...)
	})
	return g.Wait()
}

func TestDeployCommand(t *testing.T) {
	require := require.New(t)
	fs := newArtifactsFs(t)
	testApp, out := newTestApp(t, fs)
	chain := newSimChain(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(chain.run(ctx, testApp,
		"deploy",
		"--private-key", chain.keyHex,
		"--chain-id", chain.chainID.String(),
		"--timeout", "20s",
	))

	saved, err := afero.ReadFile(fs, constants.AddressFileName)
	require.NoError(err)
	address := string(saved)
	require.Len(address, constants.ExpectedAddressLength)
	require.Equal("Deploying CourseMarketplace contract...\n"+
		"Contract Address: "+address+"\n"+
		"Address Length: 42\n"+
		"\n"+
		"=== COPY THIS ADDRESS ===\n"+
		address+"\n"+
		"=========================\n", out.String())

	// the saved address can be inspected on chain afterwards
	out.Reset()
	require.NoError(execute(ctx, testApp, "address"))
	require.Contains(out.String(), address)
	require.Contains(out.String(), "1 bytes")
	require.Contains(out.String(), "✓ contract code found at "+address)
}

func TestAddressCommandNoCode(t *testing.T) {
	require := require.New(t)
	fs := afero.NewMemMapFs()
	const address = "0x5FbDB2315678afecb367f032d93F642f64180aa3"
	require.NoError(afero.WriteFile(fs, constants.AddressFileName, []byte(address), constants.WriteReadReadPerms))
	testApp, out := newTestApp(t, fs)
	newSimChain(t)

	require.NoError(execute(context.Background(), testApp, "address"))
	require.Contains(out.String(), "0 bytes")
	require.Contains(out.String(), "✗ no contract code at "+address+" on localhost")
}

func TestDeployCommandCustomOutput(t *testing.T) {
	require := require.New(t)
	fs := newArtifactsFs(t)
	testApp, _ := newTestApp(t, fs)
	chain := newSimChain(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(chain.run(ctx, testApp,
		"deploy", "contracts/CourseMarketplace.sol:CourseMarketplace",
		"--private-key", chain.keyHex,
		"--chain-id", chain.chainID.String(),
		"--output", "out/marketplace.txt",
	))
	exists, err := afero.Exists(fs, "out/marketplace.txt")
	require.NoError(err)
	require.True(exists)
	exists, err = afero.Exists(fs, constants.AddressFileName)
	require.NoError(err)
	require.False(exists)
}

func TestDeployCommandUnknownContract(t *testing.T) {
	require := require.New(t)
	fs := newArtifactsFs(t)
	testApp, out := newTestApp(t, fs)
	dialed := false
	dial = func(context.Context, string) (contract.Backend, error) {
		dialed = true
		return nil, errors.New("unexpected dial")
	}

	err := execute(context.Background(), testApp, "deploy", "CourseMarket")
	require.ErrorIs(err, artifacts.ErrContractNotFound)
	require.Equal(deployment.StageResolution, deployment.StageOf(err))
	require.False(dialed)
	require.Equal("Deploying CourseMarket contract...\n", out.String())

	exists, err := afero.Exists(fs, constants.AddressFileName)
	require.NoError(err)
	require.False(exists)
}

func TestDeployCommandUnreachableNetwork(t *testing.T) {
	require := require.New(t)
	fs := newArtifactsFs(t)
	require.NoError(afero.WriteFile(fs, constants.AddressFileName, []byte("previous"), constants.WriteReadReadPerms))
	testApp, _ := newTestApp(t, fs)
	errRefused := errors.New("connection refused")
	dial = func(context.Context, string) (contract.Backend, error) {
		return nil, errRefused
	}

	err := execute(context.Background(), testApp, "deploy", "--rpc-url", "http://127.0.0.1:1")
	require.ErrorIs(err, errRefused)
	require.Equal(deployment.StageSubmission, deployment.StageOf(err))

	saved, err := afero.ReadFile(fs, constants.AddressFileName)
	require.NoError(err)
	require.Equal("previous", string(saved))
}

func TestDeployCommandArgs(t *testing.T) {
	testApp, _ := newTestApp(t, newArtifactsFs(t))
	err := execute(context.Background(), testApp, "deploy", "A", "B")
	require.ErrorContains(t, err, "accepts at most 1 argument(s), received 2")
}

func TestListCommand(t *testing.T) {
	require := require.New(t)
	testApp, out := newTestApp(t, newArtifactsFs(t))

	require.NoError(execute(context.Background(), testApp, "list"))
	listed := out.String()
	require.Contains(listed, "CourseMarketplace")
	require.Contains(listed, "contracts/CourseMarketplace.sol")
	require.Contains(listed, "13 bytes")
	require.Contains(listed, "Ownable")
	require.NotContains(listed, "needs linking")
	require.Less(bytes.Index(out.Bytes(), []byte("CourseMarketplace")), bytes.Index(out.Bytes(), []byte("Ownable")))
}

func TestListCommandLinkedLibrary(t *testing.T) {
	require := require.New(t)
	fs := newArtifactsFs(t)
	require.NoError(afero.WriteFile(fs, "artifacts/contracts/Payments.sol/Payments.json", []byte(`{
  "contractName": "Payments",
  "sourceName": "contracts/Payments.sol",
  "abi": [],
  "bytecode": "0x73__$abcdef0123456789abcdef0123456789ab$__6001"
}`), constants.WriteReadReadPerms))
	testApp, out := newTestApp(t, fs)

	require.NoError(execute(context.Background(), testApp, "list"))
	require.Contains(out.String(), "CourseMarketplace")
	require.Contains(out.String(), "23 bytes")
	require.Contains(out.String(), "needs linking")
}

func TestListCommandEmptyDir(t *testing.T) {
	require := require.New(t)
	fs := afero.NewMemMapFs()
	require.NoError(fs.MkdirAll("build/contracts", constants.DefaultPerms755))
	testApp, out := newTestApp(t, fs)

	require.NoError(execute(context.Background(), testApp, "list", "--artifacts", "build"))
	require.Equal("No compiled contracts found in build\n", out.String())
}

func TestListCommandMissingDir(t *testing.T) {
	testApp, _ := newTestApp(t, afero.NewMemMapFs())
	err := execute(context.Background(), testApp, "list", "--artifacts", "build")
	require.ErrorIs(t, err, artifacts.ErrArtifactsDirNotFound)
}

func TestAddressCommandOffline(t *testing.T) {
	require := require.New(t)
	fs := afero.NewMemMapFs()
	const address = "0x5FbDB2315678afecb367f032d93F642f64180aa3"
	require.NoError(afero.WriteFile(fs, constants.AddressFileName, []byte(address), constants.WriteReadReadPerms))
	testApp, out := newTestApp(t, fs)

	require.NoError(execute(context.Background(), testApp, "address", "--offline"))
	require.Contains(out.String(), address)
	require.Contains(out.String(), "42")
	require.NotContains(out.String(), "Code Size")
}

func TestAddressCommandMissingFile(t *testing.T) {
	testApp, _ := newTestApp(t, afero.NewMemMapFs())
	err := execute(context.Background(), testApp, "address", "--offline")
	require.ErrorIs(t, err, constants.ErrNoAddressFile)
}
