// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package artifacts resolves compiled contracts from a Hardhat artifacts tree
// (artifacts/contracts/<File>.sol/<Name>.json) into deployable templates.
package artifacts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/luxfi/marketplace-deployer/pkg/constants"
	"github.com/spf13/afero"
)

var (
	ErrArtifactsDirNotFound = errors.New("artifacts directory not found")
	ErrContractNotFound     = errors.New("contract not found in artifacts")
	ErrAmbiguousContract    = errors.New("contract name is ambiguous, use a fully qualified name")
	ErrNoBytecode           = errors.New("contract has no deployable bytecode")
)

// Template is a compiled contract ready to be deployed.
type Template struct {
	Name       string
	SourceName string
	ABI        abi.ABI
	Bytecode   []byte
	Path       string
}

// FullyQualifiedName returns "<source>:<name>".
func (t *Template) FullyQualifiedName() string {
	return t.SourceName + ":" + t.Name
}

// Summary describes an artifact without decoding its ABI.
type Summary struct {
	Name         string
	SourceName   string
	ABIEntries   int
	BytecodeSize int
	// NeedsLinking is set when the bytecode references libraries that have
	// not been linked yet. Such contracts cannot be deployed as is.
	NeedsLinking bool
	Path         string
}

func (s Summary) FullyQualifiedName() string {
	return s.SourceName + ":" + s.Name
}

// artifactFile mirrors the fields of a hh-sol-artifact-1 file we depend on.
type artifactFile struct {
	ContractName string            `json:"contractName"`
	SourceName   string            `json:"sourceName"`
	ABI          []json.RawMessage `json:"abi"`
	Bytecode     string            `json:"bytecode"`
}

type Store struct {
	fs  afero.Fs
	dir string
}

func NewStore(fsys afero.Fs, dir string) *Store {
	if dir == "" {
		dir = constants.DefaultArtifactsDir
	}
	return &Store{
		fs:  fsys,
		dir: dir,
	}
}

func (s *Store) Dir() string {
	return s.dir
}

// Resolve maps a contract name to a template. name is either a bare contract
// name or a fully qualified "contracts/File.sol:Name".
func (s *Store) Resolve(name string) (*Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, constants.ErrNoContractName
	}
	sourceName, contractName := splitQualifiedName(name)

	var matches []string
	err := s.walk(func(path string, art *artifactFile) error {
		if art.ContractName != contractName {
			return nil
		}
		if sourceName != "" && art.SourceName != sourceName {
			return nil
		}
		matches = append(matches, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s (looked in %s)", ErrContractNotFound, name, s.dir)
	case 1:
	default:
		sort.Strings(matches)
		return nil, fmt.Errorf("%w: %s found in %s", ErrAmbiguousContract, name, strings.Join(matches, ", "))
	}
	return s.load(matches[0])
}

// List returns every contract artifact sorted by fully qualified name.
func (s *Store) List() ([]Summary, error) {
	var summaries []Summary
	err := s.walk(func(path string, art *artifactFile) error {
		summary := Summary{
			Name:       art.ContractName,
			SourceName: art.SourceName,
			ABIEntries: len(art.ABI),
			Path:       path,
		}
		if hasLinkReferences(art.Bytecode) {
			// placeholders are 40 hex chars, the same as the linked address
			summary.NeedsLinking = true
			summary.BytecodeSize = len(strings.TrimPrefix(strings.TrimSpace(art.Bytecode), "0x")) / 2
		} else {
			code, err := decodeBytecode(art.Bytecode)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			summary.BytecodeSize = len(code)
		}
		summaries = append(summaries, summary)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].FullyQualifiedName() < summaries[j].FullyQualifiedName()
	})
	return summaries, nil
}

func (s *Store) load(path string) (*Template, error) {
	art, err := s.read(path)
	if err != nil {
		return nil, err
	}
	code, err := decodeBytecode(art.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("%w: %s:%s", ErrNoBytecode, art.SourceName, art.ContractName)
	}
	rawABI, err := json.Marshal(art.ABI)
	if err != nil {
		return nil, fmt.Errorf("%s: encode abi: %w", path, err)
	}
	parsed, err := abi.JSON(bytes.NewReader(rawABI))
	if err != nil {
		return nil, fmt.Errorf("%s: parse abi: %w", path, err)
	}
	return &Template{
		Name:       art.ContractName,
		SourceName: art.SourceName,
		ABI:        parsed,
		Bytecode:   code,
		Path:       path,
	}, nil
}

// walk calls fn for every contract artifact below the store root.
func (s *Store) walk(fn func(path string, art *artifactFile) error) error {
	info, err := s.fs.Stat(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s. Compile the contracts first", ErrArtifactsDirNotFound, s.dir)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrArtifactsDirNotFound, s.dir)
	}
	return afero.Walk(s.fs, s.dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == constants.BuildInfoDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !isArtifactFile(info.Name()) {
			return nil
		}
		art, err := s.read(path)
		if err != nil {
			return err
		}
		// other json files (e.g. cache) carry no contract name
		if art.ContractName == "" {
			return nil
		}
		return fn(path, art)
	})
}

func (s *Store) read(path string) (*artifactFile, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", path, err)
	}
	var art artifactFile
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("parse artifact %s: %w", path, err)
	}
	return &art, nil
}

func isArtifactFile(name string) bool {
	return strings.HasSuffix(name, constants.ArtifactSuffix) &&
		!strings.HasSuffix(name, constants.DebugArtifactSuffix)
}

// hasLinkReferences reports whether unlinked libraries left __$...$__
// placeholders in the bytecode.
func hasLinkReferences(code string) bool {
	return strings.Contains(code, "__")
}

func decodeBytecode(code string) ([]byte, error) {
	code = strings.TrimSpace(code)
	if code == "" || code == "0x" {
		return nil, nil
	}
	if !strings.HasPrefix(code, "0x") {
		code = "0x" + code
	}
	if hasLinkReferences(code) {
		return nil, errors.New("bytecode has unlinked library references")
	}
	b, err := hexutil.Decode(code)
	if err != nil {
		return nil, fmt.Errorf("decode bytecode: %w", err)
	}
	return b, nil
}

func splitQualifiedName(name string) (string, string) {
	if i := strings.LastIndex(name, ":"); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}
