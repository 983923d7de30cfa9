// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/luxfi/marketplace-deployer/pkg/constants"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Network is a named chain endpoint plus the account used on it.
type Network struct {
	Name       string
	RPCURL     string
	ChainID    int64
	PrivateKey string
}

// builtinNetworks are available without any config file
var builtinNetworks = map[string]Network{
	constants.LocalNetwork: {
		Name:       constants.LocalNetwork,
		RPCURL:     constants.LocalRPCURL,
		ChainID:    constants.LocalChainID,
		PrivateKey: constants.LocalDevPrivateKey,
	},
}

// DeployConfig is everything a deployment needs to know about where and as
// whom to deploy.
type DeployConfig struct {
	Network      string
	RPCURL       string
	ChainID      int64
	PrivateKey   string
	ArtifactsDir string
	OutputFile   string
	GasLimit     uint64
	// Timeout bounds the whole deployment. Zero waits forever.
	Timeout time.Duration
}

func (c DeployConfig) Validate() error {
	if strings.TrimSpace(c.RPCURL) == "" {
		return constants.ErrNoRPCURL
	}
	if strings.TrimSpace(c.PrivateKey) == "" {
		return constants.ErrNoPrivateKey
	}
	if c.Timeout < 0 {
		return constants.ErrNegativeTimeout
	}
	return nil
}

type Config struct {
	v *viper.Viper
}

func New() *Config {
	return NewWithViper(viper.GetViper())
}

func NewWithViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// SetDefaults registers default values for every deploy key
func SetDefaults(v *viper.Viper) {
	v.SetDefault(constants.ConfigNetwork, constants.DefaultNetwork)
	v.SetDefault(constants.ConfigArtifactsDir, constants.DefaultArtifactsDir)
	v.SetDefault(constants.ConfigOutputFile, constants.AddressFileName)
	v.SetDefault(constants.ConfigTimeout, constants.DefaultTimeout)
}

func (c *Config) ConfigFileExists() bool {
	return c.v.ConfigFileUsed() != ""
}

// GetConfigPath returns the path to the configuration file
func (c *Config) GetConfigPath() string {
	return c.v.ConfigFileUsed()
}

// Network resolves a named network: built-in values first, then the
// networks.<name> section of the config file on top.
func (c *Config) Network(name string) (Network, error) {
	net, builtin := builtinNetworks[name]
	key := constants.ConfigNetworks + "." + name
	if !builtin && !c.v.IsSet(key) {
		return Network{}, fmt.Errorf("%w: %q (known: %s)", constants.ErrUnknownNetwork, name, strings.Join(c.Networks(), ", "))
	}
	net.Name = name
	if v := c.v.GetString(key + "." + constants.ConfigRPCURL); v != "" {
		net.RPCURL = v
	}
	if v := c.v.GetInt64(key + "." + constants.ConfigChainID); v != 0 {
		net.ChainID = v
	}
	if v := c.v.GetString(key + "." + constants.ConfigPrivateKey); v != "" {
		net.PrivateKey = v
	}
	return net, nil
}

// Networks returns the names of all known networks
func (c *Config) Networks() []string {
	names := make([]string, 0, len(builtinNetworks))
	for name := range builtinNetworks {
		names = append(names, name)
	}
	for name := range c.v.GetStringMap(constants.ConfigNetworks) {
		if _, ok := builtinNetworks[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// BindFlags binds every flag in fs whose name is a config key, so a flag set on
// the command line takes priority over env vars and the config file.
func (c *Config) BindFlags(fs *pflag.FlagSet) error {
	for _, key := range []string{
		constants.ConfigNetwork,
		constants.ConfigRPCURL,
		constants.ConfigChainID,
		constants.ConfigPrivateKey,
		constants.ConfigArtifactsDir,
		constants.ConfigOutputFile,
		constants.ConfigGasLimit,
		constants.ConfigTimeout,
	} {
		flag := fs.Lookup(key)
		if flag == nil {
			continue
		}
		if err := c.v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", key, err)
		}
	}
	return nil
}

// LoadDeployConfig is Load followed by Validate.
func (c *Config) LoadDeployConfig() (DeployConfig, error) {
	cfg, err := c.Load()
	if err != nil {
		return DeployConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return DeployConfig{}, err
	}
	return cfg, nil
}

// Load builds a DeployConfig without validating it. Priority: flags > env
// vars > config file > network definition > defaults.
func (c *Config) Load() (DeployConfig, error) {
	name := c.v.GetString(constants.ConfigNetwork)
	if name == "" {
		name = constants.DefaultNetwork
	}
	net, err := c.Network(name)
	if err != nil {
		return DeployConfig{}, err
	}

	cfg := DeployConfig{
		Network:      name,
		RPCURL:       net.RPCURL,
		ChainID:      net.ChainID,
		PrivateKey:   net.PrivateKey,
		ArtifactsDir: c.v.GetString(constants.ConfigArtifactsDir),
		OutputFile:   c.v.GetString(constants.ConfigOutputFile),
		GasLimit:     c.v.GetUint64(constants.ConfigGasLimit),
		Timeout:      c.v.GetDuration(constants.ConfigTimeout),
	}
	if c.v.IsSet(constants.ConfigRPCURL) {
		cfg.RPCURL = c.v.GetString(constants.ConfigRPCURL)
	}
	if c.v.IsSet(constants.ConfigChainID) {
		cfg.ChainID = c.v.GetInt64(constants.ConfigChainID)
	}
	if c.v.IsSet(constants.ConfigPrivateKey) {
		cfg.PrivateKey = c.v.GetString(constants.ConfigPrivateKey)
	}
	if cfg.ArtifactsDir == "" {
		cfg.ArtifactsDir = constants.DefaultArtifactsDir
	}
	if cfg.OutputFile == "" {
		cfg.OutputFile = constants.AddressFileName
	}
	return cfg, nil
}
