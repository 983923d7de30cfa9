// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/luxfi/marketplace-deployer/cmd/contractcmd"
	"github.com/luxfi/marketplace-deployer/pkg/application"
	"github.com/luxfi/marketplace-deployer/pkg/config"
	"github.com/luxfi/marketplace-deployer/pkg/constants"
	"github.com/luxfi/marketplace-deployer/pkg/ux"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	app *application.App

	logLevel    string
	Version     = "0.1.0"
	cfgFile     string
	verboseFlag bool
	debugFlag   bool
	quietFlag   bool
)

func NewRootCmd() *cobra.Command {
	// rootCmd represents the base command when called without any subcommands
	rootCmd := &cobra.Command{
		Use: "deployer",
		Long: `deployer - deploys Hardhat compiled contracts and records their address.

QUICK START:

  # Compile with hardhat, start a local node, then
  deployer contract deploy

  # Deploy to a network defined in deployer.yaml
  deployer contract deploy --network sepolia

  # Show what can be deployed
  deployer contract list

CONFIGURATION:

  Flags take priority over DEPLOYER_* environment variables, which take
  priority over deployer.yaml (read from the working directory or ~/.deployer).

For detailed command help, use: deployer <command> --help`,
		PersistentPreRunE: createApp,
		PersistentPostRun: syncLogs,
		Version:           Version,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Disable printing the completion command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./deployer.yaml or $HOME/.deployer/deployer.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "WARN", "log level for the console")
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Show verbose output (info level logs)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Show debug output (debug level logs)")
	rootCmd.PersistentFlags().BoolVar(&quietFlag, "quiet", false, "Show only errors (quiet mode)")

	// add contract command
	rootCmd.AddCommand(contractcmd.NewCmd(app))

	return rootCmd
}

func createApp(_ *cobra.Command, _ []string) error {
	baseDir, err := setupEnv()
	if err != nil {
		return err
	}
	level, err := displayLevel()
	if err != nil {
		return err
	}
	cf := config.New()
	app.Setup(baseDir, zap.NewNop(), cf, afero.NewOsFs())

	log, err := setupLogging(app.GetLogFile(), level)
	if err != nil {
		return err
	}
	app.Log = log

	return initConfig()
}

func syncLogs(_ *cobra.Command, _ []string) {
	_ = app.Log.Sync()
}

// displayLevel resolves the console level. The flags win over --log-level.
func displayLevel() (zapcore.Level, error) {
	switch {
	case debugFlag:
		return zapcore.DebugLevel, nil
	case verboseFlag:
		return zapcore.InfoLevel, nil
	case quietFlag:
		return zapcore.ErrorLevel, nil
	}
	level, err := zapcore.ParseLevel(strings.ToLower(logLevel))
	if err != nil {
		return level, fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
	}
	return level, nil
}

func setupEnv() (string, error) {
	// Set base dir
	home, err := os.UserHomeDir()
	if err != nil {
		// no logger here yet
		fmt.Printf("unable to get home directory %s\n", err)
		return "", err
	}
	baseDir := filepath.Join(home, constants.BaseDirName)

	// Create base dir if it doesn't exist
	err = os.MkdirAll(baseDir, constants.DefaultPerms755)
	if err != nil {
		// no logger here yet
		fmt.Printf("failed creating the basedir %s: %s\n", baseDir, err)
		return "", err
	}
	return baseDir, nil
}

func setupLogging(logFilePath string, display zapcore.Level) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(logFilePath), constants.DefaultPerms755); err != nil {
		return nil, fmt.Errorf("failed creating log directory: %w", err)
	}
	logFile, err := os.OpenFile(
		logFilePath,
		os.O_CREATE|os.O_APPEND|os.O_WRONLY,
		constants.WriteReadReadPerms,
	)
	if err != nil {
		return nil, fmt.Errorf("failed setting up logging, exiting: %w", err)
	}

	// the file keeps info and above even when the console is quiet
	fileLevel := zapcore.InfoLevel
	if display < fileLevel {
		fileLevel = display
	}
	consoleConfig := zap.NewDevelopmentEncoderConfig()
	consoleConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleConfig), zapcore.Lock(os.Stderr), display),
		zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(logFile), fileLevel),
	)
	log := zap.New(core).Named("deployer")

	// create the user facing logger as a global var
	// User output goes to stdout, logs go to stderr
	ux.NewUserLog(log, os.Stdout)
	return log, nil
}

// initConfig reads in config file and ENV variables if set.
// Priority: flags > env vars > config file > defaults
func initConfig() error {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath(app.GetBaseDir())
		viper.SetConfigType(constants.DefaultConfigFileType)
		viper.SetConfigName(constants.DefaultConfigFileName) // deployer.yaml
	}

	// DEPLOYER_RPC_URL -> rpc-url, etc.
	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	config.SetDefaults(viper.GetViper())

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed reading config file: %w", err)
		}
		// No config file is normal, the built-in localhost network is used
		return nil
	}
	if app.Conf.ConfigFileExists() {
		app.Log.Debug("using config file", zap.String("config-file", app.Conf.GetConfigPath()))
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	app = application.New()
	rootCmd := NewRootCmd()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nERROR: %s\n", err)
		os.Exit(1)
	}
}
