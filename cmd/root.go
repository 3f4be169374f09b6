package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	clierrors "github.com/conneroisu/structcli/internal/errors"
	"github.com/conneroisu/structcli/internal/logging"
	"github.com/conneroisu/structcli/pkg/structcli"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	logger    logging.Logger = logging.NewNopLogger()
	logCloser io.Closer

	loggingBinding *structcli.Binding[LoggingConfig]
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "structcli",
	Short: "Declare cobra options and arguments with Go structs",
	Long: `structcli maps struct fields onto command-line options and positional
arguments, and rebuilds the structs from the parsed command line.

This binary demonstrates the library: every command below declares its
parameters as a struct.

Quick Start:
  structcli greet World            Greet someone
  structcli greet World Hi -n 2    Greet twice with a custom greeting
  structcli inspect greet          Show how a struct maps onto parameters
  structcli version                Show build information`,
	SilenceUsage:       true,
	PersistentPreRunE:  setupLogging,
	PersistentPostRunE: closeLogging,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// Exit codes returned by ExitCode.
const (
	ExitFailure  = 1
	ExitUsage    = 2
	ExitSoftware = 70
)

// ExitCode maps an error returned by Execute to a process exit code:
// command-line mistakes exit with 2, broken struct declarations with 70
// (EX_SOFTWARE), anything else with 1.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case structcli.IsUsageError(err):
		return ExitUsage
	case structcli.IsDeclarationError(err):
		return ExitSoftware
	default:
		return ExitFailure
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .structcli.yml, can also use STRUCTCLI_CONFIG_FILE env var)")

	loggingBinding = structcli.MustBind[LoggingConfig](rootCmd,
		structcli.Persistent(),
		structcli.WithViper(viper.GetViper(), ""),
		structcli.WithLogger(cliLogger{}),
	)
}

// initConfig initializes the configuration system.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. STRUCTCLI_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .structcli.yml in current directory
//
// Environment variables use the STRUCTCLI_ prefix with dots and dashes
// mapped to underscores (e.g. STRUCTCLI_LOG_FORMAT=json).
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("STRUCTCLI_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".structcli")
	}

	viper.SetEnvPrefix("STRUCTCLI")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// A missing or malformed config file leaves flags, environment and
	// declared defaults in charge.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loggingBinding.Build(cmd, nil)
	if err != nil {
		return err
	}

	l, closer, err := cfg.Logger(cmd.ErrOrStderr())
	if err != nil {
		return clierrors.WrapInternal(err, "failed to set up logging")
	}
	logger, logCloser = l, closer

	logger.Debug(cmd.Context(), "logging configured",
		"command", cmd.CommandPath(),
		"format", cfg.Format,
		"config_file", viper.ConfigFileUsed())
	return nil
}

func closeLogging(_ *cobra.Command, _ []string) error {
	if logCloser == nil {
		return nil
	}
	err := logCloser.Close()
	logger, logCloser = logging.NewNopLogger(), nil
	return err
}
