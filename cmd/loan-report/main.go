package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/iwvelando/loan-report/internal/config"
	"github.com/iwvelando/loan-report/pkg/constants"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// app holds the state shared by every subcommand once the root command has
// loaded configuration and built the logger.
type app struct {
	configLocation string
	logLevel       string
	envFile        string

	conf   *config.Configuration
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "loan-report",
		Short: "Prepare bank loan project reports",
		Long: `loan-report exchanges loan application data as single-record CSV files,
appraises the project (repayment schedule, projected statements, DSCR, NPV,
IRR and payback) and renders a self-contained HTML project report.

Project input may be a .csv file exported by this tool or a .json object with
the same camelCase field names.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configLocation, "config", constants.DefaultConfigFile, "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before configuration")

	rootCmd.AddCommand(a.exportCmd())
	rootCmd.AddCommand(a.importCmd())
	rootCmd.AddCommand(a.appraiseCmd())
	rootCmd.AddCommand(a.reportCmd())
	rootCmd.AddCommand(a.serveCmd())

	return rootCmd
}

// setup loads the environment and configuration and initializes logging.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", a.envFile, err)
		}
	}

	// A missing default config file means defaults; an explicit one must exist.
	location := a.configLocation
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(location); errors.Is(err, fs.ErrNotExist) {
			location = ""
		}
	}

	conf, err := config.LoadConfiguration(location)
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", a.configLocation, err)
	}

	logger, err := initializeLogger(conf.Logging, a.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := conf.Validate(); err != nil {
		return err
	}
	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	a.conf = conf
	a.logger = logger
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
