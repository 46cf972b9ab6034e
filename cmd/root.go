package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/timewise/internal/config"
	"github.com/teemow/timewise/internal/logging"
	"github.com/teemow/timewise/internal/server"
)

// rootCmd represents the base command for the timewise application
var rootCmd = &cobra.Command{
	Use:   "timewise",
	Short: "Finds free meeting slots and ranks them by productivity",
	Long: `timewise reads a Google or ICS calendar, finds free time slots inside
working hours and ranks them with a productivity score. It also reports on
meeting load and can set up recurring focus time.

It can run as:
  - A standalone CLI tool
  - An MCP (Model Context Protocol) server for AI assistants`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// version will be set by main
var version = "dev"

var (
	configFile string
	account    string
	output     string

	vp  = config.NewViper()
	cfg *config.Config
)

// SetVersion sets the version for the root command
func SetVersion(ver string) {
	version = ver
	rootCmd.Version = ver
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "timewise version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file (default: timewise.yaml in the user config dir or the working dir)")
	flags.StringVar(&account, "account", "", "Account whose calendar is used (default: calendar.account from the config)")
	flags.StringVarP(&output, "output", "o", outputText, "Output format: text, json or yaml")
	flags.String("timezone", "", "Time zone for working hours and day boundaries (e.g., Europe/Berlin)")
	flags.String("calendar-source", "", "Calendar backend: google or ics")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.String("log-format", "", "Log format: text or json")

	for key, flag := range map[string]string{
		"timezone":        "timezone",
		"calendar.source": "calendar-source",
		"logging.level":   "log-level",
		"logging.format":  "log-format",
	} {
		if err := vp.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", flag, err))
		}
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newSlotsCmd())
	rootCmd.AddCommand(newOptimalCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newFocusCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// loadConfig reads the configuration and installs the process logger. It
// runs before every subcommand.
func loadConfig(cmd *cobra.Command, _ []string) error {
	if err := validateOutput(output); err != nil {
		return err
	}

	loaded, err := config.Load(vp, configFile, config.DefaultSearchPaths()...)
	if err != nil {
		return err
	}

	logger, err := logging.New(os.Stderr, logging.Options{
		Level:  loaded.Logging.Level,
		Format: loaded.Logging.Format,
	})
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	if account == "" {
		account = loaded.Calendar.Account
	}
	cfg = loaded
	return nil
}

// accountServices opens the services of the selected account. The returned
// context must be shut down by the caller.
func accountServices(ctx context.Context) (*server.ServerContext, *server.AccountServices, error) {
	sc, err := server.NewServerContext(ctx, cfg, server.WithLogger(slog.Default()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create server context: %w", err)
	}
	svc, err := sc.ServicesForAccount(ctx, account)
	if err != nil {
		_ = sc.Shutdown()
		return nil, nil, err
	}
	return sc, svc, nil
}
