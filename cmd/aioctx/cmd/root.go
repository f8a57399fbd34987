package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	authcmd "github.com/demoforge/aioctx/cmd/aioctx/cmd/auth"
	consolecmd "github.com/demoforge/aioctx/cmd/aioctx/cmd/console"
	"github.com/demoforge/aioctx/internal/aio"
	"github.com/demoforge/aioctx/internal/auth"
	"github.com/demoforge/aioctx/internal/cache"
	"github.com/demoforge/aioctx/internal/config"
	"github.com/demoforge/aioctx/internal/console"
	"github.com/demoforge/aioctx/internal/logging"
	"github.com/demoforge/aioctx/internal/sdkclient"
)

var (
	aioBinary string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "aioctx",
	Short: "Adobe I/O CLI context companion",
	Long: `aioctx wraps the Adobe I/O (aio) CLI to manage authentication and
org/project/workspace selection for demo environments. Selections made by
other processes are detected and reconciled before any mutating command.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.Load()
		if err != nil {
			return err
		}
		if aioBinary != "" {
			settings.AioBinary = aioBinary
		}
		if verbose {
			settings.Verbose = true
		}

		logger := logging.New(settings.Verbose)
		runner := aio.NewExecutor(settings.AioBinary, logger)
		entities := console.NewEntityCache(cache.NewStore())
		sdk := sdkclient.NewProvider(nil, logger)
		service := console.NewService(runner, entities, sdk, logger)
		validator := console.NewValidator(runner, entities, service.FetchWhere, logger)
		orchestrator := auth.New(runner, entities, sdk, validator, settings.AuthStatusTTL, logger)

		cfg := &config.GlobalConfig{
			Settings:  settings,
			Logger:    logger,
			Console:   service,
			Auth:      orchestrator,
			Validator: validator,
		}
		cmd.SetContext(config.Inject(cmd.Context(), cfg))
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&aioBinary, "aio", "", "Path to the aio CLI binary (default: aio on PATH)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(authcmd.AuthCmd)
	rootCmd.AddCommand(consolecmd.ConsoleCmd)
	rootCmd.AddCommand(watchCmd)
}
