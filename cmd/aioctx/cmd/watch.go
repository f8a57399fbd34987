package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/demoforge/aioctx/internal/config"
	"github.com/demoforge/aioctx/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Watch a demo project directory for real content changes",
	Long: `Watches a directory tree and reports files whose content actually
changed. Events that leave a file's content hash untouched are suppressed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		w, err := watcher.New(args[0], cfg.Settings.WatchDebounce, func(path string) {
			pterm.Info.Printf("changed: %s\n", path)
		}, cfg.Logger)
		if err != nil {
			return err
		}
		defer w.Close()

		if err := w.Watch(); err != nil {
			return err
		}
		pterm.Info.Printf("Watching %s (ctrl-c to stop)\n", args[0])

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		select {
		case <-sig:
		case <-cmd.Context().Done():
		}
		return nil
	},
}
