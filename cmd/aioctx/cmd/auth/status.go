package auth

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/demoforge/aioctx/internal/config"
)

var fullCheck bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show authentication status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		var ok bool
		var err error
		if fullCheck {
			ok, err = cfg.Auth.IsFullyAuthenticated(cmd.Context())
		} else {
			ok, err = cfg.Auth.IsAuthenticated(cmd.Context())
		}
		if err != nil {
			return err
		}

		if ok {
			pterm.Success.Println("Authenticated")
		} else {
			pterm.Warning.Println("Not authenticated; run `aioctx auth login`")
		}

		// One-shot notice: validation may have dropped an org that became
		// inaccessible since the last check.
		if cfg.Console.Cache().TakeOrgClearedFlag() {
			pterm.Warning.Println("Your previously selected organization is no longer accessible; select another with `aioctx console org select`.")
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVar(&fullCheck, "full", false, "Also validate the selected organization is still accessible")
}
