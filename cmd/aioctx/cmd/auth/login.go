package auth

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/demoforge/aioctx/internal/config"
)

var forceLogin bool

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in through the aio CLI",
	Long: `Runs the aio login flow. A forced login clears all cached state first
and passes -f through to the CLI; a normal login that yields an implausible
token is retried once with the force flag.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		if err := cfg.Auth.Login(cmd.Context(), forceLogin); err != nil {
			return err
		}
		pterm.Success.Println("Logged in")
		return nil
	},
}

func init() {
	loginCmd.Flags().BoolVarP(&forceLogin, "force", "f", false, "Clear cached state and force a fresh login")
}
