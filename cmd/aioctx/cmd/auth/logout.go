package auth

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/demoforge/aioctx/internal/config"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out through the aio CLI",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		if err := cfg.Auth.Logout(cmd.Context()); err != nil {
			return err
		}
		pterm.Success.Println("Logged out")
		return nil
	},
}
