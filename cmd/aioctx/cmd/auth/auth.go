// Package auth groups the authentication commands.
package auth

import "github.com/spf13/cobra"

// AuthCmd is the parent of login/logout/status.
var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Adobe I/O authentication",
}

func init() {
	AuthCmd.AddCommand(loginCmd)
	AuthCmd.AddCommand(logoutCmd)
	AuthCmd.AddCommand(statusCmd)
}
