package console

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/demoforge/aioctx/internal/config"
)

var orgCmd = &cobra.Command{
	Use:   "org",
	Short: "Manage the selected organization",
}

var orgListCmd = &cobra.Command{
	Use:   "list",
	Short: "List accessible organizations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		orgs, err := cfg.Console.GetOrganizations(cmd.Context())
		if err != nil {
			return err
		}
		if len(orgs) == 0 {
			pterm.Info.Println("No organizations visible for this account")
			return nil
		}

		rows := pterm.TableData{{"ID", "Code", "Name"}}
		for _, org := range orgs {
			rows = append(rows, []string{org.ID, org.Code, org.Name})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	},
}

var orgSelectCmd = &cobra.Command{
	Use:   "select <id>",
	Short: "Select an organization",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		if !cfg.Console.SelectOrganization(cmd.Context(), args[0]) {
			return fmt.Errorf("failed to select organization %q", args[0])
		}
		pterm.Success.Printf("Selected organization %s\n", args[0])
		return nil
	},
}

var orgAutoCmd = &cobra.Command{
	Use:   "auto",
	Short: "Select the organization automatically when only one is visible",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		org, err := cfg.Console.AutoSelectOrganizationIfNeeded(cmd.Context(), false)
		if err != nil {
			return err
		}
		if org == nil {
			pterm.Info.Println("No unambiguous organization to select; use `aioctx console org select <id>`")
			return nil
		}
		pterm.Success.Printf("Using organization %s (%s)\n", org.Name, org.Identifier())
		return nil
	},
}

func init() {
	orgCmd.AddCommand(orgListCmd)
	orgCmd.AddCommand(orgSelectCmd)
	orgCmd.AddCommand(orgAutoCmd)
}
