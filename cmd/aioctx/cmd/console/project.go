package console

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/demoforge/aioctx/internal/config"
)

var projectOrgID string

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage the selected project",
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects in the selected organization",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		org, err := cfg.Console.GetCurrentOrganization(cmd.Context())
		if err != nil {
			return err
		}
		if org == nil {
			return fmt.Errorf("no organization selected; run `aioctx console org select` first")
		}

		projects, err := cfg.Console.GetProjects(cmd.Context(), *org)
		if err != nil {
			return err
		}
		if len(projects) == 0 {
			pterm.Info.Printf("Organization %s has no projects\n", org.Name)
			return nil
		}

		rows := pterm.TableData{{"ID", "Name", "Title"}}
		for _, p := range projects {
			rows = append(rows, []string{p.ID, p.Name, p.DisplayTitle()})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	},
}

var projectSelectCmd = &cobra.Command{
	Use:   "select <id>",
	Short: "Select a project, reconciling the org first when --org is given",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		if !cfg.Console.SelectProject(cmd.Context(), args[0], projectOrgID) {
			return fmt.Errorf("failed to select project %q", args[0])
		}
		pterm.Success.Printf("Selected project %s\n", args[0])
		return nil
	},
}

func init() {
	projectSelectCmd.Flags().StringVar(&projectOrgID, "org", "", "Organization the project is expected to live in")
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectSelectCmd)
}
