package console

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/demoforge/aioctx/internal/config"
)

var (
	workspaceOrgID     string
	workspaceProjectID string
)

var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Manage the selected workspace",
}

var workspaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspaces in the selected project",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		org, err := cfg.Console.GetCurrentOrganization(cmd.Context())
		if err != nil {
			return err
		}
		project, err := cfg.Console.GetCurrentProject(cmd.Context())
		if err != nil {
			return err
		}
		if org == nil || project == nil {
			return fmt.Errorf("no project selected; run `aioctx console project select` first")
		}

		workspaces, err := cfg.Console.GetWorkspaces(cmd.Context(), *org, *project)
		if err != nil {
			return err
		}

		rows := pterm.TableData{{"ID", "Name", "Title"}}
		for _, w := range workspaces {
			rows = append(rows, []string{w.ID, w.Name, w.DisplayTitle()})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	},
}

var workspaceSelectCmd = &cobra.Command{
	Use:   "select <id>",
	Short: "Select a workspace, reconciling org and project first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		ok := cfg.Console.SelectWorkspace(cmd.Context(), args[0], workspaceOrgID, workspaceProjectID)
		if !ok {
			return fmt.Errorf("failed to select workspace %q", args[0])
		}
		pterm.Success.Printf("Selected workspace %s\n", args[0])
		return nil
	},
}

func init() {
	workspaceSelectCmd.Flags().StringVar(&workspaceOrgID, "org", "", "Organization the workspace is expected to live in")
	workspaceSelectCmd.Flags().StringVar(&workspaceProjectID, "project", "", "Project the workspace is expected to live in")
	workspaceCmd.AddCommand(workspaceListCmd)
	workspaceCmd.AddCommand(workspaceSelectCmd)
}
