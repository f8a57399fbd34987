// Package console groups the org/project/workspace selection commands.
package console

import "github.com/spf13/cobra"

// ConsoleCmd is the parent of the org/project/workspace/where commands.
var ConsoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Inspect and switch the Adobe Console selection",
}

func init() {
	ConsoleCmd.AddCommand(orgCmd)
	ConsoleCmd.AddCommand(projectCmd)
	ConsoleCmd.AddCommand(workspaceCmd)
	ConsoleCmd.AddCommand(whereCmd)
}
