package console

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/demoforge/aioctx/internal/config"
	"github.com/demoforge/aioctx/internal/console"
)

var whereFresh bool

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show the current org/project/workspace selection",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		var snap *console.WhereSnapshot
		var err error
		if whereFresh {
			snap, err = cfg.Console.FetchWhere(cmd.Context())
		} else {
			snap, err = cfg.Console.Where(cmd.Context())
		}
		if err != nil {
			return err
		}

		rows := pterm.TableData{
			{"Level", "Selection"},
			{"Organization", describe(snap.Org)},
			{"Project", describe(snap.Project)},
			{"Workspace", describe(snap.Workspace)},
		}
		return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	},
}

func describe(f console.ContextField) string {
	switch f.Kind {
	case console.FieldEntity:
		if f.Name != "" {
			return f.Name + " (" + f.ID + ")"
		}
		return f.ID
	case console.FieldName:
		return f.Name + " (id unknown)"
	default:
		return "-"
	}
}

func init() {
	whereCmd.Flags().BoolVar(&whereFresh, "fresh", false, "Bypass the cached snapshot")
}
