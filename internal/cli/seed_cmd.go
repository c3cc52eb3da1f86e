package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSeedCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "seed FILE",
		Short: "Import categories and tasks from a YAML or JSON seed file",
		Long: `Import categories and tasks from a seed file in one transaction.

The whole file is validated first; any problem aborts the import and
nothing is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.Imports.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.render(cmd, res, func() string {
				return fmt.Sprintf("Imported %d categor%s and %d task(s) from %s\n",
					res.CategoryCount, plural(res.CategoryCount, "y", "ies"), res.TaskCount, args[0])
			})
		},
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
