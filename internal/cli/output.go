package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// render prints v as indented JSON under --json, otherwise the text that
// human produces.
func (a *App) render(cmd *cobra.Command, v any, human func() string) error {
	out := cmd.OutOrStdout()
	if a.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprint(out, human())
	return err
}
