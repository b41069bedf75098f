package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newMigrateCommand(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create missing tables and record the schema version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := bootstrap(ctx, *envFile)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			// bootstrap already applied it; a second pass reports the settled state
			m, err := a.st.EnsureSchema(ctx)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", " ")
			return enc.Encode(m)
		},
	}
}
