package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AngelCh415/leadpane/internal/crm"
)

func newRenderCommand(envFile *string) *cobra.Command {
	var (
		out           string
		width, height float64
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the dashboard charts as SVG files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := bootstrap(ctx, *envFile)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			files, err := renderCharts(ctx, a.service(), out, width, height)
			if err != nil {
				return err
			}
			for _, f := range files {
				a.log.Info("chart written", zap.String("file", f))
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", ".", "directory to write the SVG files to")
	cmd.Flags().Float64Var(&width, "width", 0, "chart width (0 uses each chart's default)")
	cmd.Flags().Float64Var(&height, "height", 0, "chart height (0 uses each chart's default)")
	return cmd
}

// renderCharts draws every chart from a single refresh.
func renderCharts(ctx context.Context, svc *crm.Service, dir string, width, height float64) ([]string, error) {
	snap, err := svc.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}
	files := make([]string, 0, len(crm.ChartNames))
	for _, name := range crm.ChartNames {
		b, err := crm.Draw(snap.Dashboard, name, width, height)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(dir, name+".svg")
		if err := os.WriteFile(path, b, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		files = append(files, path)
	}
	return files, nil
}
