package main

import (
	"fmt"
	"strings"

	"facultysite/internal/container"

	"github.com/spf13/cobra"
)

func newRefreshCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Assemble faculty documents once and replace the stored collection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := root.loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()

			c, err := container.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			result, err := c.RefreshService.Refresh(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "run:         %s\n", result.RunID)
			fmt.Fprintf(out, "documents:   %d\n", result.Count)
			fmt.Fprintf(out, "faculty ids: %s\n", strings.Join(result.FacultyIDs, ", "))
			fmt.Fprintf(out, "fingerprint: %s\n", result.Fingerprint.Short())
			return nil
		},
	}
}
