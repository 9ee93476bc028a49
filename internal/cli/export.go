package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NomadCrew/contact-intake/config"
	"github.com/NomadCrew/contact-intake/internal/export"
	"github.com/NomadCrew/contact-intake/internal/store"
)

// Swapped out in tests.
var newUploader = func(cmd *cobra.Command, cfg *config.ExportConfig) (export.Uploader, error) {
	return export.NewS3Client(cmd.Context(), cfg)
}

// ExportCmd returns the export command that archives submissions as CSV.
func ExportCmd() *cobra.Command {
	var (
		searchTerm string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Archive submissions as a CSV object in the export bucket",
		Long: `Write every matching submission, oldest first, to a CSV object in the
configured S3 compatible bucket.

Examples:
  contactctl export
  contactctl export --search example.com
  contactctl export --dry-run > submissions.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(cfg *config.Config, st store.SubmissionStore) error {
				if dryRun {
					_, err := export.NewExporter(st, nil, &cfg.Export).WriteCSV(cmd.Context(), cmd.OutOrStdout(), searchTerm)
					return err
				}

				if cfg.Export.Bucket == "" {
					return errors.New("EXPORT_BUCKET is not configured")
				}
				uploader, err := newUploader(cmd, &cfg.Export)
				if err != nil {
					return err
				}
				res, err := export.NewExporter(st, uploader, &cfg.Export).Export(cmd.Context(), searchTerm)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s Exported %d submission(s) to s3://%s/%s\n",
					success("✓"), res.Rows, res.Bucket, res.Key)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&searchTerm, "search", "", "Only export submissions matching this case-sensitive term")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Write the CSV to stdout instead of uploading")
	return cmd
}
