package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/NomadCrew/contact-intake/config"
	"github.com/NomadCrew/contact-intake/internal/listing"
	"github.com/NomadCrew/contact-intake/internal/store"
	"github.com/NomadCrew/contact-intake/types"
)

// ListCmd returns the list command, the terminal view of the operator listing.
func ListCmd() *cobra.Command {
	var (
		page          int
		pageSize      int
		searchTerm    string
		sortField     string
		sortDirection string
		asJSON        bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored submissions",
		Long: `List one page of stored submissions.

Search is a case-sensitive substring match on name, email and phone number.

Examples:
  contactctl list
  contactctl list --search ada --sort-field name --sort-direction asc
  contactctl list --page 2 --page-size 25 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := listing.BuildQuery(listing.Params{
				Page:          strconv.Itoa(page),
				PageSize:      strconv.Itoa(pageSize),
				SearchTerm:    searchTerm,
				SortField:     sortField,
				SortDirection: sortDirection,
			})
			if err != nil {
				return err
			}

			return withStore(cmd.Context(), func(_ *config.Config, st store.SubmissionStore) error {
				resp, err := fetchPage(cmd, st, q)
				if err != nil {
					return err
				}
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(resp)
				}
				printPage(cmd.OutOrStdout(), resp)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", listing.DefaultPage, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", listing.DefaultPageSize, "Submissions per page")
	cmd.Flags().StringVar(&searchTerm, "search", "", "Case-sensitive substring to match")
	cmd.Flags().StringVar(&sortField, "sort-field", listing.FieldSubmissionDate, "Sort attribute (id, name, email, phoneNumber, submissionDate)")
	cmd.Flags().StringVar(&sortDirection, "sort-direction", string(listing.SortDesc), "Sort direction (asc, desc)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the listing response as JSON")
	return cmd
}

func fetchPage(cmd *cobra.Command, st store.SubmissionStore, q listing.Query) (types.ListSubmissionsResponse, error) {
	ctx := cmd.Context()
	submissions, err := st.FindMany(ctx, q)
	if err != nil {
		return types.ListSubmissionsResponse{}, fmt.Errorf("failed to load submissions: %w", err)
	}
	total, err := st.Count(ctx, q.Filter)
	if err != nil {
		return types.ListSubmissionsResponse{}, fmt.Errorf("failed to count submissions: %w", err)
	}
	if submissions == nil {
		submissions = []*types.Submission{}
	}
	return types.ListSubmissionsResponse{
		Submissions: submissions,
		Pagination: types.Pagination{
			TotalCount:  total,
			CurrentPage: q.Page,
			PageSize:    q.PageSize,
			TotalPages:  listing.TotalPages(total, q.PageSize),
		},
		Filters: q.Normalized,
	}, nil
}

func printPage(out io.Writer, resp types.ListSubmissionsResponse) {
	if len(resp.Submissions) == 0 {
		fmt.Fprintln(out, warning("No submissions found."))
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, bold("ID\tNAME\tEMAIL\tPHONE\tSUBMITTED"))
	for _, s := range resp.Submissions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			s.ID, s.Name, s.Email, s.PhoneNumber, s.SubmissionDate.UTC().Format(time.RFC3339))
	}
	w.Flush()

	p := resp.Pagination
	fmt.Fprintf(out, "\nPage %d of %d (%d total, sorted by %s %s)\n",
		p.CurrentPage, p.TotalPages, p.TotalCount, resp.Filters.SortField, resp.Filters.SortDirection)
}
