package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/webgap/leadscout/internal/leads"
	"github.com/webgap/leadscout/internal/phone"
	"github.com/webgap/leadscout/internal/search"
	"github.com/webgap/leadscout/internal/store"
	"github.com/webgap/leadscout/pkg/places"
)

var (
	searchSave   bool
	searchExport string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search for businesses and qualify them as leads",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		query := args[0]

		orch := search.New(newPlacesClient(), search.Config{
			BiasLat:      cfg.Search.BiasLat,
			BiasLng:      cfg.Search.BiasLng,
			RadiusMeters: cfg.Search.RadiusMeters,
			PageDelay:    cfg.Search.PageDelay(),
		})

		result, err := orch.Search(ctx, query)
		if err != nil {
			return err
		}

		if result.Note != "" {
			fmt.Println(result.Note)
		}
		if len(result.Leads) == 0 {
			zap.L().Info("no leads found", zap.String("query", query))
			return nil
		}

		formatLeads(os.Stdout, result.Leads)

		if searchExport != "" {
			if err := exportLeads(searchExport, result.Leads); err != nil {
				return err
			}
			fmt.Printf("exported %d leads to %s\n", len(result.Leads), searchExport)
		}

		if searchSave {
			saved, skipped, err := saveLeads(ctx, result.Leads)
			if err != nil {
				return err
			}
			fmt.Printf("saved %d leads to pipeline (%d already present)\n", saved, skipped)
		}

		return nil
	},
}

func init() {
	searchCmd.Flags().BoolVar(&searchSave, "save", false, "add qualified leads to the pipeline")
	searchCmd.Flags().StringVar(&searchExport, "export", "", "export leads to a file (.xlsx, .yaml, .json)")
	rootCmd.AddCommand(searchCmd)
}

// newPlacesClient builds the places client, or returns nil when no API key
// is configured so the orchestrator can report the service as unavailable.
func newPlacesClient() places.Client {
	if cfg.Places.APIKey == "" {
		return nil
	}
	opts := []places.Option{}
	if cfg.Places.BaseURL != "" {
		opts = append(opts, places.WithBaseURL(cfg.Places.BaseURL))
	}
	return places.NewClient(cfg.Places.APIKey, opts...)
}

func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// saveLeads adds leads to the pipeline store, skipping places already tracked.
func saveLeads(ctx context.Context, qualified []leads.QualifiedLead) (saved, skipped int, err error) {
	st, err := initStore(ctx)
	if err != nil {
		return 0, 0, err
	}
	defer st.Close() //nolint:errcheck

	for _, lead := range qualified {
		exists, err := st.HasPlace(ctx, lead.PlaceID)
		if err != nil {
			return saved, skipped, eris.Wrapf(err, "check place %s", lead.PlaceID)
		}
		if exists {
			skipped++
			continue
		}
		if _, err := st.CreateLead(ctx, lead); err != nil {
			return saved, skipped, eris.Wrapf(err, "save lead %s", lead.PlaceID)
		}
		saved++
	}
	return saved, skipped, nil
}

func formatLeads(out io.Writer, qualified []leads.QualifiedLead) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tCATEGORY\tSCORE\tREVIEWS\tRATING\tPHONE")
	_, _ = fmt.Fprintln(w, "----\t--------\t-----\t-------\t------\t-----")

	for _, lead := range qualified {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.1f\t%s\n",
			truncate(lead.Name, 40),
			lead.PrimaryCategory,
			lead.Score,
			lead.UserRatingsTotal,
			lead.Rating,
			displayPhone(lead),
		)
	}
	_ = w.Flush()
}

func displayPhone(lead leads.QualifiedLead) string {
	if lead.NationalPhone != "" {
		return phone.FormatDisplay(lead.NationalPhone)
	}
	return "+" + lead.NormalizedPhone
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
