package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/webgap/leadscout/internal/leads"
	"github.com/webgap/leadscout/internal/outreach"
	"github.com/webgap/leadscout/internal/phone"
	"github.com/webgap/leadscout/internal/store"
)

var (
	leadsListStatus string
	leadsListLimit  int
	contactEmail    string
	contactWebsite  string
	leadsExportFile string
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Manage leads in the sales pipeline",
}

var leadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pipeline leads",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		filter := store.ListFilter{Limit: leadsListLimit}
		if leadsListStatus != "" {
			s := leads.Status(leadsListStatus)
			if !s.Valid() {
				return fmt.Errorf("unknown status %q (one of %v)", leadsListStatus, leads.Statuses)
			}
			filter.Status = s
		}

		records, err := st.ListLeads(ctx, filter)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("no leads in the pipeline")
			return nil
		}

		formatRecords(os.Stdout, records)
		return nil
	},
}

var leadsStatusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Move a lead to a pipeline stage",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		s := leads.Status(args[1])
		if !s.Valid() {
			return fmt.Errorf("unknown status %q (one of %v)", args[1], leads.Statuses)
		}
		if err := st.UpdateStatus(ctx, args[0], s); err != nil {
			return err
		}
		fmt.Printf("lead %s moved to %s\n", shortID(args[0]), s)
		return nil
	},
}

var leadsNoteCmd = &cobra.Command{
	Use:   "note <id> <text>",
	Short: "Set the notes on a lead",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.UpdateNotes(ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("notes updated for %s\n", shortID(args[0]))
		return nil
	},
}

var leadsContactCmd = &cobra.Command{
	Use:   "contact <id>",
	Short: "Record contact details for a lead",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.UpdateContact(ctx, args[0], contactEmail, contactWebsite); err != nil {
			return err
		}
		fmt.Printf("contact details updated for %s\n", shortID(args[0]))
		return nil
	},
}

var leadsRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a lead from the pipeline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.DeleteLead(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("lead %s removed\n", shortID(args[0]))
		return nil
	},
}

var leadsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export pipeline leads to a file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		records, err := st.ListLeads(ctx, store.ListFilter{})
		if err != nil {
			return err
		}

		if err := exportRecords(leadsExportFile, records); err != nil {
			return err
		}
		fmt.Printf("exported %d leads to %s\n", len(records), leadsExportFile)
		return nil
	},
}

func init() {
	leadsListCmd.Flags().StringVar(&leadsListStatus, "status", "", "filter by pipeline stage")
	leadsListCmd.Flags().IntVar(&leadsListLimit, "limit", 0, "maximum leads to list")
	leadsContactCmd.Flags().StringVar(&contactEmail, "email", "", "lead email address")
	leadsContactCmd.Flags().StringVar(&contactWebsite, "website", "", "lead follow-up website URL")
	leadsExportCmd.Flags().StringVar(&leadsExportFile, "out", "leads.xlsx", "output file (.xlsx, .yaml, .json)")

	leadsCmd.AddCommand(leadsListCmd, leadsStatusCmd, leadsNoteCmd, leadsContactCmd, leadsRemoveCmd, leadsExportCmd)
	rootCmd.AddCommand(leadsCmd)
}

func formatRecords(out io.Writer, records []store.Record) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tSCORE\tSTATUS\tPHONE\tWHATSAPP")
	_, _ = fmt.Fprintln(w, "--\t----\t--------\t-----\t------\t-----\t--------")

	for _, rec := range records {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(rec.ID),
			truncate(rec.Lead.Name, 32),
			rec.Lead.PrimaryCategory,
			rec.Lead.Score,
			rec.Status,
			phone.FormatDisplay(rec.Lead.NationalPhone),
			outreach.BuildMessageLink(rec.Lead.NormalizedPhone, ""),
		)
	}
	_ = w.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
