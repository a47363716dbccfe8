// timeline.go implements "commsdesk timeline", a terminal view of a
// contact's merged calls and messages.
package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nainya/commsdesk/pkg/calllog"
	"github.com/nainya/commsdesk/pkg/query"
	"github.com/nainya/commsdesk/pkg/seed"
	"github.com/nainya/commsdesk/pkg/sms"
	"github.com/nainya/commsdesk/pkg/timeline"
)

type timelineOptions struct {
	list     bool
	kind     string
	seed     int64
	seedFile string
}

func newTimelineCmd() *cobra.Command {
	opts := &timelineOptions{}

	cmd := &cobra.Command{
		Use:   "timeline [contactId]",
		Short: "Print a contact's interaction timeline",
		Long: `Print every call and message for a contact, newest first.

Data comes from --seed-file or is generated from --seed, so the same seed
always shows the same contacts. Use --list to see contact ids.

Examples:
  commsdesk timeline --list
  commsdesk timeline 5f0c... --kind call
  commsdesk timeline --seed-file fixtures/seed.json --list`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.list {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := timelineDataset(opts)
			if err != nil {
				return err
			}
			engine := newEngine(ds)

			if opts.list {
				return printContacts(cmd.OutOrStdout(), engine)
			}
			return printTimeline(cmd, engine, args[0], timeline.ParseKind(opts.kind))
		},
	}

	cmd.Flags().BoolVarP(&opts.list, "list", "l", false, "List contacts instead of a timeline")
	cmd.Flags().StringVarP(&opts.kind, "kind", "k", "all", "Interactions to show (all, call, message)")
	cmd.Flags().Int64Var(&opts.seed, "seed", 1, "Random seed for generated data")
	cmd.Flags().StringVar(&opts.seedFile, "seed-file", "", "JSON fixture to read instead of generating")

	return cmd
}

func timelineDataset(opts *timelineOptions) (*seed.Dataset, error) {
	if opts.seedFile != "" {
		return seed.LoadFile(opts.seedFile)
	}
	gen := seed.DefaultOptions()
	gen.Seed = opts.seed
	return seed.Generate(gen), nil
}

func printContacts(w io.Writer, engine *query.Engine) error {
	threads := engine.Threads().List()
	sms.SortByRecent(threads)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CONTACT ID\tNAME\tNUMBER\tUNREAD\tLAST ACTIVITY")
	for _, t := range threads {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			t.ContactID, t.ContactName, t.ContactNumber, t.UnreadCount,
			t.Timestamp.Local().Format(time.DateTime))
	}
	return tw.Flush()
}

func printTimeline(cmd *cobra.Command, engine *query.Engine, contactID string, kind timeline.Kind) error {
	profile, ok, err := engine.ContactProfile(cmd.Context(), contactID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("contact %s not found; use --list to see contacts", contactID)
	}

	w := cmd.OutOrStdout()
	c := profile.Contact
	fmt.Fprintf(w, "%s  %s  %s\n", c.Name, c.Number, c.Email)
	for _, k := range engine.Contacts().AttributeKeys(c.ID) {
		fmt.Fprintf(w, "  %s: %s\n", k, c.Attributes[k])
	}
	fmt.Fprintf(w, "All (%d)  Calls (%d)  Messages (%d)\n\n",
		profile.Counts.All, profile.Counts.Calls, profile.Counts.Messages)

	for _, it := range timeline.Filter(profile.Timeline, kind) {
		fmt.Fprintf(w, "%s  %-16s  %s\n",
			it.Timestamp.Local().Format(time.DateTime), it.Label(c.Number), detail(it))
	}
	return nil
}

func detail(it timeline.Interaction) string {
	switch it.Kind {
	case timeline.KindCall:
		qualified := ""
		if it.Call.IsQualified {
			qualified = "  [qualified]"
		}
		return fmt.Sprintf("%s  %s%s",
			calllog.FormatDuration(time.Duration(it.Call.DurationSeconds())*time.Second),
			it.Call.Summary, qualified)
	case timeline.KindMessage:
		return it.Message.Body
	default:
		return ""
	}
}
