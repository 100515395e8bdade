package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ds124wfegd/eventhive/internal/client"
	"github.com/ds124wfegd/eventhive/internal/entity"
	"github.com/ds124wfegd/eventhive/internal/service"
	"github.com/spf13/cobra"
)

func newEventsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List and manage events",
	}
	cmd.AddCommand(
		newEventsListCommand(),
		newEventsStatsCommand(),
		newEventsCreateCommand(),
		newEventsUpdateCommand(),
		newEventsDeleteCommand(),
	)
	return cmd
}

func newEventsListCommand() *cobra.Command {
	var (
		filter service.EventFilter
		minFee float64
		maxFee float64
		counts bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			if cmd.Flags().Changed("min-fee") {
				filter.MinFee = &minFee
			}
			if cmd.Flags().Changed("max-fee") {
				filter.MaxFee = &maxFee
			}

			var err error
			if counts {
				_, err = a.svc.Events.ListEventsWithCounts(cmd.Context())
			} else {
				_, err = a.svc.Events.ListEvents(cmd.Context())
			}
			if err != nil {
				return err
			}

			events := a.svc.Events.Filter(filter)
			now := a.now()
			t := NewTable("ID", "TITLE", "WHEN", "LOCATION", "CATEGORY", "FEE", "SEATS")
			for _, e := range events {
				t.Append(e.ID.String(), e.Title, when(e.StartsAt, now), e.Location, e.Category, fee(e.Fee), seats(e))
			}
			if t.Len() == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No events match")
				return nil
			}
			return t.Render(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&filter.Search, "search", "s", "", "text in title, description or location")
	cmd.Flags().StringVar(&filter.Category, "category", "", "category")
	cmd.Flags().StringVar(&filter.Date, "date", "", "date, YYYY-MM-DD")
	cmd.Flags().StringVar(&filter.Location, "location", "", "location contains")
	cmd.Flags().Float64Var(&minFee, "min-fee", 0, "lowest fee")
	cmd.Flags().Float64Var(&maxFee, "max-fee", 0, "highest fee")
	cmd.Flags().BoolVar(&counts, "counts", false, "fetch registration counts per event")
	return cmd
}

func newEventsStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summary over all events",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			events, err := a.svc.Events.ListEventsWithCounts(cmd.Context())
			if err != nil {
				return err
			}
			stats := a.svc.Events.Stats(events)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Events:         %s\n", count(stats.TotalEvents))
			fmt.Fprintf(out, "Registrations:  %s\n", count(stats.TotalRegistrations))
			fmt.Fprintf(out, "Average fee:    %s\n", fee(stats.AverageFee))
			fmt.Fprintf(out, "Upcoming:       %s\n\n", count(len(stats.Upcoming)))

			categories := make([]string, 0, len(stats.CategoryCounts))
			for c := range stats.CategoryCounts {
				categories = append(categories, c)
			}
			sort.Strings(categories)

			t := NewTable("CATEGORY", "EVENTS")
			for _, c := range categories {
				t.Append(c, count(stats.CategoryCounts[c]))
			}
			if err := t.Render(out); err != nil {
				return err
			}

			fmt.Fprintln(out)
			usage := NewTable("EVENT", "SEATS", "LEFT", "FILLED")
			for _, e := range events {
				usage.Append(e.Title, seats(e), seatsLeft(e), percent(entity.UtilizationRate(e)))
			}
			return usage.Render(out)
		},
	}
}

type eventFlags struct {
	title       string
	description string
	startsAt    string
	location    string
	capacity    int
	fee         float64
	category    string
	image       string
}

func (f *eventFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "title")
	cmd.Flags().StringVar(&f.description, "description", "", "description")
	cmd.Flags().StringVar(&f.startsAt, "starts-at", "", "start, e.g. 2024-07-15T18:00")
	cmd.Flags().StringVar(&f.location, "location", "", "location")
	cmd.Flags().IntVar(&f.capacity, "capacity", 0, "maximum participants")
	cmd.Flags().Float64Var(&f.fee, "fee", 0, "fee, 0 for free")
	cmd.Flags().StringVar(&f.category, "category", "", "category")
	cmd.Flags().StringVar(&f.image, "image", "", "image file to upload")
}

func (f *eventFlags) file() (*client.File, func(), error) {
	if f.image == "" {
		return nil, func() {}, nil
	}
	fh, err := os.Open(f.image)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open image: %w", err)
	}
	return &client.File{Name: f.image, Reader: fh}, func() { fh.Close() }, nil
}

func parseStart(s string) (time.Time, error) {
	t, err := entity.ParseDateTime(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%v: %w", err, entity.ErrValidation)
	}
	return t, nil
}

func newEventsCreateCommand() *cobra.Command {
	var f eventFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an event (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			startsAt, err := parseStart(f.startsAt)
			if err != nil {
				return err
			}
			image, done, err := f.file()
			if err != nil {
				return err
			}
			defer done()

			event, err := appFrom(cmd).svc.Events.CreateEvent(cmd.Context(), entity.EventInput{
				Title:       f.title,
				Description: f.description,
				StartsAt:    startsAt,
				Location:    f.location,
				Capacity:    f.capacity,
				Fee:         f.fee,
				Category:    f.category,
			}, image)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", event.Title, event.ID)
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}

func newEventsUpdateCommand() *cobra.Command {
	var f eventFlags
	cmd := &cobra.Command{
		Use:   "update EVENT_ID",
		Short: "Change fields of an event (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var upd entity.EventUpdate
			changed := cmd.Flags().Changed
			if changed("title") {
				upd.Title = &f.title
			}
			if changed("description") {
				upd.Description = &f.description
			}
			if changed("starts-at") {
				t, err := parseStart(f.startsAt)
				if err != nil {
					return err
				}
				upd.StartsAt = &t
			}
			if changed("location") {
				upd.Location = &f.location
			}
			if changed("capacity") {
				upd.Capacity = &f.capacity
			}
			if changed("fee") {
				upd.Fee = &f.fee
			}
			if changed("category") {
				upd.Category = &f.category
			}
			if upd.IsEmpty() && f.image == "" {
				return fmt.Errorf("nothing to update: %w", entity.ErrValidation)
			}

			image, done, err := f.file()
			if err != nil {
				return err
			}
			defer done()

			event, err := appFrom(cmd).svc.Events.UpdateEvent(cmd.Context(), entity.ID(args[0]), upd, image)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s)\n", event.Title, event.ID)
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}

func newEventsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete EVENT_ID",
		Short: "Delete an event (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appFrom(cmd).svc.Events.DeleteEvent(cmd.Context(), entity.ID(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newParticipantsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "participants EVENT_ID",
		Short: "Show registrants and volunteers of an event (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roster, err := appFrom(cmd).svc.Events.Participants(cmd.Context(), entity.ID(args[0]))
			if err != nil {
				return err
			}
			return renderRoster(cmd, roster)
		},
	}
}

func renderRoster(cmd *cobra.Command, roster entity.Roster) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s participants, %s volunteers\n\n", count(roster.TotalCount), count(len(roster.Volunteers)))

	t := NewTable("ID", "NAME", "EMAIL", "ROLE")
	for _, p := range roster.Participants {
		role := "participant"
		if roster.IsVolunteer(p.ID) {
			role = "volunteer"
		}
		t.Append(p.ID.String(), p.Name, p.Email, role)
	}
	if t.Len() == 0 {
		fmt.Fprintln(out, "Nobody registered yet")
		return nil
	}
	return t.Render(out)
}

func joinNames(people []entity.Person) string {
	names := make([]string, 0, len(people))
	for _, p := range people {
		names = append(names, p.Name)
	}
	return strings.Join(names, ", ")
}
