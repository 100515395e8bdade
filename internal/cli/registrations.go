package cli

import (
	"fmt"

	"github.com/ds124wfegd/eventhive/internal/entity"
	"github.com/spf13/cobra"
)

func newRegisterCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "register EVENT_ID",
		Short: "Register for an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			// the listing only knows attendee counts the API sends with it;
			// without them the full check is left to the server
			if _, err := a.svc.Events.ListEvents(cmd.Context()); err != nil {
				return err
			}
			reg, err := a.svc.Registrations.Register(cmd.Context(), entity.ID(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered for %s (registration %s)\n", reg.EventID, reg.ID)
			return nil
		},
	}
}

func newUnregisterCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unregister EVENT_ID",
		Short: "Cancel a registration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appFrom(cmd).svc.Registrations.Unregister(cmd.Context(), entity.ID(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Not registered for %s\n", args[0])
			return nil
		},
	}
}

func newRegistrationsCommand() *cobra.Command {
	var past bool
	cmd := &cobra.Command{
		Use:     "registrations",
		Aliases: []string{"my-events"},
		Short:   "Show the events you registered for",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			mine, err := a.svc.Registrations.MyEvents(cmd.Context())
			if err != nil {
				return err
			}

			items, label := mine.Upcoming, "upcoming"
			if past {
				items, label = mine.Past, "past"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s upcoming, %s past\n\n", count(len(mine.Upcoming)), count(len(mine.Past)))
			if len(items) == 0 {
				fmt.Fprintf(out, "No %s events\n", label)
				return nil
			}

			now := a.now()
			t := NewTable("EVENT", "TITLE", "WHEN", "LOCATION", "REGISTERED")
			for _, it := range items {
				t.Append(it.Event.ID.String(), it.Event.Title, when(it.Event.StartsAt, now), it.Event.Location, when(it.Registration.CreatedAt, now))
			}
			return t.Render(out)
		},
	}
	cmd.Flags().BoolVar(&past, "past", false, "show past events instead")
	return cmd
}
