package cli

import (
	"fmt"

	"github.com/ds124wfegd/eventhive/internal/entity"
	"github.com/spf13/cobra"
)

func newVolunteersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "volunteers",
		Short: "Assign and remove event volunteers (admin)",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list EVENT_ID",
			Short: "Show volunteers and who can still be assigned",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a := appFrom(cmd)
				eventID := entity.ID(args[0])
				roster, err := a.svc.Volunteers.LoadRoster(cmd.Context(), eventID)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Volunteers: %s\n\n", orNone(joinNames(roster.Volunteers)))

				t := NewTable("ASSIGNABLE ID", "NAME", "EMAIL")
				for _, p := range a.svc.Volunteers.Assignable(eventID) {
					t.Append(p.ID.String(), p.Name, p.Email)
				}
				if t.Len() == 0 {
					fmt.Fprintln(out, "Nobody left to assign")
					return nil
				}
				return t.Render(out)
			},
		},
		&cobra.Command{
			Use:   "assign EVENT_ID PERSON_ID",
			Short: "Make a participant a volunteer",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				a := appFrom(cmd)
				eventID, personID := entity.ID(args[0]), entity.ID(args[1])
				if err := a.svc.Volunteers.Assign(cmd.Context(), eventID, personID); err != nil {
					return err
				}
				roster, _ := a.svc.Volunteers.Roster(eventID)
				fmt.Fprintf(cmd.OutOrStdout(), "Assigned %s. Volunteers: %s\n", personID, orNone(joinNames(roster.Volunteers)))
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove EVENT_ID PERSON_ID",
			Short: "Take a volunteer off the event",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				a := appFrom(cmd)
				eventID, personID := entity.ID(args[0]), entity.ID(args[1])
				if err := a.svc.Volunteers.Remove(cmd.Context(), eventID, personID); err != nil {
					return err
				}
				roster, _ := a.svc.Volunteers.Roster(eventID)
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s. Volunteers: %s\n", personID, orNone(joinNames(roster.Volunteers)))
				return nil
			},
		},
	)
	return cmd
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
