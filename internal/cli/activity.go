package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/ds124wfegd/eventhive/internal/entity"
	"github.com/ds124wfegd/eventhive/internal/notify"
	"github.com/spf13/cobra"
)

func newActivityCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "activity",
		Short: "Follow registration and volunteer activity from the broker",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			if !a.cfg.Broker.Enabled {
				return fmt.Errorf("broker is disabled in config: %w", entity.ErrValidation)
			}
			broker, err := notify.NewRabbitMQ(&a.cfg.Broker)
			if err != nil {
				return err
			}
			defer broker.Close()

			out := cmd.OutOrStdout()
			err = broker.Consume(cmd.Context(), func(act entity.Activity) error {
				_, werr := fmt.Fprintf(out, "%s  %-18s event=%s person=%s actor=%s\n",
					act.At.Local().Format(displayLayout), act.Type, act.EventID, act.PersonID, act.ActorID)
				return werr
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
