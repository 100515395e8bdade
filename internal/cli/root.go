// Package cli is the eventhive command line client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ds124wfegd/eventhive/config"
	"github.com/ds124wfegd/eventhive/internal/entity"
	"github.com/spf13/cobra"
)

type appKey struct{}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		printError(cmd.ErrOrStderr(), err)
		return 1
	}
	return 0
}

func NewRootCommand() *cobra.Command {
	var (
		configPath string
		verbose    bool
		a          *app
	)

	root := &cobra.Command{
		Use:           "eventhive",
		Short:         "Browse events, register and manage volunteers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("cannot load config: %w", err)
			}
			setupLogging(&cfg.Log, verbose)

			a, err = newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, a))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a != nil {
				a.Close()
			}
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", config.GetEnv("EVENTHIVE_CONFIG", ""), "config file (default ./config/config.yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newLoginCommand(),
		newSignUpCommand(),
		newLogoutCommand(),
		newWhoAmICommand(),
		newEventsCommand(),
		newRegisterCommand(),
		newUnregisterCommand(),
		newRegistrationsCommand(),
		newParticipantsCommand(),
		newVolunteersCommand(),
		newActivityCommand(),
	)
	return root
}

func appFrom(cmd *cobra.Command) *app {
	a, _ := cmd.Context().Value(appKey{}).(*app)
	return a
}

func printError(w io.Writer, err error) {
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(w, "cancelled")
		return
	}
	kind := entity.KindOf(err)
	fmt.Fprintf(w, "error (%s): %s\n", kind, entity.UserMessage(err))
}
