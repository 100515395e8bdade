package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/ds124wfegd/eventhive/internal/entity"
	"github.com/spf13/cobra"
)

func newLoginCommand() *cobra.Command {
	var (
		email    string
		password string
		role     string
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, ok := entity.ParseRole(role)
			if !ok {
				return fmt.Errorf("unknown role %q: %w", role, entity.ErrValidation)
			}
			if password == "" {
				var err error
				if password, err = readLine(cmd, "Password: "); err != nil {
					return err
				}
			}

			user, err := appFrom(cmd).svc.Auth.SignIn(cmd.Context(), email, password, r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s <%s> (%s)\n", user.Name, user.Email, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when empty)")
	cmd.Flags().StringVarP(&role, "role", "r", string(entity.RoleStudent), "student or admin")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newSignUpCommand() *cobra.Command {
	var req entity.SignUpRequest
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a student account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Password == "" {
				var err error
				if req.Password, err = readLine(cmd, "Password: "); err != nil {
					return err
				}
			}
			a := appFrom(cmd)
			user, err := a.svc.Auth.SignUp(cmd.Context(), req)
			if err != nil {
				return err
			}
			if a.session.Authenticated() {
				fmt.Fprintf(cmd.OutOrStdout(), "Account created, signed in as %s\n", user.Email)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Account created for %s, run login to sign in\n", user.Email)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&req.Name, "name", "n", "", "full name")
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "password (prompted when empty)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appFrom(cmd).svc.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoAmICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, ok := appFrom(cmd).svc.Auth.CurrentUser()
			if !ok {
				return entity.ErrUnauthenticated
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s <%s>  %s  id=%s\n", user.Initials(), user.Name, user.Email, user.Role, user.ID)
			return nil
		},
	}
}

func readLine(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
