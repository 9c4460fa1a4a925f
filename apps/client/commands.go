package main

import (
	"fmt"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/omi-1602/Venz-edu/client"
	"github.com/omi-1602/Venz-edu/core/account"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errNotSignedIn = errors.New("not signed in")
)

// password returns the flag value, prompting for it when empty.
func password(cmd *cobra.Command) (string, error) {
	pwd, _ := cmd.Flags().GetString("password")
	if pwd != "" {
		return pwd, nil
	}
	fmt.Fprint(cmd.OutOrStdout(), "Password:")
	raw, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", errors.Wrap(err, "reading password")
	}
	return string(raw), nil
}

func requireFlags(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		_ = cmd.MarkFlagRequired(name)
	}
}

func newSignupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pwd, err := password(cmd)
			if err != nil {
				return err
			}
			req := account.SignupRequest{Password: pwd}
			req.Email, _ = cmd.Flags().GetString("email")
			req.DisplayName, _ = cmd.Flags().GetString("name")
			req.Role, _ = cmd.Flags().GetString("role")

			out, err := a.facade.Signup(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.printJSON(out)
		},
	}
	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().String("password", "", "Password, prompted when empty")
	cmd.Flags().String("name", "", "Display name")
	cmd.Flags().String("role", account.RoleStudent, "student or mentor")
	requireFlags(cmd, "email", "name")
	return cmd
}

func newLoginCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pwd, err := password(cmd)
			if err != nil {
				return err
			}
			email, _ := cmd.Flags().GetString("email")
			out, err := a.facade.Login(cmd.Context(), email, pwd)
			if err != nil {
				return err
			}
			return a.printJSON(out)
		},
	}
	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().String("password", "", "Password, prompted when empty")
	requireFlags(cmd, "email")
	return cmd
}

func newFederatedLoginCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "federated-login",
		Short: "Sign in with a Google ID token or authorization code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			idToken, _ := cmd.Flags().GetString("id-token")
			code, _ := cmd.Flags().GetString("code")
			if idToken == "" && code != "" {
				clientID, _ := cmd.Flags().GetString("google-client-id")
				clientSecret, _ := cmd.Flags().GetString("google-client-secret")
				redirectURL, _ := cmd.Flags().GetString("redirect-url")
				conf := client.GoogleOAuthConfig(clientID, clientSecret, redirectURL)
				var err error
				if idToken, err = client.ExchangeIDToken(cmd.Context(), conf, code); err != nil {
					return err
				}
			}

			out, err := a.facade.FederatedLogin(cmd.Context(), idToken)
			if err != nil {
				return err
			}
			return a.printJSON(out)
		},
	}
	cmd.Flags().String("id-token", "", "Google ID token")
	cmd.Flags().String("code", "", "Google authorization code, exchanged for an ID token")
	cmd.Flags().String("google-client-id", "", "OAuth client ID used with --code")
	cmd.Flags().String("google-client-secret", "", "OAuth client secret used with --code")
	cmd.Flags().String("redirect-url", "urn:ietf:wg:oauth:2.0:oob", "OAuth redirect URL used with --code")
	return cmd
}

func newResetPasswordCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Request a password reset link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, _ := cmd.Flags().GetString("email")
			out, err := a.facade.RequestPasswordReset(cmd.Context(), email)
			if err != nil {
				return err
			}
			return a.printJSON(out)
		},
	}
	cmd.Flags().String("email", "", "Email address")
	requireFlags(cmd, "email")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the local session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, err := a.facade.Logout()
			if err != nil {
				return err
			}
			return a.printJSON(map[string]string{"redirect": view})
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, ok, err := a.facade.Current()
			if err != nil {
				return err
			}
			if !ok {
				return errNotSignedIn
			}
			if sess.Backend == client.RemoteBackendName && sess.Token != "" && a.remote != nil {
				usr, err := a.remote.Me(cmd.Context(), sess.Token)
				if err != nil {
					a.logger.Warn("refreshing profile", err, sess.Person())
				} else {
					sess.PublicUser = usr
				}
			}
			return a.printJSON(sess)
		},
	}
}

func newSeedMockCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-mock",
		Short: "Add the demo course to the local mock store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.mock.SeedMockData(); err != nil {
				return err
			}
			crss, err := a.mock.Courses()
			if err != nil {
				return err
			}
			asgs, err := a.mock.Assignments()
			if err != nil {
				return err
			}
			return a.printJSON(map[string]interface{}{"courses": crss, "assignments": asgs})
		},
	}
}
