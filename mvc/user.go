package mvc

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"myblog/app/forms"
	"myblog/app/repositories"
	"myblog/app/services"
)

// createUserCmd adds a staff account without going through the signup page.
func createUserCmd(opts *rootOptions) *cobra.Command {
	var username, email, password string

	c := &cobra.Command{
		Use:   "createuser",
		Short: "Create a staff user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := opts.load(cmd)
			if err != nil {
				return err
			}

			store, err := openStore(cfg, log)
			if err != nil {
				return err
			}
			defer store.Close()

			auth := services.NewAuthService(
				repositories.NewBadgerUserRepository(store.DB()),
				repositories.NewBadgerSessionRepository(store.DB(), time.Now),
				time.Now,
				cfg.Auth.SessionTTL,
			)
			user, err := auth.Register(forms.NewSignupForm(url.Values{
				"username": {username},
				"email":    {email},
				"password": {password},
			}))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "User %q created (id %d)\n", user.Username, user.ID)
			return nil
		},
	}

	c.Flags().StringVarP(&username, "username", "u", "", "Username (required)")
	c.Flags().StringVarP(&email, "email", "e", "", "Email address (required)")
	c.Flags().StringVarP(&password, "password", "p", "", "Password, at least 8 characters (required)")

	_ = c.MarkFlagRequired("username")
	_ = c.MarkFlagRequired("email")
	_ = c.MarkFlagRequired("password")
	return c
}
