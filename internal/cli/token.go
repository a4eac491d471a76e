package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
	"github.com/weeklydish/planner/internal/infrastructure/security"
)

func newTokenCmd(load loader) *cobra.Command {
	var (
		userID string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for a household user",
		Long: `Signs an access token with the configured auth.jwt_secret. The
server accepts it as long as both use the same secret and issuer.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			if cfg.Auth.JWTSecret == "" {
				return errors.New("auth.jwt_secret is not set; the server would reject the token")
			}

			authCfg := cfg.Auth
			if ttl > 0 {
				authCfg.JWTExpiration = ttl
			}

			token, expiresAt, err := security.NewAuthService(authCfg, log).GenerateAccessToken(userID)
			if err != nil {
				return err
			}

			cmd.Println(token)
			cmd.PrintErrf("expires %s\n", expiresAt.UTC().Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "", "user id the token acts for")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default auth.jwt_expiration)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
