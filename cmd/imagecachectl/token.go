package main

import (
	"fmt"

	handlers "github.com/cgdmohamed/drznmobile-sub001/internal/adapter/handler/http"
	"github.com/cgdmohamed/drznmobile-sub001/internal/core/domain"

	"github.com/spf13/cobra"
)

var (
	tokenSubject string
	tokenRole    string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for the HTTP API",
	Long: `Sign a JWT with TOKEN_SECRET for use as "Authorization: Bearer <token>".

DELETE /images requires --role admin.`,
	PreRunE: configSetup,
	RunE: func(cmd *cobra.Command, _ []string) error {
		role := domain.Role(tokenRole)
		if role != domain.Admin && role != domain.Client {
			return fmt.Errorf("unknown role %q", tokenRole)
		}

		tokens := handlers.NewJWTTokenService(cfg.Token.Secret, cfg.Token.Duration, log)
		token, err := tokens.CreateToken(tokenSubject, role)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
		return err
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "imagecachectl", "token subject")
	tokenCmd.Flags().StringVar(&tokenRole, "role", string(domain.Admin), "admin or client")
}
