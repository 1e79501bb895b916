package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/unistore/app/models"
	"github.com/shashiranjanraj/unistore/config"
	"github.com/shashiranjanraj/unistore/pkg/auth"
)

var tokenFlags struct {
	user  string
	email string
	name  string
	role  string
	ttl   time.Duration
}

// unistore token: mint a development bearer token signed with JWT_SECRET.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a development bearer token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenFlags.user == "" {
			return fmt.Errorf("--user is required")
		}
		if !models.Role(tokenFlags.role).Valid() {
			return fmt.Errorf("--role must be %q or %q", models.RoleStudent, models.RoleAdmin)
		}
		email := tokenFlags.email
		if email == "" {
			email = tokenFlags.user + "@example.edu"
		}

		tok, err := auth.NewIssuer(config.JWTSecret()).Issue(tokenFlags.user, email, tokenFlags.name, tokenFlags.role, tokenFlags.ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	f := tokenCmd.Flags()
	f.StringVar(&tokenFlags.user, "user", "", "subject (user id)")
	f.StringVar(&tokenFlags.email, "email", "", "email claim (default <user>@example.edu)")
	f.StringVar(&tokenFlags.name, "name", "", "name claim")
	f.StringVar(&tokenFlags.role, "role", string(models.RoleStudent), "role claim: student or admin")
	f.DurationVar(&tokenFlags.ttl, "ttl", 24*time.Hour, "token lifetime")
}
