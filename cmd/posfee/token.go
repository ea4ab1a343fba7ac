package main

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/grzegorzmaniak/posfee/config"
	"github.com/grzegorzmaniak/posfee/helpers"
	"github.com/grzegorzmaniak/posfee/token"
)

// newTokenCommand prints the tokens a session secret is accepted with, to
// check a token reported from a till against the server secret.
func newTokenCommand(loadConfig func() (*config.Config, error)) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "token <session-secret>",
		Short: "Print the security tokens accepted for a session secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig()
			if err != nil {
				return err
			}

			now := time.Now()
			if at != "" {
				if now, err = parseTime(at); err != nil {
					return err
				}
			}

			auth := token.New([]byte(c.Security.TokenSecret), token.WithClock(func() time.Time { return now }))
			current, previous, err := auth.Expected(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "window:   %d\n", token.Window(now))
			fmt.Fprintf(out, "current:  %s\n", current)
			fmt.Fprintf(out, "previous: %s\n", previous)
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "evaluate at this time (RFC 3339 or unix seconds) instead of now")
	return cmd
}

func parseTime(value string) (time.Time, error) {
	if unix, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Unix(unix, 0), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--at must be RFC 3339 or unix seconds: %w", err)
	}
	return t, nil
}

func newKeygenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Print a new base64 session key for security.session_key",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := helpers.GenerateSymmetricKey()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), base64.StdEncoding.EncodeToString(key))
			return nil
		},
	}
}
