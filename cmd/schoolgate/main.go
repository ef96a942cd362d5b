// Package main provides the schoolgate command line interface.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	domainauth "github.com/classpoint/schoolgate/internal/domain/auth"
	"github.com/classpoint/schoolgate/internal/guard"
)

func main() {
	cmd := &cli.Command{
		Name:    "schoolgate",
		Usage:   "Session and authorization gateway for the school API",
		Version: "1.0.0",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authenticate against the school API and persist the session",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Required: true,
						Usage:    "Account email address",
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Required: true,
						Usage:    "Account password",
					},
					&cli.BoolFlag{
						Name:    "remember",
						Aliases: []string{"r"},
						Value:   false,
						Usage:   "Request an extended session lifetime",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runLogin(ctx, cmd.String("email"), cmd.String("password"), cmd.Bool("remember"))
				},
			},
			{
				Name:  "logout",
				Usage: "Clear the persisted session and notify the school API",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runLogout(ctx)
				},
			},
			{
				Name:  "whoami",
				Usage: "Show the identity behind the current session",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runWhoami(ctx)
				},
			},
			{
				Name:  "status",
				Usage: "Show session state without contacting the school API",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runStatus(ctx)
				},
			},
			{
				Name:  "guard",
				Usage: "Evaluate a route guard decision for the current session",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "roles",
						Aliases: []string{"r"},
						Usage:   "Comma-separated allowed roles (empty allows any authenticated role)",
					},
					&cli.BoolFlag{
						Name:  "public-only",
						Usage: "Evaluate as a public-only route such as the sign-in page",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runGuard(ctx, cmd.String("roles"), cmd.Bool("public-only"))
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func parseRoles(raw string) []domainauth.Role {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	roles := make([]domainauth.Role, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			roles = append(roles, domainauth.Role(trimmed).Normalize())
		}
	}
	return roles
}

func describeDecision(d guard.Decision) string {
	switch d {
	case guard.Render:
		return "render: access granted"
	case guard.ShowLoading:
		return "loading: session is still initializing"
	case guard.RedirectSignIn:
		return "redirect: not signed in"
	case guard.RedirectUnauthorized:
		return "redirect: role not permitted"
	}
	return fmt.Sprintf("unknown decision %d", int(d))
}
