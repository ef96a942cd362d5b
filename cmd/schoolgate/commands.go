package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/classpoint/schoolgate/internal/bootstrap"
	"github.com/classpoint/schoolgate/internal/credential"
	domainauth "github.com/classpoint/schoolgate/internal/domain/auth"
	"github.com/classpoint/schoolgate/internal/guard"
)

// cliNavigator satisfies the navigation port by logging where a browser
// shell would have redirected.
type cliNavigator struct {
	logger     *slog.Logger
	signInPath string
}

func (n *cliNavigator) ToSignIn() {
	n.logger.Info("session invalidated, sign in again", "path", n.signInPath)
}

func (n *cliNavigator) To(path string) {
	n.logger.Info("redirect", "path", path)
}

func setupGateway() (*bootstrap.Gateway, *slog.Logger, error) {
	logger := bootstrap.InitLogger()

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	gw, err := bootstrap.NewGateway(bootstrap.GatewayDeps{
		Config:    &cfg,
		Navigator: &cliNavigator{logger: logger, signInPath: cfg.Auth.SignInPath},
		Logger:    logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return gw, logger, nil
}

func runLogin(ctx context.Context, email, password string, remember bool) error {
	gw, logger, err := setupGateway()
	if err != nil {
		return err
	}

	result := gw.Store.Login(ctx, email, password, remember)
	if !result.OK {
		return fmt.Errorf("login failed: %s", result.Message)
	}

	logger.Info("signed in",
		"email", email,
		"role", result.Identity.Role,
		"landing", domainauth.LandingPath(result.Identity.Role),
	)
	return nil
}

func runLogout(ctx context.Context) error {
	gw, logger, err := setupGateway()
	if err != nil {
		return err
	}

	if err := gw.Store.Initialize(ctx); err != nil {
		return err
	}
	gw.Store.Logout(ctx)

	logger.Info("signed out")
	return nil
}

func runWhoami(ctx context.Context) error {
	gw, _, err := setupGateway()
	if err != nil {
		return err
	}

	if err := gw.Store.Initialize(ctx); err != nil {
		return err
	}

	state := gw.Store.State()
	if !state.IsAuthenticated || state.Identity == nil {
		return fmt.Errorf("not signed in")
	}

	ident := state.Identity
	fmt.Printf("id:    %s\n", ident.ID)
	fmt.Printf("name:  %s %s\n", ident.FirstName, ident.LastName)
	fmt.Printf("email: %s\n", ident.Email)
	fmt.Printf("role:  %s\n", ident.Role)
	return nil
}

func runStatus(ctx context.Context) error {
	gw, _, err := setupGateway()
	if err != nil {
		return err
	}

	// Peek at the cached record without a verification round trip.
	rec, err := gw.Cache.Load(ctx)
	if err != nil {
		fmt.Println("session: none")
		return nil
	}

	fmt.Println("session: cached")
	if rec.Expiry != "" {
		fmt.Printf("expires: %s\n", rec.Expiry)
	}

	if _, err := credential.DecodeClaims(rec.Token); err != nil {
		fmt.Println("credential: unreadable")
		return nil
	}
	if _, ok := gw.Clock.ExpiryInstant(rec.Token); !ok {
		fmt.Println("credential: no expiry claim")
	} else if gw.Clock.IsExpired(rec.Token) {
		fmt.Println("credential: expired")
	} else if seconds, ok := gw.Clock.SecondsUntilExpiry(rec.Token); ok {
		fmt.Printf("credential: valid for %ds\n", seconds)
	}
	return nil
}

func runGuard(ctx context.Context, rolesRaw string, publicOnly bool) error {
	gw, _, err := setupGateway()
	if err != nil {
		return err
	}

	if err := gw.Store.Initialize(ctx); err != nil {
		return err
	}
	state := gw.Store.State()

	if publicOnly {
		decision := guard.DecidePublicOnly(state)
		if decision.Render {
			fmt.Println("render: public page accessible")
		} else {
			fmt.Printf("redirect: already signed in, landing at %s\n", decision.RedirectTo)
		}
		return nil
	}

	fmt.Println(describeDecision(guard.Decide(state, parseRoles(rolesRaw))))
	return nil
}
