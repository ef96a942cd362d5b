package schoolapi

// Package schoolapi is the gateway's client for the school API auth
// endpoints. Every call goes through the transport pipeline. The API is
// inconsistent about envelopes and field casing, so payload fields are
// located with JMESPath expressions and identities are normalized here, at
// the ingestion boundary.

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	domainauth "github.com/classpoint/schoolgate/internal/domain/auth"
	"github.com/classpoint/schoolgate/internal/ports"
	"github.com/classpoint/schoolgate/internal/transport"
)

const (
	userExpr    = "user || User || data.user || data"
	tokenExpr   = "token || Token || accessToken || data.token"
	expiryExpr  = "expiresAt || ExpiresAt || tokenExpiry"
	messageExpr = "message || error"
)

// Client implements ports.AuthAPI against a school API base URL.
type Client struct {
	pipeline *transport.Pipeline
	baseURL  string
}

// Options groups dependencies for New.
type Options struct {
	Pipeline *transport.Pipeline
	BaseURL  string
}

// New constructs a Client.
func New(opts Options) *Client {
	return &Client{
		pipeline: opts.Pipeline,
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
	}
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

// Login authenticates against POST /auth/login. A response carrying both an
// identity and a token is a success; success:false is a well-formed
// rejection; anything else is reported as a rejection with the best
// available message, leaving the cache untouched.
func (c *Client) Login(ctx context.Context, email, password string, rememberMe bool) (ports.LoginResult, error) {
	var payload map[string]any
	req := transport.Request{
		Method: http.MethodPost,
		URL:    c.baseURL + "/auth/login",
		Body:   loginRequest{Email: email, Password: password, RememberMe: rememberMe},
	}
	if err := c.pipeline.DoJSON(ctx, req, &payload); err != nil {
		return ports.LoginResult{}, err
	}

	if ok, present := payload["success"].(bool); present && !ok {
		msg := searchString(messageExpr, payload)
		if msg == "" {
			msg = "login failed"
		}
		return ports.LoginResult{Message: msg}, nil
	}

	token := searchString(tokenExpr, payload)
	user, _ := search(userExpr, payload).(map[string]any)
	if token == "" || user == nil {
		return ports.LoginResult{Message: "login response is missing a user or token"}, nil
	}

	return ports.LoginResult{
		OK:       true,
		Identity: domainauth.NormalizeIdentity(user),
		Token:    token,
		Expiry:   searchString(expiryExpr, payload),
	}, nil
}

// CurrentIdentity fetches GET /auth/me. The endpoint answers with either the
// user record itself or a {data: user} envelope.
func (c *Client) CurrentIdentity(ctx context.Context) (domainauth.Identity, error) {
	var payload map[string]any
	req := transport.Request{Method: http.MethodGet, URL: c.baseURL + "/auth/me"}
	if err := c.pipeline.DoJSON(ctx, req, &payload); err != nil {
		return domainauth.Identity{}, err
	}

	node := search(userExpr, payload)
	if node == nil {
		node = payload
	}
	user, ok := node.(map[string]any)
	if !ok {
		return domainauth.Identity{}, fmt.Errorf("unexpected identity payload shape %T", node)
	}
	return domainauth.NormalizeIdentity(user), nil
}

// Logout notifies POST /auth/logout. The response body is ignored.
func (c *Client) Logout(ctx context.Context) error {
	req := transport.Request{Method: http.MethodPost, URL: c.baseURL + "/auth/logout"}
	_, err := c.pipeline.Do(ctx, req)
	return err
}

func search(expr string, data any) any {
	v, err := jmespath.Search(expr, data)
	if err != nil {
		return nil
	}
	return v
}

func searchString(expr string, data any) string {
	s, _ := search(expr, data).(string)
	return s
}
