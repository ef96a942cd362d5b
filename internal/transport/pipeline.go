package transport

// Package transport is the single choke point for every call to the school
// API. It attaches the cached credential, enforces a hard timeout, and
// normalizes every failure to one shape. It knows nothing about routing or
// UI; on invalidation it clears the cache, sets the one-shot flag, and
// raises a signal that a single top-level subscriber turns into navigation.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/classpoint/schoolgate/internal/credential"
	"github.com/classpoint/schoolgate/internal/ports"
)

// DefaultTimeout bounds every remote call.
const DefaultTimeout = 30 * time.Second

// SessionExpiredFlag is the one-shot flag the sign-in page reads to surface
// a "your session expired" notice.
const SessionExpiredFlag = "session_expired"

// Reason says which invalidation site fired.
type Reason string

const (
	// ReasonTokenExpired means the outbound stage detected local expiry and
	// aborted before the network.
	ReasonTokenExpired Reason = "token_expired"
	// ReasonUnauthorized means the server rejected the credential with 401.
	ReasonUnauthorized Reason = "unauthorized"
)

// Request describes one outbound API call.
type Request struct {
	Method string
	URL    string

	// Body is JSON-marshaled unless Multipart is set.
	Body any

	// Multipart, when set, is sent as-is with MultipartContentType. The
	// content type comes from the multipart writer so the boundary is right;
	// the pipeline never overrides it.
	Multipart            io.Reader
	MultipartContentType string

	// Binary marks calls that expect a file payload back.
	Binary bool

	Header http.Header
}

// Response is a completed exchange. Body is the payload; callers of JSON
// endpoints usually go through DoJSON instead.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// Options groups dependencies for New.
type Options struct {
	HTTPClient *http.Client
	Cache      ports.CredentialCache
	Flags      ports.FlagStore
	Clock      *credential.Clock
	Timeout    time.Duration
	Logger     *slog.Logger
}

// Pipeline applies the outbound and inbound stages to every call. Calls are
// independent; there is no shared request queue.
type Pipeline struct {
	client  *http.Client
	cache   ports.CredentialCache
	flags   ports.FlagStore
	clock   *credential.Clock
	timeout time.Duration
	logger  *slog.Logger

	onInvalidate func(Reason)
}

// New constructs a Pipeline.
func New(opts Options) *Pipeline {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = credential.NewClock(0)
	}
	return &Pipeline{
		client:  client,
		cache:   opts.Cache,
		flags:   opts.Flags,
		clock:   clock,
		timeout: timeout,
		logger:  logger,
	}
}

// OnInvalidate registers the single invalidation subscriber. The session
// store registers itself here at startup; the pipeline stays ignorant of
// its internals.
func (p *Pipeline) OnInvalidate(fn func(Reason)) {
	p.onInvalidate = fn
}

// Do runs one exchange through both stages.
func (p *Pipeline) Do(ctx context.Context, req Request) (*Response, error) {
	token := p.loadToken(ctx)
	if token != "" && p.clock.IsExpired(token) {
		// The request is doomed: invalidate locally and never hit the network.
		p.invalidate(ctx, ReasonTokenExpired)
		return nil, &Error{Kind: KindTokenExpired, Message: "session expired before request was sent"}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	httpReq, err := buildRequest(ctx, req, token)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &Error{
				Kind:    KindTimeout,
				Message: fmt.Sprintf("request exceeded %s", p.timeout),
				cause:   err,
			}
		}
		return nil, &Error{Kind: KindServer, Message: err.Error(), cause: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindServer, Status: resp.StatusCode, Message: "reading response body", cause: err}
	}

	return p.inbound(ctx, req, resp, body)
}

// DoJSON runs the exchange and unmarshals the payload into out.
func (p *Pipeline) DoJSON(ctx context.Context, req Request, out any) error {
	resp, err := p.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return &Error{Kind: KindMalformedResponse, Status: resp.Status, Message: "decoding response body", cause: err}
	}
	return nil
}

// inbound normalizes the response or failure.
func (p *Pipeline) inbound(ctx context.Context, req Request, resp *http.Response, body []byte) (*Response, error) {
	contentType := resp.Header.Get("Content-Type")

	if resp.StatusCode == http.StatusUnauthorized {
		// Authoritative rejection: always wins over the local clock.
		p.invalidate(ctx, ReasonUnauthorized)
		return nil, &Error{
			Kind:    KindUnauthorized,
			Status:  resp.StatusCode,
			Message: serverMessage(body, "session expired"),
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, normalizeFailure(resp.StatusCode, body)
	}

	// A binary call whose response is labeled JSON is almost always a
	// server error path; sniff before handing back a blob. A JSON body that
	// is not error-shaped is still handed back for the caller to interpret.
	if req.Binary && isJSONContentType(contentType) {
		if msg, ok := sniffError(body); ok {
			return nil, &Error{Kind: KindValidation, Status: resp.StatusCode, Message: msg}
		}
	}

	return &Response{Status: resp.StatusCode, ContentType: contentType, Body: body}, nil
}

// invalidate runs the shared clear-then-flag sequence. Both invalidation
// sites use it so either can fire independently and leave the system in the
// same logged-out shape. The sequence does no network I/O and must not be
// interleaved with reads of the cache.
func (p *Pipeline) invalidate(ctx context.Context, reason Reason) {
	if err := p.cache.Clear(ctx); err != nil {
		p.logger.Error("clearing credential cache failed", "reason", reason, "error", err)
	}
	if err := p.flags.Set(ctx, SessionExpiredFlag, "true"); err != nil {
		p.logger.Error("setting session-expired flag failed", "error", err)
	}
	if p.onInvalidate != nil {
		p.onInvalidate(reason)
	}
}

func (p *Pipeline) loadToken(ctx context.Context) string {
	rec, err := p.cache.Load(ctx)
	if err != nil {
		if !errors.Is(err, ports.ErrNoSession) {
			p.logger.Warn("loading credential cache failed", "error", err)
		}
		return ""
	}
	return rec.Token
}

func buildRequest(ctx context.Context, req Request, token string) (*http.Request, error) {
	var body io.Reader
	var contentType string
	switch {
	case req.Multipart != nil:
		body = req.Multipart
		contentType = req.MultipartContentType
	case req.Body != nil:
		buf, err := json.Marshal(req.Body)
		if err != nil {
			return nil, &Error{Kind: KindMalformedResponse, Message: "encoding request body", cause: err}
		}
		body = bytes.NewReader(buf)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, &Error{Kind: KindServer, Message: "building request", cause: err}
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	return httpReq, nil
}

// normalizeFailure maps a non-401 failure status to the normalized shape.
// Binary error bodies from the school API are JSON text, so serverMessage
// handles both paths.
func normalizeFailure(status int, body []byte) *Error {
	kind := KindValidation
	if status >= http.StatusInternalServerError {
		kind = KindServer
	}
	return &Error{
		Kind:    kind,
		Status:  status,
		Message: serverMessage(body, http.StatusText(status)),
	}
}

func isJSONContentType(ct string) bool {
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
