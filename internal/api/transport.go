package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// authTransport runs before every request: it stamps a request id and, when the token
// source has one, the bearer credential. A failing token source never blocks the request.
type authTransport struct {
	base   http.RoundTripper
	tokens TokenSource
	logger *slog.Logger
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	if clone.Header.Get("X-Request-ID") == "" {
		clone.Header.Set("X-Request-ID", uuid.NewString())
	}

	if t.tokens != nil {
		token, err := t.tokens.Token(req.Context())
		switch {
		case err != nil:
			t.logger.Warn("failed to read token for request", "method", req.Method, "path", req.URL.Path, "err", err)
		case token != "":
			clone.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return t.base.RoundTrip(clone)
}
