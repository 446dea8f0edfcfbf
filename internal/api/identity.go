package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"worklog/internal/errors"
	"worklog/models"
)

// Headers set by the identity-aware proxy in front of the API
const (
	HeaderUserID      = "X-Auth-User-Id"
	HeaderUserName    = "X-Auth-User-Name"
	HeaderUserEmail   = "X-Auth-User-Email"
	HeaderAccessToken = "X-Auth-Access-Token"
	HeaderProxySecret = "X-Auth-Proxy-Secret"
)

// HeaderResolver trusts identity headers, optionally only when the request
// also carries the shared proxy secret.
type HeaderResolver struct {
	ProxySecret string
}

// NewHeaderResolver creates a resolver; an empty secret disables the check
func NewHeaderResolver(proxySecret string) *HeaderResolver {
	return &HeaderResolver{ProxySecret: proxySecret}
}

// Resolve implements ports.IdentityResolver
func (h *HeaderResolver) Resolve(r *http.Request) (*models.Identity, error) {
	if h.ProxySecret != "" {
		got := r.Header.Get(HeaderProxySecret)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.ProxySecret)) != 1 {
			return nil, errors.Unauthorized("Unauthorized")
		}
	}

	userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
	if userID == "" {
		return nil, errors.Unauthorized("Unauthorized")
	}

	return &models.Identity{
		UserID:        userID,
		DisplayName:   strings.TrimSpace(r.Header.Get(HeaderUserName)),
		Email:         strings.TrimSpace(r.Header.Get(HeaderUserEmail)),
		CalendarToken: strings.TrimSpace(r.Header.Get(HeaderAccessToken)),
	}, nil
}
