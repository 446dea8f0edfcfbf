package ports

import (
	"net/http"

	"worklog/models"
)

// IdentityResolver extracts the authenticated caller from a request.
// It returns an UNAUTHORIZED error when no identity is present.
type IdentityResolver interface {
	Resolve(r *http.Request) (*models.Identity, error)
}
