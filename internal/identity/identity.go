// Package identity issues the per-browser customer token that scopes "my
// orders" views. It is convenience partitioning, not authentication: the
// token is forgeable and grants nothing beyond seeing one's own list.
package identity

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CookieName holds the customer token on the browser side.
const CookieName = "customerUUID"

// TokenTTL is roughly one year, matching the original cookie lifetime.
const TokenTTL = 365 * 24 * time.Hour

const contextKey = "identity.customerID"

// Provider mints customer tokens. Generation is local and never fails.
type Provider struct {
	newID func() string
}

// NewProvider returns a Provider backed by random UUIDs.
func NewProvider() *Provider {
	return &Provider{newID: uuid.NewString}
}

// GetOrCreate returns the existing token unchanged, or mints a new one when
// existing is empty.
func (p *Provider) GetOrCreate(existing string) (token string, created bool) {
	if existing != "" {
		return existing, false
	}
	return p.newID(), true
}

// Middleware reads the customer cookie, minting and setting it on first
// contact, and exposes the token to handlers via the request context.
func Middleware(p *Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		existing, _ := c.Cookie(CookieName)
		token, created := p.GetOrCreate(existing)
		if created {
			c.SetSameSite(http.SameSiteStrictMode)
			c.SetCookie(CookieName, token, int(TokenTTL.Seconds()), "/", "", false, false)
		}
		c.Set(contextKey, token)
		c.Next()
	}
}

// FromContext returns the request's customer token, empty if the middleware
// did not run.
func FromContext(c *gin.Context) string {
	return c.GetString(contextKey)
}
