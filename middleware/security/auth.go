package security

import (
	"net/http"
	"strings"

	"ThreadsApp/tools/errs"
	sec "ThreadsApp/tools/security"

	"github.com/gin-gonic/gin"
)

// context keys; downstream handlers read the caller identity from these
const (
	CtxUserIDKey = "userId"
	CtxTokenKey  = "authorization"
)

type Options struct {
	HeaderToken               string // default "authorization"
	EnableAuthorizationBearer bool   // default true
	Verifier                  sec.Verifier
}

func DefaultOptions(v sec.Verifier) *Options {
	return &Options{
		HeaderToken:               "authorization",
		EnableAuthorizationBearer: true,
		Verifier:                  v,
	}
}

// Middleware guards REST routes with a bearer JWT.
func Middleware(opts *Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader(opts.HeaderToken))

		// accept Authorization: Bearer xxx
		if token == "" && opts.EnableAuthorizationBearer {
			if authz := strings.TrimSpace(c.GetHeader("Authorization")); authz != "" {
				if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
					token = strings.TrimSpace(authz[len("bearer "):])
				}
			}
		}

		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errs.ErrUnauthorized)
			return
		}

		userID, _, err := opts.Verifier.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errs.ErrTokenExpired)
			return
		}

		c.Set(CtxTokenKey, token)
		c.Set(CtxUserIDKey, userID)
		c.Next()
	}
}
