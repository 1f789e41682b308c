package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jrmz14/proyecto-rifas/internal/api/handler/v1/response"
	"github.com/jrmz14/proyecto-rifas/internal/pkg/jwthelper"
)

// ContextKeyAdminID is where VerifyJWT stores the authenticated
// administrator's ID in the gin context.
const ContextKeyAdminID = "adminID"

type Authenticator struct {
	signingKey string
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: signingKey,
	}
}

// VerifyJWT guards the admin routes. Administrator credentials and
// token issuance live outside this API; the middleware only checks the
// bearer token's signature and expiry.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			response.RenderErr(ctx, response.ErrUnauthorized(errors.New("missing bearer token")))
			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, token)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(err))
			return
		}

		ctx.Set(ContextKeyAdminID, claims.AdminID)
		ctx.Next()
	}
}
