package middleware

import (
	"net/http"
	"strings"

	"socialapi/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const (
	ClaimsKey = "claims"
	UserIDKey = "userId"
)

// TokenParser verifies a session token.
type TokenParser interface {
	ParseToken(token string) (*services.Claims, error)
}

// JWTAuth requires an Authorization header holding "Bearer <token>" or the
// bare token.
func JWTAuth(parser TokenParser) gin.HandlerFunc {
	return authenticate(parser, false)
}

// JWTAuthQuery also accepts ?token= for clients that cannot set headers on
// a websocket handshake.
func JWTAuthQuery(parser TokenParser) gin.HandlerFunc {
	return authenticate(parser, true)
}

func authenticate(parser TokenParser, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip CORS preflight
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" && allowQuery {
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "No authorization token provided",
				"success": false,
			})
			return
		}

		claims, err := parser.ParseToken(token)
		if err != nil {
			log.WithError(err).WithField("path", c.FullPath()).Debug("[JWTAuth] rejected token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid or expired token",
				"success": false,
			})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

// ClaimsFrom returns the claims attached by JWTAuth.
func ClaimsFrom(c *gin.Context) (*services.Claims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*services.Claims)
	return claims, ok
}
