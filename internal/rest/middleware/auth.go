package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/narongrit/meme-hub/domain"
)

const (
	CtxUserID   = "user_id"
	CtxUserRole = "user_role"
)

// jwtVerifier resolves HS256 bearer tokens issued by the user service.
type jwtVerifier struct {
	secret []byte
}

var _ domain.CredentialVerifier = (*jwtVerifier)(nil)

func NewJWTVerifier(secret []byte) *jwtVerifier {
	return &jwtVerifier{secret: secret}
}

func (v *jwtVerifier) Resolve(token string) (int64, string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrUnauthorized
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, "", domain.ErrUnauthorized
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", domain.ErrUnauthorized
	}
	id, ok := claims["id"].(float64)
	if !ok {
		return 0, "", domain.ErrUnauthorized
	}
	role, _ := claims["role"].(string)
	return int64(id), role, nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return ""
	}
	return token
}

// AuthMiddleware rejects requests without a resolvable credential.
func AuthMiddleware(v domain.CredentialVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		id, role, err := v.Resolve(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid Token"})
			return
		}

		c.Set(CtxUserID, id)
		c.Set(CtxUserRole, role)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves a credential when one is present and
// continues anonymously otherwise. The feed uses it so cached pages stay
// shared while the viewer's like state is still known.
func OptionalAuthMiddleware(v domain.CredentialVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if id, role, err := v.Resolve(token); err == nil {
				c.Set(CtxUserID, id)
				c.Set(CtxUserRole, role)
			}
		}
		c.Next()
	}
}
