package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// OrganizerIDKey is the context key under which the authenticated organizer
// id is stored.
const OrganizerIDKey = "organizer_id"

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   gin.H{"message": message, "code": "UNAUTHORIZED"},
		"data":    nil,
	})
}

// Auth validates a Bearer token and attaches the organizer id to the request
// context. Tokens are HMAC-signed with the configured secret and carry the
// organizer id in the "sub" claim.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "missing Authorization header")
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			unauthorized(c, "invalid token format")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			unauthorized(c, "invalid token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			unauthorized(c, "invalid token claims")
			return
		}
		organizerID, _ := claims["sub"].(string)
		if organizerID == "" {
			unauthorized(c, "token has no subject")
			return
		}

		c.Set(OrganizerIDKey, organizerID)
		c.Next()
	}
}
