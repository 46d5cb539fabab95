package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	apperrors "treasury/internal/errors"
	"treasury/internal/models"
)

// ActorKey is the Gin context key holding the authenticated models.Actor.
const ActorKey = "actor"

// ActorClaims is the token payload. Tokens are issued by the identity
// provider; this service only verifies them.
type ActorClaims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// ActorAuth verifies the bearer token with secret and stores the caller as
// a models.Actor under ActorKey.
func ActorAuth(secret []byte) gin.HandlerFunc {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWith(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Authorization header is required"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortWith(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid authorization header format"))
			return
		}

		claims := &ActorClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, keyFunc,
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			abortWith(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid or expired token"))
			return
		}

		if claims.Subject == "" || !models.IsValidRole(claims.Role) {
			abortWith(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Token does not carry a known actor"))
			return
		}

		c.Set(ActorKey, models.Actor{ID: claims.Subject, Role: claims.Role})
		c.Next()
	}
}

// ActorFrom returns the actor ActorAuth stored on c.
func ActorFrom(c *gin.Context) (models.Actor, bool) {
	v, ok := c.Get(ActorKey)
	if !ok {
		return models.Actor{}, false
	}
	actor, ok := v.(models.Actor)
	return actor, ok
}

func abortWith(c *gin.Context, appErr *apperrors.AppError) {
	c.AbortWithStatusJSON(appErr.StatusCode, gin.H{
		"error": gin.H{"code": appErr.Code, "message": appErr.Message},
	})
}
