package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/gestao-agenda/internal/authz"
	"github.com/BruksfildServices01/gestao-agenda/internal/config"
)

const (
	ContextUserID          = "userID"
	ContextEstablishmentID = "establishmentID"
	ContextUserRole        = "userRole"
)

const tokenTTL = 24 * time.Hour

// IssueToken assina o JWT de sessão (HS256).
func IssueToken(secret string, userID, establishmentID uint, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":             userID,
		"establishmentId": establishmentID,
		"role":            role,
		"exp":             time.Now().Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_authorization_header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_authorization_header"})
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_claims"})
			return
		}

		userID, ok1 := claims["sub"].(float64)
		establishmentID, ok2 := claims["establishmentId"].(float64)
		role, _ := claims["role"].(string)
		if !ok1 || !ok2 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_payload"})
			return
		}

		c.Set(ContextUserID, uint(userID))
		c.Set(ContextEstablishmentID, uint(establishmentID))
		c.Set(ContextUserRole, role)

		c.Next()
	}
}

// RequirePermission barra com 403 quem não satisfaz o predicado.
func RequirePermission(allowed func(authz.Permissions) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !allowed(authz.For(c.GetString(ContextUserRole))) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error_code": "forbidden",
				"message":    "Sem permissão para esta operação.",
			})
			return
		}
		c.Next()
	}
}
