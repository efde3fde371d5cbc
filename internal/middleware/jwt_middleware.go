package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/ministore_api/internal/utils"
)

type JWTMiddleware struct {
	signer *utils.JWTSigner
}

func NewJWTMiddleware(signer *utils.JWTSigner) *JWTMiddleware {
	return &JWTMiddleware{signer: signer}
}

// Handle requires a bearer token. EventSource cannot set headers, so a
// token query parameter is accepted as well.
func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				utils.Error(c, 401, "UNAUTHORIZED", "Falta el encabezado de autorización")
				c.Abort()
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				utils.Error(c, 401, "UNAUTHORIZED", "Encabezado de autorización inválido")
				c.Abort()
				return
			}
			token = parts[1]
		}

		claims, err := m.signer.Validate(token)
		if err != nil {
			utils.Error(c, 401, "INVALID_TOKEN", "Token inválido o expirado")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Next()
	}
}
