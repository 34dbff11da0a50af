package middleware

import (
	"net/http"
	"strings"

	userRepo "carwash/database/repository/user"
	"carwash/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JWTAuthMiddleware requires a Bearer token. A missing token is 401, a token that
// fails verification is 403. On success "userID" is set on the context.
func JWTAuthMiddleware(tokens *utils.TokenIssuer, users userRepo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") || tokenString == "" {
			utils.JSONError(c, http.StatusUnauthorized, "missingToken", "Access denied", "Missing or invalid Authorization header")
			return
		}

		userID, err := tokens.ExtractIDFromToken(tokenString)
		if err != nil {
			utils.JSONError(c, http.StatusForbidden, "invalidToken", "Invalid token", "")
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			zap.L().Error("Failed to load token subject", zap.String("userID", userID), zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "internalError", "Internal server error", "")
			return
		}
		if user == nil {
			utils.JSONError(c, http.StatusUnauthorized, "unknownUser", "Access denied", "Token subject no longer exists")
			return
		}

		c.Set("userID", user.ID)
		c.Next()
	}
}
