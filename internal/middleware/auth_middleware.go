package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Ruben-Jim/shelton-springs-sub001/config"
	"github.com/Ruben-Jim/shelton-springs-sub001/models"
)

// CachedMemberData is the per-member data kept in the redis session cache.
type CachedMemberData struct {
	MemberID      uint   `json:"member_id"`
	Email         string `json:"email"`
	IsBoardMember bool   `json:"is_board_member"`
}

// AuthMiddleware authenticates requests via the auth_token cookie or a
// bearer header and loads member data, preferring the redis cache over a
// roster query.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie("auth_token")
		if err != nil || tokenStr == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				handleAuthError(c, "Authorization token not provided")
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				handleAuthError(c, "Invalid Authorization header format")
				return
			}
			tokenStr = parts[1]
		}

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return config.JwtKey, nil
		})
		if err != nil || !token.Valid {
			c.SetCookie("auth_token", "", -1, "/", "", false, true)
			handleAuthError(c, "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			handleAuthError(c, "Invalid token claims")
			return
		}
		memberIDFloat, ok := claims["member_id"].(float64)
		if !ok {
			handleAuthError(c, "Invalid member ID format in token")
			return
		}
		memberID := uint(memberIDFloat)

		cacheKey := fmt.Sprintf("member:%d:data", memberID)
		if config.RDB != nil {
			cached, err := config.RDB.Get(config.Ctx, cacheKey).Result()
			if err == nil {
				var data CachedMemberData
				if json.Unmarshal([]byte(cached), &data) == nil {
					setContextAndProceed(c, &data)
					return
				}
			}
		}

		var member models.Member
		if err := config.DB.First(&member, memberID).Error; err != nil {
			handleAuthError(c, "Member not found")
			return
		}
		if member.IsBlocked {
			handleAuthError(c, "Account is blocked")
			return
		}

		data := CachedMemberData{
			MemberID:      member.ID,
			Email:         member.Email,
			IsBoardMember: member.IsBoardMember,
		}
		if config.RDB != nil {
			if payload, err := json.Marshal(data); err == nil {
				if err := config.RDB.Set(config.Ctx, cacheKey, payload, 15*time.Minute).Err(); err != nil {
					slog.Warn("member cache write failed", "member_id", memberID, "error", err)
				}
			}
		}
		setContextAndProceed(c, &data)
	}
}

// BoardOnly gates admin operations behind board membership.
func BoardOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		isBoard, exists := c.Get("is_board_member")
		if !exists || !isBoard.(bool) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Board membership required"})
			return
		}
		c.Next()
	}
}

func setContextAndProceed(c *gin.Context, data *CachedMemberData) {
	c.Set("member_id", data.MemberID)
	c.Set("email", data.Email)
	c.Set("is_board_member", data.IsBoardMember)
	c.Next()
}

func handleAuthError(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
}
