package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ruben-Jim/shelton-springs-sub001/config"
	"github.com/Ruben-Jim/shelton-springs-sub001/models"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginHandler checks credentials and issues a session token as both a
// cookie and a bearer token in the response body.
func LoginHandler(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	var member models.Member
	if err := config.DB.Where("email = ?", req.Email).First(&member).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if member.IsBlocked {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is blocked"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(member.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	claims := jwt.MapClaims{
		"member_id": member.ID,
		"exp":       time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(config.JwtKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create session token"})
		return
	}

	c.SetCookie("auth_token", signed, int((24 * time.Hour).Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"token": signed,
		"member": gin.H{
			"id":            member.ID,
			"email":         member.Email,
			"fullName":      member.FullName(),
			"isBoardMember": member.IsBoardMember,
		},
	})
}

// LogoutHandler clears the session cookie and the cached member data.
func LogoutHandler(c *gin.Context) {
	if memberID, exists := c.Get("member_id"); exists && config.RDB != nil {
		config.RDB.Del(config.Ctx, memberCacheKey(memberID.(uint)))
	}
	c.SetCookie("auth_token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
