package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vidquiz/vidquiz-backend/internal/services"
	"github.com/vidquiz/vidquiz-backend/internal/types"
)

const refreshCookiePath = "/api/token/refresh"

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (ah *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Username          string `json:"username"`
		Email             string `json:"email"`
		Password          string `json:"password"`
		ConfirmedPassword string `json:"confirmed_password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid request body"))
		return
	}
	if req.Password != req.ConfirmedPassword {
		RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("passwords do not match"))
		return
	}
	user := types.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}
	if err := ah.authService.RegisterUser(c.Request.Context(), &user); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	RespondCreated(c, gin.H{"id": user.ID, "username": user.Username, "email": user.Email})
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", fmt.Errorf("invalid request body"))
		return
	}
	user, accessToken, refreshToken, err := ah.authService.LoginUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	ah.setAuthCookies(c, accessToken, refreshToken)
	expiresIn := int(ah.authService.GetAccessTTL().Seconds())
	RespondOK(c, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"expires_in":    expiresIn,
		"user":          user,
	})
}

func (ah *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie("refresh_token")
	if err != nil || refreshToken == "" {
		var req struct {
			RefreshToken string `json:"refresh_token"`
		}
		if bindErr := c.ShouldBindJSON(&req); bindErr == nil {
			refreshToken = req.RefreshToken
		}
	}
	if refreshToken == "" {
		RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("refresh token required"))
		return
	}
	accessToken, newRefreshToken, err := ah.authService.RefreshUser(c.Request.Context(), refreshToken)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	ah.setAuthCookies(c, accessToken, newRefreshToken)
	expiresIn := int(ah.authService.GetAccessTTL().Seconds())
	RespondOK(c, gin.H{
		"access_token":  accessToken,
		"refresh_token": newRefreshToken,
		"expires_in":    expiresIn,
	})
}

func (ah *AuthHandler) Logout(c *gin.Context) {
	if err := ah.authService.LogoutUser(c.Request.Context()); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	ah.clearAuthCookies(c)
	RespondOK(c, gin.H{"message": "logged out successfully"})
}

// The refresh token cookie is path-scoped to the refresh endpoint so it is
// never replayed on ordinary API calls.
func (ah *AuthHandler) setAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("access_token", accessToken, int(ah.authService.GetAccessTTL().Seconds()), "/", "", true, true)
	c.SetCookie("refresh_token", refreshToken, int(ah.authService.GetRefreshTTL().Seconds()), refreshCookiePath, "", true, true)
}

func (ah *AuthHandler) clearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("access_token", "", -1, "/", "", true, true)
	c.SetCookie("refresh_token", "", -1, refreshCookiePath, "", true, true)
}
