package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/branch_finance_admin/internal/apperrors"
	portssvc "github.com/SscSPs/branch_finance_admin/internal/core/ports/services"
	"github.com/SscSPs/branch_finance_admin/internal/dto"
	"github.com/SscSPs/branch_finance_admin/internal/middleware"
	"github.com/gin-gonic/gin"
)

const oauthStateCookie = "oauthstate"

// authHandler handles sign-in, token rotation and sign-out.
type authHandler struct {
	baseHandler
	sessions portssvc.SessionSvcFacade
	google   portssvc.GoogleOAuthSvc
}

func newAuthHandler(base baseHandler, sessions portssvc.SessionSvcFacade, google portssvc.GoogleOAuthSvc) *authHandler {
	return &authHandler{baseHandler: base, sessions: sessions, google: google}
}

// registerAuthRoutes sets up the public authentication routes. loginLimit guards the
// password endpoint against guessing.
func registerAuthRoutes(rg *gin.RouterGroup, h *authHandler, loginLimit gin.HandlerFunc) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", loginLimit, h.login)
		auth.POST("/refresh", h.refresh)
		auth.GET("/google/login", h.googleLogin)
		auth.GET("/google/callback", loginLimit, h.googleCallback)
	}
}

// registerSessionRoutes sets up the authenticated session routes.
func registerSessionRoutes(rg *gin.RouterGroup, h *authHandler) {
	auth := rg.Group("/auth")
	{
		auth.POST("/logout", h.logout)
		auth.GET("/me", h.me)
	}
}

// login godoc
// @Summary Sign in
// @Description Authenticates a back-office user and returns an access token and a refresh token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 423 {object} dto.ErrorResponse "Account locked"
// @Failure 429 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	session, err := h.sessions.Login(c.Request.Context(), req.Username, req.Password, clientMeta(c))
	if err != nil {
		h.respondError(c, err, "sign in")
		return
	}
	c.JSON(http.StatusOK, dto.ToLoginResponse(session))
}

// refresh godoc
// @Summary Rotate tokens
// @Description Exchanges a refresh token for a new token pair. Each refresh token works once.
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/refresh [post]
func (h *authHandler) refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	session, err := h.sessions.Refresh(c.Request.Context(), req.ActorID, req.RefreshToken, clientMeta(c))
	if err != nil {
		h.respondError(c, err, "refresh session")
		return
	}
	c.JSON(http.StatusOK, dto.ToLoginResponse(session))
}

// logout godoc
// @Summary Sign out
// @Description Revokes one refresh token of the caller.
// @Tags auth
// @Accept json
// @Param logout body dto.LogoutRequest true "Refresh token to revoke"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *authHandler) logout(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req dto.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if err := h.sessions.Logout(c.Request.Context(), p, req.RefreshToken); err != nil {
		h.respondError(c, err, "sign out")
		return
	}
	c.Status(http.StatusNoContent)
}

// me godoc
// @Summary Current user
// @Description Returns the caller as described by their access token.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.MeResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /auth/me [get]
func (h *authHandler) me(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.ToMeResponse(p))
}

// googleLogin godoc
// @Summary Start Google sign-in
// @Description Redirects to Google. Only accounts whose email is registered can sign in.
// @Tags auth
// @Success 307
// @Failure 404 {object} dto.ErrorResponse "Google sign-in disabled"
// @Router /auth/google/login [get]
func (h *authHandler) googleLogin(c *gin.Context) {
	if !h.google.Enabled() {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Google sign-in is not enabled", Code: string(apperrors.KindNotFound)})
		return
	}
	state, err := h.google.GenerateStateString()
	if err != nil {
		h.respondError(c, err, "start Google sign-in")
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, 600, "/", "", h.production, true)
	c.Redirect(http.StatusTemporaryRedirect, h.google.GetGoogleLoginURL(state))
}

// googleCallback godoc
// @Summary Finish Google sign-in
// @Description Exchanges the authorization code and signs in the user registered under the Google email.
// @Tags auth
// @Produce json
// @Param state query string true "OAuth state"
// @Param code query string true "Authorization code"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/google/callback [get]
func (h *authHandler) googleCallback(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if !h.google.Enabled() {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Google sign-in is not enabled", Code: string(apperrors.KindNotFound)})
		return
	}

	expected, err := c.Cookie(oauthStateCookie)
	if err != nil || expected == "" || expected != c.Query("state") {
		logger.Warn("OAuth state mismatch")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid OAuth state", Code: string(apperrors.KindValidation)})
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", h.production, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Authorization code is required", Code: string(apperrors.KindValidation)})
		return
	}

	token, err := h.google.ExchangeCodeForToken(c.Request.Context(), code)
	if err != nil {
		logger.Warn("Failed to exchange authorization code with Google", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid or expired authorization code", Code: string(apperrors.KindAuth)})
		return
	}
	idToken, ok := token.Extra("id_token").(string)
	if !ok || idToken == "" {
		h.respondError(c, apperrors.NewInternalServerError("ID token missing from Google response", nil), "complete Google sign-in")
		return
	}

	session, err := h.sessions.LoginWithGoogle(c.Request.Context(), idToken, clientMeta(c))
	if err != nil {
		h.respondError(c, err, "complete Google sign-in")
		return
	}
	c.JSON(http.StatusOK, dto.ToLoginResponse(session))
}
