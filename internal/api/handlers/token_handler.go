// filepath: internal/api/handlers/token_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"hkids/internal/logging"
	"hkids/internal/services/auth"
)

// loginRequest is the JSON body for login and signup.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// tokenRequest is the JSON body for refresh and logout endpoints.
type tokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// tokenResponse is the JSON body returned on successful token generation.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// @Summary Log in
// @Description Authenticate with username and password to receive an access and refresh token. Repeated failures lock the account out temporarily.
// @Tags Auth
// @Accept   json
// @Produce  json
// @Param   credentials  body  loginRequest  true  "Credentials"
// @Success 200 {object} tokenResponse
// @Failure 401 {object} ErrorResponse "Authentication failed"
// @Failure 429 {object} ErrorResponse "Too many attempts"
// @Router /token [post]
func (h *Handlers) GetToken(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ip := auth.ClientIP(r)
	if allowed, retryAfter := h.LoginLimiter.Allow(ip, req.Username); !allowed {
		w.Header().Set("Retry-After", retryAfter.String())
		respondWithError(w, http.StatusTooManyRequests, "Too many login attempts")
		return
	}

	user, err := h.User.GetUserByUsername(req.Username)
	if err != nil {
		// Avoid revealing if the user exists.
		h.LoginLimiter.RecordFailure(ip, req.Username)
		respondWithError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		if locked, _ := h.LoginLimiter.RecordFailure(ip, req.Username); locked {
			h.Auditor.Log(r.Context(), "auth.lockout", req.Username, "login", map[string]interface{}{"ip": ip})
		}
		respondWithError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}

	h.LoginLimiter.RecordSuccess(ip, req.Username)

	accessToken, refreshToken, err := h.Token.GenerateTokens(user)
	if err != nil {
		logging.Log.Errorf("Token generation failed for %s: %v", req.Username, err)
		respondWithError(w, http.StatusInternalServerError, "Could not generate tokens")
		return
	}

	h.Auditor.Log(r.Context(), "auth.login", user.Username, fmt.Sprintf("user:%d", user.ID), nil)

	respondWithJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// @Summary Refresh JWT access token
// @Description Provide a valid refresh token to receive a new token pair. The old refresh token is revoked.
// @Tags Auth
// @Accept   json
// @Produce  json
// @Param   token  body  tokenRequest  true  "Refresh Token"
// @Success 200 {object} tokenResponse
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Failure 401 {object} ErrorResponse "Invalid or expired token"
// @Router /token/refresh [post]
func (h *Handlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.Token.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}

	// Token rotation: invalidate the old refresh token immediately.
	if err := h.Token.Logout(req.RefreshToken); err != nil {
		logging.Log.Warnf("Failed to invalidate old refresh token during refresh for user %s: %v", user.Username, err)
	}

	accessToken, refreshToken, err := h.Token.GenerateTokens(user)
	if err != nil {
		logging.Log.Errorf("Token refresh failed for %s: %v", user.Username, err)
		respondWithError(w, http.StatusInternalServerError, "Could not generate tokens")
		return
	}

	respondWithJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// @Summary Logout
// @Description Invalidates a refresh token. This endpoint is protected by an access token.
// @Tags Auth
// @Accept   json
// @Produce  json
// @Param   token  body  tokenRequest  true  "Refresh Token to invalidate"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Security BearerAuth
// @Router /logout [post]
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Token.Logout(req.RefreshToken); err != nil {
		logging.Log.Errorf("Logout failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to logout")
		return
	}

	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Logged out successfully."})
}

// @Summary Sign up
// @Description Registers a new parent account. Admin and kid accounts cannot be created here.
// @Tags Auth
// @Accept   json
// @Produce  json
// @Param   credentials  body  loginRequest  true  "Credentials"
// @Success 201 {object} models.User
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 409 {object} ErrorResponse "Username taken"
// @Router /signup [post]
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.User.Signup(req.Username, req.Password)
	if err != nil {
		respondWithServiceError(w, err, "Signup")
		return
	}

	h.Auditor.Log(r.Context(), "auth.signup", user.Username, fmt.Sprintf("user:%d", user.ID), nil)

	respondWithJSON(w, http.StatusCreated, user)
}
