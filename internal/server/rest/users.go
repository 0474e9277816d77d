package rest

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/petkeeper/internal/common"
	"github.com/dmitrijs2005/petkeeper/internal/server/models"
	"github.com/dmitrijs2005/petkeeper/internal/server/validation"
)

type userResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
}

type loginResponse struct {
	Message      string       `json:"message"`
	User         *models.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (s *Server) registerUser(w http.ResponseWriter, r *http.Request) {
	var req validation.CredentialsRequest
	if err := s.validator.Decode(r.Body, &req); err != nil {
		s.writeError(w, r, err, "")
		return
	}

	user, err := s.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	s.logger.Info(r.Context(), "user registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, userResponse{Message: "User created successfully!", User: user})
}

func (s *Server) loginUser(w http.ResponseWriter, r *http.Request) {
	var req validation.CredentialsRequest
	if err := s.validator.Decode(r.Body, &req); err != nil {
		s.writeError(w, r, err, "")
		return
	}

	key := s.clientIP(r)
	if s.throttle != nil {
		if wait := s.throttle.RetryAfter(key); wait > 0 {
			s.metrics.authFailure(reasonThrottled)
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			s.writeError(w, r, common.ErrTooManyAttempts, "")
			return
		}
	}

	user, pair, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			if s.throttle != nil {
				s.throttle.Fail(key)
			}
			s.metrics.authFailure(reasonCredentials)
			writeMessage(w, http.StatusUnauthorized, msgBadCredentials)
			return
		}
		s.writeError(w, r, err, "")
		return
	}
	if s.throttle != nil {
		s.throttle.Reset(key)
	}

	s.setSessionCookie(w, pair.AccessToken)
	writeJSON(w, http.StatusOK, loginResponse{
		Message:      "Logged in successfully!",
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (s *Server) logoutUser(w http.ResponseWriter, r *http.Request) {
	// the body is optional; without a token only the cookie is cleared
	var req validation.RefreshRequest
	if err := s.validator.Decode(r.Body, &req); err != nil {
		req.Token = ""
	}

	if err := s.users.Logout(r.Context(), req.Token); err != nil {
		s.writeError(w, r, err, "")
		return
	}

	s.clearSessionCookie(w)
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

func (s *Server) refreshToken(w http.ResponseWriter, r *http.Request) {
	var req validation.RefreshRequest
	err := s.validator.Decode(r.Body, &req)
	if err != nil || req.Token == "" {
		s.metrics.authFailure(reasonNoToken)
		writeMessage(w, http.StatusUnauthorized, "You are not authenticated!")
		return
	}

	pair, err := s.users.RefreshToken(r.Context(), req.Token)
	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) ||
			errors.Is(err, common.ErrRefreshTokenExpired) ||
			errors.Is(err, common.ErrTokenExpired) {
			s.metrics.authFailure(reasonRefresh)
			writeMessage(w, http.StatusForbidden, "Refresh token is not valid!")
			return
		}
		s.writeError(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusOK, tokenPairResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	if err := s.users.DeleteAccount(r.Context(), user.ID); err != nil {
		s.writeError(w, r, err, "User not found!")
		return
	}

	s.logger.Info(r.Context(), "user deleted", "user_id", user.ID)
	s.clearSessionCookie(w)
	writeMessage(w, http.StatusOK, "User deleted successfully!")
}
