package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"arcadebot/models"
	"arcadebot/service"
)

// Server exposes the operator overrides over HTTP, protected by basic
// auth. Every mutation runs through AdminService as the configured
// callerID so the audit log attributes panel actions to a real admin.
type Server struct {
	addr     string
	username string
	password string
	callerID int64
	admins   *service.AdminService
	router   *chi.Mux
}

func NewServer(addr, username, password string, callerID int64, admins *service.AdminService) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	s := &Server{
		addr:     addr,
		username: username,
		password: password,
		callerID: callerID,
		admins:   admins,
		router:   r,
	}

	r.Get("/healthz", s.handleHealth)
	r.Group(func(protected chi.Router) {
		protected.Use(s.basicAuthMiddleware())
		protected.Get("/stats", s.handleGlobalStats)
		protected.Post("/premium/grant", s.handleGrantPremium)
		protected.Post("/premium/revoke", s.handleRevokePremium)
		protected.Post("/credits/add", s.handleAddCredits)
	})
	return s
}

func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("Admin server shutdown error")
		}
	}()

	log.WithField("addr", s.addr).Info("Admin server listening")
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("admin listen: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGlobalStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.admins.GlobalStats(r.Context(), s.callerID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

type premiumGrantRequest struct {
	Target string `json:"target"`
	Days   int    `json:"days"`
}

func (s *Server) handleGrantPremium(w http.ResponseWriter, r *http.Request) {
	var req premiumGrantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	user, err := s.admins.GrantPremium(r.Context(), s.callerID, req.Target, req.Days)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, user)
}

type premiumRevokeRequest struct {
	Target string `json:"target"`
}

func (s *Server) handleRevokePremium(w http.ResponseWriter, r *http.Request) {
	var req premiumRevokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := s.admins.RevokePremium(r.Context(), s.callerID, req.Target); err != nil {
		s.serviceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "revoked"})
}

type addCreditsRequest struct {
	Target string `json:"target"`
	Amount int64  `json:"amount"`
}

func (s *Server) handleAddCredits(w http.ResponseWriter, r *http.Request) {
	var req addCreditsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	user, err := s.admins.AddCredits(r.Context(), s.callerID, req.Target, req.Amount)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, user)
}

func (s *Server) serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrUserNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
	case errors.Is(err, models.ErrAdminUnauthorized):
		http.Error(w, "unauthorized", http.StatusForbidden)
	default:
		log.WithError(err).Error("Admin request failed")
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("Failed to encode admin response")
	}
}

func (s *Server) basicAuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok || user != s.username || pass != s.password {
				w.Header().Set("WWW-Authenticate", `Basic realm="arcadebot"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
