package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Kepler-Br/omega-momiji-telegram-frontend/internal/middleware"
	"github.com/Kepler-Br/omega-momiji-telegram-frontend/internal/models"
	"github.com/Kepler-Br/omega-momiji-telegram-frontend/internal/tracing"
	"github.com/Kepler-Br/omega-momiji-telegram-frontend/pkg/telegram"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Response status values returned by every API endpoint.
const (
	StatusOK              = "OK"
	StatusBadRequest      = "BAD_REQUEST"
	StatusInternalError   = "INTERNAL_SERVER_ERROR"
	StatusNotReady        = "NOT_READY"
	StatusNotFound        = "NOT_FOUND"
	StatusTooManyRequests = "TOO_MANY_REQUESTS"
)

type apiResponse struct {
	Status       string  `json:"status"`
	ErrorMessage string  `json:"errorMessage,omitempty"`
	MessageID    *int64  `json:"messageId,omitempty"`
	AdminIDs     []int64 `json:"adminIds,omitempty"`
}

type sendTextRequest struct {
	ChatID  int64  `json:"chatId"`
	Text    string `json:"text"`
	ReplyTo *int64 `json:"replyTo,omitempty"`
}

type Server struct {
	router   *mux.Router
	logger   *logrus.Logger
	telegram telegram.Client
	server   *http.Server
}

func NewServer(cfg *models.Config, client telegram.Client, logger *logrus.Logger) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		logger:   logger,
		telegram: client,
	}

	s.router.Use(middleware.Observability(logger))
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSec) * time.Second,
	}

	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/text-messages", s.handleSendText()).Methods(http.MethodPost)
	s.router.HandleFunc("/chats/{chatID}/actions/typing", s.handleTyping()).Methods(http.MethodPost)
	s.router.HandleFunc("/chats/{chatID}/admins", s.handleAdmins()).Methods(http.MethodGet)

	s.router.HandleFunc("/liveness", s.handleLiveness()).Methods(http.MethodGet)
	s.router.HandleFunc("/readiness", s.handleReadiness()).Methods(http.MethodGet)
	s.router.HandleFunc("/metrics", s.handleMetrics()).Methods(http.MethodGet)
}

func (s *Server) Start() error {
	s.logger.Infof("Starting server on %s", s.server.Addr)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleSendText() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.ready() {
			writeResponse(w, http.StatusServiceUnavailable, apiResponse{Status: StatusNotReady})
			return
		}

		var req sendTextRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeResponse(w, http.StatusBadRequest, apiResponse{
				Status:       StatusBadRequest,
				ErrorMessage: "invalid request body",
			})
			return
		}
		if req.ChatID == 0 || req.Text == "" {
			writeResponse(w, http.StatusBadRequest, apiResponse{
				Status:       StatusBadRequest,
				ErrorMessage: "chatId and text are required",
			})
			return
		}

		messageID, err := s.telegram.SendTextMessage(r.Context(), req.ChatID, req.Text, req.ReplyTo)
		if err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"request_id": tracing.GetRequestID(r.Context()),
				"chat_id":    req.ChatID,
			}).Error("Failed to send message")
			writeResponse(w, http.StatusInternalServerError, apiResponse{
				Status:       StatusInternalError,
				ErrorMessage: err.Error(),
			})
			return
		}

		writeResponse(w, http.StatusOK, apiResponse{Status: StatusOK, MessageID: &messageID})
	}
}

func (s *Server) handleTyping() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.ready() {
			writeResponse(w, http.StatusServiceUnavailable, apiResponse{Status: StatusNotReady})
			return
		}

		chatID, ok := pathChatID(w, r)
		if !ok {
			return
		}

		if err := s.telegram.SendTyping(r.Context(), chatID); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"request_id": tracing.GetRequestID(r.Context()),
				"chat_id":    chatID,
			}).Error("Failed to send typing action")
			writeResponse(w, http.StatusInternalServerError, apiResponse{
				Status:       StatusInternalError,
				ErrorMessage: err.Error(),
			})
			return
		}

		writeResponse(w, http.StatusOK, apiResponse{Status: StatusOK})
	}
}

func (s *Server) handleAdmins() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.ready() {
			writeResponse(w, http.StatusServiceUnavailable, apiResponse{Status: StatusNotReady})
			return
		}

		chatID, ok := pathChatID(w, r)
		if !ok {
			return
		}

		adminIDs, err := s.telegram.GetChatAdmins(r.Context(), chatID)
		if err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"request_id": tracing.GetRequestID(r.Context()),
				"chat_id":    chatID,
			}).Error("Failed to list chat admins")
			writeResponse(w, http.StatusInternalServerError, apiResponse{
				Status:       StatusInternalError,
				ErrorMessage: err.Error(),
			})
			return
		}

		writeResponse(w, http.StatusOK, apiResponse{Status: StatusOK, AdminIDs: adminIDs})
	}
}

func (s *Server) handleLiveness() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]bool{"liveness": true})
	}
}

func (s *Server) handleReadiness() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !s.ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]bool{"readiness": false})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]bool{"readiness": true})
	}
}

// ready reports whether the Telegram session is usable. The client resolves
// its own identity during startup, so a known username means the session
// authenticated.
func (s *Server) ready() bool {
	return s.telegram != nil && s.telegram.Username() != ""
}

func pathChatID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	chatID, err := strconv.ParseInt(mux.Vars(r)["chatID"], 10, 64)
	if err != nil {
		writeResponse(w, http.StatusBadRequest, apiResponse{
			Status:       StatusBadRequest,
			ErrorMessage: "chatID must be an integer",
		})
		return 0, false
	}
	return chatID, true
}

func writeResponse(w http.ResponseWriter, statusCode int, resp apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}
