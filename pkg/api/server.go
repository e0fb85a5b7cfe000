// Package api exposes the order server over HTTP: envelope submission,
// client registration, the ciphertext archive, and a WebSocket event stream.
package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/secureCryptoConfig/stockserver/pkg/server"
)

// Server handles REST API and WebSocket connections
type Server struct {
	core   *server.Server
	router *mux.Router
	hub    *Hub
	log    *zap.SugaredLogger
}

// NewServer creates a new API server around the core order server
func NewServer(core *server.Server, logger *zap.SugaredLogger) *Server {
	s := &Server{
		core:   core,
		router: mux.NewRouter(),
		hub:    NewHub(logger),
		log:    logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/register", s.handleRegister).Methods("POST")
	api.HandleFunc("/orders", s.handleSubmitEnvelope).Methods("POST")
	api.HandleFunc("/clients/{id}/archive", s.handleGetArchive).Methods("GET")

	s.router.HandleFunc("/ws", s.handleWebSocket)
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Start starts the API server
func (s *Server) Start(addr string) error {
	go s.hub.Run()

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})

	s.log.Infow("api_server_starting", "addr", addr)
	return http.ListenAndServe(addr, c.Handler(s.router))
}

// Handler returns the routed handler (used by tests)
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	id := s.core.RegisterClient(req.PublicKey)
	if id == -1 {
		respondError(w, http.StatusBadRequest, "registration rejected", "")
		return
	}

	respondJSON(w, RegisterResponse{ClientID: id})
}

func (s *Server) handleSubmitEnvelope(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read body", err.Error())
		return
	}

	// The protocol resolves every failure itself; the HTTP layer only
	// transports the envelope and the textual response.
	resp := s.core.AcceptMessage(string(body))
	respondJSON(w, SubmitResponse{Response: resp})
}

func (s *Server) handleGetArchive(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	clientID, err := strconv.Atoi(vars["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid client id", vars["id"])
		return
	}

	limit := 100
	if q := r.URL.Query().Get("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 {
			limit = n
		}
	}

	blobs, err := s.core.ArchivedCiphertexts(clientID, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "archive read failed", err.Error())
		return
	}
	if blobs == nil {
		blobs = [][]byte{}
	}

	respondJSON(w, ArchiveResponse{ClientID: clientID, Ciphertexts: blobs})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, error string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Message: message,
	})
}
