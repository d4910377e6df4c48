// Package stubserver is an in-memory RideNext backend for development and integration tests.
package stubserver

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"rideNext/utils"
)

const defaultTokenTTL = 24 * time.Hour

type Config struct {
	SigningKey string
	TokenTTL   time.Duration
	InfoLog    *log.Logger
	ErrorLog   *log.Logger
}

type Server struct {
	store    *Store
	tokens   *utils.Manager
	tokenTTL time.Duration
	infoLog  *log.Logger
	errorLog *log.Logger
}

func New(cfg Config) (*Server, error) {
	tokens, err := utils.NewManager(cfg.SigningKey)
	if err != nil {
		return nil, err
	}
	s := &Server{
		store:    NewStore(),
		tokens:   tokens,
		tokenTTL: cfg.TokenTTL,
		infoLog:  cfg.InfoLog,
		errorLog: cfg.ErrorLog,
	}
	if s.tokenTTL <= 0 {
		s.tokenTTL = defaultTokenTTL
	}
	if s.infoLog == nil {
		s.infoLog = log.New(io.Discard, "", 0)
	}
	if s.errorLog == nil {
		s.errorLog = log.New(io.Discard, "", 0)
	}
	return s, nil
}

// Store exposes the backing data, mainly for seeding in tests.
func (s *Server) Store() *Store { return s.store }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	s.errorLog.Output(2, err.Error())
	writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}
