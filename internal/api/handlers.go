package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	s.respondWithJSON(w, http.StatusOK, s.progress.Progress())
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	s.respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
