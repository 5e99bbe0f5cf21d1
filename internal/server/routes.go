package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/fieldserve/fieldassist/internal/assets"
	"github.com/fieldserve/fieldassist/internal/docsource"
	"github.com/fieldserve/fieldassist/internal/gaps"
	"github.com/fieldserve/fieldassist/internal/pipeline"
	"github.com/fieldserve/fieldassist/internal/vectordb"
)

func (s *Server) registerRoutes(r chi.Router) {
	r.Post("/api/messages", s.handleMessage)
	r.Post("/api/documents", s.handleIndexDocument)

	if s.assets != nil {
		r.Get("/api/assets", s.handleListAssets)
		r.Post("/api/assets", s.handleCreateAsset)
		r.Put("/api/assets/{id}", s.handleUpdateAsset)
		r.Delete("/api/assets/{id}", s.handleDeleteAsset)
	}

	if s.gaps != nil {
		r.Get("/api/gaps", s.handleListGaps)
		r.Put("/api/gaps/{id}/status", s.handleGapStatus)
	}
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	reply := s.assistant.Respond(r.Context(), req)
	writeJSON(w, http.StatusOK, reply)
}

// indexRequest uploads one document as raw text. A user_id plus asset_id
// pair routes it to that scope's private corpus; otherwise it becomes a
// shared manual.
type indexRequest struct {
	Title        string `json:"title"`
	Manufacturer string `json:"manufacturer,omitempty"`
	Family       string `json:"family,omitempty"`
	Content      string `json:"content"`
	UserID       string `json:"user_id,omitempty"`
	AssetID      string `json:"asset_id,omitempty"`
}

func (s *Server) handleIndexDocument(w http.ResponseWriter, r *http.Request) {
	var req indexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Title == "" || req.Content == "" {
		http.Error(w, "title and content are required", http.StatusBadRequest)
		return
	}

	doc, err := docsource.Parse(req.Title, req.Content)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	doc.Manufacturer = req.Manufacturer
	doc.Family = req.Family

	var result interface{}
	if req.UserID != "" && req.AssetID != "" {
		result, err = s.indexer.IndexScoped(r.Context(), vectordb.Scope{UserID: req.UserID, AssetID: req.AssetID}, doc)
	} else {
		result, err = s.indexer.IndexShared(r.Context(), doc)
	}
	if err != nil {
		// Indexing failures surface explicitly and leave a trace, so the
		// missing document can be re-submitted.
		s.recordIndexingGap(r, req, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) recordIndexingGap(r *http.Request, req indexRequest, cause error) {
	if s.gaps == nil {
		return
	}
	err := s.gaps.Record(r.Context(), &gaps.Gap{
		Kind:            gaps.KindIndexingFailed,
		UserID:          req.UserID,
		ComponentFamily: req.Family,
		Manufacturer:    req.Manufacturer,
		Question:        req.Title,
		Detail:          cause.Error(),
	})
	if err != nil {
		log.Warn().Err(err).Str("title", req.Title).Msg("failed to record indexing gap")
	}
}

func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	list, err := s.assets.ListByUser(r.Context(), userID, r.URL.Query().Get("family"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []assets.Asset{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateAsset(w http.ResponseWriter, r *http.Request) {
	var a assets.Asset
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if a.UserID == "" || a.Name == "" {
		http.Error(w, "user_id and name are required", http.StatusBadRequest)
		return
	}

	if err := s.assets.Add(r.Context(), &a); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleUpdateAsset(w http.ResponseWriter, r *http.Request) {
	var a assets.Asset
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	a.ID = chi.URLParam(r, "id")

	if err := s.assets.Update(r.Context(), &a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "asset not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	if err := s.assets.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "asset not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListGaps(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	list, err := s.gaps.ListOpen(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []gaps.Gap{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGapStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status gaps.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if body.Status != gaps.StatusResolved && body.Status != gaps.StatusIgnored && body.Status != gaps.StatusOpen {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}

	if err := s.gaps.SetStatus(r.Context(), chi.URLParam(r, "id"), body.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "gap not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
