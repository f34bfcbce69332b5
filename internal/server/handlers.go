package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/clauselens/clauselens/internal/jobs"
	"github.com/clauselens/clauselens/internal/pipeline"
)

// scoreRequest is the body of POST /v1/score.
type scoreRequest struct {
	Text string `json:"text"`
}

// askRequest is the body of POST /v1/documents/{id}/ask.
type askRequest struct {
	Query string `json:"query"`
}

// handleUpload accepts a document for asynchronous analysis.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	log := s.logger.WithRequestID(requestID(r.Context()))

	maxBytes := s.config.Server.MaxUploadMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file part in the request")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "no file selected")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !allowedUpload(header.Filename, contentType) {
		writeError(w, http.StatusUnsupportedMediaType, "invalid file type, upload a .txt or .md document")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		log.Error("Failed to read upload", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to read upload")
		return
	}

	documentID := uuid.NewString()
	err = s.pipeline.Submit(r.Context(), pipeline.Request{
		DocumentID:  documentID,
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		if errors.Is(err, pipeline.ErrQueueFull) {
			writeError(w, http.StatusServiceUnavailable, "analysis queue is full, retry later")
			return
		}
		log.Error("Failed to submit document", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to start analysis")
		return
	}

	log.Info("Document accepted",
		zap.String("document_id", documentID),
		zap.String("filename", header.Filename),
		zap.Int("bytes", len(data)),
	)

	writeJSON(w, http.StatusAccepted, map[string]string{
		"message":    "File uploaded successfully. Analysis started.",
		"documentId": documentID,
	})
}

// handleGetDocument returns the status or completed analysis of a job.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	documentID := mux.Vars(r)["id"]

	analysis, err := s.store.Get(r.Context(), documentID)
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		s.logger.Error("Failed to load analysis", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not retrieve document")
		return
	}

	writeJSON(w, http.StatusOK, analysis)
}

// handleScore scores a single text span synchronously.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result := s.scorer.Evaluate(req.Text)
	writeJSON(w, http.StatusOK, result)
}

// handleAsk answers a question about a completed analysis by locating the
// clauses that mention the query terms.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	documentID := mux.Vars(r)["id"]

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "missing query in request body")
		return
	}

	analysis, err := s.store.Get(r.Context(), documentID)
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			writeError(w, http.StatusNotFound, "document analysis is not complete or does not exist")
			return
		}
		s.logger.Error("Failed to load analysis", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not retrieve document")
		return
	}
	if analysis.Status != jobs.StatusCompleted {
		writeError(w, http.StatusNotFound, "document analysis is not complete or does not exist")
		return
	}

	answer, matched := answerQuery(analysis, req.Query)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"answer":         answer,
		"matchedClauses": matched,
	})
}

// answerQuery finds the highest-scoring clauses containing any query term
// and assembles a plain-language answer from their annotations.
func answerQuery(analysis *jobs.Analysis, query string) (string, []int) {
	terms := queryTerms(query)

	var hits []jobs.Clause
	for _, clause := range analysis.Clauses {
		lower := strings.ToLower(clause.Text)
		for _, term := range terms {
			if strings.Contains(lower, term) {
				hits = append(hits, clause)
				break
			}
		}
	}

	if len(hits) == 0 {
		return fmt.Sprintf("The document does not appear to address %q directly. Review the flagged clauses for related obligations.", query), nil
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > 3 {
		hits = hits[:3]
	}

	var b strings.Builder
	indices := make([]int, 0, len(hits))
	for i, clause := range hits {
		indices = append(indices, clause.Index)
		if i > 0 {
			b.WriteByte(' ')
		}
		if clause.Explanation != "" {
			fmt.Fprintf(&b, "Clause %d (%s, %s): %s", clause.Index, clause.Type, clause.Category, clause.Explanation)
		} else {
			fmt.Fprintf(&b, "Clause %d (%s) mentions this but was scored as standard language.", clause.Index, clause.Category)
		}
	}

	return b.String(), indices
}

// queryTerms lowercases and keeps terms long enough to be selective.
func queryTerms(query string) []string {
	var terms []string
	for _, field := range strings.Fields(strings.ToLower(query)) {
		term := strings.Trim(field, `.,;:!?"'`)
		if len(term) >= 3 {
			terms = append(terms, term)
		}
	}
	return terms
}

// allowedUpload accepts plain-text document types.
func allowedUpload(filename, contentType string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md", ".text":
		return true
	}
	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	return mediaType == "text/plain" || mediaType == "text/markdown"
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
