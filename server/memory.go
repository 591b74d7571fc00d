package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/aithena-labs/aithena/brain"
	"github.com/mokiat/gog"
)

const maxDocumentSize = 50 << 20 // 50 MiB

type memoryDTO struct {
	ID        uint      `json:"id"`
	Text      string    `json:"text"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

type memoryHit struct {
	memoryDTO
	Score float64 `json:"score"`
}

func toMemoryDTO(rec brain.MemoryRecord) memoryDTO {
	return memoryDTO{
		ID:        rec.ID,
		Text:      rec.Text,
		Source:    rec.Source,
		CreatedAt: rec.CreatedAt,
	}
}

func toMemoryHits(results []brain.RecallResult) []memoryHit {
	return gog.Map(results, func(r brain.RecallResult) memoryHit {
		return memoryHit{memoryDTO: toMemoryDTO(r.Record), Score: r.Score}
	})
}

func (s *Server) handleAddMemory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := s.assistant.Remember(r.Context(), req.Text)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toMemoryDTO(*rec))
}

func (s *Server) handleCountMemories(w http.ResponseWriter, r *http.Request) {
	count, err := s.assistant.Brain().Count(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int64{"count": count})
}

func (s *Server) handleRecall(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
		K     int    `json:"k,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	results, err := s.assistant.RecallMemories(r.Context(), req.Query, req.K)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"results": toMemoryHits(results)})
}

func (s *Server) handleClearMemories(w http.ResponseWriter, r *http.Request) {
	if err := s.assistant.ForgetAll(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleUploadDocument ingests a multipart file upload: the document is
// chunked and every chunk becomes a memory tagged with the filename.
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxDocumentSize); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxDocumentSize))
	if err != nil {
		s.writeError(w, err)
		return
	}

	records, err := s.assistant.RememberDocument(r.Context(), header.Filename, data)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{
		"chunks": len(records),
		"memories": gog.Map(records, func(rec *brain.MemoryRecord) memoryDTO {
			return toMemoryDTO(*rec)
		}),
	})
}
