package server

import (
	"encoding/json"
	"net/http"

	"github.com/aithena-labs/aithena"
	"github.com/google/uuid"
)

type chatEvent struct {
	ID    string `json:"id"`
	Delta string `json:"delta,omitempty"`
}

type chatDone struct {
	ID       string      `json:"id"`
	Text     string      `json:"text"`
	Memories []memoryHit `json:"memories,omitempty"`
}

// handleChat answers one turn as a Server-Sent Events stream: "delta" events
// carry text fragments, a final "done" event carries the full reply and the
// memories used, and failures surface as an "error" event.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req aithena.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	id := uuid.NewString()
	res, err := s.assistant.Chat(r.Context(), req, func(delta string) {
		s.writeEvent(w, "delta", chatEvent{ID: id, Delta: delta})
		flusher.Flush()
	})
	if err != nil {
		s.logger.Error("chat turn failed", "error", err)
		s.writeEvent(w, "error", map[string]string{"id": id, "error": err.Error()})
		flusher.Flush()
		return
	}

	s.writeEvent(w, "done", chatDone{
		ID:       id,
		Text:     res.Text,
		Memories: toMemoryHits(res.Memories),
	})
	flusher.Flush()
}

func (s *Server) writeEvent(w http.ResponseWriter, event string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("failed to marshal sse event", "error", err)
		return
	}
	if _, err := w.Write([]byte("event: " + event + "\ndata: " + string(data) + "\n\n")); err != nil {
		s.logger.Error("failed to write sse event", "error", err)
	}
}
