package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"

	hberrors "git.home.luguber.info/inful/huntboard/internal/errors"
	"git.home.luguber.info/inful/huntboard/internal/hunt"
	"git.home.luguber.info/inful/huntboard/internal/state"
)

// maxUploadBytes bounds a single photo upload.
const maxUploadBytes = 16 << 20

// ItemResponse is one hunt item as reported to the presentation layer.
// Photo bytes are never inlined; the photo endpoint serves them.
type ItemResponse struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Clue     string `json:"clue"`
	Found    bool   `json:"found"`
	HasPhoto bool   `json:"hasPhoto"`
}

// HuntResponse is the full progress snapshot.
type HuntResponse struct {
	FoundCount int              `json:"foundCount"`
	Total      int              `json:"total"`
	Submitting bool             `json:"submitting"`
	Reward     *hunt.RewardTier `json:"reward,omitempty"`
	Items      []ItemResponse   `json:"items"`
}

func toItemResponses(s hunt.State) []ItemResponse {
	out := make([]ItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		out = append(out, ItemResponse{
			ID:       it.ID,
			Title:    it.Title,
			Clue:     it.Clue,
			Found:    it.Found,
			HasPhoto: it.Photo != nil,
		})
	}
	return out
}

func (s *Server) handleGetHunt(w http.ResponseWriter, r *http.Request) {
	snapshot := s.tracker.Snapshot()
	resp := HuntResponse{
		FoundCount: snapshot.FoundCount(),
		Total:      snapshot.Total(),
		Submitting: s.tracker.Submitting(),
		Items:      toItemResponses(snapshot),
	}
	if tier, ok := hunt.RewardFor(resp.FoundCount); ok {
		resp.Reward = &tier
	}
	s.Success(w, http.StatusOK, resp)
}

func (s *Server) handleGetReward(w http.ResponseWriter, r *http.Request) {
	tier, ok := s.tracker.Reward()
	if !ok {
		s.Success(w, http.StatusOK, map[string]any{"unlocked": false})
		return
	}
	s.Success(w, http.StatusOK, map[string]any{"unlocked": true, "tier": tier})
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	s.Success(w, http.StatusOK, toItemResponses(s.tracker.Snapshot()))
}

// lookupItem finds an item in the current snapshot by URL parameter.
func (s *Server) lookupItem(r *http.Request) (hunt.Item, bool) {
	id := chi.URLParam(r, "id")
	snapshot := s.tracker.Snapshot()
	idx := snapshot.IndexOf(id)
	if idx < 0 {
		return hunt.Item{}, false
	}
	return snapshot.Items[idx], true
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	item, ok := s.lookupItem(r)
	if !ok {
		s.Error(w, r, http.StatusNotFound, "unknown item")
		return
	}
	s.Success(w, http.StatusOK, ItemResponse{
		ID:       item.ID,
		Title:    item.Title,
		Clue:     item.Clue,
		Found:    item.Found,
		HasPhoto: item.Photo != nil,
	})
}

func (s *Server) handleGetPhoto(w http.ResponseWriter, r *http.Request) {
	item, ok := s.lookupItem(r)
	if !ok {
		s.Error(w, r, http.StatusNotFound, "unknown item")
		return
	}
	if item.Photo == nil {
		s.Error(w, r, http.StatusNotFound, "item has no photo")
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(item.Photo)
}

// handleGetClue serves the clue text, rendered to HTML when requested.
func (s *Server) handleGetClue(w http.ResponseWriter, r *http.Request) {
	item, ok := s.lookupItem(r)
	if !ok {
		s.Error(w, r, http.StatusNotFound, "unknown item")
		return
	}

	if r.URL.Query().Get("format") == "html" {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(item.Clue), &buf); err != nil {
			s.Error(w, r, http.StatusInternalServerError, "failed to render clue")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(item.Clue))
}

// readUpload extracts the captured image from a raw body or a multipart
// "photo" field.
func readUpload(r *http.Request) ([]byte, error) {
	if mt := r.Header.Get("Content-Type"); len(mt) >= 19 && mt[:19] == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, err
		}
		file, _, err := r.FormFile("photo")
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return io.ReadAll(io.LimitReader(file, maxUploadBytes))
	}
	defer r.Body.Close()
	return io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
}

func (s *Server) handleMarkFound(w http.ResponseWriter, r *http.Request) {
	image, err := readUpload(r)
	if err != nil || len(image) == 0 {
		s.Error(w, r, http.StatusBadRequest, "missing photo upload")
		return
	}

	if err := s.tracker.MarkFound(r.Context(), chi.URLParam(r, "id"), image); err != nil {
		var huntErr *hberrors.HuntError
		if errors.As(err, &huntErr) && huntErr.Category == hberrors.CategoryValidation {
			s.Error(w, r, http.StatusBadRequest, "uploaded photo is not a decodable image")
			return
		}
		s.Error(w, r, http.StatusInternalServerError, "failed to persist item")
		return
	}

	// Unknown IDs are a silent no-op in the tracker; either way the
	// mutation endpoint answers 204.
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearFound(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.ClearFound(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.Error(w, r, http.StatusInternalServerError, "failed to persist item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.ResetAll(r.Context()); err != nil {
		s.Error(w, r, http.StatusInternalServerError, "failed to reset hunt")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	outcome, err := s.tracker.Submit(r.Context())
	if err != nil {
		if errors.Is(err, state.ErrSubmitInFlight) {
			s.Error(w, r, http.StatusConflict, "a submission is already in flight")
			return
		}
		var huntErr *hberrors.HuntError
		if errors.As(err, &huntErr) && huntErr.Category == hberrors.CategoryValidation {
			s.Error(w, r, http.StatusConflict, "find every item before submitting")
			return
		}
		s.Error(w, r, http.StatusInternalServerError, "submission failed to start")
		return
	}
	s.Success(w, http.StatusOK, outcome)
}
