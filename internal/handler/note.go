package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dmaloney/flatnote/internal/auth"
	"github.com/dmaloney/flatnote/internal/model"
	"github.com/dmaloney/flatnote/internal/store"
	"github.com/dmaloney/flatnote/internal/websocket"
)

// cacheControl marks note reads as short-lived cacheable snapshots.
const cacheControl = "max-age=60, s-maxage=120, stale-while-revalidate=60"

type NoteHandler struct {
	notes  store.NoteStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewNoteHandler(notes store.NoteStore, hub *websocket.Hub, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{notes: notes, hub: hub, logger: logger}
}

func (h *NoteHandler) broadcast(ev websocket.Event) {
	if h.hub != nil {
		h.hub.Broadcast(ev)
	}
}

type createNoteRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// updateNoteRequest distinguishes omitted fields (nil) from
// provided-but-empty ones; an omitted field keeps its prior value.
type updateNoteRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	notes, err := h.notes.ListByOwner(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list notes", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if notes == nil {
		notes = []model.Note{}
	}

	w.Header().Set("Cache-Control", cacheControl)
	writeJSON(w, http.StatusOK, data(notes))
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Title == "" || req.Description == "" {
		writeError(w, http.StatusBadRequest, "Missing body parameter(s)")
		return
	}

	note, err := h.notes.Create(auth.UserID(r.Context()), req.Title, req.Description)
	if err != nil {
		h.logger.Error("create note", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.broadcast(websocket.NoteEvent("created", note.ID))
	writeJSON(w, http.StatusCreated, data(note))
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	note, err := h.notes.Get(auth.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		h.logger.Error("get note", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if note == nil {
		writeError(w, http.StatusNotFound, "Notes not found")
		return
	}

	w.Header().Set("Cache-Control", cacheControl)
	writeJSON(w, http.StatusOK, data(note))
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Title == nil && req.Description == nil {
		writeError(w, http.StatusBadRequest, "Missing body parameter(s)")
		return
	}

	note, err := h.notes.Update(auth.UserID(r.Context()), r.PathValue("id"), req.Title, req.Description)
	if err != nil {
		h.logger.Error("update note", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if note == nil {
		writeError(w, http.StatusNotFound, "Notes not found")
		return
	}

	h.broadcast(websocket.NoteEvent("updated", note.ID))
	writeJSON(w, http.StatusOK, data(note))
}

// Delete ignores any request body; the route id alone selects the note.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	note, err := h.notes.Delete(auth.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		h.logger.Error("delete note", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if note == nil {
		writeError(w, http.StatusNotFound, "Notes not found")
		return
	}

	h.broadcast(websocket.NoteEvent("deleted", note.ID))
	writeJSON(w, http.StatusOK, data(note))
}
