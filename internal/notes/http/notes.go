package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/notes/internal/notes/domain"
	"github.com/aussiebroadwan/notes/internal/notes/service"
	"github.com/aussiebroadwan/notes/internal/notes/web"
	"github.com/aussiebroadwan/notes/pkg/httpx"
	"github.com/aussiebroadwan/notes/pkg/notesdk"
	"github.com/aussiebroadwan/notes/pkg/slogx"
)

// TimezoneHeader names the IANA zone of the viewer, set by the edge.
const TimezoneHeader = "X-Vercel-IP-Timezone"

// NotesHandler serves the authenticated note pages and endpoints. The
// user id always comes from the request context, never from input.
type NotesHandler struct {
	NoteService *service.NoteService
	Pages       *web.Renderer
}

func noteNotFound(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte("Note not found"))
}

func noteViews(notes []domain.Note, zone string) []web.NoteView {
	loc := web.Location(zone)
	out := make([]web.NoteView, 0, len(notes))
	for _, n := range notes {
		v := web.NoteView{
			ID:        n.ID,
			Note:      n.Note,
			CreatedAt: web.FormatTime(n.CreatedAt, loc),
		}
		if n.UpdatedAt != nil {
			v.UpdatedAt = web.FormatTime(*n.UpdatedAt, loc)
		}
		out = append(out, v)
	}
	return out
}

// HandleList renders the most recently touched notes.
func (h *NotesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := httpx.UserIDFromContext(r.Context())

	notes, err := h.NoteService.Recent(r.Context(), userID)
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to list notes", "error", err)
		h.Pages.RenderError(w, r, http.StatusInternalServerError, "")
		return
	}

	zone := r.Header.Get(TimezoneHeader)
	httpx.NoCache(w)
	h.Pages.Render(w, r, http.StatusOK, web.PageNotes, "Your notes", web.NotesData{
		Timezone: web.Location(zone).String(),
		Notes:    noteViews(notes, zone),
	})
}

// HandleGet renders one note.
func (h *NotesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("uid"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	userID, _ := httpx.UserIDFromContext(r.Context())

	n, err := h.NoteService.Get(r.Context(), userID, id)
	if errors.Is(err, service.ErrNoteNotFound) {
		noteNotFound(w)
		return
	}
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to load note", "error", err)
		h.Pages.RenderError(w, r, http.StatusInternalServerError, "")
		return
	}

	httpx.NoCache(w)
	h.Pages.Render(w, r, http.StatusOK, web.PageNote, "Note", web.NoteData{ID: n.ID, Note: n.Note})
}

// HandleCreate godoc
//
//	@Summary		Create a note
//	@Tags			Notes
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			note	formData	string					true	"Note text"
//	@Success		200		{object}	notesdk.NoteResponse	"message, note_id"
//	@Failure		422		{string}	string					"Error page"
//	@Security		CookieAuth
//	@Router			/notes/create/ [post]
func (h *NotesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Pages.RenderError(w, r, http.StatusUnprocessableEntity, "invalid form data")
		return
	}
	form := createNoteForm{Note: field(r.PostForm, "note")}
	if err := validate.Struct(form); err != nil {
		h.Pages.RenderError(w, r, http.StatusUnprocessableEntity, validationReason(err))
		return
	}
	userID, _ := httpx.UserIDFromContext(r.Context())

	id, err := h.NoteService.Create(r.Context(), userID, *form.Note)
	if err != nil {
		h.Pages.RenderError(w, r, http.StatusInternalServerError, "")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, notesdk.NoteResponse{
		Message: "Note created successfully",
		NoteID:  id,
	})
}

// HandleUpdate godoc
//
//	@Summary		Update a note
//	@Tags			Notes
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			uid		formData	integer					true	"Note id"
//	@Param			note	formData	string					true	"New note text"
//	@Success		200		{object}	notesdk.NoteResponse	"message, note_id"
//	@Failure		404		{string}	string					"Note not found"
//	@Failure		422		{string}	string					"Error page"
//	@Security		CookieAuth
//	@Router			/notes/update/ [post]
func (h *NotesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Pages.RenderError(w, r, http.StatusUnprocessableEntity, "invalid form data")
		return
	}
	form := updateNoteForm{UID: r.PostFormValue("uid"), Note: field(r.PostForm, "note")}
	if err := validate.Struct(form); err != nil {
		h.Pages.RenderError(w, r, http.StatusUnprocessableEntity, validationReason(err))
		return
	}
	id, err := strconv.ParseInt(form.UID, 10, 64)
	if err != nil {
		h.Pages.RenderError(w, r, http.StatusUnprocessableEntity, "uid: input should be a valid integer")
		return
	}
	userID, _ := httpx.UserIDFromContext(r.Context())

	err = h.NoteService.Update(r.Context(), userID, id, *form.Note)
	if errors.Is(err, service.ErrNoteNotFound) {
		noteNotFound(w)
		return
	}
	if err != nil {
		slogx.FromContext(r.Context()).Error("failed to update note", "error", err)
		h.Pages.RenderError(w, r, http.StatusInternalServerError, "")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, notesdk.NoteResponse{
		Message: "Note updated successfully",
		NoteID:  id,
	})
}
