package handlers

import (
	"net/http"

	"video-library/internal/database"
	"video-library/internal/logging"

	"github.com/gorilla/mux"
)

// TagRequest creates or renames a tag.
type TagRequest struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// ParticipantRequest creates or renames a participant.
type ParticipantRequest struct {
	Name string `json:"name"`
}

// LanguageRequest creates or updates a language.
type LanguageRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// AssociationRequest replaces a video's association set for one facet.
type AssociationRequest struct {
	IDs []string `json:"ids"`
}

// Tags

// ListTags returns all tags.
func (h *Handlers) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.db.ListTags(r.Context())
	if err != nil {
		logging.Error("list tags failed: %v", err)
		writeJSONError(w, "Failed to list tags", http.StatusInternalServerError)
		return
	}

	if tags == nil {
		tags = []database.Tag{}
	}
	writeJSON(w, tags)
}

// CreateTag creates a new tag.
func (h *Handlers) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req TagRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		writeJSONError(w, "Name is required", http.StatusBadRequest)
		return
	}

	tag, err := h.db.CreateTag(r.Context(), req.Name, req.Color)
	if err != nil {
		logging.Error("create tag failed: %v", err)
		writeJSONError(w, "Failed to create tag", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, tag)
}

// UpdateTag renames or recolors a tag.
func (h *Handlers) UpdateTag(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req TagRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		writeJSONError(w, "Name is required", http.StatusBadRequest)
		return
	}

	if err := h.db.UpdateTag(r.Context(), id, req.Name, req.Color); err != nil {
		writeStoreError(w, err, "Tag not found")
		return
	}

	writeJSONStatus(w, "updated")
}

// DeleteTag deletes a tag and its video associations.
func (h *Handlers) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.db.DeleteTag(r.Context(), id); err != nil {
		writeStoreError(w, err, "Tag not found")
		return
	}

	writeJSONStatus(w, "deleted")
}

// GetVideoTags returns the tags attached to a video.
func (h *Handlers) GetVideoTags(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	tags, err := h.db.GetVideoTags(r.Context(), id)
	if err != nil {
		logging.Error("get video tags failed: %v", err)
		writeJSONError(w, "Failed to get tags", http.StatusInternalServerError)
		return
	}

	if tags == nil {
		tags = []database.Tag{}
	}
	writeJSON(w, tags)
}

// SetVideoTags replaces the full tag set of a video.
func (h *Handlers) SetVideoTags(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req AssociationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.db.SetVideoTags(r.Context(), id, req.IDs); err != nil {
		writeStoreError(w, err, "Video not found")
		return
	}

	writeJSONStatus(w, "updated")
}

// Participants

// ListParticipants returns all participants.
func (h *Handlers) ListParticipants(w http.ResponseWriter, r *http.Request) {
	participants, err := h.db.ListParticipants(r.Context())
	if err != nil {
		logging.Error("list participants failed: %v", err)
		writeJSONError(w, "Failed to list participants", http.StatusInternalServerError)
		return
	}

	if participants == nil {
		participants = []database.Participant{}
	}
	writeJSON(w, participants)
}

// CreateParticipant creates a new participant.
func (h *Handlers) CreateParticipant(w http.ResponseWriter, r *http.Request) {
	var req ParticipantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		writeJSONError(w, "Name is required", http.StatusBadRequest)
		return
	}

	participant, err := h.db.CreateParticipant(r.Context(), req.Name)
	if err != nil {
		logging.Error("create participant failed: %v", err)
		writeJSONError(w, "Failed to create participant", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, participant)
}

// UpdateParticipant renames a participant.
func (h *Handlers) UpdateParticipant(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req ParticipantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		writeJSONError(w, "Name is required", http.StatusBadRequest)
		return
	}

	if err := h.db.UpdateParticipant(r.Context(), id, req.Name); err != nil {
		writeStoreError(w, err, "Participant not found")
		return
	}

	writeJSONStatus(w, "updated")
}

// DeleteParticipant deletes a participant and its video associations.
func (h *Handlers) DeleteParticipant(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.db.DeleteParticipant(r.Context(), id); err != nil {
		writeStoreError(w, err, "Participant not found")
		return
	}

	writeJSONStatus(w, "deleted")
}

// GetVideoParticipants returns the participants attached to a video.
func (h *Handlers) GetVideoParticipants(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	participants, err := h.db.GetVideoParticipants(r.Context(), id)
	if err != nil {
		logging.Error("get video participants failed: %v", err)
		writeJSONError(w, "Failed to get participants", http.StatusInternalServerError)
		return
	}

	if participants == nil {
		participants = []database.Participant{}
	}
	writeJSON(w, participants)
}

// SetVideoParticipants replaces the full participant set of a video.
func (h *Handlers) SetVideoParticipants(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req AssociationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.db.SetVideoParticipants(r.Context(), id, req.IDs); err != nil {
		writeStoreError(w, err, "Video not found")
		return
	}

	writeJSONStatus(w, "updated")
}

// Languages

// ListLanguages returns all languages.
func (h *Handlers) ListLanguages(w http.ResponseWriter, r *http.Request) {
	languages, err := h.db.ListLanguages(r.Context())
	if err != nil {
		logging.Error("list languages failed: %v", err)
		writeJSONError(w, "Failed to list languages", http.StatusInternalServerError)
		return
	}

	if languages == nil {
		languages = []database.Language{}
	}
	writeJSON(w, languages)
}

// CreateLanguage creates a new language.
func (h *Handlers) CreateLanguage(w http.ResponseWriter, r *http.Request) {
	var req LanguageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Code == "" || req.Name == "" {
		writeJSONError(w, "Code and name are required", http.StatusBadRequest)
		return
	}

	language, err := h.db.CreateLanguage(r.Context(), req.Code, req.Name)
	if err != nil {
		logging.Error("create language failed: %v", err)
		writeJSONError(w, "Failed to create language", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, language)
}

// UpdateLanguage updates a language's code or name.
func (h *Handlers) UpdateLanguage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req LanguageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Code == "" || req.Name == "" {
		writeJSONError(w, "Code and name are required", http.StatusBadRequest)
		return
	}

	if err := h.db.UpdateLanguage(r.Context(), id, req.Code, req.Name); err != nil {
		writeStoreError(w, err, "Language not found")
		return
	}

	writeJSONStatus(w, "updated")
}

// DeleteLanguage deletes a language and its video associations.
func (h *Handlers) DeleteLanguage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.db.DeleteLanguage(r.Context(), id); err != nil {
		writeStoreError(w, err, "Language not found")
		return
	}

	writeJSONStatus(w, "deleted")
}

// GetVideoLanguages returns the languages attached to a video.
func (h *Handlers) GetVideoLanguages(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	languages, err := h.db.GetVideoLanguages(r.Context(), id)
	if err != nil {
		logging.Error("get video languages failed: %v", err)
		writeJSONError(w, "Failed to get languages", http.StatusInternalServerError)
		return
	}

	if languages == nil {
		languages = []database.Language{}
	}
	writeJSON(w, languages)
}

// SetVideoLanguages replaces the full language set of a video.
func (h *Handlers) SetVideoLanguages(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req AssociationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.db.SetVideoLanguages(r.Context(), id, req.IDs); err != nil {
		writeStoreError(w, err, "Video not found")
		return
	}

	writeJSONStatus(w, "updated")
}
