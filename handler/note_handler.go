package handler

import (
	"encoding/json"
	"errors"
	"go-notes-api/common"
	"go-notes-api/logger"
	"go-notes-api/model"
	"go-notes-api/service"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
)

type NoteHandler struct {
	service *service.NoteService
}

func NewNoteHandler(service *service.NoteService) *NoteHandler {
	return &NoteHandler{service: service}
}

// CreateNote godoc
// @Summary      Create a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      model.CreateNoteRequest  true  "Note payload"
// @Success      201      {object}  model.Note
// @Failure      401      {object}  common.AppError
// @Router       /notes [post]
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateNoteRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	log := logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"title":   req.Title,
	})
	log.Info("Create note request received")

	note, err := h.service.CreateNote(userID, req.Title, req.Content, req.Color)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not create note", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(note)

	return nil
}

// ListNotes godoc
// @Summary      List the authenticated user's notes
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   model.Note
// @Failure      401  {object}  common.AppError
// @Router       /notes [get]
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	notes, err := h.service.ListNotesForOwner(userID)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve notes", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(notes)

	return nil
}

// DeleteNote godoc
// @Summary      Delete a note
// @Tags         notes
// @Security     BearerAuth
// @Param        id   path  int  true  "Note ID"
// @Success      204
// @Failure      404  {object}  common.AppError
// @Router       /notes/{id} [delete]
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	noteID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid note ID", nil)
	}

	if err := h.service.DeleteNote(userID, noteID); err != nil {
		if errors.Is(err, service.ErrNoteNotFound) {
			return common.NewAppError(http.StatusNotFound, "Note not found", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not delete note", err)
	}

	w.WriteHeader(http.StatusNoContent)

	return nil
}
