// file: service/note_service.go

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"go-notes-api/model"
	"go-notes-api/repository"
	"time"
)

// ErrNoteNotFound is returned when a note does not exist or does not
// belong to the requesting user. The two cases are deliberately not
// distinguished so users cannot probe other users' note ids.
var ErrNoteNotFound = errors.New("note not found")

const noteCacheTTL = 10 * time.Minute

// NoteService handles note business logic with a cache-aside strategy on
// the per-owner note list.
type NoteService struct {
	repo  repository.INoteRepository
	cache ICacheClient
}

func NewNoteService(repo repository.INoteRepository, cache ICacheClient) *NoteService {
	return &NoteService{repo: repo, cache: cache}
}

func noteCacheKey(ownerID int) string {
	return fmt.Sprintf("notes:%d", ownerID)
}

// CreateNote saves a new note and invalidates the owner's cached list.
func (s *NoteService) CreateNote(ownerID int, title, content string, color int64) (*model.Note, error) {
	note := &model.Note{
		OwnerID: ownerID,
		Title:   title,
		Content: content,
		Color:   color,
	}

	if err := s.repo.CreateNote(note); err != nil {
		return nil, err
	}

	s.cache.Del(context.Background(), noteCacheKey(ownerID))
	return note, nil
}

// ListNotesForOwner returns the owner's notes, serving from cache when possible.
func (s *NoteService) ListNotesForOwner(ownerID int) ([]*model.Note, error) {
	cacheKey := noteCacheKey(ownerID)
	ctx := context.Background()

	cached, err := s.cache.Get(ctx, cacheKey).Result()
	if err == nil {
		var notes []*model.Note
		if err := json.Unmarshal([]byte(cached), &notes); err == nil {
			return notes, nil
		}
	}

	notes, err := s.repo.GetNotesByOwnerID(ownerID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(notes); err == nil {
		s.cache.Set(ctx, cacheKey, data, noteCacheTTL)
	}

	return notes, nil
}

// DeleteNote removes a note owned by the given user and invalidates the
// owner's cached list.
func (s *NoteService) DeleteNote(ownerID, noteID int) error {
	note, err := s.repo.GetNoteByID(noteID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNoteNotFound
		}
		return err
	}

	if note.OwnerID != ownerID {
		return ErrNoteNotFound
	}

	if err := s.repo.DeleteNote(noteID); err != nil {
		return err
	}

	s.cache.Del(context.Background(), noteCacheKey(ownerID))
	return nil
}
