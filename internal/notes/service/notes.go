package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/notes/internal/notes/domain"
	"github.com/aussiebroadwan/notes/internal/notes/store"
	"github.com/aussiebroadwan/notes/pkg/slogx"
)

// RecentNotesLimit is how many notes the list page shows.
const RecentNotesLimit = 10

var ErrNoteNotFound = errors.New("note not found")

type NoteService struct {
	Store store.Store
	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *NoteService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Recent lists the user's most recently touched notes.
func (s *NoteService) Recent(ctx context.Context, userID string) ([]domain.Note, error) {
	return s.Store.Notes().ListRecentNotes(ctx, userID, RecentNotesLimit)
}

func (s *NoteService) Get(ctx context.Context, userID string, id int64) (domain.Note, error) {
	n, err := s.Store.Notes().GetNote(ctx, userID, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Note{}, ErrNoteNotFound
	}
	return n, err
}

func (s *NoteService) Create(ctx context.Context, userID, text string) (int64, error) {
	id, err := s.Store.Notes().CreateNote(ctx, domain.Note{
		UserID:    userID,
		Note:      text,
		CreatedAt: s.now(),
	})
	if err != nil {
		slogx.FromContext(ctx).Error("failed to create note", slog.Any("error", err))
		return 0, err
	}
	slogx.FromContext(ctx).Debug("note created", slog.Int64("note_id", id))
	return id, nil
}

// Update rewrites a note the user owns. Notes of other users look the same
// as missing ones. The ownership check and the write share a transaction.
func (s *NoteService) Update(ctx context.Context, userID string, id int64, text string) error {
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Notes().GetNote(ctx, userID, id); err != nil {
			return err
		}
		return tx.Notes().UpdateNote(ctx, userID, id, text, s.now())
	})
	if errors.Is(err, store.ErrNotFound) {
		slogx.FromContext(ctx).Info("update of unknown note", slog.Int64("note_id", id))
		return ErrNoteNotFound
	}
	if err != nil {
		slogx.FromContext(ctx).Error("failed to update note", slog.Int64("note_id", id), slog.Any("error", err))
	}
	return err
}
