package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/notes/internal/notes/domain"
	"github.com/aussiebroadwan/notes/internal/notes/store"
	"github.com/aussiebroadwan/notes/internal/notes/store/drivers/sqlite/gen"
)

type notesRepo struct {
	q *gen.Queries
}

func (r *notesRepo) ListRecentNotes(ctx context.Context, userID string, limit int) ([]domain.Note, error) {
	rows, err := r.q.ListRecentNotes(ctx, gen.ListRecentNotesParams{
		UserID: userID,
		Limit:  int64(limit),
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.Note, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapNote(row))
	}
	return out, nil
}

func (r *notesRepo) GetNote(ctx context.Context, userID string, id int64) (domain.Note, error) {
	row, err := r.q.GetNote(ctx, gen.GetNoteParams{ID: id, UserID: userID})
	if err != nil {
		return domain.Note{}, mapNotFound(err)
	}
	return mapNote(row), nil
}

func (r *notesRepo) CreateNote(ctx context.Context, n domain.Note) (int64, error) {
	created := n.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	return r.q.CreateNote(ctx, gen.CreateNoteParams{
		UserID:    n.UserID,
		Note:      n.Note,
		CreatedAt: created.UTC(),
	})
}

func (r *notesRepo) UpdateNote(ctx context.Context, userID string, id int64, note string, at time.Time) error {
	n, err := r.q.UpdateNote(ctx, gen.UpdateNoteParams{
		Note:      note,
		UpdatedAt: sql.NullTime{Time: at.UTC(), Valid: true},
		ID:        id,
		UserID:    userID,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *notesRepo) CountNotes(ctx context.Context) (int64, error) {
	return r.q.CountNotes(ctx)
}
