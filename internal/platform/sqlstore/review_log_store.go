package sqlstore

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/studydev/studydev/internal/domain"
	"github.com/studydev/studydev/internal/store"
)

type reviewLogRow struct {
	ID           uuid.UUID `db:"id"`
	CardID       int64     `db:"card_id"`
	Quality      int       `db:"quality"`
	IntervalDays int       `db:"interval_days"`
	EaseFactor   float64   `db:"ease_factor"`
	ReviewedAt   dbTime    `db:"reviewed_at"`
}

// ReviewLogStore implements store.ReviewLogStore.
type ReviewLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewReviewLogStore creates a ReviewLogStore. If logger is nil, a default logger is used.
func NewReviewLogStore(db store.DBTX, logger *slog.Logger) *ReviewLogStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_log_store")),
	}
}

var _ store.ReviewLogStore = (*ReviewLogStore)(nil)

// Create implements store.ReviewLogStore.Create.
func (s *ReviewLogStore) Create(ctx context.Context, entry *domain.ReviewLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	query := s.db.Rebind(`INSERT INTO review_logs
		(id, card_id, quality, interval_days, ease_factor, reviewed_at)
		VALUES (?, ?, ?, ?, ?, ?)`)

	_, err := s.db.ExecContext(ctx, query,
		entry.ID, entry.CardID, int(entry.Quality), entry.IntervalDays, entry.EaseFactor,
		entry.ReviewedAt.UTC(),
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return store.ErrCardNotFound
		}
		s.logger.Error("failed to insert review log",
			slog.Int64("card_id", entry.CardID),
			slog.String("error", err.Error()))
		return store.NewStoreError("review_log", "create", "failed to insert review log", MapError(err))
	}
	return nil
}

// ListByCard implements store.ReviewLogStore.ListByCard.
func (s *ReviewLogStore) ListByCard(ctx context.Context, cardID int64) ([]domain.ReviewLog, error) {
	query := s.db.Rebind(`SELECT id, card_id, quality, interval_days, ease_factor, reviewed_at
		FROM review_logs WHERE card_id = ?
		ORDER BY reviewed_at, id`)

	var rows []reviewLogRow
	if err := s.db.SelectContext(ctx, &rows, query, cardID); err != nil {
		return nil, store.NewStoreError("review_log", "list", "failed to load review history", MapError(err))
	}

	entries := make([]domain.ReviewLog, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, domain.ReviewLog{
			ID:           r.ID,
			CardID:       r.CardID,
			Quality:      domain.ReviewOutcome(r.Quality),
			IntervalDays: r.IntervalDays,
			EaseFactor:   r.EaseFactor,
			ReviewedAt:   r.ReviewedAt.Time,
		})
	}
	return entries, nil
}

// Summary implements store.ReviewLogStore.Summary.
func (s *ReviewLogStore) Summary(
	ctx context.Context,
	subject string,
	since time.Time,
) (domain.ReviewSummary, error) {
	query := s.db.Rebind(`SELECT
			COUNT(*) AS reviews,
			COALESCE(SUM(CASE WHEN r.quality < ? THEN 1 ELSE 0 END), 0) AS lapses
		FROM review_logs r
		JOIN cards c ON c.id = r.card_id
		WHERE r.reviewed_at >= ? AND (? = '' OR c.subject = ?)`)

	var summary domain.ReviewSummary
	err := s.db.GetContext(ctx, &summary, query,
		int(domain.QualityPass), since.UTC(), subject, subject)
	if err != nil {
		return domain.ReviewSummary{}, MapError(err)
	}
	return summary, nil
}

// WithTx implements store.ReviewLogStore.WithTx.
func (s *ReviewLogStore) WithTx(tx *sqlx.Tx) store.ReviewLogStore {
	return &ReviewLogStore{db: tx, logger: s.logger}
}
