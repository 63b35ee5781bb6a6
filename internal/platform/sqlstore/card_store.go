package sqlstore

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/studydev/studydev/internal/domain"
	"github.com/studydev/studydev/internal/store"
)

const cardColumns = `id, subject, front, back, tags, ease_factor, interval_days,
	repetitions, review_count, due_date, last_reviewed_at, created_at, updated_at`

// cardRow is the database shape of a domain.Card.
type cardRow struct {
	ID             int64   `db:"id"`
	Subject        string  `db:"subject"`
	Front          string  `db:"front"`
	Back           string  `db:"back"`
	Tags           tagList `db:"tags"`
	EaseFactor     float64 `db:"ease_factor"`
	IntervalDays   int     `db:"interval_days"`
	Repetitions    int     `db:"repetitions"`
	ReviewCount    int     `db:"review_count"`
	DueDate        string  `db:"due_date"`
	LastReviewedAt dbTime  `db:"last_reviewed_at"`
	CreatedAt      dbTime  `db:"created_at"`
	UpdatedAt      dbTime  `db:"updated_at"`
}

func (r cardRow) toDomain() (domain.Card, error) {
	due, err := domain.ParseDate(strings.TrimSpace(r.DueDate))
	if err != nil {
		return domain.Card{}, fmt.Errorf("card %d has invalid due date: %w", r.ID, err)
	}
	return domain.Card{
		ID:             r.ID,
		Subject:        r.Subject,
		Front:          r.Front,
		Back:           r.Back,
		Tags:           []string(r.Tags),
		EaseFactor:     r.EaseFactor,
		IntervalDays:   r.IntervalDays,
		Repetitions:    r.Repetitions,
		ReviewCount:    r.ReviewCount,
		DueDate:        due,
		LastReviewedAt: r.LastReviewedAt.Ptr(),
		CreatedAt:      r.CreatedAt.Time,
		UpdatedAt:      r.UpdatedAt.Time,
	}, nil
}

func rowsToCards(rows []cardRow) ([]domain.Card, error) {
	cards := make([]domain.Card, 0, len(rows))
	for _, r := range rows {
		c, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// CardStore implements store.CardStore on any sqlx connection or transaction.
type CardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewCardStore creates a CardStore. If logger is nil, a default logger is used.
func NewCardStore(db store.DBTX, logger *slog.Logger) *CardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

var _ store.CardStore = (*CardStore)(nil)

// Create implements store.CardStore.Create.
func (s *CardStore) Create(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := s.db.Rebind(`INSERT INTO cards (subject, front, back, tags, ease_factor,
		interval_days, repetitions, review_count, due_date, last_reviewed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	var id int64
	err := s.db.QueryRowxContext(ctx, query,
		card.Subject, card.Front, card.Back, tagList(card.Tags), card.EaseFactor,
		card.IntervalDays, card.Repetitions, card.ReviewCount,
		card.DueDate.Format(domain.DateLayout), utc(card.LastReviewedAt),
		card.CreatedAt.UTC(), card.UpdatedAt.UTC(),
	).Scan(&id)
	if err != nil {
		s.logger.Error("failed to insert card",
			slog.String("subject", card.Subject),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	card.ID = id
	s.logger.Debug("card created", slog.Int64("card_id", id), slog.String("subject", card.Subject))
	return nil
}

func (s *CardStore) get(ctx context.Context, id int64, lock bool) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = ?`
	if lock && isPostgres(s.db) {
		query += ` FOR UPDATE`
	}

	var row cardRow
	if err := s.db.GetContext(ctx, &row, s.db.Rebind(query), id); err != nil {
		mapped := MapError(err)
		if store.IsNotFoundError(mapped) {
			return nil, store.ErrCardNotFound
		}
		s.logger.Error("failed to load card",
			slog.Int64("card_id", id),
			slog.String("error", err.Error()))
		return nil, mapped
	}

	card, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// GetByID implements store.CardStore.GetByID.
func (s *CardStore) GetByID(ctx context.Context, id int64) (*domain.Card, error) {
	return s.get(ctx, id, false)
}

// GetForUpdate implements store.CardStore.GetForUpdate.
// SQLite serialises writers on its single connection, so no lock clause is needed there.
func (s *CardStore) GetForUpdate(ctx context.Context, id int64) (*domain.Card, error) {
	return s.get(ctx, id, true)
}

// ListBySubject implements store.CardStore.ListBySubject.
func (s *CardStore) ListBySubject(ctx context.Context, subject string) ([]domain.Card, error) {
	query := s.db.Rebind(`SELECT ` + cardColumns + ` FROM cards
		WHERE (? = '' OR subject = ?)
		ORDER BY id`)

	var rows []cardRow
	if err := s.db.SelectContext(ctx, &rows, query, subject, subject); err != nil {
		s.logger.Error("failed to list cards",
			slog.String("subject", subject),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return rowsToCards(rows)
}

// ListDue implements store.CardStore.ListDue.
func (s *CardStore) ListDue(ctx context.Context, subject string, day time.Time) ([]domain.Card, error) {
	query := s.db.Rebind(`SELECT ` + cardColumns + ` FROM cards
		WHERE due_date <= ? AND (? = '' OR subject = ?)
		ORDER BY due_date, id`)

	var rows []cardRow
	err := s.db.SelectContext(ctx, &rows, query,
		domain.Date(day).Format(domain.DateLayout), subject, subject)
	if err != nil {
		s.logger.Error("failed to list due cards",
			slog.String("subject", subject),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return rowsToCards(rows)
}

// Save implements store.CardStore.Save.
func (s *CardStore) Save(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := s.db.Rebind(`UPDATE cards SET subject = ?, front = ?, back = ?, tags = ?,
		ease_factor = ?, interval_days = ?, repetitions = ?, review_count = ?,
		due_date = ?, last_reviewed_at = ?, updated_at = ?
		WHERE id = ?`)

	result, err := s.db.ExecContext(ctx, query,
		card.Subject, card.Front, card.Back, tagList(card.Tags),
		card.EaseFactor, card.IntervalDays, card.Repetitions, card.ReviewCount,
		card.DueDate.Format(domain.DateLayout), utc(card.LastReviewedAt), card.UpdatedAt.UTC(),
		card.ID,
	)
	if err != nil {
		s.logger.Error("failed to update card",
			slog.Int64("card_id", card.ID),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrCardNotFound)
}

// Delete implements store.CardStore.Delete.
// Review log entries are removed by ON DELETE CASCADE.
func (s *CardStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM cards WHERE id = ?`), id)
	if err != nil {
		s.logger.Error("failed to delete card",
			slog.Int64("card_id", id),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrCardNotFound); err != nil {
		return err
	}
	s.logger.Debug("card deleted", slog.Int64("card_id", id))
	return nil
}

// Subjects implements store.CardStore.Subjects.
func (s *CardStore) Subjects(ctx context.Context) ([]string, error) {
	var subjects []string
	err := s.db.SelectContext(ctx, &subjects, `SELECT DISTINCT subject FROM cards ORDER BY subject`)
	if err != nil {
		return nil, MapError(err)
	}
	return subjects, nil
}

// WithTx implements store.CardStore.WithTx.
func (s *CardStore) WithTx(tx *sqlx.Tx) store.CardStore {
	return &CardStore{db: tx, logger: s.logger}
}
