package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/studydev/studydev/internal/domain"
	"github.com/studydev/studydev/internal/domain/srs"
	"github.com/studydev/studydev/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 4, 2, 14, 0, 0, 0, time.UTC)

func newCardService(t *testing.T, repo *MockCardRepository) CardService {
	t.Helper()
	svc, err := NewCardService(repo, srs.NewDefaultService(), srs.FixedClock(testNow), nil)
	require.NoError(t, err)
	return svc
}

func withMockDB(t *testing.T, repo *MockCardRepository) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo.db = sqlx.NewDb(db, "sqlmock")
	return mock
}

func strPtr(s string) *string { return &s }

func TestNewCardService(t *testing.T) {
	_, err := NewCardService(nil, srs.NewDefaultService(), nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "cardRepo")

	_, err = NewCardService(&MockCardRepository{}, nil, nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "srsService")

	svc, err := NewCardService(&MockCardRepository{}, srs.NewDefaultService(), nil, nil)
	assert.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestCreateCard(t *testing.T) {
	t.Run("sanitises content and schedules for today", func(t *testing.T) {
		repo := &MockCardRepository{}
		repo.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Card) bool {
			return c.Subject == "go" &&
				c.Front == "What does defer do?" &&
				c.Back == "Runs at return" &&
				assert.ObjectsAreEqual([]string{"lang", "basics"}, c.Tags)
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Card).ID = 7
		}).Return(nil)

		card, err := newCardService(t, repo).CreateCard(context.Background(), CreateCardRequest{
			Subject: " go ",
			Front:   "What does <b>defer</b> do?",
			Back:    "Runs at return<script>alert(1)</script>",
			Tags:    []string{"lang", "basics", "lang"},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(7), card.ID)
		assert.Equal(t, "2024-04-02", card.DueDate.Format(domain.DateLayout))
		assert.InDelta(t, domain.DefaultEaseFactor, card.EaseFactor, 1e-9)
		assert.Equal(t, 0, card.Repetitions)
		repo.AssertExpectations(t)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		repo := &MockCardRepository{}
		_, err := newCardService(t, repo).CreateCard(context.Background(), CreateCardRequest{Subject: "go", Front: "q"})
		assert.ErrorIs(t, err, ErrInvalidRequest)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects markup-only content", func(t *testing.T) {
		repo := &MockCardRepository{}
		_, err := newCardService(t, repo).CreateCard(context.Background(), CreateCardRequest{
			Subject: "go", Front: "<img src=x>", Back: "b",
		})
		assert.ErrorIs(t, err, ErrInvalidRequest)
		assert.ErrorIs(t, err, domain.ErrEmptyContent)
	})

	t.Run("wraps store failures", func(t *testing.T) {
		repo := &MockCardRepository{}
		boom := errors.New("disk I/O error")
		repo.On("Create", mock.Anything, mock.Anything).Return(boom)

		_, err := newCardService(t, repo).CreateCard(context.Background(), CreateCardRequest{
			Subject: "go", Front: "q", Back: "a",
		})
		var svcErr *CardServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "create_card", svcErr.Operation)
		assert.ErrorIs(t, err, boom)
	})
}

func TestGetCard(t *testing.T) {
	repo := &MockCardRepository{}
	want := &domain.Card{ID: 3, Subject: "go"}
	repo.On("GetByID", mock.Anything, int64(3)).Return(want, nil)
	repo.On("GetByID", mock.Anything, int64(4)).Return(nil, store.ErrCardNotFound)
	svc := newCardService(t, repo)

	got, err := svc.GetCard(context.Background(), 3)
	require.NoError(t, err)
	assert.Same(t, want, got)

	_, err = svc.GetCard(context.Background(), 4)
	assert.ErrorIs(t, err, store.ErrCardNotFound)
	assert.True(t, store.IsNotFoundError(err))
}

func TestUpdateCard(t *testing.T) {
	existing := func() *domain.Card {
		return &domain.Card{
			ID: 5, Subject: "go", Front: "old front", Back: "old back",
			Tags: []string{"x"}, EaseFactor: 2.36, IntervalDays: 6, Repetitions: 2,
			DueDate: time.Date(2024, 4, 8, 0, 0, 0, 0, time.UTC),
		}
	}

	t.Run("changes content only", func(t *testing.T) {
		repo := &MockCardRepository{}
		dbMock := withMockDB(t, repo)
		dbMock.ExpectBegin()
		dbMock.ExpectCommit()

		repo.On("GetForUpdate", mock.Anything, int64(5)).Return(existing(), nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)

		got, err := newCardService(t, repo).UpdateCard(context.Background(), 5, UpdateCardRequest{
			Back: strPtr("<i>new</i> back"),
			Tags: []string{},
		})
		require.NoError(t, err)
		assert.Equal(t, "old front", got.Front)
		assert.Equal(t, "new back", got.Back)
		assert.Empty(t, got.Tags)
		assert.InDelta(t, 2.36, got.EaseFactor, 1e-9)
		assert.Equal(t, 6, got.IntervalDays)
		assert.Equal(t, 2, got.Repetitions)
		assert.Equal(t, "2024-04-08", got.DueDate.Format(domain.DateLayout))
		assert.Equal(t, testNow, got.UpdatedAt)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("empty request", func(t *testing.T) {
		_, err := newCardService(t, &MockCardRepository{}).UpdateCard(context.Background(), 5, UpdateCardRequest{})
		assert.ErrorIs(t, err, ErrNoChanges)
	})

	t.Run("blank field rolls back", func(t *testing.T) {
		repo := &MockCardRepository{}
		dbMock := withMockDB(t, repo)
		dbMock.ExpectBegin()
		dbMock.ExpectRollback()
		repo.On("GetForUpdate", mock.Anything, int64(5)).Return(existing(), nil)

		_, err := newCardService(t, repo).UpdateCard(context.Background(), 5, UpdateCardRequest{Front: strPtr("   ")})
		assert.ErrorIs(t, err, ErrInvalidRequest)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("missing card", func(t *testing.T) {
		repo := &MockCardRepository{}
		dbMock := withMockDB(t, repo)
		dbMock.ExpectBegin()
		dbMock.ExpectRollback()
		repo.On("GetForUpdate", mock.Anything, int64(9)).Return(nil, store.ErrCardNotFound)

		_, err := newCardService(t, repo).UpdateCard(context.Background(), 9, UpdateCardRequest{Front: strPtr("x")})
		assert.ErrorIs(t, err, store.ErrCardNotFound)
	})
}

func TestDeleteCard(t *testing.T) {
	repo := &MockCardRepository{}
	repo.On("Delete", mock.Anything, int64(1)).Return(nil)
	repo.On("Delete", mock.Anything, int64(2)).Return(store.ErrCardNotFound)
	svc := newCardService(t, repo)

	assert.NoError(t, svc.DeleteCard(context.Background(), 1))
	assert.ErrorIs(t, svc.DeleteCard(context.Background(), 2), store.ErrCardNotFound)
}

func TestListCardsAndSubjects(t *testing.T) {
	repo := &MockCardRepository{}
	repo.On("ListBySubject", mock.Anything, "go").Return([]domain.Card{{ID: 1}, {ID: 2}}, nil)
	repo.On("ListBySubject", mock.Anything, "bad").Return(nil, errors.New("closed"))
	repo.On("Subjects", mock.Anything).Return([]string{"go", "math"}, nil)
	svc := newCardService(t, repo)

	cards, err := svc.ListCards(context.Background(), "go")
	require.NoError(t, err)
	assert.Len(t, cards, 2)

	_, err = svc.ListCards(context.Background(), "bad")
	var svcErr *CardServiceError
	assert.ErrorAs(t, err, &svcErr)

	subjects, err := svc.Subjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "math"}, subjects)
}
