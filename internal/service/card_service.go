package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/studydev/studydev/internal/content"
	"github.com/studydev/studydev/internal/domain"
	"github.com/studydev/studydev/internal/domain/srs"
	"github.com/studydev/studydev/internal/platform/logger"
	"github.com/studydev/studydev/internal/store"
)

// CardRepository defines the repository interface for the service layer
type CardRepository interface {
	Create(ctx context.Context, card *domain.Card) error
	GetByID(ctx context.Context, id int64) (*domain.Card, error)
	GetForUpdate(ctx context.Context, id int64) (*domain.Card, error)
	ListBySubject(ctx context.Context, subject string) ([]domain.Card, error)
	ListDue(ctx context.Context, subject string, day time.Time) ([]domain.Card, error)
	Save(ctx context.Context, card *domain.Card) error
	Delete(ctx context.Context, id int64) error
	Subjects(ctx context.Context) ([]string, error)

	// WithTx returns a new repository instance that uses the provided transaction
	WithTx(tx *sqlx.Tx) CardRepository

	// DB returns the underlying database connection
	DB() *sqlx.DB
}

// CreateCardRequest carries the user-supplied content of a new card.
type CreateCardRequest struct {
	Subject string   `json:"subject" validate:"required,max=100"`
	Front   string   `json:"front"   validate:"required,max=4000"`
	Back    string   `json:"back"    validate:"required,max=4000"`
	Tags    []string `json:"tags"    validate:"max=20,dive,max=50"`
}

// UpdateCardRequest changes card content. Nil fields are left alone; a non-nil
// Tags slice replaces the tag list, so an empty slice clears it.
type UpdateCardRequest struct {
	Subject *string  `json:"subject,omitempty" validate:"omitempty,max=100"`
	Front   *string  `json:"front,omitempty"   validate:"omitempty,max=4000"`
	Back    *string  `json:"back,omitempty"    validate:"omitempty,max=4000"`
	Tags    []string `json:"tags,omitempty"    validate:"omitempty,max=20,dive,max=50"`
}

func (r UpdateCardRequest) empty() bool {
	return r.Subject == nil && r.Front == nil && r.Back == nil && r.Tags == nil
}

// CardService provides card-related operations
type CardService interface {
	// CreateCard sanitises the request and stores a new card due today.
	CreateCard(ctx context.Context, req CreateCardRequest) (*domain.Card, error)

	// GetCard retrieves a card by its ID
	GetCard(ctx context.Context, cardID int64) (*domain.Card, error)

	// UpdateCard edits card content. Scheduling state is never touched.
	UpdateCard(ctx context.Context, cardID int64, req UpdateCardRequest) (*domain.Card, error)

	// DeleteCard removes a card together with its review history.
	DeleteCard(ctx context.Context, cardID int64) error

	// ListCards returns the cards of a subject, or all cards for "".
	ListCards(ctx context.Context, subject string) ([]domain.Card, error)

	// Subjects returns the distinct subjects in use.
	Subjects(ctx context.Context) ([]string, error)
}

// cardServiceImpl implements the CardService interface
type cardServiceImpl struct {
	cardRepo   CardRepository
	srsService srs.Service
	clock      srs.Clock
	sanitizer  *content.Sanitizer
	validate   *validator.Validate
	logger     *slog.Logger
}

// NewCardService creates a new CardService
// It returns an error if any of the required dependencies are nil.
func NewCardService(
	cardRepo CardRepository,
	srsService srs.Service,
	clock srs.Clock,
	logger *slog.Logger,
) (CardService, error) {
	if cardRepo == nil {
		return nil, fmt.Errorf("%w: cardRepo cannot be nil", domain.ErrValidation)
	}
	if srsService == nil {
		return nil, fmt.Errorf("%w: srsService cannot be nil", domain.ErrValidation)
	}
	if clock == nil {
		clock = srs.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &cardServiceImpl{
		cardRepo:   cardRepo,
		srsService: srsService,
		clock:      clock,
		sanitizer:  content.NewSanitizer(),
		validate:   validator.New(),
		logger:     logger.With(slog.String("component", "card_service")),
	}, nil
}

// CreateCard implements CardService.CreateCard
func (s *cardServiceImpl) CreateCard(ctx context.Context, req CreateCardRequest) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	fields, err := s.sanitizer.Card(content.Fields{
		Subject: req.Subject,
		Front:   req.Front,
		Back:    req.Back,
		Tags:    req.Tags,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	card, err := s.srsService.NewCard(fields.Subject, fields.Front, fields.Back, fields.Tags, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	if err := s.cardRepo.Create(ctx, card); err != nil {
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("subject", card.Subject))
		return nil, NewCardServiceError("create_card", "failed to save card", err)
	}

	log.Info("card created",
		slog.Int64("card_id", card.ID),
		slog.String("subject", card.Subject))
	return card, nil
}

// GetCard implements CardService.GetCard
// It retrieves a card by its ID
func (s *cardServiceImpl) GetCard(ctx context.Context, cardID int64) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving card", slog.Int64("card_id", cardID))

	card, err := s.cardRepo.GetByID(ctx, cardID)
	if err != nil {
		return nil, s.wrapError(ctx, "get_card", "failed to retrieve card", cardID, err)
	}
	return card, nil
}

// UpdateCard implements CardService.UpdateCard
func (s *cardServiceImpl) UpdateCard(
	ctx context.Context,
	cardID int64,
	req UpdateCardRequest,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if req.empty() {
		return nil, ErrNoChanges
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	var updated *domain.Card
	err := store.RunInTransaction(ctx, s.cardRepo.DB(), func(ctx context.Context, tx *sqlx.Tx) error {
		txRepo := s.cardRepo.WithTx(tx)

		card, err := txRepo.GetForUpdate(ctx, cardID)
		if err != nil {
			return err
		}

		if err := s.applyUpdate(card, req); err != nil {
			return err
		}
		card.UpdatedAt = s.clock.Now().UTC()

		if err := txRepo.Save(ctx, card); err != nil {
			return err
		}
		updated = card
		return nil
	})
	if err != nil {
		return nil, s.wrapError(ctx, "update_card", "failed to update card", cardID, err)
	}

	log.Info("card updated", slog.Int64("card_id", cardID))
	return updated, nil
}

func (s *cardServiceImpl) applyUpdate(card *domain.Card, req UpdateCardRequest) error {
	set := func(dst *string, name string, in *string) error {
		if in == nil {
			return nil
		}
		out, err := s.sanitizer.Field(name, *in)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
		*dst = out
		return nil
	}

	if err := set(&card.Subject, "subject", req.Subject); err != nil {
		return err
	}
	if err := set(&card.Front, "front", req.Front); err != nil {
		return err
	}
	if err := set(&card.Back, "back", req.Back); err != nil {
		return err
	}
	if req.Tags != nil {
		card.Tags = s.sanitizer.Tags(req.Tags)
	}
	return nil
}

// DeleteCard implements CardService.DeleteCard
func (s *cardServiceImpl) DeleteCard(ctx context.Context, cardID int64) error {
	if err := s.cardRepo.Delete(ctx, cardID); err != nil {
		return s.wrapError(ctx, "delete_card", "failed to delete card", cardID, err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("card deleted", slog.Int64("card_id", cardID))
	return nil
}

// ListCards implements CardService.ListCards
func (s *cardServiceImpl) ListCards(ctx context.Context, subject string) ([]domain.Card, error) {
	cards, err := s.cardRepo.ListBySubject(ctx, subject)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list cards",
			slog.String("error", err.Error()),
			slog.String("subject", subject))
		return nil, NewCardServiceError("list_cards", "failed to list cards", err)
	}
	return cards, nil
}

// Subjects implements CardService.Subjects
func (s *cardServiceImpl) Subjects(ctx context.Context) ([]string, error) {
	subjects, err := s.cardRepo.Subjects(ctx)
	if err != nil {
		return nil, NewCardServiceError("subjects", "failed to list subjects", err)
	}
	return subjects, nil
}

// wrapError keeps not-found and request errors recognisable and wraps the rest.
func (s *cardServiceImpl) wrapError(ctx context.Context, op, message string, cardID int64, err error) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	switch {
	case store.IsNotFoundError(err):
		log.Debug("card not found", slog.Int64("card_id", cardID))
		return NewCardServiceError(op, "card not found", store.ErrCardNotFound)
	case errors.Is(err, ErrInvalidRequest):
		return err
	case errors.Is(err, store.ErrInvalidEntity):
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	default:
		log.Error(message,
			slog.String("error", err.Error()),
			slog.Int64("card_id", cardID))
		return NewCardServiceError(op, message, err)
	}
}
