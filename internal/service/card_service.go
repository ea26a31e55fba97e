package service

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/brightsteps/records-api/internal/models"
	appErrors "github.com/brightsteps/records-api/pkg/errors"
)

type cardRepository interface {
	List(ctx context.Context) ([]models.CustomCard, error)
	Create(ctx context.Context, card *models.CustomCard) error
	Delete(ctx context.Context, id string) error
}

var dataURIPattern = regexp.MustCompile(`^data:image/(png|jpe?g|gif|webp);base64,`)

// CreateCardRequest holds payload for saving a custom card.
type CreateCardRequest struct {
	Name      string `json:"name"`
	ImageData string `json:"image_data"`
}

// CardService handles custom card use-cases.
type CardService struct {
	repo          cardRepository
	maxImageBytes int
	logger        *zap.Logger
}

// NewCardService constructs the card service.
func NewCardService(repo cardRepository, maxImageBytes int, logger *zap.Logger) *CardService {
	if maxImageBytes <= 0 {
		maxImageBytes = 2 << 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CardService{repo: repo, maxImageBytes: maxImageBytes, logger: logger}
}

// List returns every stored custom card.
func (s *CardService) List(ctx context.Context) ([]models.CustomCard, error) {
	cards, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list cards")
	}
	return cards, nil
}

// Create validates and stores a new custom card.
func (s *CardService) Create(ctx context.Context, req CreateCardRequest) (*models.CustomCard, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "card name is required")
	}
	if req.ImageData == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "card image is required")
	}
	if !dataURIPattern.MatchString(req.ImageData) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "card image must be a base64 image data URI")
	}
	if len(req.ImageData) > s.maxImageBytes {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("card image exceeds %d bytes", s.maxImageBytes))
	}
	card := &models.CustomCard{Name: name, ImageData: req.ImageData}
	if err := s.repo.Create(ctx, card); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create card")
	}
	return card, nil
}

// Delete removes a custom card.
func (s *CardService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "card not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete card")
	}
	return nil
}
