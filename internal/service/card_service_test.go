package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brightsteps/records-api/internal/models"
	appErrors "github.com/brightsteps/records-api/pkg/errors"
)

type mockCardRepo struct {
	cards   map[string]models.CustomCard
	deleted []string
}

func (m *mockCardRepo) List(ctx context.Context) ([]models.CustomCard, error) {
	out := make([]models.CustomCard, 0, len(m.cards))
	for _, c := range m.cards {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCardRepo) Create(ctx context.Context, card *models.CustomCard) error {
	if m.cards == nil {
		m.cards = make(map[string]models.CustomCard)
	}
	if card.ID == "" {
		card.ID = "generated"
	}
	m.cards[card.ID] = *card
	return nil
}

func (m *mockCardRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.cards[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.cards, id)
	m.deleted = append(m.deleted, id)
	return nil
}

const tinyPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUg=="

func requireValidationError(t *testing.T, err error) {
	t.Helper()
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestCardServiceCreate(t *testing.T) {
	repo := &mockCardRepo{}
	svc := NewCardService(repo, 0, zap.NewNop())

	card, err := svc.Create(context.Background(), CreateCardRequest{Name: " Drink ", ImageData: tinyPNG})
	require.NoError(t, err)
	assert.Equal(t, "Drink", card.Name)
	assert.Equal(t, tinyPNG, card.ImageData)
}

func TestCardServiceCreateBlankName(t *testing.T) {
	svc := NewCardService(&mockCardRepo{}, 0, zap.NewNop())

	_, err := svc.Create(context.Background(), CreateCardRequest{Name: "   ", ImageData: tinyPNG})
	requireValidationError(t, err)
}

func TestCardServiceCreateRejectsNonDataURI(t *testing.T) {
	svc := NewCardService(&mockCardRepo{}, 0, zap.NewNop())

	_, err := svc.Create(context.Background(), CreateCardRequest{Name: "Drink", ImageData: "https://example.com/a.png"})
	requireValidationError(t, err)

	_, err = svc.Create(context.Background(), CreateCardRequest{Name: "Drink", ImageData: "data:text/plain;base64,aGVq"})
	requireValidationError(t, err)
}

func TestCardServiceCreateEnforcesSizeCap(t *testing.T) {
	svc := NewCardService(&mockCardRepo{}, 64, zap.NewNop())

	big := "data:image/png;base64," + strings.Repeat("A", 128)
	_, err := svc.Create(context.Background(), CreateCardRequest{Name: "Drink", ImageData: big})
	requireValidationError(t, err)
}

func TestCardServiceDeleteNotFound(t *testing.T) {
	svc := NewCardService(&mockCardRepo{}, 0, zap.NewNop())

	err := svc.Delete(context.Background(), "missing")
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
