package wizard

import (
	"context"

	"github.com/altapos/variant-wizard-service/internal/model"
	"github.com/altapos/variant-wizard-service/internal/wizard/dto"
)

type Repository interface {
	CreateSession(ctx context.Context, session *model.WizardSession) error
	FindSessionByID(ctx context.Context, merchantID, id string) (*model.WizardSession, error)
	UpdateSession(ctx context.Context, session *model.WizardSession) error
	DeleteSession(ctx context.Context, merchantID, id string) error

	CreateDraft(ctx context.Context, draft *model.ProductDraft) error
	FindDraftByID(ctx context.Context, merchantID, id string) (*model.ProductDraft, error)
	ListDrafts(ctx context.Context, filters *dto.DraftFilters) ([]model.ProductDraft, int, error)
}
