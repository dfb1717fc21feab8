package wizard

import (
	"context"
	"errors"

	"github.com/altapos/variant-wizard-service/internal/matrix"
	"github.com/altapos/variant-wizard-service/internal/model"
	"github.com/altapos/variant-wizard-service/internal/wizard/dto"
)

var (
	ErrSessionNotFound  = errors.New("wizard session not found")
	ErrSessionSubmitted = errors.New("wizard session already submitted")
	ErrRowNotFound      = errors.New("variant row not found")
	ErrNoVariantRows    = errors.New("no variant rows to submit")
	ErrDraftNotFound    = errors.New("product draft not found")
	ErrSessionBusy      = errors.New("session busy, please try again later")
)

type UseCase interface {
	StartSession(ctx context.Context, input *dto.StartSessionInput) (*model.WizardSession, error)
	GetSession(ctx context.Context, merchantID, sessionID string) (*model.WizardSession, error)
	RefreshGroups(ctx context.Context, merchantID, sessionID string) (*model.WizardSession, error)

	SetSelection(ctx context.Context, input *dto.SetSelectionInput) (*model.WizardSession, error)
	ReplaceSelection(ctx context.Context, input *dto.ReplaceSelectionInput) (*model.WizardSession, error)

	PatchRow(ctx context.Context, input *dto.PatchRowInput) (*model.WizardSession, error)
	AttachRowImage(ctx context.Context, input *dto.AttachRowImageInput) (*model.WizardSession, error)
	Rows(ctx context.Context, merchantID, sessionID string) ([]matrix.Row, error)

	ResetSession(ctx context.Context, merchantID, sessionID string) (*model.WizardSession, error)
	DeleteSession(ctx context.Context, merchantID, sessionID string) error

	Submit(ctx context.Context, merchantID, sessionID string) (*model.ProductDraft, error)
	GetDraft(ctx context.Context, merchantID, draftID string) (*model.ProductDraft, error)
	ListDrafts(ctx context.Context, filters *dto.DraftFilters) ([]model.ProductDraft, int, error)
}
