package attribute

import (
	"context"

	"github.com/altapos/variant-wizard-service/internal/attribute/dto"
	"github.com/altapos/variant-wizard-service/internal/matrix"
	"github.com/altapos/variant-wizard-service/internal/model"
)

type UseCase interface {
	CreateGroup(ctx context.Context, input *dto.CreateGroupInput) (*model.AttributeGroup, error)
	ListGroups(ctx context.Context, merchantID string) ([]model.AttributeGroup, error)
	UpdateGroup(ctx context.Context, input *dto.UpdateGroupInput) (*model.AttributeGroup, error)
	DeleteGroup(ctx context.Context, merchantID string, id int64) error

	AddOption(ctx context.Context, input *dto.AddOptionInput) (*model.AttributeOption, error)
	DeleteOption(ctx context.Context, merchantID string, optionID int64) error

	ListColors(ctx context.Context, merchantID string) ([]model.Color, error)
	CreateColor(ctx context.Context, input *dto.CreateColorInput) (*model.Color, error)
	DeleteColor(ctx context.Context, merchantID string, id int64) error

	// NormalizedGroups is the engine-facing catalog view: attribute groups
	// plus the synthesized color group, in upstream order. It degrades to
	// fewer or zero groups on upstream failure instead of returning an error.
	NormalizedGroups(ctx context.Context, merchantID string) []matrix.Group

	InvalidateCache(ctx context.Context, merchantID string)
}
