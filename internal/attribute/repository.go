package attribute

import (
	"context"

	"github.com/altapos/variant-wizard-service/internal/model"
)

type Repository interface {
	CreateGroup(ctx context.Context, group *model.AttributeGroup) error
	FindGroupByID(ctx context.Context, merchantID string, id int64) (*model.AttributeGroup, error)
	ListGroups(ctx context.Context, merchantID string) ([]model.AttributeGroup, error)
	UpdateGroup(ctx context.Context, group *model.AttributeGroup) error
	DeleteGroup(ctx context.Context, merchantID string, id int64) error

	AddOption(ctx context.Context, option *model.AttributeOption) error
	DeleteOption(ctx context.Context, merchantID string, optionID int64) error

	ListColors(ctx context.Context, merchantID string) ([]model.Color, error)
	CreateColor(ctx context.Context, color *model.Color) error
	DeleteColor(ctx context.Context, merchantID string, id int64) error
}
