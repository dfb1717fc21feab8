package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/altapos/variant-wizard-service/internal/attribute"
	"github.com/altapos/variant-wizard-service/internal/attribute/dto"
	"github.com/altapos/variant-wizard-service/internal/matrix"
	"github.com/altapos/variant-wizard-service/internal/model"
	"github.com/altapos/variant-wizard-service/internal/pkg/cache"
	"github.com/altapos/variant-wizard-service/internal/pkg/logger"
)

// ColorGroupID is the reserved id of the locally synthesized color group. It
// can never collide with a numeric attribute group id.
const ColorGroupID = "color"

const normalizedCacheTTL = 5 * time.Minute

type attributeUseCase struct {
	repo   attribute.Repository
	cache  *cache.RedisClient
	logger logger.ZapLogger
}

// NewAttributeUseCase builds the catalog usecase. cache may be nil; caching is
// then skipped entirely.
func NewAttributeUseCase(repo attribute.Repository, cache *cache.RedisClient, log logger.ZapLogger) attribute.UseCase {
	return &attributeUseCase{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

func (uc *attributeUseCase) CreateGroup(ctx context.Context, input *dto.CreateGroupInput) (*model.AttributeGroup, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, errors.New("group name is required")
	}

	now := time.Now()
	g := &model.AttributeGroup{
		MerchantID: input.MerchantID,
		Name:       input.Name,
		SortOrder:  input.SortOrder,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.CreateGroup(ctx, g); err != nil {
		return nil, err
	}

	uc.InvalidateCache(ctx, input.MerchantID)
	return g, nil
}

func (uc *attributeUseCase) ListGroups(ctx context.Context, merchantID string) ([]model.AttributeGroup, error) {
	return uc.repo.ListGroups(ctx, merchantID)
}

func (uc *attributeUseCase) UpdateGroup(ctx context.Context, input *dto.UpdateGroupInput) (*model.AttributeGroup, error) {
	g, err := uc.repo.FindGroupByID(ctx, input.MerchantID, input.ID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, errors.New("attribute group not found")
	}

	g.Name = input.Name
	g.SortOrder = input.SortOrder
	g.IsActive = input.IsActive
	g.UpdatedAt = time.Now()

	if err := uc.repo.UpdateGroup(ctx, g); err != nil {
		return nil, err
	}

	uc.InvalidateCache(ctx, input.MerchantID)
	return g, nil
}

func (uc *attributeUseCase) DeleteGroup(ctx context.Context, merchantID string, id int64) error {
	if err := uc.repo.DeleteGroup(ctx, merchantID, id); err != nil {
		return err
	}
	uc.InvalidateCache(ctx, merchantID)
	return nil
}

func (uc *attributeUseCase) AddOption(ctx context.Context, input *dto.AddOptionInput) (*model.AttributeOption, error) {
	g, err := uc.repo.FindGroupByID(ctx, input.MerchantID, input.GroupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, errors.New("attribute group not found")
	}

	value := coerceValue(input.Value)
	if value == "" {
		return nil, errors.New("option value is required")
	}
	label := input.Label
	if label == "" {
		label = value
	}

	o := &model.AttributeOption{
		GroupID:   input.GroupID,
		Label:     label,
		Value:     value,
		SortOrder: input.SortOrder,
	}
	if err := uc.repo.AddOption(ctx, o); err != nil {
		return nil, err
	}

	uc.InvalidateCache(ctx, input.MerchantID)
	return o, nil
}

func (uc *attributeUseCase) DeleteOption(ctx context.Context, merchantID string, optionID int64) error {
	if err := uc.repo.DeleteOption(ctx, merchantID, optionID); err != nil {
		return err
	}
	uc.InvalidateCache(ctx, merchantID)
	return nil
}

func (uc *attributeUseCase) ListColors(ctx context.Context, merchantID string) ([]model.Color, error) {
	return uc.repo.ListColors(ctx, merchantID)
}

func (uc *attributeUseCase) CreateColor(ctx context.Context, input *dto.CreateColorInput) (*model.Color, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, errors.New("color name is required")
	}

	c := &model.Color{
		MerchantID: input.MerchantID,
		Name:       input.Name,
		Hex:        input.Hex,
		SortOrder:  input.SortOrder,
	}
	if err := uc.repo.CreateColor(ctx, c); err != nil {
		return nil, err
	}

	uc.InvalidateCache(ctx, input.MerchantID)
	return c, nil
}

func (uc *attributeUseCase) DeleteColor(ctx context.Context, merchantID string, id int64) error {
	if err := uc.repo.DeleteColor(ctx, merchantID, id); err != nil {
		return err
	}
	uc.InvalidateCache(ctx, merchantID)
	return nil
}

// NormalizedGroups builds the engine-facing catalog view: every active
// attribute group mapped to its normalized shape, plus a synthesized color
// group appended from the color catalog unless an upstream group is already
// named "color"/"colour". Upstream order is preserved.
//
// Failures degrade instead of propagating: a failed group fetch yields zero
// groups, a failed color fetch just omits the color group. The engine is total
// over an empty catalog, so this is safe.
func (uc *attributeUseCase) NormalizedGroups(ctx context.Context, merchantID string) []matrix.Group {
	if cached, ok := uc.cachedNormalized(ctx, merchantID); ok {
		return cached
	}

	var normalized []matrix.Group
	hasColorGroup := false

	groups, err := uc.repo.ListGroups(ctx, merchantID)
	if err != nil {
		uc.logger.Error("failed to list attribute groups, degrading to empty catalog",
			zap.String("merchant_id", merchantID), zap.Error(err))
		groups = nil
	}

	for _, g := range groups {
		options := make([]matrix.Option, len(g.Options))
		for i, o := range g.Options {
			options[i] = matrix.Option{Label: o.Label, Value: o.Value}
		}
		normalized = append(normalized, matrix.Group{
			ID:      matrix.NumericGroupID(g.ID),
			Name:    g.Name,
			Options: options,
		})

		switch strings.ToLower(g.Name) {
		case "color", "colour":
			hasColorGroup = true
		}
	}

	if !hasColorGroup {
		colors, err := uc.repo.ListColors(ctx, merchantID)
		if err != nil {
			uc.logger.Error("failed to list colors, omitting color group",
				zap.String("merchant_id", merchantID), zap.Error(err))
		} else if len(colors) > 0 {
			options := make([]matrix.Option, len(colors))
			for i, c := range colors {
				options[i] = matrix.Option{Label: c.Name, Value: c.Name, Hex: c.Hex}
			}
			normalized = append(normalized, matrix.Group{
				ID:      matrix.NamedGroupID(ColorGroupID),
				Name:    "Color",
				Options: options,
			})
		}
	}

	uc.storeNormalized(ctx, merchantID, normalized)
	return normalized
}

func (uc *attributeUseCase) InvalidateCache(ctx context.Context, merchantID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeletePattern(ctx, normalizedCacheKey(merchantID)); err != nil {
		uc.logger.Warn("failed to invalidate normalized group cache",
			zap.String("merchant_id", merchantID), zap.Error(err))
	}
}

func (uc *attributeUseCase) cachedNormalized(ctx context.Context, merchantID string) ([]matrix.Group, bool) {
	if uc.cache == nil {
		return nil, false
	}
	val, err := uc.cache.Client.Get(ctx, normalizedCacheKey(merchantID)).Result()
	if err != nil {
		return nil, false
	}
	var groups []matrix.Group
	if err := json.Unmarshal([]byte(val), &groups); err != nil {
		return nil, false
	}
	return groups, true
}

func (uc *attributeUseCase) storeNormalized(ctx context.Context, merchantID string, groups []matrix.Group) {
	if uc.cache == nil {
		return
	}
	data, err := json.Marshal(groups)
	if err != nil {
		return
	}
	uc.cache.Client.Set(ctx, normalizedCacheKey(merchantID), data, normalizedCacheTTL)
}

func normalizedCacheKey(merchantID string) string {
	return fmt.Sprintf("attributes:normalized:%s", merchantID)
}

// coerceValue turns heterogeneous upstream option values into their canonical
// string form. Identity comparisons downstream are string based, so numeric
// values must not keep a float formatting artifact.
func coerceValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprintf("%v", t)
	}
}
