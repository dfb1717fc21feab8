package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altapos/variant-wizard-service/internal/attribute/dto"
	"github.com/altapos/variant-wizard-service/internal/matrix"
	"github.com/altapos/variant-wizard-service/internal/model"
	"github.com/altapos/variant-wizard-service/internal/pkg/logger"
)

type fakeRepo struct {
	groups    []model.AttributeGroup
	colors    []model.Color
	groupsErr error
	colorsErr error
	nextID    int64
}

func (f *fakeRepo) CreateGroup(_ context.Context, g *model.AttributeGroup) error {
	f.nextID++
	g.ID = f.nextID
	f.groups = append(f.groups, *g)
	return nil
}

func (f *fakeRepo) FindGroupByID(_ context.Context, merchantID string, id int64) (*model.AttributeGroup, error) {
	for i := range f.groups {
		if f.groups[i].ID == id && f.groups[i].MerchantID == merchantID {
			return &f.groups[i], nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) ListGroups(_ context.Context, _ string) ([]model.AttributeGroup, error) {
	return f.groups, f.groupsErr
}

func (f *fakeRepo) UpdateGroup(_ context.Context, g *model.AttributeGroup) error {
	for i := range f.groups {
		if f.groups[i].ID == g.ID {
			f.groups[i] = *g
		}
	}
	return nil
}

func (f *fakeRepo) DeleteGroup(_ context.Context, _ string, id int64) error {
	out := f.groups[:0]
	for _, g := range f.groups {
		if g.ID != id {
			out = append(out, g)
		}
	}
	f.groups = out
	return nil
}

func (f *fakeRepo) AddOption(_ context.Context, o *model.AttributeOption) error {
	f.nextID++
	o.ID = f.nextID
	for i := range f.groups {
		if f.groups[i].ID == o.GroupID {
			f.groups[i].Options = append(f.groups[i].Options, *o)
		}
	}
	return nil
}

func (f *fakeRepo) DeleteOption(context.Context, string, int64) error { return nil }

func (f *fakeRepo) ListColors(_ context.Context, _ string) ([]model.Color, error) {
	return f.colors, f.colorsErr
}

func (f *fakeRepo) CreateColor(_ context.Context, c *model.Color) error {
	f.nextID++
	c.ID = f.nextID
	f.colors = append(f.colors, *c)
	return nil
}

func (f *fakeRepo) DeleteColor(context.Context, string, int64) error { return nil }

func weightGroup() model.AttributeGroup {
	return model.AttributeGroup{
		ID:         7,
		MerchantID: "m1",
		Name:       "Weight",
		IsActive:   true,
		Options: []model.AttributeOption{
			{ID: 1, GroupID: 7, Label: "250 g", Value: "250g"},
			{ID: 2, GroupID: 7, Label: "500 g", Value: "500g"},
		},
	}
}

func TestNormalizedGroups(t *testing.T) {
	t.Run("maps groups and synthesizes the color group", func(t *testing.T) {
		repo := &fakeRepo{
			groups: []model.AttributeGroup{weightGroup()},
			colors: []model.Color{
				{ID: 1, Name: "Red", Hex: "#F00"},
				{ID: 2, Name: "Blue", Hex: "#00F"},
			},
		}
		uc := NewAttributeUseCase(repo, nil, logger.NewNop())

		groups := uc.NormalizedGroups(context.Background(), "m1")
		require.Len(t, groups, 2)

		assert.Equal(t, matrix.NumericGroupID(7), groups[0].ID)
		assert.Equal(t, "Weight", groups[0].Name)
		assert.Equal(t, []matrix.Option{
			{Label: "250 g", Value: "250g"},
			{Label: "500 g", Value: "500g"},
		}, groups[0].Options)

		color := groups[1]
		assert.Equal(t, matrix.NamedGroupID("color"), color.ID)
		assert.Equal(t, "Color", color.Name)
		require.Len(t, color.Options, 2)
		assert.Equal(t, matrix.Option{Label: "Red", Value: "Red", Hex: "#F00"}, color.Options[0])
	})

	t.Run("upstream color group suppresses the synthetic one", func(t *testing.T) {
		for _, name := range []string{"Color", "colour", "COLOR"} {
			repo := &fakeRepo{
				groups: []model.AttributeGroup{{ID: 3, MerchantID: "m1", Name: name, IsActive: true}},
				colors: []model.Color{{ID: 1, Name: "Red", Hex: "#F00"}},
			}
			uc := NewAttributeUseCase(repo, nil, logger.NewNop())

			groups := uc.NormalizedGroups(context.Background(), "m1")
			require.Len(t, groups, 1, "upstream group %q", name)
			assert.Equal(t, matrix.NumericGroupID(3), groups[0].ID)
		}
	})

	t.Run("no colors means no color group", func(t *testing.T) {
		repo := &fakeRepo{groups: []model.AttributeGroup{weightGroup()}}
		uc := NewAttributeUseCase(repo, nil, logger.NewNop())

		groups := uc.NormalizedGroups(context.Background(), "m1")
		require.Len(t, groups, 1)
	})

	t.Run("group fetch failure degrades to empty catalog", func(t *testing.T) {
		repo := &fakeRepo{groupsErr: errors.New("db down")}
		uc := NewAttributeUseCase(repo, nil, logger.NewNop())

		assert.Empty(t, uc.NormalizedGroups(context.Background(), "m1"))
	})

	t.Run("color fetch failure only omits the color group", func(t *testing.T) {
		repo := &fakeRepo{
			groups:    []model.AttributeGroup{weightGroup()},
			colorsErr: errors.New("db down"),
		}
		uc := NewAttributeUseCase(repo, nil, logger.NewNop())

		groups := uc.NormalizedGroups(context.Background(), "m1")
		require.Len(t, groups, 1)
		assert.Equal(t, "Weight", groups[0].Name)
	})
}

func TestAddOptionValueCoercion(t *testing.T) {
	repo := &fakeRepo{groups: []model.AttributeGroup{weightGroup()}}
	uc := NewAttributeUseCase(repo, nil, logger.NewNop())

	cases := []struct {
		in   interface{}
		want string
	}{
		{"250g", "250g"},
		{float64(250), "250"},
		{float64(2.5), "2.5"},
		{42, "42"},
	}
	for _, tc := range cases {
		o, err := uc.AddOption(context.Background(), &dto.AddOptionInput{
			GroupID:    7,
			MerchantID: "m1",
			Value:      tc.in,
		})
		require.NoError(t, err)
		assert.Equal(t, tc.want, o.Value)
		assert.Equal(t, tc.want, o.Label) // label defaults to the value
	}

	_, err := uc.AddOption(context.Background(), &dto.AddOptionInput{
		GroupID:    7,
		MerchantID: "m1",
		Value:      nil,
	})
	assert.Error(t, err)
}
