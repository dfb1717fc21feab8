package usecase

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altapos/variant-wizard-service/internal/attribute"
	"github.com/altapos/variant-wizard-service/internal/matrix"
	"github.com/altapos/variant-wizard-service/internal/model"
	"github.com/altapos/variant-wizard-service/internal/pkg/imagestore"
	"github.com/altapos/variant-wizard-service/internal/pkg/logger"
	"github.com/altapos/variant-wizard-service/internal/wizard"
	"github.com/altapos/variant-wizard-service/internal/wizard/dto"
)

type fakeRepo struct {
	sessions map[string]model.WizardSession
	drafts   map[string]model.ProductDraft
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		sessions: map[string]model.WizardSession{},
		drafts:   map[string]model.ProductDraft{},
	}
}

func (f *fakeRepo) CreateSession(_ context.Context, s *model.WizardSession) error {
	f.sessions[s.ID] = *s
	return nil
}

func (f *fakeRepo) FindSessionByID(_ context.Context, merchantID, id string) (*model.WizardSession, error) {
	s, ok := f.sessions[id]
	if !ok || s.MerchantID != merchantID {
		return nil, nil
	}
	out := s
	return &out, nil
}

func (f *fakeRepo) UpdateSession(_ context.Context, s *model.WizardSession) error {
	f.sessions[s.ID] = *s
	return nil
}

func (f *fakeRepo) DeleteSession(_ context.Context, _, id string) error {
	delete(f.sessions, id)
	return nil
}

func (f *fakeRepo) CreateDraft(_ context.Context, d *model.ProductDraft) error {
	f.drafts[d.ID] = *d
	return nil
}

func (f *fakeRepo) FindDraftByID(_ context.Context, merchantID, id string) (*model.ProductDraft, error) {
	d, ok := f.drafts[id]
	if !ok || d.MerchantID != merchantID {
		return nil, nil
	}
	out := d
	return &out, nil
}

func (f *fakeRepo) ListDrafts(_ context.Context, filters *dto.DraftFilters) ([]model.ProductDraft, int, error) {
	var out []model.ProductDraft
	for _, d := range f.drafts {
		if d.MerchantID == filters.MerchantID {
			out = append(out, d)
		}
	}
	return out, len(out), nil
}

// fakeAttrs stubs the catalog; only NormalizedGroups is ever called here.
type fakeAttrs struct {
	attribute.UseCase
	groups []matrix.Group
}

func (f *fakeAttrs) NormalizedGroups(context.Context, string) []matrix.Group {
	return f.groups
}

func testGroups() []matrix.Group {
	return []matrix.Group{
		{
			ID:   matrix.NumericGroupID(7),
			Name: "Weight",
			Options: []matrix.Option{
				{Label: "250 g", Value: "250g"},
				{Label: "500 g", Value: "500g"},
			},
		},
		{
			ID:   matrix.NamedGroupID("color"),
			Name: "Color",
			Options: []matrix.Option{
				{Label: "Red", Value: "Red", Hex: "#F00"},
				{Label: "Blue", Value: "Blue", Hex: "#00F"},
			},
		},
	}
}

func newTestUseCase(t *testing.T) (wizard.UseCase, *fakeRepo, *imagestore.Store) {
	t.Helper()
	repo := newFakeRepo()
	images, err := imagestore.New(t.TempDir(), "/uploads")
	require.NoError(t, err)
	uc := NewWizardUseCase(repo, &fakeAttrs{groups: testGroups()}, nil, nil, nil, images, logger.NewNop())
	return uc, repo, images
}

func startSession(t *testing.T, uc wizard.UseCase) *model.WizardSession {
	t.Helper()
	session, err := uc.StartSession(context.Background(), &dto.StartSessionInput{
		MerchantID:  "m1",
		ProductName: "Arabica Beans",
	})
	require.NoError(t, err)
	return session
}

func TestWizardFlow(t *testing.T) {
	ctx := context.Background()

	t.Run("selection changes drive the row matrix", func(t *testing.T) {
		uc, _, _ := newTestUseCase(t)
		s := startSession(t, uc)

		s, err := uc.SetSelection(ctx, &dto.SetSelectionInput{
			MerchantID: "m1", SessionID: s.ID, GroupID: "7", Values: []string{"250g", "500g"},
		})
		require.NoError(t, err)
		s, err = uc.SetSelection(ctx, &dto.SetSelectionInput{
			MerchantID: "m1", SessionID: s.ID, GroupID: "color", Values: []string{"Red"},
		})
		require.NoError(t, err)

		require.Len(t, s.Rows, 2)
		assert.Equal(t, "7:250g|color:Red", s.Rows[0].Key)
		assert.Equal(t, "7:500g|color:Red", s.Rows[1].Key)
		assert.Equal(t, "0", s.Rows[0].PriceExtra)

		// Price edit survives deselecting an unrelated value.
		s, err = uc.PatchRow(ctx, &dto.PatchRowInput{
			MerchantID: "m1", SessionID: s.ID, RowKey: "7:250g|color:Red",
			PriceExtra: strPtr("10"),
		})
		require.NoError(t, err)

		s, err = uc.SetSelection(ctx, &dto.SetSelectionInput{
			MerchantID: "m1", SessionID: s.ID, GroupID: "7", Values: []string{"250g"},
		})
		require.NoError(t, err)
		require.Len(t, s.Rows, 1)
		assert.Equal(t, "7:250g|color:Red", s.Rows[0].Key)
		assert.Equal(t, "10", s.Rows[0].PriceExtra)

		// Newly selected value creates a fresh default row next to it.
		s, err = uc.SetSelection(ctx, &dto.SetSelectionInput{
			MerchantID: "m1", SessionID: s.ID, GroupID: "color", Values: []string{"Red", "Blue"},
		})
		require.NoError(t, err)
		require.Len(t, s.Rows, 2)
		assert.Equal(t, "10", s.Rows[0].PriceExtra)
		assert.Equal(t, "0", s.Rows[1].PriceExtra)

		// Clearing every selection clears the table.
		s, err = uc.ReplaceSelection(ctx, &dto.ReplaceSelectionInput{
			MerchantID: "m1", SessionID: s.ID, Selection: matrix.Selection{},
		})
		require.NoError(t, err)
		assert.Empty(t, s.Rows)
	})

	t.Run("patching an unknown row fails", func(t *testing.T) {
		uc, _, _ := newTestUseCase(t)
		s := startSession(t, uc)

		_, err := uc.PatchRow(ctx, &dto.PatchRowInput{
			MerchantID: "m1", SessionID: s.ID, RowKey: "nope", SKU: strPtr("X"),
		})
		assert.ErrorIs(t, err, wizard.ErrRowNotFound)
	})

	t.Run("unknown session", func(t *testing.T) {
		uc, _, _ := newTestUseCase(t)
		_, err := uc.GetSession(ctx, "m1", "missing")
		assert.ErrorIs(t, err, wizard.ErrSessionNotFound)
	})
}

func TestRowImages(t *testing.T) {
	ctx := context.Background()

	attach := func(t *testing.T, uc wizard.UseCase, sessionID, key, name string) *model.WizardSession {
		t.Helper()
		s, err := uc.AttachRowImage(ctx, &dto.AttachRowImageInput{
			MerchantID: "m1", SessionID: sessionID, RowKey: key,
			Filename: name, Data: strings.NewReader("jpegbytes"),
		})
		require.NoError(t, err)
		return s
	}

	t.Run("replacing an image removes the superseded file", func(t *testing.T) {
		uc, _, images := newTestUseCase(t)
		s := startSession(t, uc)
		s, err := uc.SetSelection(ctx, &dto.SetSelectionInput{
			MerchantID: "m1", SessionID: s.ID, GroupID: "7", Values: []string{"250g"},
		})
		require.NoError(t, err)

		s = attach(t, uc, s.ID, "7:250g", "a.jpg")
		first := s.Rows[0].Image
		require.NotNil(t, first)
		assertStored(t, images, first, true)

		s = attach(t, uc, s.ID, "7:250g", "b.jpg")
		assertStored(t, images, first, false)
		assertStored(t, images, s.Rows[0].Image, true)
	})

	t.Run("dropping a row releases its image", func(t *testing.T) {
		uc, _, images := newTestUseCase(t)
		s := startSession(t, uc)
		s, err := uc.SetSelection(ctx, &dto.SetSelectionInput{
			MerchantID: "m1", SessionID: s.ID, GroupID: "7", Values: []string{"250g", "500g"},
		})
		require.NoError(t, err)

		s = attach(t, uc, s.ID, "7:500g", "a.jpg")
		ref := s.Rows[1].Image

		s, err = uc.SetSelection(ctx, &dto.SetSelectionInput{
			MerchantID: "m1", SessionID: s.ID, GroupID: "7", Values: []string{"250g"},
		})
		require.NoError(t, err)
		require.Len(t, s.Rows, 1)
		assertStored(t, images, ref, false)
	})

	t.Run("reset clears rows and stored images", func(t *testing.T) {
		uc, _, images := newTestUseCase(t)
		s := startSession(t, uc)
		s, err := uc.SetSelection(ctx, &dto.SetSelectionInput{
			MerchantID: "m1", SessionID: s.ID, GroupID: "7", Values: []string{"250g"},
		})
		require.NoError(t, err)
		s = attach(t, uc, s.ID, "7:250g", "a.jpg")
		ref := s.Rows[0].Image

		s, err = uc.ResetSession(ctx, "m1", s.ID)
		require.NoError(t, err)
		assert.Empty(t, s.Rows)
		assert.Empty(t, s.Selection)
		assertStored(t, images, ref, false)
	})
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("serializes rows with group names and image flags", func(t *testing.T) {
		uc, repo, _ := newTestUseCase(t)
		s := startSession(t, uc)

		s, err := uc.SetSelection(ctx, &dto.SetSelectionInput{
			MerchantID: "m1", SessionID: s.ID, GroupID: "7", Values: []string{"250g"},
		})
		require.NoError(t, err)
		s, err = uc.SetSelection(ctx, &dto.SetSelectionInput{
			MerchantID: "m1", SessionID: s.ID, GroupID: "color", Values: []string{"Red", "Blue"},
		})
		require.NoError(t, err)

		_, err = uc.AttachRowImage(ctx, &dto.AttachRowImageInput{
			MerchantID: "m1", SessionID: s.ID, RowKey: "7:250g|color:Red",
			Filename: "red.jpg", Data: strings.NewReader("x"),
		})
		require.NoError(t, err)

		draft, err := uc.Submit(ctx, "m1", s.ID)
		require.NoError(t, err)
		require.Len(t, draft.Rows, 2)

		red := draft.Rows[0]
		assert.Equal(t, "7:250g|color:Red", red.Key)
		require.Len(t, red.Parts, 2)
		assert.Equal(t, "Weight", red.Parts[0].GroupName)
		assert.Equal(t, "Color", red.Parts[1].GroupName)
		assert.True(t, red.HasImage)
		assert.False(t, draft.Rows[1].HasImage)

		// Session is sealed afterwards.
		stored := repo.sessions[s.ID]
		assert.Equal(t, model.SessionStatusSubmitted, stored.Status)
		_, err = uc.PatchRow(ctx, &dto.PatchRowInput{
			MerchantID: "m1", SessionID: s.ID, RowKey: red.Key, SKU: strPtr("X"),
		})
		assert.ErrorIs(t, err, wizard.ErrSessionSubmitted)

		got, err := uc.GetDraft(ctx, "m1", draft.ID)
		require.NoError(t, err)
		assert.Equal(t, draft.ID, got.ID)
	})

	t.Run("empty matrix cannot be submitted", func(t *testing.T) {
		uc, _, _ := newTestUseCase(t)
		s := startSession(t, uc)

		_, err := uc.Submit(ctx, "m1", s.ID)
		assert.ErrorIs(t, err, wizard.ErrNoVariantRows)
	})
}

func assertStored(t *testing.T, images *imagestore.Store, ref *matrix.ImageRef, want bool) {
	t.Helper()
	require.NotNil(t, ref)
	_, err := os.Stat(filepath.Join(images.Dir(), ref.Path))
	if want {
		assert.NoError(t, err)
	} else {
		assert.True(t, os.IsNotExist(err))
	}
}

func strPtr(s string) *string { return &s }
