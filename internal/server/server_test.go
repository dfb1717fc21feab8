package server_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altapos/variant-wizard-service/config"
	"github.com/altapos/variant-wizard-service/internal/attribute"
	attrHandler "github.com/altapos/variant-wizard-service/internal/attribute/handler"
	"github.com/altapos/variant-wizard-service/internal/model"
	"github.com/altapos/variant-wizard-service/internal/pkg/logger"
	"github.com/altapos/variant-wizard-service/internal/server"
	"github.com/altapos/variant-wizard-service/internal/wizard"
	"github.com/altapos/variant-wizard-service/internal/wizard/dto"
	wizHandler "github.com/altapos/variant-wizard-service/internal/wizard/handler"
)

type stubAttrUseCase struct {
	attribute.UseCase
}

type stubWizardUseCase struct {
	wizard.UseCase

	patched *dto.PatchRowInput
	filters *dto.DraftFilters
}

func (s *stubWizardUseCase) PatchRow(_ context.Context, input *dto.PatchRowInput) (*model.WizardSession, error) {
	s.patched = input
	return &model.WizardSession{}, nil
}

func (s *stubWizardUseCase) ListDrafts(_ context.Context, filters *dto.DraftFilters) ([]model.ProductDraft, int, error) {
	s.filters = filters
	return []model.ProductDraft{}, 0, nil
}

func newTestServer(t *testing.T, uc wizard.UseCase) *http.Server {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.AppEnv = "production"
	cfg.Server.HTTPPort = ":0"
	cfg.Uploads.Dir = t.TempDir()
	cfg.Uploads.BaseURL = "/uploads"

	log := logger.NewNop()
	return server.New(cfg,
		attrHandler.NewAttributeHandler(&stubAttrUseCase{}, log),
		wizHandler.NewWizardHandler(uc, log),
	)
}

func TestRowKeyDecodedOnce(t *testing.T) {
	tests := []struct {
		name    string
		pathKey string
		want    string
	}{
		{
			name:    "plain key",
			pathKey: "7%3A250g%7Ccolor%3ARed",
			want:    "7:250g|color:Red",
		},
		{
			// Option value "a|b" escapes to "a%7Cb" inside the stored key.
			// The path-level encoding on top of that must not collapse it.
			name:    "key with escaped separator in value",
			pathKey: "g%3Aa%257Cb",
			want:    "g:a%7Cb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubWizardUseCase{}
			srv := newTestServer(t, uc)

			req := httptest.NewRequest(http.MethodPatch,
				"/api/v1/wizard/sessions/s1/rows/"+tt.pathKey,
				bytes.NewBufferString(`{"sku":"X-1"}`))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-Merchant-ID", "merchant-1")

			w := httptest.NewRecorder()
			srv.Handler.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			require.NotNil(t, uc.patched)
			assert.Equal(t, tt.want, uc.patched.RowKey)
			assert.Equal(t, "s1", uc.patched.SessionID)
			assert.Equal(t, "merchant-1", uc.patched.MerchantID)
		})
	}
}

func TestListDraftsPaginationClamped(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantPage     int
		wantPageSize int
	}{
		{"defaults", "", 1, 20},
		{"zero page", "?page=0", 1, 20},
		{"garbage page and size", "?page=abc&page_size=abc", 1, 20},
		{"negative values", "?page=-3&page_size=-5", 1, 20},
		{"oversized page size", "?page=2&page_size=5000", 2, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubWizardUseCase{}
			srv := newTestServer(t, uc)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/drafts"+tt.query, nil)
			req.Header.Set("X-Merchant-ID", "merchant-1")

			w := httptest.NewRecorder()
			srv.Handler.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			require.NotNil(t, uc.filters)
			assert.Equal(t, tt.wantPage, uc.filters.Page)
			assert.Equal(t, tt.wantPageSize, uc.filters.PageSize)
		})
	}
}
