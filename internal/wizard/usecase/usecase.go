package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/altapos/variant-wizard-service/internal/attribute"
	"github.com/altapos/variant-wizard-service/internal/matrix"
	"github.com/altapos/variant-wizard-service/internal/model"
	"github.com/altapos/variant-wizard-service/internal/pkg/broker"
	"github.com/altapos/variant-wizard-service/internal/pkg/cache"
	"github.com/altapos/variant-wizard-service/internal/pkg/imagestore"
	"github.com/altapos/variant-wizard-service/internal/pkg/logger"
	"github.com/altapos/variant-wizard-service/internal/pkg/search"
	"github.com/altapos/variant-wizard-service/internal/wizard"
	"github.com/altapos/variant-wizard-service/internal/wizard/dto"
)

const draftIndexName = "product_drafts"

type wizardUseCase struct {
	repo     wizard.Repository
	attrs    attribute.UseCase
	cache    *cache.RedisClient
	es       *search.Client
	producer *broker.KafkaProducer
	images   *imagestore.Store
	logger   logger.ZapLogger
}

// NewWizardUseCase builds the wizard-session usecase. cache, es and producer
// may each be nil; the corresponding concern (locking/list caching, draft
// search indexing, event publishing) is then skipped.
func NewWizardUseCase(
	repo wizard.Repository,
	attrs attribute.UseCase,
	cache *cache.RedisClient,
	es *search.Client,
	producer *broker.KafkaProducer,
	images *imagestore.Store,
	log logger.ZapLogger,
) wizard.UseCase {
	return &wizardUseCase{
		repo:     repo,
		attrs:    attrs,
		cache:    cache,
		es:       es,
		producer: producer,
		images:   images,
		logger:   log,
	}
}

func (uc *wizardUseCase) StartSession(ctx context.Context, input *dto.StartSessionInput) (*model.WizardSession, error) {
	now := time.Now()
	session := &model.WizardSession{
		BaseModel:   model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		MerchantID:  input.MerchantID,
		ProductName: input.ProductName,
		Status:      model.SessionStatusDraft,
		Groups:      uc.attrs.NormalizedGroups(ctx, input.MerchantID),
		Selection:   model.SelectionMap{},
		Rows:        model.RowList{},
	}

	if err := uc.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (uc *wizardUseCase) GetSession(ctx context.Context, merchantID, sessionID string) (*model.WizardSession, error) {
	session, err := uc.repo.FindSessionByID(ctx, merchantID, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, wizard.ErrSessionNotFound
	}
	return session, nil
}

// RefreshGroups re-pulls the normalized catalog into the session and
// reconciles the row set against it, so a renamed group flows into existing
// rows and removed groups release the rows that depended on them.
func (uc *wizardUseCase) RefreshGroups(ctx context.Context, merchantID, sessionID string) (*model.WizardSession, error) {
	return uc.mutateSession(ctx, merchantID, sessionID, func(session *model.WizardSession) error {
		session.Groups = uc.attrs.NormalizedGroups(ctx, merchantID)
		uc.reconcileSession(session)
		return nil
	})
}

func (uc *wizardUseCase) SetSelection(ctx context.Context, input *dto.SetSelectionInput) (*model.WizardSession, error) {
	return uc.mutateSession(ctx, input.MerchantID, input.SessionID, func(session *model.WizardSession) error {
		if session.Selection == nil {
			session.Selection = model.SelectionMap{}
		}
		if len(input.Values) == 0 {
			delete(session.Selection, input.GroupID)
		} else {
			session.Selection[input.GroupID] = input.Values
		}
		uc.reconcileSession(session)
		return nil
	})
}

func (uc *wizardUseCase) ReplaceSelection(ctx context.Context, input *dto.ReplaceSelectionInput) (*model.WizardSession, error) {
	return uc.mutateSession(ctx, input.MerchantID, input.SessionID, func(session *model.WizardSession) error {
		session.Selection = model.SelectionMap(input.Selection)
		uc.reconcileSession(session)
		return nil
	})
}

func (uc *wizardUseCase) PatchRow(ctx context.Context, input *dto.PatchRowInput) (*model.WizardSession, error) {
	return uc.mutateSession(ctx, input.MerchantID, input.SessionID, func(session *model.WizardSession) error {
		patch := matrix.RowPatch{
			PriceExtra: input.PriceExtra,
			SKU:        input.SKU,
			Qty:        input.Qty,
			LowQty:     input.LowQty,
			Barcode:    input.Barcode,
		}
		if input.RemoveImage {
			patch.SetImage = true
		}

		rows, superseded, ok := matrix.ApplyPatch(session.Rows, input.RowKey, patch)
		if !ok {
			return wizard.ErrRowNotFound
		}
		session.Rows = rows
		uc.releaseImage(superseded)
		return nil
	})
}

func (uc *wizardUseCase) AttachRowImage(ctx context.Context, input *dto.AttachRowImageInput) (*model.WizardSession, error) {
	return uc.mutateSession(ctx, input.MerchantID, input.SessionID, func(session *model.WizardSession) error {
		ref, err := uc.images.Save(session.ID, input.Filename, input.Data)
		if err != nil {
			return fmt.Errorf("store row image: %w", err)
		}

		rows, superseded, ok := matrix.ApplyPatch(session.Rows, input.RowKey, matrix.RowPatch{
			Image:    ref,
			SetImage: true,
		})
		if !ok {
			// Row vanished between upload and patch; don't leak the file.
			uc.releaseImage(ref)
			return wizard.ErrRowNotFound
		}
		session.Rows = rows
		uc.releaseImage(superseded)
		return nil
	})
}

func (uc *wizardUseCase) Rows(ctx context.Context, merchantID, sessionID string) ([]matrix.Row, error) {
	session, err := uc.GetSession(ctx, merchantID, sessionID)
	if err != nil {
		return nil, err
	}
	return session.Rows, nil
}

func (uc *wizardUseCase) ResetSession(ctx context.Context, merchantID, sessionID string) (*model.WizardSession, error) {
	return uc.mutateSession(ctx, merchantID, sessionID, func(session *model.WizardSession) error {
		if err := uc.images.RemoveSession(session.ID); err != nil {
			uc.logger.Warn("failed to remove session images",
				zap.String("session_id", session.ID), zap.Error(err))
		}
		session.Selection = model.SelectionMap{}
		session.Rows = model.RowList{}
		return nil
	})
}

func (uc *wizardUseCase) DeleteSession(ctx context.Context, merchantID, sessionID string) error {
	session, err := uc.repo.FindSessionByID(ctx, merchantID, sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return nil // Already gone
	}

	if err := uc.repo.DeleteSession(ctx, merchantID, sessionID); err != nil {
		return err
	}
	if err := uc.images.RemoveSession(sessionID); err != nil {
		uc.logger.Warn("failed to remove session images",
			zap.String("session_id", sessionID), zap.Error(err))
	}
	return nil
}

func (uc *wizardUseCase) Submit(ctx context.Context, merchantID, sessionID string) (*model.ProductDraft, error) {
	var draft *model.ProductDraft

	_, err := uc.mutateSession(ctx, merchantID, sessionID, func(session *model.WizardSession) error {
		if len(session.Rows) == 0 {
			return wizard.ErrNoVariantRows
		}

		draftRows := make(model.DraftRowList, len(session.Rows))
		for i, row := range session.Rows {
			draftRows[i] = model.DraftRow{
				Key:        row.Key,
				Parts:      row.Parts,
				PriceExtra: row.PriceExtra,
				SKU:        row.SKU,
				Qty:        row.Qty,
				LowQty:     row.LowQty,
				Barcode:    row.Barcode,
				HasImage:   row.Image != nil,
			}
		}

		now := time.Now()
		draft = &model.ProductDraft{
			BaseModel:   model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
			MerchantID:  merchantID,
			SessionID:   session.ID,
			ProductName: session.ProductName,
			Rows:        draftRows,
		}

		if err := uc.repo.CreateDraft(ctx, draft); err != nil {
			return err
		}
		session.Status = model.SessionStatusSubmitted
		return nil
	})
	if err != nil {
		return nil, err
	}

	go uc.invalidateDraftCache(context.Background(), merchantID)
	go uc.syncDraftToElastic(context.Background(), draft)
	go uc.publishDraftSubmitted(context.Background(), draft)

	return draft, nil
}

func (uc *wizardUseCase) GetDraft(ctx context.Context, merchantID, draftID string) (*model.ProductDraft, error) {
	draft, err := uc.repo.FindDraftByID(ctx, merchantID, draftID)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, wizard.ErrDraftNotFound
	}
	return draft, nil
}

func (uc *wizardUseCase) ListDrafts(ctx context.Context, filters *dto.DraftFilters) ([]model.ProductDraft, int, error) {
	cacheKey, err := uc.draftCacheKey(filters)
	if err == nil && uc.cache != nil {
		val, err := uc.cache.Client.Get(ctx, cacheKey).Result()
		if err == nil {
			var result struct {
				Drafts []model.ProductDraft
				Count  int
			}
			if err := json.Unmarshal([]byte(val), &result); err == nil {
				return result.Drafts, result.Count, nil
			}
		}
	}

	if filters.SearchQuery != "" && uc.es != nil {
		q := map[string]interface{}{
			"query": map[string]interface{}{
				"bool": map[string]interface{}{
					"must": []map[string]interface{}{
						{
							"query_string": map[string]interface{}{
								"query":  fmt.Sprintf("*%s*", filters.SearchQuery),
								"fields": []string{"product_name^3", "rows.sku", "rows.barcode"},
							},
						},
						{
							"term": map[string]interface{}{
								"merchant_id": filters.MerchantID,
							},
						},
					},
				},
			},
			"from": (filters.Page - 1) * filters.PageSize,
		}
		if filters.PageSize > 0 {
			q["size"] = filters.PageSize
		}

		res, err := uc.es.Search(ctx, draftIndexName, q)
		if err == nil {
			var esDrafts []model.ProductDraft
			for _, hit := range res.Hits.Hits {
				var d model.ProductDraft
				if err := json.Unmarshal(hit.Source, &d); err == nil {
					esDrafts = append(esDrafts, d)
				}
			}
			return esDrafts, res.Hits.Total.Value, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	drafts, count, err := uc.repo.ListDrafts(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if cacheKey != "" && uc.cache != nil {
		cacheData := struct {
			Drafts []model.ProductDraft
			Count  int
		}{
			Drafts: drafts,
			Count:  count,
		}
		if data, err := json.Marshal(cacheData); err == nil {
			uc.cache.Client.Set(ctx, cacheKey, data, 5*time.Minute)
		}
	}

	return drafts, count, nil
}

// mutateSession loads a draft session under a per-session lock, applies fn and
// persists the result. fn never runs for submitted sessions.
func (uc *wizardUseCase) mutateSession(ctx context.Context, merchantID, sessionID string, fn func(*model.WizardSession) error) (*model.WizardSession, error) {
	unlock, err := uc.lockSession(ctx, merchantID, sessionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	session, err := uc.GetSession(ctx, merchantID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.SessionStatusDraft {
		return nil, wizard.ErrSessionSubmitted
	}

	if err := fn(session); err != nil {
		return nil, err
	}

	session.UpdatedAt = time.Now()
	if err := uc.repo.UpdateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// reconcileSession recomputes the row set from the session's groups and
// selection and releases stored images owned by rows the recompute dropped.
func (uc *wizardUseCase) reconcileSession(session *model.WizardSession) {
	next := matrix.Reconcile(session.Groups, matrix.Selection(session.Selection), session.Rows)
	for _, row := range matrix.DroppedRows(session.Rows, next) {
		uc.releaseImage(row.Image)
	}
	session.Rows = next
}

func (uc *wizardUseCase) releaseImage(ref *matrix.ImageRef) {
	if ref == nil {
		return
	}
	if err := uc.images.Remove(ref); err != nil {
		uc.logger.Warn("failed to remove row image", zap.String("path", ref.Path), zap.Error(err))
	}
}

func (uc *wizardUseCase) lockSession(ctx context.Context, merchantID, sessionID string) (func(), error) {
	if uc.cache == nil {
		return func() {}, nil
	}

	lockKey := fmt.Sprintf("lock:wizard:%s:%s", merchantID, sessionID)
	lockValue := uuid.New().String()

	acquired := false
	for i := 0; i < 3; i++ {
		ok, err := uc.cache.AcquireLock(ctx, lockKey, lockValue, 5*time.Second)
		if err != nil {
			uc.logger.Error("failed to acquire lock redis error", zap.Error(err))
		}
		if ok {
			acquired = true
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if !acquired {
		return nil, wizard.ErrSessionBusy
	}

	return func() {
		if err := uc.cache.ReleaseLock(ctx, lockKey, lockValue); err != nil {
			uc.logger.Warn("failed to release session lock", zap.String("key", lockKey), zap.Error(err))
		}
	}, nil
}

func (uc *wizardUseCase) draftCacheKey(filters *dto.DraftFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("drafts:list:%s:%x", filters.MerchantID, md5.Sum(data)), nil
}

func (uc *wizardUseCase) invalidateDraftCache(ctx context.Context, merchantID string) {
	if uc.cache == nil {
		return
	}
	pattern := fmt.Sprintf("drafts:list:%s:*", merchantID)
	if err := uc.cache.DeletePattern(ctx, pattern); err != nil {
		uc.logger.Warn("failed to invalidate draft cache", zap.Error(err))
	}
}

func (uc *wizardUseCase) syncDraftToElastic(ctx context.Context, d *model.ProductDraft) {
	if uc.es == nil || d == nil {
		return
	}

	mapping := `{
		"mappings": {
			"properties": {
				"merchant_id": { "type": "keyword" },
				"product_name": { "type": "text" },
				"rows": {
					"properties": {
						"key": { "type": "keyword" },
						"sku": { "type": "keyword" },
						"barcode": { "type": "keyword" }
					}
				},
				"created_at": { "type": "date" }
			}
		}
	}`
	_ = uc.es.CreateIndex(ctx, draftIndexName, mapping)

	if err := uc.es.Index(ctx, draftIndexName, d.ID, d); err != nil {
		uc.logger.Error("failed to index product draft", zap.String("draft_id", d.ID), zap.Error(err))
	}
}

type draftSubmittedEvent struct {
	EventID   string                `json:"event_id"`
	EventType string                `json:"event_type"`
	Payload   draftSubmittedPayload `json:"payload"`
	Timestamp time.Time             `json:"timestamp"`
}

type draftSubmittedPayload struct {
	DraftID    string `json:"draft_id"`
	MerchantID string `json:"merchant_id"`
	SessionID  string `json:"session_id"`
	RowCount   int    `json:"row_count"`
}

func (uc *wizardUseCase) publishDraftSubmitted(ctx context.Context, d *model.ProductDraft) {
	if uc.producer == nil || d == nil {
		return
	}

	event := draftSubmittedEvent{
		EventID:   uuid.New().String(),
		EventType: "DraftSubmitted",
		Payload: draftSubmittedPayload{
			DraftID:    d.ID,
			MerchantID: d.MerchantID,
			SessionID:  d.SessionID,
			RowCount:   len(d.Rows),
		},
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := uc.producer.Publish(ctx, []byte(d.MerchantID), data); err != nil {
		uc.logger.Error("failed to publish draft submitted event",
			zap.String("draft_id", d.ID), zap.Error(err))
	}
}
