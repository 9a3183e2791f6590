package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/unity-school/idcard-api/internal/dto"
	"github.com/unity-school/idcard-api/internal/models"
	"github.com/unity-school/idcard-api/internal/repository"
	appErrors "github.com/unity-school/idcard-api/pkg/errors"
)

// CardService orchestrates the card lifecycle: form submission to record
// creation and persistence, preview selection, and confirmed deletion.
type CardService struct {
	store     repository.CardStore
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	now       func() time.Time

	mu            sync.Mutex
	lastCreatedAt int64
	preview       *models.StudentRecord
	pendingDelete string
}

// NewCardService constructs the card service.
func NewCardService(store repository.CardStore, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *CardService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CardService{
		store:     store,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		now:       time.Now,
	}
}

// Create validates the form input, builds the immutable record (assigning
// id and createdAt at this moment), persists it, and promotes it to the
// active preview. Nothing is persisted when validation fails.
func (s *CardService) Create(ctx context.Context, req dto.CreateCardRequest) (*models.StudentRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid card payload")
	}

	name := strings.TrimSpace(req.Name)
	rollNumber := strings.TrimSpace(req.RollNumber)
	if name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "name must not be empty")
	}
	if rollNumber == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "roll number must not be empty")
	}
	if !req.ClassDivision.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown class division "+string(req.ClassDivision))
	}
	if !req.BusRouteNo.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown bus route "+string(req.BusRouteNo))
	}
	if !req.Template.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown card template "+string(req.Template))
	}
	for _, a := range req.Allergies {
		if !a.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown allergy "+string(a))
		}
	}

	record := models.StudentRecord{
		ID:            uuid.NewString(),
		Name:          name,
		RollNumber:    rollNumber,
		ClassDivision: req.ClassDivision,
		Allergies:     req.Allergies,
		Photo:         req.Photo,
		RackNumber:    strings.TrimSpace(req.RackNumber),
		BusRouteNo:    req.BusRouteNo,
		CreatedAt:     s.nextCreatedAt(),
		Template:      req.Template,
	}

	if err := s.store.Append(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreWrite.Code, appErrors.ErrStoreWrite.Status, "failed to save card")
	}

	s.mu.Lock()
	s.preview = &record
	s.mu.Unlock()

	s.metrics.RecordCardCreated()
	s.logger.Info("card created", zap.String("id", record.ID), zap.String("template", string(record.Template)))
	return &record, nil
}

// nextCreatedAt returns current millis, clamped so createdAt never decreases
// across records created in sequence even if the clock steps backwards.
func (s *CardService) nextCreatedAt() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	at := s.now().UnixMilli()
	if at < s.lastCreatedAt {
		at = s.lastCreatedAt
	}
	s.lastCreatedAt = at
	return at
}

// List returns all saved cards, newest first. A corrupt store reads as
// empty.
func (s *CardService) List(ctx context.Context) []models.StudentRecord {
	return s.store.ListAll(ctx)
}

// Get returns the stored record with the given id.
func (s *CardService) Get(ctx context.Context, id string) (*models.StudentRecord, error) {
	for _, record := range s.store.ListAll(ctx) {
		if record.ID == id {
			r := record
			return &r, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "card not found")
}

// SetPreview promotes a stored record to the active preview. The stored
// record is trusted as-is; no re-validation happens here.
func (s *CardService) SetPreview(ctx context.Context, id string) (*models.StudentRecord, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.preview = record
	s.mu.Unlock()
	return record, nil
}

// ActivePreview returns the record currently shown as the live preview.
func (s *CardService) ActivePreview() (*models.StudentRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.preview == nil {
		return nil, false
	}
	r := *s.preview
	return &r, true
}

// RequestDelete defers the removal of a card behind an explicit
// confirmation step.
func (s *CardService) RequestDelete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	s.pendingDelete = id
	s.mu.Unlock()
	return nil
}

// PendingDelete returns the id awaiting confirmation, if any.
func (s *CardService) PendingDelete() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingDelete, s.pendingDelete != ""
}

// ConfirmDelete removes the pending record from the store and clears the
// active preview when it was the deleted record. In-memory state stays
// untouched when the store write fails.
func (s *CardService) ConfirmDelete(ctx context.Context) error {
	s.mu.Lock()
	id := s.pendingDelete
	s.mu.Unlock()
	if id == "" {
		return appErrors.Clone(appErrors.ErrConflict, "no deletion pending confirmation")
	}

	if err := s.store.DeleteByID(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStoreWrite.Code, appErrors.ErrStoreWrite.Status, "failed to delete card")
	}

	s.mu.Lock()
	s.pendingDelete = ""
	if s.preview != nil && s.preview.ID == id {
		s.preview = nil
	}
	s.mu.Unlock()

	s.metrics.RecordCardDeleted()
	s.logger.Info("card deleted", zap.String("id", id))
	return nil
}

// CancelDelete discards the pending delete target with no side effects.
func (s *CardService) CancelDelete() {
	s.mu.Lock()
	s.pendingDelete = ""
	s.mu.Unlock()
}
