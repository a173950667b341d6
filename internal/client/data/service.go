// Package data implements local writes to business tables. Every write is
// stored together with its mutation record and then announced to the scheduler.
package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/tradetrack/internal/client/storage"
	"github.com/iudanet/tradetrack/internal/models"
)

//go:generate moq -out service_mock.go . Service

// TimestampLayout - формат created_at/updated_at; фиксированная ширина сохраняет порядок строк
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// ErrNoItems возвращается при создании документа без позиций
var ErrNoItems = errors.New("document must have at least one item")

// Owner - кто и в каком рабочем пространстве выполняет запись
type Owner struct {
	UserID      string
	WorkspaceID string
}

// Service определяет интерфейс для клиентского data сервиса
type Service interface {
	Create(ctx context.Context, owner Owner, table string, fields models.Payload) (*models.LocalRecord, error)
	CreateWithItems(ctx context.Context, owner Owner, table string, fields models.Payload, items []models.Payload) (*models.LocalRecord, error)
	Update(ctx context.Context, owner Owner, table, id string, fields models.Payload) (*models.LocalRecord, error)
	Delete(ctx context.Context, owner Owner, table, id string) error

	Get(ctx context.Context, workspaceID, table, id string) (*models.LocalRecord, error)
	List(ctx context.Context, workspaceID, table string) ([]models.LocalRecord, error)
}

// Notifier получает сигнал о новой записи в журнале
type Notifier interface {
	NotifyEnqueued()
}

type service struct {
	records  storage.RecordStore
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a new data service. notifier may be nil.
func NewService(records storage.RecordStore, notifier Notifier, logger *slog.Logger) Service {
	return &service{
		records:  records,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Create adds a new row with a generated id
func (s *service) Create(ctx context.Context, owner Owner, table string, fields models.Payload) (*models.LocalRecord, error) {
	schema, err := models.LookupTable(table)
	if err != nil {
		return nil, err
	}
	if schema.Parent != "" {
		return nil, fmt.Errorf("%s rows are created together with %s", table, schema.Parent)
	}

	id := uuid.New().String()
	change, err := s.createChange(owner, schema, id, fields)
	if err != nil {
		return nil, err
	}

	if err := s.apply(ctx, owner.WorkspaceID, change); err != nil {
		return nil, err
	}
	return s.records.GetRecord(ctx, owner.WorkspaceID, table, id)
}

// CreateWithItems creates a document (sale or purchase) and its items in one
// transaction. The document is enqueued first so the server receives it before the items.
func (s *service) CreateWithItems(ctx context.Context, owner Owner, table string, fields models.Payload, items []models.Payload) (*models.LocalRecord, error) {
	schema, err := models.LookupTable(table)
	if err != nil {
		return nil, err
	}
	itemSchema, ok := models.ItemsTable(table)
	if !ok {
		return nil, fmt.Errorf("%s has no items", table)
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	id := uuid.New().String()
	doc, err := s.createChange(owner, schema, id, fields)
	if err != nil {
		return nil, err
	}

	changes := make([]storage.Change, 0, len(items)+1)
	changes = append(changes, doc)
	for i, item := range items {
		withParent := make(models.Payload, len(item)+1)
		for k, v := range item {
			withParent[k] = v
		}
		withParent[itemSchema.ParentKey] = id

		ch, err := s.createChange(owner, itemSchema, uuid.New().String(), withParent)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		changes = append(changes, ch)
	}

	if err := s.apply(ctx, owner.WorkspaceID, changes...); err != nil {
		return nil, err
	}
	return s.records.GetRecord(ctx, owner.WorkspaceID, table, id)
}

// Update changes the given columns of an existing row
func (s *service) Update(ctx context.Context, owner Owner, table, id string, fields models.Payload) (*models.LocalRecord, error) {
	schema, err := models.LookupTable(table)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: %s: nothing to update", models.ErrInvalidPayload, table)
	}

	p := make(models.Payload, len(fields)+1)
	for k, v := range fields {
		p[k] = v
	}
	if schema.HasUpdatedAt {
		p[models.ColumnUpdatedAt] = s.timestamp()
	}

	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal fields: %w", err)
	}

	change := storage.Change{Operation: models.OperationUpdate, Table: table, EntityID: id, Payload: body}
	if err := s.apply(ctx, owner.WorkspaceID, change); err != nil {
		return nil, err
	}
	return s.records.GetRecord(ctx, owner.WorkspaceID, table, id)
}

// Delete removes a row. Items of a document are deleted before the document itself.
func (s *service) Delete(ctx context.Context, owner Owner, table, id string) error {
	if _, err := models.LookupTable(table); err != nil {
		return err
	}

	var changes []storage.Change
	if itemSchema, ok := models.ItemsTable(table); ok {
		items, err := s.records.ListRecords(ctx, owner.WorkspaceID, itemSchema.Name)
		if err != nil {
			return fmt.Errorf("failed to list %s: %w", itemSchema.Name, err)
		}
		for _, item := range items {
			if item.Fields[itemSchema.ParentKey] == id {
				changes = append(changes, storage.Change{
					Operation: models.OperationDelete,
					Table:     itemSchema.Name,
					EntityID:  item.ID,
				})
			}
		}
	}
	changes = append(changes, storage.Change{Operation: models.OperationDelete, Table: table, EntityID: id})

	return s.apply(ctx, owner.WorkspaceID, changes...)
}

// Get returns a row by id
func (s *service) Get(ctx context.Context, workspaceID, table, id string) (*models.LocalRecord, error) {
	return s.records.GetRecord(ctx, workspaceID, table, id)
}

// List returns all rows of the table
func (s *service) List(ctx context.Context, workspaceID, table string) ([]models.LocalRecord, error) {
	return s.records.ListRecords(ctx, workspaceID, table)
}

// createChange проставляет служебные поля и сериализует запись
func (s *service) createChange(owner Owner, schema models.TableSchema, id string, fields models.Payload) (storage.Change, error) {
	now := s.timestamp()

	p := make(models.Payload, len(fields)+4)
	for k, v := range fields {
		p[k] = v
	}
	p[models.ColumnCreatedAt] = now
	if schema.HasUpdatedAt {
		p[models.ColumnCreatedBy] = owner.UserID
		p[models.ColumnUpdatedAt] = now
	}

	body, err := json.Marshal(p)
	if err != nil {
		return storage.Change{}, fmt.Errorf("failed to marshal %s: %w", schema.Name, err)
	}
	return storage.Change{Operation: models.OperationCreate, Table: schema.Name, EntityID: id, Payload: body}, nil
}

func (s *service) apply(ctx context.Context, workspaceID string, changes ...storage.Change) error {
	if workspaceID == "" {
		return fmt.Errorf("no workspace selected")
	}

	recs, err := s.records.Apply(ctx, workspaceID, changes...)
	if err != nil {
		// локальная ошибка возвращается пользователю: изменение не сохранено
		return fmt.Errorf("failed to save %s: %w", changes[0].Table, err)
	}

	for _, rec := range recs {
		s.logger.Debug("Mutation enqueued",
			"mutation_id", rec.ID,
			"operation", rec.Operation,
			"table", rec.EntityTable,
			"entity_id", rec.EntityID)
	}
	if s.notifier != nil {
		s.notifier.NotifyEnqueued()
	}
	return nil
}

func (s *service) timestamp() string {
	return s.now().UTC().Format(TimestampLayout)
}
