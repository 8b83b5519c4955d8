// Package store persists handoff, site and client records to Postgres. It is
// the document-store collaborator of the intake pipeline: create returns the
// assigned id, update has overlay semantics (only provided keys change), and
// every failure wraps the driver error behind a stable per-operation message.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"p9e.in/handoff/intake"
	"p9e.in/handoff/models"
)

// ErrNotFound reports a lookup for an id that does not exist.
var ErrNotFound = errors.New("record not found")

// Per-operation fallback messages, surfaced to callers when the database
// gives nothing better.
const (
	msgSave   = "failed to save entity"
	msgUpdate = "failed to update entity"
	msgDelete = "failed to delete entity"
	msgGet    = "failed to fetch entity"
	msgList   = "failed to fetch entities"
	msgQuery  = "failed to query entities"
)

// Store wraps the database handle. It implements intake.Recorder.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// CreateHandoff persists the pipeline's primary record and returns the
// assigned id.
func (s *Store) CreateHandoff(ctx context.Context, rec intake.HandoffRecord) (string, error) {
	h := models.Handoff{
		Client:                    rec.Client,
		Address:                   rec.Address,
		Lat:                       rec.Lat,
		Lng:                       rec.Lng,
		NewClient:                 rec.NewClient,
		ServiceLine:               models.ServiceLine(rec.ServiceLine),
		ServiceType:               rec.ServiceType,
		Software:                  rec.Software,
		NewSoftwareName:           rec.NewSoftwareName,
		Contact:                   models.Contact(rec.Contact),
		BillingContact:            models.Contact(rec.BillingContact),
		Renewal:                   rec.Renewal,
		Duration:                  rec.Duration,
		AnnualEscalation:          rec.AnnualEscalation,
		StartDate:                 rec.StartDate,
		EndDate:                   rec.EndDate,
		PaymentTerms:              rec.PaymentTerms,
		PaymentMethod:             rec.PaymentMethod,
		ThirdPartyPaymentProvider: rec.ThirdPartyPaymentProvider,
		InvoicingDirections:       rec.InvoicingDirections,
		Status:                    rec.Status,
		ContractURL:               rec.ContractURL,
		NumberOfSites:             rec.NumberOfSites,
		Documents:                 models.Documents(rec.Documents),
		Activity:                  models.Activity(rec.Activity),
		CreatedBy:                 rec.CreatedBy,
		CreatedByEmail:            rec.CreatedByEmail,
		SubmittedAt:               rec.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Create(&h).Error; err != nil {
		return "", fmt.Errorf("%s: %w", msgSave, err)
	}
	return h.ID.String(), nil
}

// CreateSite persists one site record referencing its handoff.
func (s *Store) CreateSite(ctx context.Context, rec intake.SiteRecord) error {
	handoffID, err := uuid.Parse(rec.HandoffID)
	if err != nil {
		return fmt.Errorf("%s: bad handoff id %q: %w", msgSave, rec.HandoffID, err)
	}
	site := models.Site{
		HandoffID:      handoffID,
		Store:          rec.Store,
		Address:        rec.Address,
		City:           rec.City,
		State:          rec.State,
		Zipcode:        rec.Zipcode,
		SiteMapURL:     rec.SiteMapURL,
		Lat:            rec.Lat,
		Lng:            rec.Lng,
		Client:         rec.Client,
		ServiceLines:   models.ServiceLines(rec.ServiceLines),
		Subcontractors: rec.Subcontractors,
		Status:         rec.Status,
		Activity:       models.Activity(rec.Activity),
		Software:       rec.Software,
	}
	if err := s.db.WithContext(ctx).Create(&site).Error; err != nil {
		return fmt.Errorf("%s: %w", msgSave, err)
	}
	return nil
}

// CreateClient persists the optional new-client record.
func (s *Store) CreateClient(ctx context.Context, rec intake.ClientRecord) error {
	handoffID, err := uuid.Parse(rec.HandoffID)
	if err != nil {
		return fmt.Errorf("%s: bad handoff id %q: %w", msgSave, rec.HandoffID, err)
	}
	c := models.Client{
		HandoffID:                 handoffID,
		Client:                    rec.Client,
		Address:                   rec.Address,
		Lat:                       rec.Lat,
		Lng:                       rec.Lng,
		Contact:                   models.Contact(rec.Contact),
		BillingContact:            models.Contact(rec.BillingContact),
		Documents:                 models.Documents(rec.Documents),
		ServiceLines:              models.ServiceLines(rec.ServiceLines),
		Software:                  rec.Software,
		Status:                    rec.Status,
		PaymentMethod:             rec.PaymentMethod,
		ThirdPartyPaymentProvider: rec.ThirdPartyPaymentProvider,
		Activity:                  models.Activity(rec.Activity),
		CreatedBy:                 rec.CreatedBy,
		CreatedByEmail:            rec.CreatedByEmail,
		SubmittedAt:               rec.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return fmt.Errorf("%s: %w", msgSave, err)
	}
	return nil
}

// GetHandoff fetches one handoff by id.
func (s *Store) GetHandoff(ctx context.Context, id string) (*models.Handoff, error) {
	var h models.Handoff
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&h).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", msgGet, err)
	}
	return &h, nil
}

// ListHandoffs returns all handoffs, newest first.
func (s *Store) ListHandoffs(ctx context.Context) ([]models.Handoff, error) {
	var out []models.Handoff
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", msgList, err)
	}
	return out, nil
}

// QueryHandoffs returns handoffs matching every filter. Filter keys are JSON
// field names (client, status, ...).
func (s *Store) QueryHandoffs(ctx context.Context, filters map[string]any) ([]models.Handoff, error) {
	q := s.db.WithContext(ctx)
	for key, val := range filters {
		q = q.Where(fmt.Sprintf("%s = ?", columnName(key)), val)
	}
	var out []models.Handoff
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", msgQuery, err)
	}
	return out, nil
}

// UpdateHandoff applies a shallow diff to a handoff: only the provided keys
// change. Keys are JSON field names; nil values clear the column (the diff
// engine's removal marker). Returns the applied changes.
func (s *Store) UpdateHandoff(ctx context.Context, id string, changes map[string]any) (map[string]any, error) {
	cols := map[string]any{}
	for key, val := range changes {
		v, err := columnValue(val)
		if err != nil {
			return nil, fmt.Errorf("%s: field %q: %w", msgUpdate, key, err)
		}
		cols[columnName(key)] = v
	}
	res := s.db.WithContext(ctx).Model(&models.Handoff{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return nil, fmt.Errorf("%s: %w", msgUpdate, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return changes, nil
}

// DeleteHandoff soft-deletes a handoff.
func (s *Store) DeleteHandoff(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Handoff{})
	if res.Error != nil {
		return fmt.Errorf("%s: %w", msgDelete, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetSite fetches one site by id.
func (s *Store) GetSite(ctx context.Context, id string) (*models.Site, error) {
	var site models.Site
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&site).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", msgGet, err)
	}
	return &site, nil
}

// ListSites returns sites, optionally filtered to one handoff.
func (s *Store) ListSites(ctx context.Context, handoffID string) ([]models.Site, error) {
	q := s.db.WithContext(ctx)
	if handoffID != "" {
		q = q.Where("handoff_id = ?", handoffID)
	}
	var out []models.Site
	if err := q.Order("created_at").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", msgList, err)
	}
	return out, nil
}

// GetClient fetches one client by id.
func (s *Store) GetClient(ctx context.Context, id string) (*models.Client, error) {
	var c models.Client
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", msgGet, err)
	}
	return &c, nil
}

// ListClients returns all client records, newest first.
func (s *Store) ListClients(ctx context.Context) ([]models.Client, error) {
	var out []models.Client
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", msgList, err)
	}
	return out, nil
}

var naming = schema.NamingStrategy{}

// columnName maps a JSON field name to its snake_case column. Model fields
// are named so this mapping stays mechanical (createdAt is the one exception,
// persisted as submitted_at).
func columnName(jsonKey string) string {
	if jsonKey == "createdAt" {
		return "submitted_at"
	}
	return naming.ColumnName("", jsonKey)
}

// columnValue prepares a diff value for a column write: composites become
// jsonb, scalars and nil pass through.
func columnValue(val any) (any, error) {
	switch val.(type) {
	case nil, string, bool, float64, int, int64:
		return val, nil
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		return datatypes.JSON(b), nil
	}
}
