package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Site is one physical service location created from a spreadsheet row during
// handoff submission. ServiceLines carries the priced copy of the handoff's
// service line; subcontractors start empty and are assigned later by ops.
type Site struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	HandoffID      uuid.UUID      `gorm:"type:uuid;index;not null" json:"handoffId"`
	Store          string         `gorm:"column:store;not null" json:"store"`
	Address        string         `gorm:"column:address;not null" json:"address"`
	City           string         `gorm:"column:city" json:"city"`
	State          string         `gorm:"column:state" json:"state"`
	Zipcode        string         `gorm:"column:zipcode" json:"zipcode"`
	SiteMapURL     string         `gorm:"column:site_map_url" json:"siteMapUrl"`
	Lat            float64        `gorm:"column:lat" json:"lat"`
	Lng            float64        `gorm:"column:lng" json:"lng"`
	Client         string         `gorm:"column:client;index" json:"client"`
	ServiceLines   ServiceLines   `gorm:"column:service_lines;type:jsonb" json:"serviceLines"`
	Subcontractors pq.StringArray `gorm:"column:subcontractors;type:text[]" json:"subcontractors"`
	Status         string         `gorm:"column:status;default:Pending" json:"status"`
	Activity       Activity       `gorm:"column:activity;type:jsonb" json:"activity"`
	Software       string         `gorm:"column:software" json:"software"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (s *Site) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
