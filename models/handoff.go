package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Handoff is one persisted sales-to-operations handoff: the submitted intake
// draft plus the bookkeeping fields the pipeline sets once.
type Handoff struct {
	ID                        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Client                    string         `gorm:"column:client;not null;index" json:"client"`
	Address                   string         `gorm:"column:address" json:"address"`
	Lat                       float64        `gorm:"column:lat" json:"lat"`
	Lng                       float64        `gorm:"column:lng" json:"lng"`
	NewClient                 bool           `gorm:"column:new_client" json:"newClient"`
	ServiceLine               ServiceLine    `gorm:"column:service_line;type:jsonb" json:"serviceLine"`
	ServiceType               string         `gorm:"column:service_type" json:"serviceType"`
	Software                  string         `gorm:"column:software" json:"software"`
	NewSoftwareName           string         `gorm:"column:new_software_name" json:"newSoftwareName"`
	Contact                   Contact        `gorm:"column:contact;type:jsonb" json:"contact"`
	BillingContact            Contact        `gorm:"column:billing_contact;type:jsonb" json:"billingContact"`
	Renewal                   string         `gorm:"column:renewal" json:"renewal"`
	Duration                  string         `gorm:"column:duration" json:"duration"`
	AnnualEscalation          string         `gorm:"column:annual_escalation" json:"annualEscalation"`
	StartDate                 string         `gorm:"column:start_date" json:"startDate"`
	EndDate                   string         `gorm:"column:end_date" json:"endDate"`
	PaymentTerms              string         `gorm:"column:payment_terms" json:"paymentTerms"`
	PaymentMethod             string         `gorm:"column:payment_method" json:"paymentMethod"`
	ThirdPartyPaymentProvider string         `gorm:"column:third_party_payment_provider" json:"thirdPartyPaymentProvider"`
	InvoicingDirections       string         `gorm:"column:invoicing_directions" json:"invoicingDirections"`
	Status                    string         `gorm:"column:status;default:Pending" json:"status"`
	ContractURL               string         `gorm:"column:contract_url" json:"contractUrl"`
	NumberOfSites             int            `gorm:"column:number_of_sites" json:"numberOfSites"`
	Documents                 Documents      `gorm:"column:documents;type:jsonb" json:"documents"`
	Activity                  Activity       `gorm:"column:activity;type:jsonb" json:"activity"`
	Notes                     datatypes.JSON `gorm:"column:notes;type:jsonb" json:"notes,omitempty"`
	CreatedBy                 string         `gorm:"column:created_by" json:"createdBy"`
	CreatedByEmail            string         `gorm:"column:created_by_email" json:"createdByEmail"`
	SubmittedAt               string         `gorm:"column:submitted_at" json:"createdAt"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (h *Handoff) BeforeCreate(tx *gorm.DB) (err error) {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return
}
