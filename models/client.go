package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is a client record created when a handoff is flagged newClient. The
// contact sub-records are stored collapsed: when noContact is set the text
// fields are absent.
type Client struct {
	ID                        uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	HandoffID                 uuid.UUID    `gorm:"type:uuid;index" json:"handoffId"`
	Client                    string       `gorm:"column:client;not null;index" json:"client"`
	Address                   string       `gorm:"column:address" json:"address"`
	Lat                       float64      `gorm:"column:lat" json:"lat"`
	Lng                       float64      `gorm:"column:lng" json:"lng"`
	Contact                   Contact      `gorm:"column:contact;type:jsonb" json:"contact"`
	BillingContact            Contact      `gorm:"column:billing_contact;type:jsonb" json:"billingContact"`
	Documents                 Documents    `gorm:"column:documents;type:jsonb" json:"documents"`
	ServiceLines              ServiceLines `gorm:"column:service_lines;type:jsonb" json:"serviceLines"`
	Software                  string       `gorm:"column:software" json:"software"`
	Status                    string       `gorm:"column:status;default:Pending" json:"status"`
	PaymentMethod             string       `gorm:"column:payment_method" json:"paymentMethod"`
	ThirdPartyPaymentProvider string       `gorm:"column:third_party_payment_provider" json:"thirdPartyPaymentProvider"`
	Activity                  Activity     `gorm:"column:activity;type:jsonb" json:"activity"`
	CreatedBy                 string       `gorm:"column:created_by" json:"createdBy"`
	CreatedByEmail            string       `gorm:"column:created_by_email" json:"createdByEmail"`
	SubmittedAt               string       `gorm:"column:submitted_at" json:"createdAt"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Client) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
