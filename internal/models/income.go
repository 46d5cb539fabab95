package models

import "time"

// Income is money received into an account. It is recorded already settled.
type Income struct {
	DocumentHeader
	SpecificSource string    `json:"specific_source,omitempty"`
	ReceivedDate   time.Time `json:"received_date"`
	SourceVariant  *Variant  `json:"source_variant,omitempty"`
	SourceID       *string   `gorm:"type:uuid;index" json:"source_id,omitempty"`
}

func (Income) TableName() string { return "incomes" }

func (*Income) Variant() Variant { return VariantIncome }

func (*Income) Flow() Flow { return FlowIncome }
