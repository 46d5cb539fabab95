package models

import "time"

// Transfer moves money between two accounts in one step.
type Transfer struct {
	DocumentHeader
	Purpose      string    `json:"purpose,omitempty"`
	TransferDate time.Time `json:"transfer_date"`
}

func (Transfer) TableName() string { return "transfers" }

func (*Transfer) Variant() Variant { return VariantTransfer }

func (*Transfer) Flow() Flow { return FlowTransfer }
