package models

import "github.com/shopspring/decimal"

// AssetCategory classifies an asset
type AssetCategory string

const (
	AssetCategoryElectronics AssetCategory = "Electronics"
	AssetCategoryFurniture   AssetCategory = "Furniture"
	AssetCategoryVehicle     AssetCategory = "Vehicle"
	AssetCategoryOther       AssetCategory = "Other"
)

// IsValidAssetCategory reports whether c is a known category
func IsValidAssetCategory(c AssetCategory) bool {
	switch c {
	case AssetCategoryElectronics, AssetCategoryFurniture, AssetCategoryVehicle, AssetCategoryOther:
		return true
	}
	return false
}

// AssetDirection says whether the organization buys or sells the asset
type AssetDirection string

const (
	AssetBought AssetDirection = "Bought"
	AssetSold   AssetDirection = "Sold"
)

// AssetTransaction is the purchase or sale of an asset. Amount is always
// Price*Quantity.
type AssetTransaction struct {
	DocumentHeader
	Name      string          `gorm:"not null" json:"name"`
	Category  AssetCategory   `gorm:"not null" json:"category"`
	Direction AssetDirection  `gorm:"not null;index" json:"direction"`
	Quantity  int64           `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"price"`
	Vendor    string          `json:"vendor,omitempty"`
}

func (AssetTransaction) TableName() string { return "asset_transactions" }

func (*AssetTransaction) Variant() Variant { return VariantAsset }

func (a *AssetTransaction) Flow() Flow {
	if a.Direction == AssetSold {
		return FlowAssetSale
	}
	return FlowAssetPurchase
}

// Total returns Price*Quantity.
func (a *AssetTransaction) Total() decimal.Decimal {
	return a.Price.Mul(decimal.NewFromInt(a.Quantity))
}
