package models

// Product: katalog kaydı. fld/fldd kolonları müşteri bazlı serbest alanlar,
// anlamları Products_labels tablosunda.
type Product struct {
	ID     string  `gorm:"column:product_id;primaryKey;size:100" json:"product_id"`
	Fld01  *string `gorm:"column:fld01" json:"fld01"`
	Fld02  *string `gorm:"column:fld02" json:"fld02"`
	Fld03  *string `gorm:"column:fld03" json:"fld03"`
	Fld04  *string `gorm:"column:fld04" json:"fld04"`
	Fld05  *string `gorm:"column:fld05" json:"fld05"`
	Fld06  *string `gorm:"column:fld06" json:"fld06"`
	Fld07  *string `gorm:"column:fld07" json:"fld07"`
	Fld08  *string `gorm:"column:fld08" json:"fld08"`
	Fld09  *string `gorm:"column:fld09" json:"fld09"`
	Fld10  *string `gorm:"column:fld10" json:"fld10"`
	Fldd01 *string `gorm:"column:fldd01" json:"fldd01"`
	Fldd02 *string `gorm:"column:fldd02" json:"fldd02"`
	Fldd03 *string `gorm:"column:fldd03" json:"fldd03"`
	Fldd04 *string `gorm:"column:fldd04" json:"fldd04"`
	Fldd05 *string `gorm:"column:fldd05" json:"fldd05"`
}

func (Product) TableName() string { return "Products" }

type ProductLabel struct {
	FieldName string `gorm:"column:field_name;primaryKey;size:20" json:"pr_fld"`
	LabelText string `gorm:"column:label_text;size:100" json:"pr_lab"`
}

func (ProductLabel) TableName() string { return "Products_labels" }
