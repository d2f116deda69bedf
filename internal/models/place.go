package models

type Place struct {
	ID   string `gorm:"column:place_id;primaryKey;size:50" json:"place_id"`
	Name string `gorm:"column:place_name;size:100" json:"place_name"`
	Type string `gorm:"column:place_type;size:50" json:"place_type"`
}

func (Place) TableName() string { return "Places" }

type Zone struct {
	ID   string `gorm:"column:zone_id;primaryKey;size:50" json:"zone_id"`
	Name string `gorm:"column:zone_name;size:100" json:"zone_name"`
	Type string `gorm:"column:zone_type;size:50" json:"zone_type"`
}

func (Zone) TableName() string { return "Zones" }

// Checklist: beklenen stok listesi (inventory için opsiyonel referans)
type Checklist struct {
	ID    uint    `gorm:"column:chk_id;primaryKey" json:"chk_id"`
	Code  string  `gorm:"column:chk_code;size:100" json:"chk_code"`
	Place *string `gorm:"column:chk_place;size:50;index" json:"chk_place"`

	PlaceRef *Place `gorm:"foreignKey:Place;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (Checklist) TableName() string { return "checklist" }
