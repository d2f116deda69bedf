package models

import "time"

type InventoryState string

const (
	InventoryOpen  InventoryState = "OPEN"
	InventoryClose InventoryState = "CLOSE"
)

// ZoneSeparator: inv_last_zones içindeki zone id ayıracı
const ZoneSeparator = ";"

// Inventory: sayım oturumu. Det* bulunan, Mis* bulunamayan etiketlerin
// kapanışta taşınacağı yer/bölge.
type Inventory struct {
	ID          uint           `gorm:"column:inv_id;primaryKey" json:"inv_id"`
	Name        string         `gorm:"column:inv_name;size:255;not null" json:"inv_name"`
	StartDate   *time.Time     `gorm:"column:inv_start_date" json:"inv_start_date"`
	PlaceID     *string        `gorm:"column:inv_place_id;size:50" json:"inv_place_id"`
	State       InventoryState `gorm:"column:inv_state;size:10;not null;default:OPEN" json:"inv_state"`
	Note        *string        `gorm:"column:inv_note" json:"inv_note"`
	ChecklistID *uint          `gorm:"column:inv_chk_id" json:"inv_chk_id"`
	FromStock   bool           `gorm:"column:inv_last;not null;default:false" json:"inv_last"`
	LastPlace   *string        `gorm:"column:inv_last_place;size:50" json:"inv_last_place"`
	LastZones   *string        `gorm:"column:inv_last_zones" json:"inv_last_zones"`
	DetPlace    *string        `gorm:"column:inv_det_place;size:50" json:"inv_det_place"`
	DetZone     *string        `gorm:"column:inv_det_zone;size:50" json:"inv_det_zone"`
	MisPlace    *string        `gorm:"column:inv_mis_place;size:50" json:"inv_mis_place"`
	MisZone     *string        `gorm:"column:inv_mis_zone;size:50" json:"inv_mis_zone"`

	// inv_last_zones birden fazla zone tuttuğu için FK'sız kalır
	Place        *Place     `gorm:"foreignKey:PlaceID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Checklist    *Checklist `gorm:"foreignKey:ChecklistID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	StockPlace   *Place     `gorm:"foreignKey:LastPlace;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	FoundPlace   *Place     `gorm:"foreignKey:DetPlace;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	FoundZone    *Zone      `gorm:"foreignKey:DetZone;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	MissingPlace *Place     `gorm:"foreignKey:MisPlace;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	MissingZone  *Zone      `gorm:"foreignKey:MisZone;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (Inventory) TableName() string { return "inventories" }

// InventoryItem: bir oturumda okunan (ya da beklenip okunmayan) her etiket için
// tek satır. Okuma akışı yazar, kapanış sadece okur.
type InventoryItem struct {
	InventoryID uint   `gorm:"column:int_inv_id;primaryKey" json:"int_inv_id"`
	EPC         string `gorm:"column:int_epc;primaryKey;size:100" json:"int_epc"`
	Expected    bool   `gorm:"column:inv_expected;not null;default:false" json:"inv_expected"`
	Unexpected  bool   `gorm:"column:inv_unexpected;not null;default:false" json:"inv_unexpected"`
	Lost        bool   `gorm:"column:inv_lost;not null;default:false" json:"inv_lost"`

	Inventory *Inventory `gorm:"foreignKey:InventoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Item      *Item      `gorm:"foreignKey:EPC;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (InventoryItem) TableName() string { return "inventory_items" }

// Classification: üç bayraktan türetilen etiket. Birden fazla bayrak açıksa
// Lost önceliklidir, sonra Expected.
func (ii InventoryItem) Classification() string {
	switch {
	case ii.Lost:
		return "lost"
	case ii.Expected:
		return "expected"
	case ii.Unexpected:
		return "unexpected"
	default:
		return "unclassified"
	}
}
