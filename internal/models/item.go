package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item: fiziksel RFID etiketi (EPC). Son görülme yeri hem okuma akışı hem de
// inventory kapanışı tarafından güncellenir.
type Item struct {
	ID           string     `gorm:"column:item_id;primaryKey;size:100" json:"item_id"`
	ProductID    *string    `gorm:"column:item_product_id;size:100;index" json:"item_product_id"`
	DateCreation time.Time  `gorm:"column:date_creation;autoCreateTime" json:"date_creation"`
	DateLastSeen *time.Time `gorm:"column:date_lastseen" json:"date_lastseen"`
	PlaceLast    *string    `gorm:"column:place_last;size:50" json:"place_last"`
	ZoneLast     *string    `gorm:"column:zone_last;size:50" json:"zone_last"`

	Product   *Product `gorm:"foreignKey:ProductID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	LastPlace *Place   `gorm:"foreignKey:PlaceLast;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	LastZone  *Zone    `gorm:"foreignKey:ZoneLast;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (Item) TableName() string { return "Items" }

// Movement: sadece eklenen hareket kaydı, etiketi silinmeden silinmez.
type Movement struct {
	ID         uint                `gorm:"column:mov_id;primaryKey" json:"mov_id"`
	EPC        string              `gorm:"column:mov_epc;size:100;index;not null" json:"mov_epc"`
	DestPlace  *string             `gorm:"column:mov_dest_place;size:50" json:"mov_dest_place"`
	DestZone   *string             `gorm:"column:mov_dest_zone;size:50" json:"mov_dest_zone"`
	Timestamp  time.Time           `gorm:"column:mov_timestamp;index;not null" json:"mov_timestamp"`
	Notes      string              `gorm:"column:mov_notes" json:"mov_notes"`
	Ref        string              `gorm:"column:mov_ref;size:255" json:"mov_ref"`
	User       string              `gorm:"column:mov_user;size:100" json:"mov_user"`
	ReadsCount *int                `gorm:"column:mov_readscount" json:"mov_readcount"`
	RSSIAvg    decimal.NullDecimal `gorm:"column:mov_rssiavg;type:numeric(8,2)" json:"mov_rssiavg"`

	Item             *Item  `gorm:"foreignKey:EPC;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	DestinationPlace *Place `gorm:"foreignKey:DestPlace;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	DestinationZone  *Zone  `gorm:"foreignKey:DestZone;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (Movement) TableName() string { return "Movements" }
