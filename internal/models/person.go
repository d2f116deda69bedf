package models

import "time"

// Person: RFID badge ile ilişkilendirilebilen kişi kaydı.
type Person struct {
	ID         uint      `gorm:"column:people_id;primaryKey" json:"people_id"`
	Name       string    `gorm:"column:name;size:255;not null" json:"name"`
	Role       *string   `gorm:"column:role;size:100" json:"role"`
	Company    *string   `gorm:"column:company;size:255" json:"company"`
	Department *string   `gorm:"column:department;size:255" json:"department"`
	Image      *string   `gorm:"column:image;size:500" json:"image"`
	RFIDTagID  *string   `gorm:"column:rfid_tag_id;size:100;uniqueIndex" json:"rfid_tag_id"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Person) TableName() string { return "People" }
