package models

// User: back-office kullanıcısı. UsrPwd bcrypt hash tutar; eski kayıtlar ilk
// başarılı girişte hash'e çevrilir.
type User struct {
	ID       uint    `gorm:"column:usr_id;primaryKey" json:"usr_id"`
	Name     string  `gorm:"column:usr_name;size:100;uniqueIndex;not null" json:"usr_name"`
	Password string  `gorm:"column:usr_pwd;size:255;not null" json:"-"`
	DefPlace *string `gorm:"column:usr_def_place;size:50" json:"usr_def_place"`
	Role     string  `gorm:"column:usr_role;size:50" json:"usr_role"`

	DefaultPlace *Place `gorm:"foreignKey:DefPlace;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (User) TableName() string { return "users" }
