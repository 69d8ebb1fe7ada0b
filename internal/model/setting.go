package model

type Setting struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Key   string `json:"key" gorm:"not null;unique;size:64"`
	Value string `json:"value" gorm:"not null"`
	Desc  string `json:"desc"`
}
