package models

import "time"

// DefaultRadius is the search radius in meters used when a request omits it.
const DefaultRadius = 1000

// Search is one recorded restaurant search. Rows are never updated.
type Search struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SearchTerm string    `json:"searchTerm" gorm:"type:text;not null"`
	Radius     int       `json:"radius" gorm:"not null"` // meters
	UserID     string    `json:"userId" gorm:"type:varchar(36);not null;index"`
	User       *User     `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	CreatedAt  time.Time `json:"createdAt" gorm:"index"`
}

// TableName pins the table name to "transaction".
func (Search) TableName() string {
	return "transaction"
}
