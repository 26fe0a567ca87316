package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles. Reformers own a market and fulfill orders; customers place them.
const (
	RoleCustomer = "customer"
	RoleReformer = "reformer"
	RoleAdmin    = "admin"
)

// User represents an account in the system (customer, reformer or admin)
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Auth0ID   string         `gorm:"uniqueIndex;not null" json:"auth0_id"` // Auth0 user ID (from 'sub' claim)
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Phone     string         `json:"phone"`
	Role      string         `gorm:"not null;default:'customer'" json:"role"` // customer, reformer or admin
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsReformer reports whether the user can own a market and fulfill orders.
func (u *User) IsReformer() bool {
	return u.Role == RoleReformer
}
