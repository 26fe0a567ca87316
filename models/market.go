package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Market represents a reformer's storefront grouping service offerings
type Market struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	MarketUUID uuid.UUID      `gorm:"type:uuid;uniqueIndex" json:"market_uuid"`
	Name       string         `gorm:"not null" json:"name"`
	Introduce  string         `gorm:"type:text" json:"introduce"`
	ReformerID uint           `gorm:"not null;uniqueIndex" json:"reformer_id"` // one market per reformer
	Reformer   User           `gorm:"foreignKey:ReformerID" json:"-"`
	Services   []Service      `gorm:"foreignKey:MarketID" json:"services,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Market model
func (Market) TableName() string {
	return "markets"
}

// BeforeCreate assigns the externally visible identifier
func (m *Market) BeforeCreate(tx *gorm.DB) error {
	if m.MarketUUID == uuid.Nil {
		m.MarketUUID = uuid.New()
	}
	return nil
}

// Service represents a reform service offering customers can order
type Service struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ServiceUUID uuid.UUID      `gorm:"type:uuid;uniqueIndex" json:"service_uuid"`
	MarketID    uint           `gorm:"not null;index" json:"market_id"`
	Market      Market         `gorm:"foreignKey:MarketID" json:"-"`
	Title       string         `gorm:"not null" json:"title"`
	Content     string         `gorm:"type:text" json:"content"`
	BasicPrice  int            `gorm:"not null" json:"basic_price"`
	Suspended   bool           `gorm:"not null;default:false" json:"suspended"` // suspended offerings cannot be ordered
	Materials   []Material     `gorm:"foreignKey:ServiceID" json:"materials,omitempty"`
	Options     []Option       `gorm:"foreignKey:ServiceID" json:"options,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Service model
func (Service) TableName() string {
	return "services"
}

// BeforeCreate assigns the externally visible identifier
func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ServiceUUID == uuid.Nil {
		s.ServiceUUID = uuid.New()
	}
	return nil
}

// Material represents a fabric/material a service works with
type Material struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	MaterialUUID uuid.UUID      `gorm:"type:uuid;uniqueIndex" json:"material_uuid"`
	ServiceID    uint           `gorm:"not null;index" json:"service_id"`
	Name         string         `gorm:"not null" json:"name"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Material model
func (Material) TableName() string {
	return "materials"
}

// BeforeCreate assigns the externally visible identifier
func (m *Material) BeforeCreate(tx *gorm.DB) error {
	if m.MaterialUUID == uuid.Nil {
		m.MaterialUUID = uuid.New()
	}
	return nil
}

// Option represents a priced add-on for a service offering
type Option struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	OptionUUID uuid.UUID      `gorm:"type:uuid;uniqueIndex" json:"option_uuid"`
	ServiceID  uint           `gorm:"not null;index" json:"service_id"`
	Name       string         `gorm:"not null" json:"name"`
	Content    string         `gorm:"type:text" json:"content"`
	Price      int            `gorm:"not null" json:"price"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Option model
func (Option) TableName() string {
	return "options"
}

// BeforeCreate assigns the externally visible identifier
func (o *Option) BeforeCreate(tx *gorm.DB) error {
	if o.OptionUUID == uuid.Nil {
		o.OptionUUID = uuid.New()
	}
	return nil
}
