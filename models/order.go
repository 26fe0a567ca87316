package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order statuses set by the reformer as the work progresses.
// pending is assigned at creation; rejected and end are terminal.
const (
	OrderStatusPending  = "pending"
	OrderStatusAccepted = "accepted"
	OrderStatusRejected = "rejected"
	OrderStatusReceived = "received"
	OrderStatusProduced = "produced"
	OrderStatusDeliver  = "deliver"
	OrderStatusEnd      = "end"
)

// Transaction modes for fulfilling an order
const (
	TransactionPickup   = "pickup"
	TransactionDelivery = "delivery"
)

// ValidOrderStatus reports whether s is a member of the order status set
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusAccepted, OrderStatusRejected,
		OrderStatusReceived, OrderStatusProduced, OrderStatusDeliver, OrderStatusEnd:
		return true
	}
	return false
}

// ValidTransactionMode reports whether m is pickup or delivery
func ValidTransactionMode(m string) bool {
	return m == TransactionPickup || m == TransactionDelivery
}

// Order is the root aggregate for a reform request. It is created in one
// transaction together with its TransactionOption, the initial pending
// OrderState and, for delivery orders, an empty DeliveryInformation row.
// ServicePrice + OptionPrice must equal TotalPrice at creation time.
type Order struct {
	ID                uint               `gorm:"primaryKey" json:"id"`
	OrderUUID         uuid.UUID          `gorm:"type:uuid;uniqueIndex" json:"order_uuid"`
	ServiceID         *uint              `gorm:"index" json:"service_id"` // nullable, offering may be deleted later
	Service           *Service           `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	RequesterID       uint               `gorm:"not null;index" json:"requester_id"`
	Requester         User               `gorm:"foreignKey:RequesterID" json:"requester"`
	ExtraMaterial     string             `gorm:"type:text" json:"extra_material"`
	AdditionalRequest string             `gorm:"type:text" json:"additional_request"`
	ServicePrice      int                `gorm:"not null" json:"service_price"`
	OptionPrice       int                `gorm:"not null" json:"option_price"`
	TotalPrice        int                `gorm:"not null" json:"total_price"`
	RequestDate       time.Time          `gorm:"not null;index" json:"request_date"`
	ContactLink       *string            `json:"contact_link,omitempty"`
	Materials         []Material         `gorm:"many2many:order_materials" json:"materials,omitempty"`
	Options           []Option           `gorm:"many2many:order_options" json:"options,omitempty"`
	Transaction       *TransactionOption `gorm:"foreignKey:OrderID" json:"transaction,omitempty"`
	States            []OrderState       `gorm:"foreignKey:OrderID" json:"states,omitempty"`
	Images            []OrderImage       `gorm:"foreignKey:OrderID" json:"images,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
	DeletedAt         gorm.DeletedAt     `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// BeforeCreate assigns the externally visible identifier
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.OrderUUID == uuid.Nil {
		o.OrderUUID = uuid.New()
	}
	return nil
}

// CurrentState returns the most recently created state entry, or nil when
// the history has not been loaded. Ties on the timestamp fall back to the
// highest id since states are append-only.
func (o *Order) CurrentState() *OrderState {
	var current *OrderState
	for i := range o.States {
		s := &o.States[i]
		if current == nil ||
			s.CreatedAt.After(current.CreatedAt) ||
			(s.CreatedAt.Equal(current.CreatedAt) && s.ID > current.ID) {
			current = s
		}
	}
	return current
}

// CurrentStatus returns the status string of CurrentState, or empty
func (o *Order) CurrentStatus() string {
	if s := o.CurrentState(); s != nil {
		return s.Status
	}
	return ""
}

// TransactionOption is the exchange-method record owned by exactly one
// order. Delivery fields are only meaningful when Mode is delivery and are
// stored blank for pickup orders.
type TransactionOption struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	TransactionUUID uuid.UUID      `gorm:"type:uuid;uniqueIndex" json:"transaction_uuid"`
	OrderID         uint           `gorm:"not null;uniqueIndex" json:"order_id"`
	Mode            string         `gorm:"not null" json:"mode"` // pickup or delivery
	DeliveryAddress string         `json:"delivery_address"`
	DeliveryName    string         `json:"delivery_name"`
	DeliveryPhone   string         `json:"delivery_phone"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the TransactionOption model
func (TransactionOption) TableName() string {
	return "transaction_options"
}

// BeforeCreate assigns the externally visible identifier
func (t *TransactionOption) BeforeCreate(tx *gorm.DB) error {
	if t.TransactionUUID == uuid.Nil {
		t.TransactionUUID = uuid.New()
	}
	return nil
}

// DeliveryInformation holds courier tracking data for a delivery order.
// Created empty at order creation and filled in by the reformer later.
type DeliveryInformation struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	OrderID        uint           `gorm:"not null;uniqueIndex" json:"order_id"`
	Company        *string        `json:"delivery_company"`
	TrackingNumber *string        `json:"delivery_tracking_number"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the DeliveryInformation model
func (DeliveryInformation) TableName() string {
	return "delivery_informations"
}

// OrderState is one entry in an order's append-only status history.
// Rows are never mutated; the current status is the newest row.
type OrderState struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	Status    string    `gorm:"not null" json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the OrderState model
func (OrderState) TableName() string {
	return "order_states"
}

// OrderImage is a reference photo attached to an order, stored in S3
type OrderImage struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	OrderID   uint           `gorm:"not null;index" json:"order_id"`
	S3Key     string         `gorm:"not null" json:"s3_key"`
	ImageURL  string         `gorm:"-" json:"image_url,omitempty"` // computed field, presigned URL
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the OrderImage model
func (OrderImage) TableName() string {
	return "order_images"
}
