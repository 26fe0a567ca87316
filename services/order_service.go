package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sdp-tech/upcy-api/models"
)

// TransactionInput is the exchange-method payload for order creation
type TransactionInput struct {
	Mode            string
	DeliveryAddress string
	DeliveryName    string
	DeliveryPhone   string
}

// CreateOrderInput carries everything needed to build an order aggregate.
// ImageKeys are S3 keys of images uploaded beforehand, so no blob I/O
// happens inside the database transaction.
type CreateOrderInput struct {
	ServiceUUID       uuid.UUID
	MaterialUUIDs     []uuid.UUID
	OptionUUIDs       []uuid.UUID
	Transaction       TransactionInput
	ServicePrice      int
	OptionPrice       int
	TotalPrice        int
	ExtraMaterial     string
	AdditionalRequest string
	RequestDate       time.Time
	ContactLink       *string
	ImageKeys         []string
}

// OrderService builds order aggregates and drives the status lifecycle
type OrderService struct {
	db      *gorm.DB
	catalog CatalogService
}

// NewOrderService creates an order service using the given database and
// catalog collaborator
func NewOrderService(db *gorm.DB, catalog CatalogService) *OrderService {
	return &OrderService{db: db, catalog: catalog}
}

// CreateOrder validates the input and creates the order together with its
// material/option selections, TransactionOption, conditional
// DeliveryInformation and initial pending OrderState in a single database
// transaction. Any failure rolls back every row.
//
// The caller-supplied price equation is checked first, then OptionPrice is
// recomputed server-side from the resolved option prices and TotalPrice
// re-derived from it. Client aggregates are never persisted as-is.
func (s *OrderService) CreateOrder(requester *models.User, input CreateOrderInput) (*models.Order, error) {
	if requester.Role != models.RoleCustomer {
		return nil, NewPermissionError("FORBIDDEN", "Only customers can create orders")
	}

	if !models.ValidTransactionMode(input.Transaction.Mode) {
		return nil, NewValidationError("INVALID_TRANSACTION_MODE", "Transaction mode must be pickup or delivery")
	}

	if input.Transaction.Mode == models.TransactionDelivery {
		if input.Transaction.DeliveryAddress == "" || input.Transaction.DeliveryName == "" || input.Transaction.DeliveryPhone == "" {
			return nil, NewValidationError("MISSING_DELIVERY_FIELDS", "Delivery orders require address, recipient name and phone")
		}
	} else {
		// Delivery fields are meaningless for pickup; never persist stale values
		input.Transaction.DeliveryAddress = ""
		input.Transaction.DeliveryName = ""
		input.Transaction.DeliveryPhone = ""
	}

	if input.ServicePrice+input.OptionPrice != input.TotalPrice {
		return nil, NewValidationError("PRICE_MISMATCH", "service_price + option_price must equal total_price")
	}

	service, err := s.catalog.ResolveService(input.ServiceUUID)
	if err != nil {
		return nil, err
	}

	materials, err := s.catalog.ResolveMaterials(service, input.MaterialUUIDs)
	if err != nil {
		return nil, err
	}

	options, err := s.catalog.ResolveOptions(service, input.OptionUUIDs)
	if err != nil {
		return nil, err
	}

	optionPrice := 0
	for _, option := range options {
		optionPrice += option.Price
	}

	order := models.Order{
		ServiceID:         &service.ID,
		RequesterID:       requester.ID,
		ExtraMaterial:     input.ExtraMaterial,
		AdditionalRequest: input.AdditionalRequest,
		ServicePrice:      input.ServicePrice,
		OptionPrice:       optionPrice,
		TotalPrice:        input.ServicePrice + optionPrice,
		RequestDate:       input.RequestDate,
		ContactLink:       input.ContactLink,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		if len(materials) > 0 {
			if err := tx.Model(&order).Association("Materials").Append(&materials); err != nil {
				return err
			}
		}

		if len(options) > 0 {
			if err := tx.Model(&order).Association("Options").Append(&options); err != nil {
				return err
			}
		}

		transaction := models.TransactionOption{
			OrderID:         order.ID,
			Mode:            input.Transaction.Mode,
			DeliveryAddress: input.Transaction.DeliveryAddress,
			DeliveryName:    input.Transaction.DeliveryName,
			DeliveryPhone:   input.Transaction.DeliveryPhone,
		}
		if err := tx.Create(&transaction).Error; err != nil {
			return err
		}

		// Delivery orders get an empty tracking record the reformer fills in later
		if transaction.Mode == models.TransactionDelivery {
			if err := tx.Create(&models.DeliveryInformation{OrderID: order.ID}).Error; err != nil {
				return err
			}
		}

		initialState := models.OrderState{OrderID: order.ID, Status: models.OrderStatusPending}
		if err := tx.Create(&initialState).Error; err != nil {
			return err
		}

		if len(input.ImageKeys) > 0 {
			images := make([]models.OrderImage, 0, len(input.ImageKeys))
			for _, key := range input.ImageKeys {
				images = append(images, models.OrderImage{OrderID: order.ID, S3Key: key})
			}
			if err := tx.Create(&images).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.loadOrder(order.ID)
}

// SetStatus appends a new entry to the order's status history. Only the
// reformer owning the market behind the order's service may change status,
// and history rows are never mutated.
func (s *OrderService) SetStatus(orderUUID uuid.UUID, reformer *models.User, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, NewValidationError("INVALID_STATUS", "Unknown order status")
	}

	var order models.Order
	if err := s.db.Where("order_uuid = ?", orderUUID).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("ORDER_NOT_FOUND", "Order not found")
		}
		return nil, err
	}

	if err := s.requireOwnership(&order, reformer); err != nil {
		return nil, err
	}

	state := models.OrderState{OrderID: order.ID, Status: status}
	if err := s.db.Create(&state).Error; err != nil {
		return nil, err
	}

	return s.loadOrder(order.ID)
}

// UpdateDeliveryInformation upserts the courier tracking record for a
// delivery order. Nil fields are left untouched.
func (s *OrderService) UpdateDeliveryInformation(transactionUUID uuid.UUID, reformer *models.User, company, trackingNumber *string) (*models.DeliveryInformation, error) {
	var transaction models.TransactionOption
	if err := s.db.Where("transaction_uuid = ?", transactionUUID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("TRANSACTION_NOT_FOUND", "Transaction not found")
		}
		return nil, err
	}

	if transaction.Mode != models.TransactionDelivery {
		return nil, NewValidationError("NOT_A_DELIVERY", "Pickup orders have no delivery information")
	}

	var order models.Order
	if err := s.db.First(&order, transaction.OrderID).Error; err != nil {
		return nil, err
	}

	if err := s.requireOwnership(&order, reformer); err != nil {
		return nil, err
	}

	var info models.DeliveryInformation
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).First(&info).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			info = models.DeliveryInformation{OrderID: order.ID}
			if err := tx.Create(&info).Error; err != nil {
				return err
			}
		}

		if company != nil {
			info.Company = company
		}
		if trackingNumber != nil {
			info.TrackingNumber = trackingNumber
		}

		return tx.Save(&info).Error
	})
	if err != nil {
		return nil, err
	}

	return &info, nil
}

// requireOwnership checks that the reformer owns the market behind the
// order's service. Orders whose offering was deleted have no owner.
func (s *OrderService) requireOwnership(order *models.Order, reformer *models.User) error {
	if !reformer.IsReformer() {
		return NewPermissionError("FORBIDDEN", "Only reformers can manage orders")
	}

	if order.ServiceID == nil {
		return NewPermissionError("ORDER_NOT_OWNED", "The order's service no longer exists")
	}

	var service models.Service
	if err := s.db.Preload("Market").First(&service, *order.ServiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewPermissionError("ORDER_NOT_OWNED", "The order's service no longer exists")
		}
		return err
	}

	if service.Market.ReformerID != reformer.ID {
		return NewPermissionError("FORBIDDEN", "You do not own the service for this order")
	}

	return nil
}

// loadOrder fetches the order with every relationship populated
func (s *OrderService) loadOrder(id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.
		Preload("Requester").
		Preload("Service").
		Preload("Materials").
		Preload("Options").
		Preload("Transaction").
		Preload("States").
		Preload("Images").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}
