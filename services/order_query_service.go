package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sdp-tech/upcy-api/models"
)

// Sort keys accepted by ListOrders
const (
	SortCreatedAsc     = "created"
	SortCreatedDesc    = "-created"
	SortTotalPriceAsc  = "totalprice"
	SortTotalPriceDesc = "-totalprice"
	SortDateAsc        = "date"
	SortDateDesc       = "-date"
)

var sortClauses = map[string]string{
	SortCreatedAsc:     "orders.created_at ASC",
	SortCreatedDesc:    "orders.created_at DESC",
	SortTotalPriceAsc:  "orders.total_price ASC",
	SortTotalPriceDesc: "orders.total_price DESC",
	SortDateAsc:        "orders.request_date ASC",
	SortDateDesc:       "orders.request_date DESC",
}

// OrderFilters narrows ListOrders results. All fields are optional and
// combine with logical AND.
type OrderFilters struct {
	StartDate   *time.Time // inclusive lower bound on request date
	EndDate     *time.Time // inclusive upper bound on request date
	Status      string     // current order status
	Transaction string     // pickup or delivery
	Sort        string     // defaults to -created
}

// OrderQueryService produces the set of orders visible to a caller
type OrderQueryService struct {
	db *gorm.DB
}

// NewOrderQueryService creates a query service over the given database
func NewOrderQueryService(db *gorm.DB) *OrderQueryService {
	return &OrderQueryService{db: db}
}

// ListOrders returns the caller's orders for the requested view. The
// customer view lists orders the caller placed; the reformer view lists
// orders against services in markets the caller owns. An empty result is a
// success, never an error.
func (s *OrderQueryService) ListOrders(caller *models.User, role string, filters OrderFilters) ([]models.Order, error) {
	if role != models.RoleCustomer && role != models.RoleReformer {
		return nil, NewValidationError("INVALID_TYPE", "type must be customer or reformer")
	}

	if filters.Status != "" && !models.ValidOrderStatus(filters.Status) {
		return nil, NewValidationError("INVALID_STATUS", "Unknown order status filter")
	}

	if filters.Transaction != "" && !models.ValidTransactionMode(filters.Transaction) {
		return nil, NewValidationError("INVALID_TRANSACTION_MODE", "transaction must be pickup or delivery")
	}

	sort := filters.Sort
	if sort == "" {
		sort = SortCreatedDesc
	}
	orderClause, ok := sortClauses[sort]
	if !ok {
		return nil, NewValidationError("INVALID_SORT", "Unknown sort key")
	}

	query := s.db.Model(&models.Order{}).
		Select("orders.*").
		Preload("Requester").
		Preload("Service").
		Preload("Materials").
		Preload("Options").
		Preload("Transaction").
		Preload("States").
		Preload("Images")

	switch role {
	case models.RoleCustomer:
		query = query.Where("orders.requester_id = ?", caller.ID)
	case models.RoleReformer:
		query = query.
			Joins("JOIN services ON services.id = orders.service_id AND services.deleted_at IS NULL").
			Joins("JOIN markets ON markets.id = services.market_id AND markets.deleted_at IS NULL").
			Where("markets.reformer_id = ?", caller.ID)
	}

	if filters.StartDate != nil {
		query = query.Where("orders.request_date >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		// inclusive upper bound regardless of time-of-day precision
		query = query.Where("orders.request_date < ?", filters.EndDate.AddDate(0, 0, 1))
	}

	if filters.Transaction != "" {
		query = query.
			Joins("JOIN transaction_options ON transaction_options.order_id = orders.id AND transaction_options.deleted_at IS NULL").
			Where("transaction_options.mode = ?", filters.Transaction)
	}

	var orders []models.Order
	if err := query.Order(orderClause).Find(&orders).Error; err != nil {
		return nil, err
	}

	// Current status is a derived read over the append-only history, so the
	// status filter is applied after loading.
	if filters.Status != "" {
		filtered := make([]models.Order, 0, len(orders))
		for _, order := range orders {
			if order.CurrentStatus() == filters.Status {
				filtered = append(filtered, order)
			}
		}
		orders = filtered
	}

	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// ListServiceOrders lists every order placed against one offering. Only
// the reformer owning the offering's market may call it; no orders is an
// empty list, not an error.
func (s *OrderQueryService) ListServiceOrders(serviceUUID uuid.UUID, reformer *models.User) ([]models.Order, error) {
	if !reformer.IsReformer() {
		return nil, NewPermissionError("FORBIDDEN", "Only reformers can list orders for a service")
	}

	var service models.Service
	err := s.db.Preload("Market").Where("service_uuid = ?", serviceUUID).First(&service).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("SERVICE_NOT_FOUND", "Service not found")
		}
		return nil, err
	}

	if service.Market.ReformerID != reformer.ID {
		return nil, NewPermissionError("FORBIDDEN", "You do not own this service")
	}

	var orders []models.Order
	err = s.db.Model(&models.Order{}).
		Preload("Requester").
		Preload("Materials").
		Preload("Options").
		Preload("Transaction").
		Preload("States").
		Preload("Images").
		Where("orders.service_id = ?", service.ID).
		Order("orders.created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}
