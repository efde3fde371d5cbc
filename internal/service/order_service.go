package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/ministore_api/internal/models"
	"github.com/GTDGit/ministore_api/internal/repository"
	"github.com/GTDGit/ministore_api/internal/sse"
	"github.com/GTDGit/ministore_api/internal/utils"
)

const dateLayout = "2006-01-02"

// OrderService handles order entry, editing and status changes.
type OrderService struct {
	orderRepo *repository.OrderRepository
	notifier  sse.OrderNotifier
	now       func() time.Time
}

// NewOrderService constructs an OrderService. A nil notifier disables events.
func NewOrderService(orderRepo *repository.OrderRepository, notifier sse.OrderNotifier) *OrderService {
	if notifier == nil {
		notifier = &sse.NopNotifier{}
	}
	return &OrderService{orderRepo: orderRepo, notifier: notifier, now: time.Now}
}

// OrderItemRequest is one requested line item. Prices are never accepted
// from the caller.
type OrderItemRequest struct {
	ProductID int `json:"id_producto" binding:"required,min=1"`
	Quantity  int `json:"cantidad" binding:"required,min=1"`
}

// OrderRequest is the body of order create and update calls.
type OrderRequest struct {
	ClientID         int                `json:"id_cliente" binding:"required,min=1"`
	ChannelID        int                `json:"id_canal" binding:"required,min=1"`
	OrderDate        string             `json:"fecha_pedido" binding:"required"`
	DueDate          *string            `json:"fecha_limite"`
	RequiresShipping bool               `json:"requiere_envio"`
	ShippingAddress  *string            `json:"direccion_envio"`
	ShippingCost     *decimal.Decimal   `json:"costo_envio"`
	PaymentMethod    string             `json:"metodo_pago" binding:"max=30"`
	Notes            *string            `json:"notas"`
	Status           string             `json:"estado"`
	Items            []OrderItemRequest `json:"productos" binding:"required,min=1,dive"`
}

// StatusRequest is the body of the status patch.
type StatusRequest struct {
	Status string `json:"estado" binding:"required"`
}

// ListOrdersParams carries the raw listing filters from the query string.
type ListOrdersParams struct {
	Status string
	Month  string
	Year   string
}

// ListOrders returns orders newest first, optionally filtered by status and
// by month (mes, defaulting anio to the current year) or by a whole year.
func (s *OrderService) ListOrders(ctx context.Context, p ListOrdersParams) ([]models.Order, error) {
	filter := repository.OrderFilter{Status: strings.TrimSpace(p.Status)}

	if p.Month != "" || p.Year != "" {
		year := s.now().Year()
		if p.Year != "" {
			y, err := strconv.Atoi(p.Year)
			if err != nil || y < 1 {
				return nil, utils.ErrInvalidDate
			}
			year = y
		}

		var from, to time.Time
		if p.Month != "" {
			m, err := strconv.Atoi(p.Month)
			if err != nil || m < 1 || m > 12 {
				return nil, utils.ErrInvalidDate
			}
			from = time.Date(year, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
			to = from.AddDate(0, 1, 0)
		} else {
			from = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
			to = from.AddDate(1, 0, 0)
		}
		filter.From, filter.To = &from, &to
	}

	return s.orderRepo.List(ctx, filter)
}

// GetOrder returns an order with its line items.
func (s *OrderService) GetOrder(ctx context.Context, id int) (*models.Order, error) {
	o, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

// CreateOrder validates the request and writes the order transactionally.
// New orders may only start as borrador or pendiente.
func (s *OrderService) CreateOrder(ctx context.Context, req *OrderRequest) (*models.Order, error) {
	status := models.OrderStatusPending
	switch models.OrderStatus(strings.TrimSpace(req.Status)) {
	case "", models.OrderStatusPending:
	case models.OrderStatusDraft:
		status = models.OrderStatusDraft
	default:
		return nil, utils.ErrInvalidStatus
	}

	order, lines, err := buildOrder(req)
	if err != nil {
		return nil, err
	}
	order.Status = status

	if err := s.orderRepo.Create(ctx, order, lines); err != nil {
		return nil, err
	}

	log.Info().
		Int("id_pedido", order.ID).
		Int("items", len(lines)).
		Str("subtotal", order.Subtotal.StringFixed(2)).
		Msg("Order created")

	s.notifier.NotifyOrderCreated(order)
	return order, nil
}

// UpdateOrder replaces an order's header and line items. The status is kept
// unless the request names one.
func (s *OrderService) UpdateOrder(ctx context.Context, id int, req *OrderRequest) (*models.Order, error) {
	order, lines, err := buildOrder(req)
	if err != nil {
		return nil, err
	}
	order.ID = id
	order.Status = models.OrderStatus(strings.TrimSpace(req.Status))

	if err := s.orderRepo.Replace(ctx, order, lines); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrOrderNotFound
		}
		return nil, err
	}

	log.Info().Int("id_pedido", id).Int("items", len(lines)).Msg("Order updated")

	s.notifier.NotifyOrderUpdated(order)
	return order, nil
}

// UpdateStatus sets an order's status. Any non-empty value is accepted.
func (s *OrderService) UpdateStatus(ctx context.Context, id int, status string) error {
	status = strings.TrimSpace(status)
	if status == "" {
		return utils.ErrInvalidStatus
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrOrderNotFound
		}
		return fmt.Errorf("update estado pedido %d: %w", id, err)
	}

	s.notifier.NotifyOrderStatusChanged(id, status)
	return nil
}

// buildOrder turns a request into the header and line inputs, rejecting bad
// dates, negative shipping and empty or zero-quantity item lists.
func buildOrder(req *OrderRequest) (*models.Order, []models.LineInput, error) {
	if len(req.Items) == 0 {
		return nil, nil, utils.ErrEmptyOrder
	}

	orderDate, err := time.Parse(dateLayout, strings.TrimSpace(req.OrderDate))
	if err != nil {
		return nil, nil, utils.ErrInvalidDate
	}

	var dueDate *time.Time
	if req.DueDate != nil && strings.TrimSpace(*req.DueDate) != "" {
		d, err := time.Parse(dateLayout, strings.TrimSpace(*req.DueDate))
		if err != nil {
			return nil, nil, utils.ErrInvalidDate
		}
		dueDate = &d
	}

	shipping := decimal.Zero
	if req.ShippingCost != nil {
		if req.ShippingCost.IsNegative() {
			return nil, nil, utils.ErrInvalidPrice
		}
		shipping = *req.ShippingCost
	}

	payment := strings.TrimSpace(req.PaymentMethod)
	if payment == "" {
		payment = models.DefaultPaymentMethod
	}

	lines := make([]models.LineInput, 0, len(req.Items))
	for _, item := range req.Items {
		if item.ProductID < 1 || item.Quantity < 1 {
			return nil, nil, utils.ErrEmptyOrder
		}
		lines = append(lines, models.LineInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	order := &models.Order{
		OrderDate:        orderDate,
		DueDate:          dueDate,
		ClientID:         req.ClientID,
		ChannelID:        req.ChannelID,
		ShippingCost:     shipping,
		RequiresShipping: req.RequiresShipping,
		ShippingAddress:  req.ShippingAddress,
		Notes:            req.Notes,
		PaymentMethod:    payment,
	}
	return order, lines, nil
}
