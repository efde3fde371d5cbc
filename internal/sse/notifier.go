package sse

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/ministore_api/internal/models"
)

// OrderNotifier is the interface services use to emit order events.
type OrderNotifier interface {
	NotifyOrderCreated(order *models.Order)
	NotifyOrderUpdated(order *models.Order)
	NotifyOrderStatusChanged(orderID int, status string)
}

// HubNotifier implements OrderNotifier using the in-process Hub.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyOrderCreated(order *models.Order) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(orderToEvent(EventOrderCreated, order))
}

func (n *HubNotifier) NotifyOrderUpdated(order *models.Order) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(orderToEvent(EventOrderUpdated, order))
}

func (n *HubNotifier) NotifyOrderStatusChanged(orderID int, status string) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(statusEvent(orderID, status))
}

// Publisher delivers encoded events to every API instance.
type Publisher interface {
	Publish(ctx context.Context, payload []byte) error
}

// BrokerNotifier publishes events through a Publisher so every instance's hub
// receives them. When publishing fails the event is delivered locally only.
type BrokerNotifier struct {
	pub     Publisher
	local   *Hub
	timeout time.Duration
}

// NewBrokerNotifier creates a notifier that publishes through pub and falls
// back to local.
func NewBrokerNotifier(pub Publisher, local *Hub) *BrokerNotifier {
	return &BrokerNotifier{pub: pub, local: local, timeout: 2 * time.Second}
}

func (n *BrokerNotifier) NotifyOrderCreated(order *models.Order) {
	n.publish(orderToEvent(EventOrderCreated, order))
}

func (n *BrokerNotifier) NotifyOrderUpdated(order *models.Order) {
	n.publish(orderToEvent(EventOrderUpdated, order))
}

func (n *BrokerNotifier) NotifyOrderStatusChanged(orderID int, status string) {
	n.publish(statusEvent(orderID, status))
}

func (n *BrokerNotifier) publish(event *OrderEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal order event")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	if err := n.pub.Publish(ctx, data); err != nil {
		log.Warn().Err(err).Str("event", string(event.Event)).Msg("Publish failed, delivering locally")
		n.local.BroadcastRaw(data)
	}
}

func orderToEvent(eventType EventType, order *models.Order) *OrderEvent {
	subtotal := order.Subtotal
	total := order.Total
	return &OrderEvent{
		Event:     eventType,
		OrderID:   order.ID,
		ClientID:  order.ClientID,
		Status:    string(order.Status),
		Subtotal:  &subtotal,
		Total:     &total,
		Timestamp: time.Now(),
	}
}

func statusEvent(orderID int, status string) *OrderEvent {
	return &OrderEvent{
		Event:     EventOrderStatusChanged,
		OrderID:   orderID,
		Status:    status,
		Timestamp: time.Now(),
	}
}

// NopNotifier is a no-op implementation for when events are not needed.
type NopNotifier struct{}

func (n *NopNotifier) NotifyOrderCreated(order *models.Order)              {}
func (n *NopNotifier) NotifyOrderUpdated(order *models.Order)              {}
func (n *NopNotifier) NotifyOrderStatusChanged(orderID int, status string) {}
