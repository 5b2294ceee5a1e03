package services

import (
	"context"
	"encoding/json"

	"boutique/internal/apperrors"
	"boutique/internal/models"
	"boutique/internal/repositories"
	"boutique/pkg/money"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Payment event types the recorder acts on.
const (
	EventCheckoutSessionCompleted             = "checkout.session.completed"
	EventCheckoutSessionAsyncPaymentSucceeded = "checkout.session.async_payment_succeeded"
)

// EventOrderRecorded is published after a paid order is saved.
const EventOrderRecorded = "order.recorded"

// EventPublisher publishes domain events to the message broker.
type EventPublisher interface {
	PublishEvent(eventType string, payload interface{}) error
}

// PaymentEvent is a verified provider event. Data holds the raw event object.
type PaymentEvent struct {
	ID   string
	Type string
	Data json.RawMessage
}

type sessionAddress struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	State      string `json:"state"`
	Country    string `json:"country"`
}

type sessionShipping struct {
	Name    string          `json:"name"`
	Address *sessionAddress `json:"address"`
}

// completedSession holds the fields of a checkout session object that an
// order is built from.
type completedSession struct {
	ID                string            `json:"id" validate:"required"`
	PaymentStatus     string            `json:"payment_status" validate:"required"`
	AmountSubtotal    int64             `json:"amount_subtotal" validate:"gte=0"`
	AmountTotal       int64             `json:"amount_total" validate:"gte=0"`
	ClientReferenceID string            `json:"client_reference_id"`
	Metadata          map[string]string `json:"metadata"`
	CustomerDetails   *struct {
		Email   string          `json:"email"`
		Name    string          `json:"name"`
		Address *sessionAddress `json:"address"`
	} `json:"customer_details"`
	ShippingDetails      *sessionShipping `json:"shipping_details"`
	CollectedInformation *struct {
		ShippingDetails *sessionShipping `json:"shipping_details"`
	} `json:"collected_information"`
}

func (s *completedSession) shipping() *sessionShipping {
	if s.CollectedInformation != nil && s.CollectedInformation.ShippingDetails != nil {
		return s.CollectedInformation.ShippingDetails
	}
	if s.ShippingDetails != nil {
		return s.ShippingDetails
	}
	if s.CustomerDetails != nil && s.CustomerDetails.Address != nil {
		return &sessionShipping{Name: s.CustomerDetails.Name, Address: s.CustomerDetails.Address}
	}
	return nil
}

// RecordResult reports what Record did with an event.
type RecordResult struct {
	Order     *models.Order
	Duplicate bool
	Ignored   bool
}

// OrderRecorder turns completed payment sessions into orders. Recording is
// idempotent per session id.
type OrderRecorder struct {
	orders    repositories.OrderRepository
	checkouts repositories.CheckoutRecordRepository
	carts     repositories.CartSnapshotStore
	publisher EventPublisher
	logger    *zap.Logger
}

// NewOrderRecorder creates a new OrderRecorder. publisher may be nil.
func NewOrderRecorder(orders repositories.OrderRepository, checkouts repositories.CheckoutRecordRepository, carts repositories.CartSnapshotStore, publisher EventPublisher, logger *zap.Logger) *OrderRecorder {
	return &OrderRecorder{
		orders:    orders,
		checkouts: checkouts,
		carts:     carts,
		publisher: publisher,
		logger:    logger,
	}
}

// Record saves the order for a completed, paid session. Other event types
// and unpaid sessions are ignored. A session that was already recorded
// returns the existing order.
func (r *OrderRecorder) Record(ctx context.Context, event PaymentEvent) (RecordResult, error) {
	if event.Type != EventCheckoutSessionCompleted && event.Type != EventCheckoutSessionAsyncPaymentSucceeded {
		r.logger.Debug("ignoring payment event", zap.String("event_id", event.ID), zap.String("type", event.Type))
		return RecordResult{Ignored: true}, nil
	}

	var session completedSession
	if err := json.Unmarshal(event.Data, &session); err != nil {
		return RecordResult{}, apperrors.Validation("malformed checkout session payload")
	}
	if err := validateStruct(session); err != nil {
		return RecordResult{}, err
	}
	if session.PaymentStatus != "paid" && session.PaymentStatus != "no_payment_required" {
		r.logger.Info("checkout session completed without payment",
			zap.String("session_id", session.ID),
			zap.String("payment_status", session.PaymentStatus))
		return RecordResult{Ignored: true}, nil
	}

	if existing, err := r.orders.GetBySessionID(ctx, session.ID); err == nil {
		r.logger.Info("checkout session already recorded",
			zap.String("session_id", session.ID),
			zap.String("order_id", existing.ID))
		return RecordResult{Order: existing, Duplicate: true}, nil
	} else if !apperrors.Is(err, apperrors.KindNotFound) {
		return RecordResult{}, err
	}

	record, err := r.checkouts.GetBySessionID(ctx, session.ID)
	if apperrors.Is(err, apperrors.KindNotFound) {
		r.logger.Warn("no checkout record for session, recording totals only", zap.String("session_id", session.ID))
		record = nil
	} else if err != nil {
		return RecordResult{}, err
	}

	order := buildOrder(&session, record)
	shortfalls, err := r.orders.CreatePaid(ctx, order)
	if apperrors.Is(err, apperrors.KindConflict) {
		// A concurrent delivery of the same event won the insert.
		existing, getErr := r.orders.GetBySessionID(ctx, session.ID)
		if getErr != nil {
			return RecordResult{}, getErr
		}
		return RecordResult{Order: existing, Duplicate: true}, nil
	}
	if err != nil {
		return RecordResult{}, err
	}

	for _, s := range shortfalls {
		r.logger.Warn("stock shortfall on paid order",
			zap.String("order_id", order.ID),
			zap.String("variant_id", s.VariantID),
			zap.Int("requested", s.Requested),
			zap.Int("available", s.Available))
	}
	r.logger.Info("order recorded",
		zap.String("order_id", order.ID),
		zap.String("session_id", session.ID),
		zap.Float64("total", order.TotalAmount))

	r.afterCommit(ctx, order, &session, record)
	return RecordResult{Order: order}, nil
}

// afterCommit runs the side effects that must not roll back the order.
func (r *OrderRecorder) afterCommit(ctx context.Context, order *models.Order, session *completedSession, record *models.CheckoutRecord) {
	if r.publisher != nil {
		if err := r.publisher.PublishEvent(EventOrderRecorded, order); err != nil {
			r.logger.Error("failed to publish order event", zap.String("order_id", order.ID), zap.Error(err))
		}
	}

	cartID := session.Metadata[MetadataCartID]
	if cartID == "" && record != nil {
		cartID = record.CartID
	}
	if cartID != "" && r.carts != nil {
		if err := r.carts.Delete(ctx, cartID); err != nil {
			r.logger.Warn("failed to clear cart after order", zap.String("cart_id", cartID), zap.Error(err))
		}
	}
}

func buildOrder(session *completedSession, record *models.CheckoutRecord) *models.Order {
	order := &models.Order{
		ID:              uuid.New().String(),
		StripeSessionID: session.ID,
		Status:          models.PaymentStatusPaid,
		ShippingStatus:  models.ShippingStatusPending,
		UserID:          session.Metadata[MetadataUserID],
	}
	if order.UserID == "" {
		order.UserID = session.ClientReferenceID
	}
	if session.CustomerDetails != nil {
		order.CustomerEmail = session.CustomerDetails.Email
	}
	if shipping := session.shipping(); shipping != nil {
		order.ShippingName = shipping.Name
		if a := shipping.Address; a != nil {
			order.ShippingLine1 = a.Line1
			order.ShippingLine2 = a.Line2
			order.ShippingCity = a.City
			order.ShippingPostalCode = a.PostalCode
			order.ShippingState = a.State
			order.ShippingCountry = a.Country
		}
	}

	if record != nil {
		if order.UserID == "" {
			order.UserID = record.UserID
		}
		for _, line := range record.Items {
			order.Items = append(order.Items, models.OrderItem{
				VariantID: line.VariantID,
				ProductID: line.ProductID,
				Name:      line.Name,
				Size:      line.Size,
				Quantity:  line.Quantity,
				Price:     line.Price,
			})
			order.TotalQuantity += line.Quantity
		}
		order.ProductsTotalPrice = record.ProductsTotalPrice
		order.ShippingPrice = record.ShippingPrice
	} else {
		order.ProductsTotalPrice = money.FromMinorUnits(session.AmountSubtotal)
	}

	if session.AmountTotal > 0 {
		order.TotalAmount = money.FromMinorUnits(session.AmountTotal)
	} else {
		order.TotalAmount = order.ProductsTotalPrice + order.ShippingPrice
	}
	return order
}
