package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"

	"boutique/internal/models"

	"go.uber.org/zap"
)

// Mailer sends an HTML email.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`<h1>Thank you for your order</h1>
<p>Order <strong>{{.ID}}</strong> has been paid and will ship soon.</p>
<table>
{{range .Items}}<tr><td>{{.Name}}{{if .Size}} ({{.Size}}){{end}}</td><td>{{.Quantity}}</td><td>{{printf "%.2f" .Price}}</td></tr>
{{end}}</table>
<p>Products: {{printf "%.2f" .ProductsTotalPrice}}<br>
Shipping: {{printf "%.2f" .ShippingPrice}}<br>
<strong>Total: {{printf "%.2f" .TotalAmount}}</strong></p>
{{if .ShippingLine1}}<p>Shipping to:<br>{{.ShippingName}}<br>{{.ShippingLine1}}{{if .ShippingLine2}}<br>{{.ShippingLine2}}{{end}}<br>{{.ShippingPostalCode}} {{.ShippingCity}}<br>{{.ShippingCountry}}</p>{{end}}`))

// OrderNotifier emails customers when their order is recorded.
type OrderNotifier struct {
	mailer Mailer
	logger *zap.Logger
}

// NewOrderNotifier creates a new OrderNotifier.
func NewOrderNotifier(mailer Mailer, logger *zap.Logger) *OrderNotifier {
	return &OrderNotifier{mailer: mailer, logger: logger}
}

// RenderConfirmation renders the confirmation email body for order.
func RenderConfirmation(order *models.Order) (string, error) {
	var buf bytes.Buffer
	if err := confirmationTemplate.Execute(&buf, order); err != nil {
		return "", fmt.Errorf("failed to render confirmation: %w", err)
	}
	return buf.String(), nil
}

// HandleOrderEvent consumes one broker message. Only order.recorded events
// send mail. Undecodable messages are logged and dropped since a retry
// cannot fix them; a mail failure is returned so the broker retries.
func (n *OrderNotifier) HandleOrderEvent(ctx context.Context, eventType string, body []byte) error {
	if eventType != EventOrderRecorded {
		return nil
	}

	var order models.Order
	if err := json.Unmarshal(body, &order); err != nil {
		n.logger.Error("dropping malformed order event", zap.Error(err))
		return nil
	}
	if order.CustomerEmail == "" {
		n.logger.Info("order has no customer email, skipping confirmation", zap.String("order_id", order.ID))
		return nil
	}

	html, err := RenderConfirmation(&order)
	if err != nil {
		n.logger.Error("dropping order event", zap.String("order_id", order.ID), zap.Error(err))
		return nil
	}
	subject := fmt.Sprintf("Order confirmation %s", order.ID)
	if err := n.mailer.Send(ctx, order.CustomerEmail, subject, html); err != nil {
		return fmt.Errorf("failed to send confirmation for order %s: %w", order.ID, err)
	}
	n.logger.Info("order confirmation sent", zap.String("order_id", order.ID))
	return nil
}
