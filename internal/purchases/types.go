package purchases

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/angelmondragon/planfinderz-storefront/pkg/enums"
)

// Order is one entry of a shopper's order history.
type Order struct {
	ID            string              `json:"id"`
	PaymentStatus enums.PaymentStatus `json:"paymentStatus"`
	PlacedAt      *time.Time          `json:"placedAt,omitempty"`
	Items         []OrderItem         `json:"items"`
}

// OrderItem references a purchased plan by the id the orders API stores.
type OrderItem struct {
	ProductRef string `json:"productRef"`
	Name       string `json:"name,omitempty"`
}

// Access is the has-purchased answer for one plan.
type Access struct {
	SourceID  string `json:"sourceId"`
	Purchased bool   `json:"purchased"`
	OrderID   string `json:"orderId,omitempty"`
}

// flexString accepts JSON strings and numbers.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return nil
	}
	*f = flexString(n.String())
	return nil
}

type wireProduct struct {
	ID    flexString `json:"_id"`
	AltID flexString `json:"id"`
}

// wireRef is a product reference given either as an id or as an embedded object.
type wireRef string

func (r *wireRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var p wireProduct
		if err := json.Unmarshal(data, &p); err != nil {
			return nil
		}
		*r = wireRef(firstNonEmpty(string(p.ID), string(p.AltID)))
		return nil
	}
	var s flexString
	if err := s.UnmarshalJSON(data); err != nil {
		return nil
	}
	*r = wireRef(s)
	return nil
}

type wireItem struct {
	Product   wireRef    `json:"product"`
	ProductID flexString `json:"productId"`
	PlanID    flexString `json:"planId"`
	ID        flexString `json:"_id"`
	Name      string     `json:"name"`
	Title     string     `json:"title"`
}

type wireOrder struct {
	ID            flexString `json:"_id"`
	AltID         flexString `json:"id"`
	PaymentStatus string     `json:"paymentStatus"`
	Status        string     `json:"status"`
	CreatedAt     string     `json:"createdAt"`
	Items         []wireItem `json:"items"`
	Products      []wireItem `json:"products"`
}

func (w wireOrder) toOrder() Order {
	status, err := enums.ParsePaymentStatus(firstNonEmpty(w.PaymentStatus, w.Status))
	if err != nil {
		status = enums.PaymentStatusPending
	}
	order := Order{
		ID:            firstNonEmpty(string(w.ID), string(w.AltID)),
		PaymentStatus: status,
	}
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(w.CreatedAt)); err == nil {
		placed := t.UTC()
		order.PlacedAt = &placed
	}

	lines := w.Items
	if len(lines) == 0 {
		lines = w.Products
	}
	order.Items = make([]OrderItem, 0, len(lines))
	for _, line := range lines {
		ref := firstNonEmpty(string(line.Product), string(line.ProductID), string(line.PlanID), string(line.ID))
		if ref == "" {
			continue
		}
		order.Items = append(order.Items, OrderItem{ProductRef: ref, Name: firstNonEmpty(line.Name, line.Title)})
	}
	return order
}

var orderEnvelopeKeys = []string{"orders", "data", "items"}

// DecodeOrders reads an order history payload: a bare array or an envelope
// keyed by orders/data/items. Unknown shapes decode to no orders.
func DecodeOrders(payload []byte) ([]Order, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return []Order{}, nil
	}

	var list []wireOrder
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, err
		}
	} else {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, err
		}
		for _, key := range orderEnvelopeKeys {
			raw, ok := envelope[key]
			if !ok {
				continue
			}
			if err := json.Unmarshal(raw, &list); err != nil {
				return nil, err
			}
			break
		}
	}

	orders := make([]Order, 0, len(list))
	for _, w := range list {
		orders = append(orders, w.toOrder())
	}
	return orders, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
