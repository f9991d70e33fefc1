package domain

// EventType names a catalog change on the wire.
type EventType string

const (
	ProductCreated EventType = "PRODUCT_CREATE"
	ProductUpdated EventType = "PRODUCT_UPDATE"
	ProductDeleted EventType = "PRODUCT_DELETE"

	ToppingCreated EventType = "TOPPING_CREATE"
	ToppingUpdated EventType = "TOPPING_UPDATE"
	ToppingDeleted EventType = "TOPPING_DELETE"
)

// ChangeEvent is the envelope published to downstream consumers.
// All events of one entity share its id as the partition key.
type ChangeEvent struct {
	EventType EventType `json:"event_type"`
	Data      any       `json:"data"`

	key string
}

// Key returns the partition key of the event.
func (e *ChangeEvent) Key() string {
	return e.key
}

// ProductEventData is the subset of a product that consumers rely on.
type ProductEventData struct {
	ID                 string             `json:"id"`
	TenantID           string             `json:"tenantId"`
	PriceConfiguration PriceConfiguration `json:"priceConfiguration"`
}

// ToppingEventData is the subset of a topping that consumers rely on.
type ToppingEventData struct {
	ID       string  `json:"id"`
	TenantID string  `json:"tenantId"`
	Price    float64 `json:"price"`
}

func NewProductEvent(t EventType, p *Product) *ChangeEvent {
	return &ChangeEvent{
		EventType: t,
		Data: ProductEventData{
			ID:                 p.ID,
			TenantID:           p.TenantID,
			PriceConfiguration: p.PriceConfiguration,
		},
		key: p.ID,
	}
}

func NewToppingEvent(t EventType, tp *Topping) *ChangeEvent {
	return &ChangeEvent{
		EventType: t,
		Data: ToppingEventData{
			ID:       tp.ID,
			TenantID: tp.TenantID,
			Price:    tp.Price,
		},
		key: tp.ID,
	}
}
