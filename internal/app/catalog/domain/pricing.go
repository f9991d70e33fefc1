package domain

// PriceType distinguishes the base price dimension from add-on dimensions.
type PriceType string

const (
	PriceTypeBase       PriceType = "base"
	PriceTypeAdditional PriceType = "aditional"
)

// WidgetType is how a category attribute is rendered to customers.
type WidgetType string

const (
	WidgetSwitch WidgetType = "switch"
	WidgetRadio  WidgetType = "radio"
)

// PriceSchema declares the allowed options of one pricing dimension of a category.
type PriceSchema struct {
	PriceType        PriceType `json:"priceType"`
	AvailableOptions []string  `json:"availableOptions"`
}

// AttributeSchema declares one selectable attribute of a category.
type AttributeSchema struct {
	Name             string     `json:"name"`
	WidgetType       WidgetType `json:"widgetType"`
	DefaultValue     any        `json:"defaultValue"`
	AvailableOptions []string   `json:"availableOptions"`
}

// PriceOption is the concrete pricing of one product dimension, option -> price.
type PriceOption struct {
	PriceType        PriceType          `json:"priceType"`
	AvailableOptions map[string]float64 `json:"availableOptions"`
}

// PriceConfiguration maps a dimension name (e.g. "size") to its options.
// It is expected to follow the owning category's schema; that is not checked here.
type PriceConfiguration map[string]PriceOption

// Attribute is one selected attribute value of a product.
type Attribute struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}
