package domain

import (
	"strings"
	"time"
)

// Category is the reference target of products. It carries the schemas that
// product pricing and attributes are expected to follow.
type Category struct {
	ID                 string                 `json:"id"`
	Name               string                 `json:"name"`
	PriceConfiguration map[string]PriceSchema `json:"priceConfiguration"`
	Attributes         []AttributeSchema      `json:"attributes"`
	CreatedAt          time.Time              `json:"createdAt"`
	UpdatedAt          time.Time              `json:"updatedAt"`
}

// CategoryDetails is the wholesale-replaceable part of a category.
type CategoryDetails struct {
	Name               string
	PriceConfiguration map[string]PriceSchema
	Attributes         []AttributeSchema
}

func NewCategory(d CategoryDetails, now time.Time) (*Category, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	c := &Category{CreatedAt: now}
	c.apply(d, now)
	return c, nil
}

func (c *Category) ReplaceDetails(d CategoryDetails, now time.Time) error {
	if err := d.validate(); err != nil {
		return err
	}
	c.apply(d, now)
	return nil
}

func (c *Category) apply(d CategoryDetails, now time.Time) {
	c.Name = strings.TrimSpace(d.Name)
	c.PriceConfiguration = d.PriceConfiguration
	c.Attributes = d.Attributes
	c.UpdatedAt = now
}

func (d CategoryDetails) validate() error {
	if err := validateName(d.Name); err != nil {
		return err
	}
	if len(d.PriceConfiguration) == 0 {
		return ErrEmptyPriceConfiguration
	}
	return nil
}

func (c *Category) Clone() *Category {
	cp := *c
	if c.PriceConfiguration != nil {
		cp.PriceConfiguration = make(map[string]PriceSchema, len(c.PriceConfiguration))
		for k, v := range c.PriceConfiguration {
			cp.PriceConfiguration[k] = v
		}
	}
	if c.Attributes != nil {
		cp.Attributes = append([]AttributeSchema(nil), c.Attributes...)
	}
	return &cp
}
