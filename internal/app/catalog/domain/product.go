package domain

import (
	"strings"
	"time"
)

const (
	EntityProduct  = "product"
	EntityTopping  = "topping"
	EntityCategory = "category"

	// MaxNameLength bounds product, topping and category names.
	MaxNameLength = 255
)

// Product is a tenant-owned catalog item. Image holds the bare storage key;
// readers resolve it to a URI on the way out.
type Product struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Description        string             `json:"description"`
	PriceConfiguration PriceConfiguration `json:"priceConfiguration"`
	Attributes         []Attribute        `json:"attributes"`
	TenantID           string             `json:"tenantId"`
	CategoryID         string             `json:"categoryId"`
	IsPublish          bool               `json:"isPublish"`
	Image              string             `json:"image"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

// ProductDetails is the wholesale-replaceable part of a product.
type ProductDetails struct {
	Name               string
	Description        string
	PriceConfiguration PriceConfiguration
	Attributes         []Attribute
	TenantID           string
	CategoryID         string
	IsPublish          bool
}

// NewProduct validates details and builds a product that is not yet persisted.
// The image key is attached once the upload succeeded.
func NewProduct(d ProductDetails, now time.Time) (*Product, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	p := &Product{CreatedAt: now}
	p.apply(d, now)
	return p, nil
}

// ReplaceDetails overwrites every detail field. Image, ID and CreatedAt are kept.
func (p *Product) ReplaceDetails(d ProductDetails, now time.Time) error {
	if err := d.validate(); err != nil {
		return err
	}
	p.apply(d, now)
	return nil
}

func (p *Product) apply(d ProductDetails, now time.Time) {
	p.Name = strings.TrimSpace(d.Name)
	p.Description = strings.TrimSpace(d.Description)
	p.PriceConfiguration = d.PriceConfiguration
	p.Attributes = d.Attributes
	p.TenantID = strings.TrimSpace(d.TenantID)
	p.CategoryID = strings.TrimSpace(d.CategoryID)
	p.IsPublish = d.IsPublish
	p.UpdatedAt = now
}

func (d ProductDetails) validate() error {
	if err := validateName(d.Name); err != nil {
		return err
	}
	if strings.TrimSpace(d.TenantID) == "" {
		return ErrEmptyTenant
	}
	if strings.TrimSpace(d.CategoryID) == "" {
		return ErrEmptyCategory
	}
	if len(d.PriceConfiguration) == 0 {
		return ErrEmptyPriceConfiguration
	}
	return nil
}

// Clone returns a copy that can be modified without touching p.
func (p *Product) Clone() *Product {
	c := *p
	if p.PriceConfiguration != nil {
		c.PriceConfiguration = make(PriceConfiguration, len(p.PriceConfiguration))
		for k, v := range p.PriceConfiguration {
			c.PriceConfiguration[k] = v
		}
	}
	if p.Attributes != nil {
		c.Attributes = append([]Attribute(nil), p.Attributes...)
	}
	return &c
}

func validateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrEmptyName
	}
	if len(trimmed) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}
