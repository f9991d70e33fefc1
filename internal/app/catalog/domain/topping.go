package domain

import (
	"strings"
	"time"
)

// MaxToppingImageBytes is the largest accepted topping image.
const MaxToppingImageBytes = 500 * 1024

// Topping is a tenant-owned add-on. Unlike Product, Image holds the resolved
// URI; ImageKey keeps the storage key so the object can be replaced or removed.
type Topping struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Image     string    `json:"image"`
	ImageKey  string    `json:"-"`
	TenantID  string    `json:"tenantId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToppingDetails is the wholesale-replaceable part of a topping.
type ToppingDetails struct {
	Name     string
	Price    float64
	TenantID string
}

func NewTopping(d ToppingDetails, now time.Time) (*Topping, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	t := &Topping{CreatedAt: now}
	t.apply(d, now)
	return t, nil
}

func (t *Topping) ReplaceDetails(d ToppingDetails, now time.Time) error {
	if err := d.validate(); err != nil {
		return err
	}
	t.apply(d, now)
	return nil
}

// AttachImage points the topping at a freshly uploaded object.
func (t *Topping) AttachImage(key, uri string) {
	t.ImageKey = key
	t.Image = uri
}

func (t *Topping) apply(d ToppingDetails, now time.Time) {
	t.Name = strings.TrimSpace(d.Name)
	t.Price = d.Price
	t.TenantID = strings.TrimSpace(d.TenantID)
	t.UpdatedAt = now
}

func (d ToppingDetails) validate() error {
	if err := validateName(d.Name); err != nil {
		return err
	}
	if strings.TrimSpace(d.TenantID) == "" {
		return ErrEmptyTenant
	}
	if d.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}

func (t *Topping) Clone() *Topping {
	c := *t
	return &c
}
