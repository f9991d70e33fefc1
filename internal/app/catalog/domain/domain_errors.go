package domain

import (
	"errors"
	"fmt"
)

// Error classes. Errors returned by the catalog core match one of these
// through errors.Is.
var (
	// ErrValidation indicates malformed or missing input supplied by the caller.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates the id has no live record.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates a tenant mismatch without an admin override.
	ErrForbidden = errors.New("forbidden")

	// ErrStorage indicates an object storage upload or delete failure.
	ErrStorage = errors.New("object storage failure")

	// ErrPersistence indicates the catalog store was unreachable or rejected a write.
	ErrPersistence = errors.New("persistence failure")

	// ErrPublish indicates the broker rejected a change event. It never reaches callers.
	ErrPublish = errors.New("publish failure")
)

// Validation errors for products and toppings
var (
	// ErrImageRequired indicates a create without image bytes.
	ErrImageRequired = &ValidationError{Field: "image", Reason: "is required"}

	// ErrImageTooLarge indicates an image above the per-entity size limit.
	ErrImageTooLarge = &ValidationError{Field: "image", Reason: "exceeds the size limit"}

	// ErrEmptyName indicates an empty or blank name.
	ErrEmptyName = &ValidationError{Field: "name", Reason: "cannot be empty"}

	// ErrNameTooLong indicates the name exceeds MaxNameLength.
	ErrNameTooLong = &ValidationError{Field: "name", Reason: fmt.Sprintf("exceeds maximum length of %d characters", MaxNameLength)}

	// ErrEmptyTenant indicates a record without an owning tenant.
	ErrEmptyTenant = &ValidationError{Field: "tenantId", Reason: "cannot be empty"}

	// ErrEmptyCategory indicates a product without a category reference.
	ErrEmptyCategory = &ValidationError{Field: "categoryId", Reason: "cannot be empty"}

	// ErrNegativePrice indicates a topping priced below zero.
	ErrNegativePrice = &ValidationError{Field: "price", Reason: "cannot be negative"}

	// ErrEmptyPriceConfiguration indicates a category or product without pricing dimensions.
	ErrEmptyPriceConfiguration = &ValidationError{Field: "priceConfiguration", Reason: "cannot be empty"}
)

// ValidationError describes a single rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError reports a missing record of the given entity kind.
type NotFoundError struct {
	Entity string
	ID     string
}

func NewNotFound(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AuthorizationError reports a requester acting on another tenant's record.
type AuthorizationError struct {
	Entity        string
	OwnerTenantID string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("not allowed to access this %s", e.Entity)
}

func (e *AuthorizationError) Is(target error) bool {
	return target == ErrForbidden
}

// StorageError wraps an object storage failure for a key.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// PersistenceError wraps a catalog store failure.
type PersistenceError struct {
	Op     string
	Entity string
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// PublishError wraps a broker failure for one change event.
type PublishError struct {
	Topic string
	Key   string
	Err   error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish to %s (key %s): %v", e.Topic, e.Key, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

func (e *PublishError) Is(target error) bool {
	return target == ErrPublish
}
