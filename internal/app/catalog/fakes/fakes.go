// Package fakes wraps the in-memory drivers with call journals and failure
// injection for usecase and transport tests.
package fakes

import (
	"context"
	"sync"

	"github.com/murkotick/catalog-service/internal/app/catalog/contracts"
	"github.com/murkotick/catalog-service/internal/app/catalog/domain"
	"github.com/murkotick/catalog-service/internal/pkg/broker"
	"github.com/murkotick/catalog-service/internal/pkg/objectstore"
)

// Journal records collaborator calls in the order they happened.
type Journal struct {
	mu    sync.Mutex
	steps []string
}

func (j *Journal) add(step string) {
	if j == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.steps = append(j.steps, step)
}

// Steps returns a copy of the recorded calls, e.g. "upload", "insert", "publish".
func (j *Journal) Steps() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.steps...)
}

// Storage is an in-memory object store that records every call.
type Storage struct {
	*objectstore.Memory

	Journal   *Journal
	UploadErr error
	DeleteErr error

	mu      sync.Mutex
	uploads []string
	deletes []string
}

func NewStorage(publicPrefix string, j *Journal) *Storage {
	return &Storage{Memory: objectstore.NewMemory(publicPrefix), Journal: j}
}

func (s *Storage) Upload(ctx context.Context, key string, data []byte) error {
	s.Journal.add("upload")
	s.mu.Lock()
	s.uploads = append(s.uploads, key)
	s.mu.Unlock()
	if s.UploadErr != nil {
		return s.UploadErr
	}
	return s.Memory.Upload(ctx, key, data)
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	s.Journal.add("delete_image")
	s.mu.Lock()
	s.deletes = append(s.deletes, key)
	s.mu.Unlock()
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	return s.Memory.Delete(ctx, key)
}

// Uploads returns the keys passed to Upload.
func (s *Storage) Uploads() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.uploads...)
}

// Deletes returns the keys passed to Delete.
func (s *Storage) Deletes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deletes...)
}

// Message is one published event.
type Message struct {
	Topic        string
	Payload      []byte
	PartitionKey string
}

// Publisher forwards to a local bus and keeps every accepted message.
type Publisher struct {
	*broker.Local

	Journal *Journal
	Err     error

	mu       sync.Mutex
	messages []Message
	attempts int
}

func NewPublisher(j *Journal) *Publisher {
	return &Publisher{Local: broker.NewLocal(), Journal: j}
}

func (p *Publisher) Publish(ctx context.Context, topic string, payload []byte, partitionKey string) error {
	p.Journal.add("publish")
	p.mu.Lock()
	p.attempts++
	p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	if err := p.Local.Publish(ctx, topic, payload, partitionKey); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, Message{Topic: topic, Payload: payload, PartitionKey: partitionKey})
	return nil
}

// Messages returns the delivered messages.
func (p *Publisher) Messages() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Message(nil), p.messages...)
}

// Attempts counts Publish calls, failed ones included.
func (p *Publisher) Attempts() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.attempts
}

// ProductStore wraps a product store with per-operation failures. CommitErr is
// returned by Insert and Replace after the write has been applied, the way
// a commit that times out on the client can still land.
type ProductStore struct {
	contracts.ProductStore

	Journal    *Journal
	InsertErr  error
	FindErr    error
	ReplaceErr error
	DeleteErr  error
	CommitErr  error
}

func (s *ProductStore) Insert(ctx context.Context, p *domain.Product) (string, error) {
	s.Journal.add("insert")
	if s.InsertErr != nil {
		return "", s.InsertErr
	}
	id, err := s.ProductStore.Insert(ctx, p)
	if err == nil && s.CommitErr != nil {
		return "", s.CommitErr
	}
	return id, err
}

func (s *ProductStore) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	s.Journal.add("find")
	if s.FindErr != nil {
		return nil, s.FindErr
	}
	return s.ProductStore.FindByID(ctx, id)
}

func (s *ProductStore) Replace(ctx context.Context, id string, p *domain.Product) (*domain.Product, error) {
	s.Journal.add("replace")
	if s.ReplaceErr != nil {
		return nil, s.ReplaceErr
	}
	rec, err := s.ProductStore.Replace(ctx, id, p)
	if err == nil && s.CommitErr != nil {
		return nil, s.CommitErr
	}
	return rec, err
}

func (s *ProductStore) DeleteByID(ctx context.Context, id string) (*domain.Product, error) {
	s.Journal.add("delete")
	if s.DeleteErr != nil {
		return nil, s.DeleteErr
	}
	return s.ProductStore.DeleteByID(ctx, id)
}

// ToppingStore wraps a topping store with per-operation failures. CommitErr is
// returned by Insert and Replace after the write has been applied, the way
// a commit that times out on the client can still land.
type ToppingStore struct {
	contracts.ToppingStore

	Journal    *Journal
	InsertErr  error
	FindErr    error
	ReplaceErr error
	DeleteErr  error
	CommitErr  error
}

func (s *ToppingStore) Insert(ctx context.Context, t *domain.Topping) (string, error) {
	s.Journal.add("insert")
	if s.InsertErr != nil {
		return "", s.InsertErr
	}
	id, err := s.ToppingStore.Insert(ctx, t)
	if err == nil && s.CommitErr != nil {
		return "", s.CommitErr
	}
	return id, err
}

func (s *ToppingStore) FindByID(ctx context.Context, id string) (*domain.Topping, error) {
	s.Journal.add("find")
	if s.FindErr != nil {
		return nil, s.FindErr
	}
	return s.ToppingStore.FindByID(ctx, id)
}

func (s *ToppingStore) Replace(ctx context.Context, id string, t *domain.Topping) (*domain.Topping, error) {
	s.Journal.add("replace")
	if s.ReplaceErr != nil {
		return nil, s.ReplaceErr
	}
	rec, err := s.ToppingStore.Replace(ctx, id, t)
	if err == nil && s.CommitErr != nil {
		return nil, s.CommitErr
	}
	return rec, err
}

func (s *ToppingStore) DeleteByID(ctx context.Context, id string) (*domain.Topping, error) {
	s.Journal.add("delete")
	if s.DeleteErr != nil {
		return nil, s.DeleteErr
	}
	return s.ToppingStore.DeleteByID(ctx, id)
}

// Ledger wraps an orphan ledger and can refuse new entries.
type Ledger struct {
	contracts.OrphanLedger

	RecordErr error
}

func (l *Ledger) Record(ctx context.Context, o *domain.OrphanImage) error {
	if l.RecordErr != nil {
		return l.RecordErr
	}
	return l.OrphanLedger.Record(ctx, o)
}
