package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/zero-day-ai/metaprop"
	"github.com/zero-day-ai/metaprop/codec"
)

// DefaultNamespace prefixes backend keys when no namespace is configured.
const DefaultNamespace = "metaprop"

// Backend keeps encoded objects by key. Get and Delete return metaprop.ErrNotFound for
// missing keys.
type Backend interface {
	// Name identifies the backend in logs and telemetry.
	Name() string
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	// Keys lists the stored keys in ascending order.
	Keys(ctx context.Context) ([]string, error)
	io.Closer
}

// Store persists MetaObjects.
type Store interface {
	// Put validates o and stores it, replacing an object with the same ID.
	Put(ctx context.Context, o *MetaObject) error

	// Get loads the object with the given ID.
	Get(ctx context.Context, id uuid.UUID) (*MetaObject, error)

	// Delete removes the object with the given ID.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns the IDs of all stored objects in ascending order.
	List(ctx context.Context) ([]uuid.UUID, error)

	Close() error
}

// Option configures a DocumentStore.
type Option func(*DocumentStore)

// WithCodec selects the codec documents are rendered with. JSON is the default.
func WithCodec(c codec.Codec) Option {
	return func(s *DocumentStore) {
		s.encoder = NewEncoder(c)
	}
}

// WithLogger sets the logger. Operations log at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(s *DocumentStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTracer records a span per operation.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *DocumentStore) {
		s.tracer = tracer
	}
}

// WithMeterProvider records operation counts and durations.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *DocumentStore) {
		if mp != nil {
			s.meter = mp.Meter(instrumentationName)
		}
	}
}

// DocumentStore implements Store on top of a Backend.
type DocumentStore struct {
	backend Backend
	encoder *Encoder
	logger  *slog.Logger
	tracer  trace.Tracer
	meter   metric.Meter
	metrics *storeMetrics
	closed  atomic.Bool
}

var _ Store = (*DocumentStore)(nil)

// New creates a store over backend.
func New(backend Backend, opts ...Option) *DocumentStore {
	s := &DocumentStore{
		backend: backend,
		encoder: NewEncoder(nil),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.meter != nil {
		m, err := newStoreMetrics(s.meter)
		if err != nil {
			s.logger.Warn("store metrics disabled", "error", err)
		}
		s.metrics = m
	}
	return s
}

// Encoder returns the encoder used for documents.
func (s *DocumentStore) Encoder() *Encoder { return s.encoder }

func (s *DocumentStore) Put(ctx context.Context, o *MetaObject) (err error) {
	const op = "store.Put"
	if o == nil {
		return metaprop.NewValidationError(op, fmt.Errorf("%w: nil object", metaprop.ErrInvalidObject))
	}
	ctx, done := s.begin(ctx, op, o.ID)
	defer func() { done(err) }()

	if s.closed.Load() {
		return metaprop.NewStorageError(op, metaprop.ErrClosed)
	}
	if err := o.Validate(); err != nil {
		return metaprop.NewValidationError(op, fmt.Errorf("%w: %w", metaprop.ErrInvalidObject, err)).
			WithContext(map[string]any{"id": o.ID.String()})
	}
	data, err := s.encoder.Marshal(o)
	if err != nil {
		return metaprop.NewSerializationError(op, err)
	}
	if err := s.backend.Put(ctx, o.ID.String(), data); err != nil {
		return metaprop.NewStorageError(op, err)
	}
	s.logger.DebugContext(ctx, "stored object",
		"id", o.ID,
		"backend", s.backend.Name(),
		"bytes", len(data))
	return nil
}

func (s *DocumentStore) Get(ctx context.Context, id uuid.UUID) (_ *MetaObject, err error) {
	const op = "store.Get"
	ctx, done := s.begin(ctx, op, id)
	defer func() { done(err) }()

	if s.closed.Load() {
		return nil, metaprop.NewStorageError(op, metaprop.ErrClosed)
	}
	data, err := s.backend.Get(ctx, id.String())
	if err != nil {
		return nil, s.backendError(op, id, err)
	}
	o, err := s.encoder.Unmarshal(data)
	if err != nil {
		return nil, metaprop.NewSerializationError(op, err).WithContext(map[string]any{"id": id.String()})
	}
	s.logger.DebugContext(ctx, "loaded object", "id", id, "backend", s.backend.Name())
	return o, nil
}

func (s *DocumentStore) Delete(ctx context.Context, id uuid.UUID) (err error) {
	const op = "store.Delete"
	ctx, done := s.begin(ctx, op, id)
	defer func() { done(err) }()

	if s.closed.Load() {
		return metaprop.NewStorageError(op, metaprop.ErrClosed)
	}
	if err := s.backend.Delete(ctx, id.String()); err != nil {
		return s.backendError(op, id, err)
	}
	s.logger.DebugContext(ctx, "deleted object", "id", id, "backend", s.backend.Name())
	return nil
}

func (s *DocumentStore) List(ctx context.Context) (_ []uuid.UUID, err error) {
	const op = "store.List"
	ctx, done := s.begin(ctx, op, uuid.Nil)
	defer func() { done(err) }()

	if s.closed.Load() {
		return nil, metaprop.NewStorageError(op, metaprop.ErrClosed)
	}
	keys, err := s.backend.Keys(ctx)
	if err != nil {
		return nil, metaprop.NewStorageError(op, err)
	}
	ids := make([]uuid.UUID, 0, len(keys))
	for _, k := range keys {
		id, err := uuid.Parse(k)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping foreign key", "key", k, "backend", s.backend.Name())
			continue
		}
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	return ids, nil
}

// Close closes the backend. Further operations fail with metaprop.ErrClosed.
func (s *DocumentStore) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.backend.Close()
}

func (s *DocumentStore) backendError(op string, id uuid.UUID, err error) error {
	ctx := map[string]any{"id": id.String()}
	if errors.Is(err, metaprop.ErrNotFound) {
		return metaprop.NewNotFoundError(op, err).WithContext(ctx)
	}
	return metaprop.NewStorageError(op, err).WithContext(ctx)
}

// begin starts the span of op and returns the function recording its outcome.
func (s *DocumentStore) begin(ctx context.Context, op string, id uuid.UUID) (context.Context, func(error)) {
	start := time.Now()
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, op)
	}
	return ctx, func(err error) {
		s.record(ctx, span, op, id, time.Since(start), err)
	}
}

// Pinger is implemented by backends that can verify their connection.
type Pinger interface {
	Ping(ctx context.Context) error
}
