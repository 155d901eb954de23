package persist

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todo-go/internal/storage"
)

// ErrCorrupt is returned when a stored entry cannot be decoded or validated.
var ErrCorrupt = errors.New("corrupt stored value")

// RecoveryPolicy decides what hydration does with a corrupt entry.
type RecoveryPolicy int

const (
	// RecoverFail surfaces ErrCorrupt from Get.
	RecoverFail RecoveryPolicy = iota
	// RecoverReset falls back to the initial value.
	RecoverReset
)

// Option configures a State.
type Option[T any] func(*State[T])

// WithCodec replaces the default JSON codec.
func WithCodec[T any](c Codec[T]) Option[T] {
	return func(s *State[T]) { s.codec = c }
}

// WithValidator checks the raw stored bytes before they are decoded.
func WithValidator[T any](fn func(raw []byte) error) Option[T] {
	return func(s *State[T]) { s.validate = fn }
}

// WithHydrateHook transforms a decoded value before it becomes current.
func WithHydrateHook[T any](fn func(T) T) Option[T] {
	return func(s *State[T]) { s.hydrate = fn }
}

// WithRecovery sets the corrupt-entry policy.
func WithRecovery[T any](p RecoveryPolicy) Option[T] {
	return func(s *State[T]) { s.recovery = p }
}

// WithObserver registers fn to run after every successful write.
func WithObserver[T any](fn func(T)) Option[T] {
	return func(s *State[T]) { s.observers = append(s.observers, fn) }
}

// WithLogger sets the logger used for hydration and write events.
func WithLogger[T any](l *log.Logger) Option[T] {
	return func(s *State[T]) { s.logger = l }
}

// State is a value of type T mirrored into a storage key.
// It is not safe for concurrent use.
type State[T any] struct {
	store   storage.Storage
	key     string
	initial T

	value  T
	loaded bool

	codec     Codec[T]
	validate  func([]byte) error
	hydrate   func(T) T
	recovery  RecoveryPolicy
	observers []func(T)
	logger    *log.Logger
}

// New returns a State for key backed by store. initial is used when the key
// holds no entry. No storage access happens until the first Get or Set.
func New[T any](store storage.Storage, key string, initial T, opts ...Option[T]) *State[T] {
	s := &State[T]{
		store:   store,
		key:     key,
		initial: initial,
		codec:   JSON[T]{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	return s
}

// Key returns the storage key.
func (s *State[T]) Key() string {
	return s.key
}

// Loaded reports whether the state has been hydrated or set.
func (s *State[T]) Loaded() bool {
	return s.loaded
}

// Get returns the current value, hydrating from storage on first use.
func (s *State[T]) Get() (T, error) {
	if !s.loaded {
		if err := s.load(); err != nil {
			var zero T
			return zero, err
		}
	}
	return s.value, nil
}

// Set makes v the current value and writes it through to storage. If the
// write fails the previous value is restored.
func (s *State[T]) Set(v T) error {
	prev, prevLoaded := s.value, s.loaded
	s.value = v
	s.loaded = true

	data, err := s.codec.Encode(v)
	if err == nil {
		err = s.store.Set(s.key, data)
		if err != nil {
			err = fmt.Errorf("persist %s: %w", s.key, err)
		}
	} else {
		err = fmt.Errorf("encode %s: %w", s.key, err)
	}
	if err != nil {
		s.value, s.loaded = prev, prevLoaded
		return err
	}
	s.logger.Debug("persisted state", "key", s.key, "bytes", len(data))

	for _, fn := range s.observers {
		fn(v)
	}
	return nil
}

// Update applies fn to the current value and sets the result.
func (s *State[T]) Update(fn func(T) T) error {
	v, err := s.Get()
	if err != nil {
		return err
	}
	return s.Set(fn(v))
}

// Reset removes the stored entry and reverts to the initial value.
func (s *State[T]) Reset() error {
	if err := s.store.Delete(s.key); err != nil {
		return fmt.Errorf("reset %s: %w", s.key, err)
	}
	s.value = s.initial
	s.loaded = true
	s.logger.Debug("reset state", "key", s.key)
	return nil
}

func (s *State[T]) load() error {
	raw, ok, err := s.store.Get(s.key)
	if err != nil {
		return fmt.Errorf("hydrate %s: %w", s.key, err)
	}
	if !ok {
		s.value = s.initial
		s.loaded = true
		s.logger.Debug("no stored value, using initial", "key", s.key)
		return nil
	}

	v, err := s.decode(raw)
	if err != nil {
		if s.recovery == RecoverReset {
			s.logger.Warn("stored value is corrupt, using initial", "key", s.key, "err", err)
			s.value = s.initial
			s.loaded = true
			return nil
		}
		return fmt.Errorf("%w: %s: %w", ErrCorrupt, s.key, err)
	}

	s.value = v
	s.loaded = true
	s.logger.Debug("hydrated state", "key", s.key, "bytes", len(raw))
	return nil
}

func (s *State[T]) decode(raw []byte) (T, error) {
	var zero T
	if s.validate != nil {
		if err := s.validate(raw); err != nil {
			return zero, err
		}
	}
	v, err := s.codec.Decode(raw)
	if err != nil {
		return zero, err
	}
	if s.hydrate != nil {
		v = s.hydrate(v)
	}
	return v, nil
}
