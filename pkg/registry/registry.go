// Package registry manages custom node kinds and their payload decoders.
package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/avelar0/kinmap/pkg/domain"
)

// DecodeFunc turns a node's free-form payload bag into a typed value.
// It receives a context and the node, and returns the decoded value or error.
type DecodeFunc func(ctx context.Context, node domain.Person) (any, error)

// Registry manages the registered node kinds.
type Registry struct {
	mu       sync.RWMutex
	decoders map[domain.NodeKind]DecodeFunc
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		decoders: make(map[domain.NodeKind]DecodeFunc),
	}
}

// Register adds a node kind to the registry.
// If a decoder for the same kind exists, it is overwritten.
func (r *Registry) Register(kind domain.NodeKind, fn DecodeFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decoders[kind] = fn
}

// Decode looks up the decoder for the node's kind and runs it.
// Returns an error if the kind is not registered.
func (r *Registry) Decode(ctx context.Context, node domain.Person) (any, error) {
	r.mu.RLock()
	fn, ok := r.decoders[node.Kind]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("node kind not registered: %s", node.Kind)
	}

	return fn(ctx, node)
}

// Typed builds a DecodeFunc that decodes the payload into a fresh T using
// the document's mapstructure conventions.
func Typed[T any]() DecodeFunc {
	return func(ctx context.Context, node domain.Person) (any, error) {
		var out T
		if err := domain.DecodePayload(node, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
}
