package main

import (
	"context"
	"sync"
)

// kvs is an in-memory implementation of generated.KvsService. It holds
// its own lock even though the dispatch loop already serializes calls
// onto one goroutine, so that a future change to the concurrency model
// doesn't silently reintroduce a data race here.
type kvs struct {
	mu    sync.Mutex
	store map[string]any
}

func newKVS() *kvs {
	return &kvs{store: make(map[string]any)}
}

func (k *kvs) Store(_ context.Context, key string, value any) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.store[key] = value
	return nil
}

func (k *kvs) Load(_ context.Context, key string) (any, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.store[key], nil
}

func (k *kvs) Remove(_ context.Context, key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.store, key)
	return nil
}

func (k *kvs) Exists(_ context.Context, key string) (bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	_, ok := k.store[key]
	return ok, nil
}
