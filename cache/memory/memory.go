// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package memory implements the cache.Interface and registers an in-memory provider.
// All operations are synchronized with a sync.RWMutex.
package memory

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mgerste/relq/cache"
)

// init registers the memory provider.
func init() {
	err := cache.Register(cache.MEMORY, New)
	if err != nil {
		log.Fatal(err)
	}
}

// defaults
const (
	defaultGCInterval = 5 * time.Minute
)

// Error messages
var (
	ErrNameNotExist = "memory: name %v does not exist"
)

// Options for the memory provider.
type Options struct {
	// GCInterval defines how often the GC will run (default: every 5 minutes).
	GCInterval time.Duration
}

// New creates a memory cache by the given options.
func New(opt interface{}) (cache.Interface, error) {
	options := Options{GCInterval: defaultGCInterval}
	if opt != nil {
		if o, ok := opt.(Options); ok && o.GCInterval > 0 {
			options.GCInterval = o.GCInterval
		}
	}

	return &memory{options: options, items: make(map[string]item)}, nil
}

// memory cache provider.
type memory struct {
	mutex   sync.RWMutex
	options Options
	items   map[string]item
}

// Get returns the value of the given name.
// Error will return if the name does not exist or the item is expired.
func (m *memory) Get(name string) (cache.Item, error) {
	m.mutex.RLock()
	itm, ok := m.items[name]
	m.mutex.RUnlock()

	if !ok || itm.expired() {
		return nil, fmt.Errorf(ErrNameNotExist, name)
	}

	return &itm, nil
}

// All returns all items of the cache.
func (m *memory) All() ([]cache.Item, error) {
	m.mutex.RLock()
	var items []cache.Item
	for i := range m.items {
		itm := m.items[i]
		items = append(items, &itm)
	}
	m.mutex.RUnlock()

	return items, nil
}

// Set a key/value pair.
// The expiration can be set by time.Duration or forever with cache.NoExpiration.
func (m *memory) Set(name string, value interface{}, exp time.Duration) error {
	m.mutex.Lock()
	m.items[name] = item{name: name, val: value, created: time.Now(), exp: exp}
	m.mutex.Unlock()

	return nil
}

// Delete removes a given name from the cache.
// Error will return if the name does not exist.
func (m *memory) Delete(name string) error {
	var err error
	m.mutex.Lock()
	_, ok := m.items[name]
	if ok {
		delete(m.items, name)
	} else {
		err = fmt.Errorf(ErrNameNotExist, name)
	}
	m.mutex.Unlock()

	return err
}

// DeleteAll removes all items from the cache.
func (m *memory) DeleteAll() error {
	m.mutex.Lock()
	m.items = make(map[string]item)
	m.mutex.Unlock()

	return nil
}

// GC is an infinite loop. The loop will rerun after the interval time
// which can be set in the options (default 5 minutes).
func (m *memory) GC() {
	for {
		<-time.After(m.options.GCInterval)
		if keys := m.expiredKeys(); len(keys) != 0 {
			m.mutex.Lock()
			for _, key := range keys {
				delete(m.items, key)
			}
			m.mutex.Unlock()
		}
	}
}
