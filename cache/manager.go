// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cache

import (
	"fmt"
	"sync"
	"time"
)

const prefixSeparator = "_"

var ErrNotExist = "cache: item or prefix %s does not exist"

// Manager for cache operations.
type Manager interface {
	Get(prefix string, name string) (Item, error)
	Prefix(prefix string) ([]Item, error)
	All() ([]Item, error)
	Set(prefix string, name string, value interface{}, exp time.Duration) error
	Exist(prefix string, name string) bool
	Delete(prefix string, name string) error
	DeletePrefix(prefix string) error
	DeleteAll() error

	HitCount(prefix string, name string) int
	MissCount(prefix string, name string) int

	SetDefaultPrefix(string)
	SetDefaultExpiration(duration time.Duration)
}

// manager holds default values, statistics and the prefix index.
type manager struct {
	defaultPrefix     string
	defaultExpiration time.Duration

	mu         sync.Mutex
	provider   Interface
	prefixes   map[string][]string
	statistics map[string]counter
}

// counter for the cache statistics.
type counter struct {
	hit  int
	miss int
}

// newManager returns a Manager with initialized data.
func newManager(provider Interface) Manager {
	return &manager{
		defaultExpiration: 1 * time.Hour,
		provider:          provider,
		prefixes:          make(map[string][]string),
		statistics:        make(map[string]counter),
	}
}

// SetDefaultPrefix for cache items.
func (m *manager) SetDefaultPrefix(prefix string) {
	m.defaultPrefix = prefix
}

// SetDefaultExpiration for cache items.
func (m *manager) SetDefaultExpiration(exp time.Duration) {
	m.defaultExpiration = exp
}

// Get returns an Item by its prefix and name.
// Error will return if it does not exist.
func (m *manager) Get(prefix string, name string) (Item, error) {
	pName := m.prefixedName(prefix, name)
	i, err := m.provider.Get(pName)
	if err != nil {
		m.count(pName, false)
		return nil, fmt.Errorf("cache: %w", err)
	}

	m.count(pName, true)
	return i, nil
}

// Prefix returns all items with that prefix.
// Error will return if the prefix does not exist.
func (m *manager) Prefix(prefix string) ([]Item, error) {
	m.mu.Lock()
	names, ok := m.prefixes[prefix]
	names = append([]string(nil), names...)
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf(ErrNotExist, prefix)
	}

	var items []Item
	for _, name := range names {
		i, err := m.Get(prefix, name)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, nil
}

// All returns every cached item of the provider.
func (m *manager) All() ([]Item, error) {
	items, err := m.provider.All()
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	return items, nil
}

// Set an item by its prefix, name, value and lifetime.
// cache.NoExpiration keeps the value forever, cache.DefaultExpiration
// uses the manager default.
func (m *manager) Set(prefix string, name string, value interface{}, exp time.Duration) error {
	m.addPrefixEntry(prefix, name)
	if exp == DefaultExpiration {
		exp = m.defaultExpiration
	}
	err := m.provider.Set(m.prefixedName(prefix, name), value, exp)
	if err != nil {
		err = fmt.Errorf("cache: %w", err)
	}
	return err
}

// Exist wraps the Get() function but returns a boolean instead of an
// error.
func (m *manager) Exist(prefix string, name string) bool {
	_, err := m.Get(prefix, name)
	return err == nil
}

// Delete a value by its prefix and name.
// Error will return if it does not exist.
func (m *manager) Delete(prefix string, name string) error {
	pName := m.prefixedName(prefix, name)
	err := m.provider.Delete(pName)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}

	m.mu.Lock()
	m.deletePrefixEntry(prefix, name)
	delete(m.statistics, pName)
	m.mu.Unlock()
	return nil
}

// DeletePrefix(ed) items.
// Error will return if the prefix does not exist.
func (m *manager) DeletePrefix(prefix string) error {
	m.mu.Lock()
	names, ok := m.prefixes[prefix]
	names = append([]string(nil), names...)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf(ErrNotExist, prefix)
	}

	for _, name := range names {
		if err := m.Delete(prefix, name); err != nil {
			return err
		}
	}
	return nil
}

// DeleteAll items.
func (m *manager) DeleteAll() error {
	err := m.provider.DeleteAll()
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}

	m.mu.Lock()
	m.statistics = make(map[string]counter)
	m.prefixes = make(map[string][]string)
	m.mu.Unlock()
	return nil
}

// HitCount shows the hits of the cache item.
func (m *manager) HitCount(prefix string, name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statistics[m.prefixedName(prefix, name)].hit
}

// MissCount shows the missing hits of the cache item.
func (m *manager) MissCount(prefix string, name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statistics[m.prefixedName(prefix, name)].miss
}

// count increases the cache item statistic.
func (m *manager) count(name string, hit bool) {
	m.mu.Lock()
	c := m.statistics[name]
	if hit {
		c.hit++
	} else {
		c.miss++
	}
	m.statistics[name] = c
	m.mu.Unlock()
}

// addPrefixEntry adds the name to the prefix index once.
func (m *manager) addPrefixEntry(prefix string, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, v := range m.prefixes[prefix] {
		if v == name {
			return
		}
	}
	m.prefixes[prefix] = append(m.prefixes[prefix], name)
}

// deletePrefixEntry removes the name from the prefix index.
// The caller must hold the lock.
func (m *manager) deletePrefixEntry(prefix string, name string) {
	for i, v := range m.prefixes[prefix] {
		if v == name {
			m.prefixes[prefix] = append(m.prefixes[prefix][:i], m.prefixes[prefix][i+1:]...)
			break
		}
	}
	if len(m.prefixes[prefix]) == 0 {
		delete(m.prefixes, prefix)
	}
}

// prefixedName returns the name with a prefix and separator.
// If no prefix is set, the default prefix will be taken.
func (m *manager) prefixedName(prefix string, name string) string {
	if prefix == DefaultPrefix {
		prefix = m.defaultPrefix
	}
	if prefix != "" {
		prefix = prefix + prefixSeparator
	}
	return prefix + name
}
