// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// storeItem implements the Item interface for the in-test provider.
type storeItem struct {
	name    string
	value   interface{}
	exp     time.Duration
	created time.Time
}

func (s storeItem) Name() string              { return s.name }
func (s storeItem) Value() interface{}        { return s.value }
func (s storeItem) Created() time.Time        { return s.created }
func (s storeItem) Expiration() time.Duration { return s.exp }

// storeProvider implements the Interface on a plain map.
type storeProvider struct {
	items map[string]storeItem
}

func newStoreProvider() *storeProvider {
	return &storeProvider{items: make(map[string]storeItem)}
}

func (s *storeProvider) Get(name string) (Item, error) {
	i, ok := s.items[name]
	if !ok {
		return nil, fmt.Errorf("store: %s does not exist", name)
	}
	return i, nil
}

func (s *storeProvider) All() ([]Item, error) {
	var items []Item
	for _, i := range s.items {
		items = append(items, i)
	}
	return items, nil
}

func (s *storeProvider) Set(name string, value interface{}, exp time.Duration) error {
	s.items[name] = storeItem{name: name, value: value, exp: exp, created: time.Now()}
	return nil
}

func (s *storeProvider) Delete(name string) error {
	if _, ok := s.items[name]; !ok {
		return fmt.Errorf("store: %s does not exist", name)
	}
	delete(s.items, name)
	return nil
}

func (s *storeProvider) DeleteAll() error {
	s.items = make(map[string]storeItem)
	return nil
}

func (s *storeProvider) GC() {}

// TestManager_Set tests:
// - the default prefix is applied on empty prefixes.
// - DefaultExpiration is replaced with the manager default.
// - the prefix index is built correctly.
func TestManager_Set(t *testing.T) {
	asserts := assert.New(t)

	provider := newStoreProvider()
	m := newManager(provider).(*manager)
	m.SetDefaultPrefix("testing")
	m.SetDefaultExpiration(3 * time.Hour)

	asserts.NoError(m.Set(DefaultPrefix, "foo", "bar", NoExpiration))
	asserts.NoError(m.Set("names", "john", "doe", DefaultExpiration))
	asserts.NoError(m.Set("names", "john2", "doe", DefaultExpiration))
	// re-assigning must not duplicate the prefix index entry.
	asserts.NoError(m.Set("names", "john", "doe2", DefaultExpiration))

	// provider keys carry the (default) prefix.
	asserts.Equal("bar", provider.items["testing_foo"].value)
	asserts.Equal("doe2", provider.items["names_john"].value)

	// DefaultExpiration was replaced with the manager default.
	asserts.Equal(3*time.Hour, provider.items["names_john"].exp)
	asserts.Equal(time.Duration(NoExpiration), provider.items["testing_foo"].exp)

	expectedPrefixes := map[string][]string{"": {"foo"}, "names": {"john", "john2"}}
	asserts.Equal(fmt.Sprint(expectedPrefixes), fmt.Sprint(m.prefixes))
}

// TestManager_GetExist tests:
// - Get returns the cached item and increases the hit counter.
// - missing items return an error and increase the miss counter.
// - Exist wraps Get.
func TestManager_GetExist(t *testing.T) {
	asserts := assert.New(t)

	m := newManager(newStoreProvider()).(*manager)
	asserts.NoError(m.Set("names", "john", "doe", NoExpiration))

	item, err := m.Get("names", "john")
	asserts.NoError(err)
	asserts.Equal("doe", item.Value())
	asserts.Equal(1, m.HitCount("names", "john"))
	asserts.Equal(0, m.MissCount("names", "john"))

	item, err = m.Get("names", "jane")
	asserts.Error(err)
	asserts.Nil(item)
	asserts.Equal(0, m.HitCount("names", "jane"))
	asserts.Equal(1, m.MissCount("names", "jane"))

	asserts.True(m.Exist("names", "john"))
	asserts.False(m.Exist("names", "jane"))
	asserts.Equal(2, m.HitCount("names", "john"))
	asserts.Equal(2, m.MissCount("names", "jane"))
}

// TestManager_Prefix tests:
// - Prefix returns all items of the prefix.
// - a none existing prefix returns an error.
func TestManager_Prefix(t *testing.T) {
	asserts := assert.New(t)

	m := newManager(newStoreProvider()).(*manager)
	asserts.NoError(m.Set("names", "john", "doe", NoExpiration))
	asserts.NoError(m.Set("names", "jane", "doe", NoExpiration))
	asserts.NoError(m.Set("cities", "vienna", 1, NoExpiration))

	items, err := m.Prefix("names")
	asserts.NoError(err)
	asserts.Len(items, 2)

	items, err = m.Prefix("countries")
	asserts.Error(err)
	asserts.Nil(items)
	asserts.Equal(fmt.Sprintf(ErrNotExist, "countries"), err.Error())
}

// TestManager_Delete tests:
// - Delete removes the item, its statistic and the prefix index entry.
// - DeletePrefix removes every item of the prefix.
// - DeleteAll resets the manager state.
func TestManager_Delete(t *testing.T) {
	asserts := assert.New(t)

	provider := newStoreProvider()
	m := newManager(provider).(*manager)
	asserts.NoError(m.Set("names", "john", "doe", NoExpiration))
	asserts.NoError(m.Set("names", "jane", "doe", NoExpiration))
	asserts.NoError(m.Set("cities", "vienna", 1, NoExpiration))
	asserts.True(m.Exist("names", "john"))

	asserts.NoError(m.Delete("names", "john"))
	asserts.Equal(0, m.HitCount("names", "john"))
	asserts.Equal(fmt.Sprint(map[string][]string{"names": {"jane"}, "cities": {"vienna"}}), fmt.Sprint(m.prefixes))
	// deleting it twice returns the provider error.
	asserts.Error(m.Delete("names", "john"))

	asserts.NoError(m.DeletePrefix("names"))
	asserts.Error(m.DeletePrefix("names"))
	_, ok := provider.items["names_jane"]
	asserts.False(ok)
	_, ok = provider.items["cities_vienna"]
	asserts.True(ok)

	asserts.NoError(m.DeleteAll())
	asserts.Len(provider.items, 0)
	asserts.Len(m.prefixes, 0)
	asserts.Len(m.statistics, 0)
}

// TestManager_All tests if all provider items return.
func TestManager_All(t *testing.T) {
	asserts := assert.New(t)

	m := newManager(newStoreProvider()).(*manager)
	asserts.NoError(m.Set("names", "john", "doe", NoExpiration))
	asserts.NoError(m.Set("names", "jane", "doe", NoExpiration))

	items, err := m.All()
	asserts.NoError(err)
	asserts.Len(items, 2)
}
