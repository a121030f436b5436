// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package memory

import (
	"time"

	"github.com/mgerste/relq/cache"
)

// item implements the cache.Item interface.
type item struct {
	name string
	val  interface{}

	exp     time.Duration // expiration time
	created time.Time     // creation time
}

// Name returns the cache name.
func (i *item) Name() string {
	return i.name
}

// Value returns the cached value.
func (i *item) Value() interface{} {
	return i.val
}

// Created returns the cache creation time.
func (i *item) Created() time.Time {
	return i.created
}

// Expiration returns the cache lifetime.
func (i *item) Expiration() time.Duration {
	return i.exp
}

// expired returns true if the value is expired.
func (i item) expired() bool {
	if i.exp == cache.NoExpiration {
		return false
	}
	return time.Since(i.created) > i.exp
}

// expiredKeys returns all expired cache items by name.
func (m *memory) expiredKeys() (names []string) {
	m.mutex.RLock()
	for _, itm := range m.items {
		if itm.expired() {
			names = append(names, itm.Name())
		}
	}
	m.mutex.RUnlock()
	return names
}
