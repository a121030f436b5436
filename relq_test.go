// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package relq_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	relq "github.com/mgerste/relq"
	"github.com/mgerste/relq/cache"
)

// TestOpen tests that a missing database provider returns an error.
func TestOpen(t *testing.T) {
	asserts := assert.New(t)

	d, err := relq.Open(relq.Configuration{})
	asserts.Error(err)
	asserts.Nil(d)
	asserts.Equal(fmt.Sprintf(relq.ErrConfig, "database:provider"), err.Error())
}

// TestCache tests:
// - the configured memory cache manager is created.
// - a missing provider returns an error.
func TestCache(t *testing.T) {
	asserts := assert.New(t)

	cfg := relq.Configuration{}
	cfg.Cache.Provider = cache.MEMORY
	cfg.Cache.GCInterval = 60
	cfg.Cache.Expiration = 10

	m, err := relq.Cache(cfg)
	asserts.NoError(err)
	asserts.NotNil(m)

	m, err = relq.Cache(relq.Configuration{})
	asserts.Error(err)
	asserts.Nil(m)
	asserts.Equal(fmt.Sprintf(relq.ErrConfig, "cache:provider"), err.Error())
}

// TestIntrospect tests that the introspect is created with and without a
// configured cache.
func TestIntrospect(t *testing.T) {
	asserts := assert.New(t)

	i, err := relq.Introspect(nil, relq.Configuration{})
	asserts.NoError(err)
	asserts.NotNil(i)

	cfg := relq.Configuration{}
	cfg.Cache.Provider = cache.MEMORY
	i, err = relq.Introspect(nil, cfg)
	asserts.NoError(err)
	asserts.NotNil(i)
}
