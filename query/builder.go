// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package query provides a programmatic sql generator with a vendor
// dialect abstraction.
//
// Commands are built from expression trees against a schema definition
// and rendered per dialect. Vendors register themselves with a factory,
// shared behaviour lives in Base and is overridden where the vendor
// differs.
package query

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/mgerste/relq/registry"
)

// internal registry prefix.
const registryPrefix = "query_"

type dialectFn func(Config) (Dialect, error)

// Register a dialect provider.
func Register(name string, fn dialectFn) error {
	return registry.Set(registryPrefix+name, fn)
}

// New creates the named dialect with the given configuration and opens
// the connection.
// Error will return if the dialect was not registered, the configuration
// is incomplete or the connect fails.
func New(name string, config Config) (Dialect, error) {

	// check if the dialect is registered.
	r, err := registry.Get(registryPrefix + name)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	// mandatory config fields.
	config.Provider = name
	err = validator.New().Struct(config)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	// get the dialect instance.
	d, err := r.(dialectFn)(config)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	// open the connection.
	err = d.Open()
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	return d, nil
}
