// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package registry provides a simple container for provider factories
// in the application space. Dialects, loggers and caches register
// themselves under a prefixed name at init time.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Error messages
var (
	ErrUnknownEntry       = "registry: unknown registry name %#v, maybe you forgot to set it"
	ErrMandatoryArguments = errors.New("registry: one or more arguments have a zero-value")
	ErrAlreadyExists      = "registry: %v is already registered"
)

var (
	mu       sync.RWMutex
	registry = make(map[string]interface{})
)

// Set a value by name.
// The name and value argument must have a non-zero value, and the
// registered name must be unique.
func Set(name string, value interface{}) error {
	if value == nil || name == "" {
		return ErrMandatoryArguments
	}

	mu.Lock()
	defer mu.Unlock()

	if _, exists := registry[name]; exists {
		return fmt.Errorf(ErrAlreadyExists, name)
	}
	registry[name] = value
	return nil
}

// Get returns the value by the registered name.
// If the registry name does not exist, an error will return.
func Get(name string) (interface{}, error) {
	mu.RLock()
	defer mu.RUnlock()

	v, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf(ErrUnknownEntry, name)
	}
	return v, nil
}

// Exists reports whether the name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := registry[name]
	return ok
}

// Prefix returns the sorted names of all entries starting with the
// prefix. If none was found, nil will return.
func Prefix(prefix string) []string {
	mu.RLock()
	defer mu.RUnlock()

	var rv []string
	for n := range registry {
		if strings.HasPrefix(n, prefix) {
			rv = append(rv, n)
		}
	}
	sort.Strings(rv)
	return rv
}
