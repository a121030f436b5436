// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mgerste/relq/config"
	"github.com/mgerste/relq/registry"
	"github.com/stretchr/testify/assert"
)

// fakeProvider records the Parse arguments and returns a canned error.
type fakeProvider struct {
	cfg     interface{}
	options interface{}
	err     error
}

func (f *fakeProvider) Parse(cfg interface{}, options interface{}) error {
	f.cfg = cfg
	f.options = options
	return f.err
}

func TestLoad(t *testing.T) {
	asserts := assert.New(t)

	type Config struct {
		Name string
	}
	cfg := Config{}
	options := "something"
	provider := &fakeProvider{}

	err := registry.Set("config-fake", provider)
	asserts.NoError(err)
	err = registry.Set("config-err-interface", "")
	asserts.NoError(err)

	// error: load - with no config pointer
	err = config.Load("config-fake", cfg, options)
	asserts.Error(err)
	asserts.Equal(config.ErrPointer, err)

	// error: load - wrong type
	err = config.Load("config-err-interface", &cfg, options)
	asserts.Error(err)
	asserts.Equal(config.ErrInterface, err)

	// error: load - provider does not exist
	err = config.Load("config-not-existing", &cfg, options)
	asserts.Error(err)
	asserts.Equal(fmt.Errorf("config: %w", errors.Unwrap(err)), err)

	// error: load - provider error
	provider.err = errors.New("an error")
	err = config.Load("config-fake", &cfg, options)
	asserts.Error(err)
	asserts.Equal(errors.New("an error"), err)

	// ok: provider is called with the given arguments
	provider.err = nil
	err = config.Load("config-fake", &cfg, options)
	asserts.NoError(err)
	asserts.Equal(&cfg, provider.cfg)
	asserts.Equal(options, provider.options)
}
