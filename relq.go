// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package relq wires the query builder, its dialects and the ambient stack
// (config, logger, cache) behind a single entry point.
//
// Applications that need more control can use the sub packages directly;
// Open and OpenFile only bundle the common bootstrap.
package relq

import (
	"fmt"
	"sync"
	"time"

	"github.com/mgerste/relq/cache"
	"github.com/mgerste/relq/cache/memory"
	"github.com/mgerste/relq/config"
	"github.com/mgerste/relq/config/viper"
	"github.com/mgerste/relq/logger"
	"github.com/mgerste/relq/logger/logrus"
	"github.com/mgerste/relq/query"
)

// defaultLogger name in the logger registry.
const defaultLogger = "relq"

// Error messages.
var (
	ErrConfig = "relq: config %#v is mandatory"
)

// Configuration for a database connection with its ambient providers.
// It can be embedded in an application config.
type Configuration struct {
	Database query.Config
	Cache    cacheConfiguration
}

type cacheConfiguration struct {
	Provider   string
	GCInterval int
	Expiration int
}

// Open connects the configured database provider and attaches a logger.
// If a cache provider is configured, the returned introspect is backed by
// it, otherwise introspection hits the database on every call.
func Open(cfg Configuration) (query.Dialect, error) {
	if cfg.Database.Provider == "" {
		return nil, fmt.Errorf(ErrConfig, "database:provider")
	}

	lg, err := log()
	if err != nil {
		return nil, err
	}

	d, err := query.New(cfg.Database.Provider, cfg.Database)
	if err != nil {
		return nil, err
	}
	d.SetLogger(lg)
	return d, nil
}

// OpenFile loads the configuration from the given file with the viper
// provider and connects. The file type is derived from the extension.
func OpenFile(file string) (query.Dialect, Configuration, error) {
	var cfg Configuration
	err := config.Load(config.VIPER, &cfg, viper.Options{FileName: file})
	if err != nil {
		return nil, cfg, err
	}

	d, err := Open(cfg)
	return d, cfg, err
}

// Cache creates the configured cache manager.
// Error will return if no provider was configured.
func Cache(cfg Configuration) (cache.Manager, error) {
	if cfg.Cache.Provider == "" {
		return nil, fmt.Errorf(ErrConfig, "cache:provider")
	}

	var options interface{}
	if cfg.Cache.Provider == cache.MEMORY && cfg.Cache.GCInterval > 0 {
		options = memory.Options{GCInterval: time.Duration(cfg.Cache.GCInterval) * time.Second}
	}

	m, err := cache.New(cfg.Cache.Provider, options)
	if err != nil {
		return nil, err
	}
	if cfg.Cache.Expiration > 0 {
		m.SetDefaultExpiration(time.Duration(cfg.Cache.Expiration) * time.Second)
	}
	return m, nil
}

// Introspect creates a schema introspect for the dialect, backed by the
// configured cache if one is set.
func Introspect(d query.Dialect, cfg Configuration) (*query.Introspect, error) {
	i := query.NewIntrospect(d)
	if cfg.Cache.Provider != "" {
		c, err := Cache(cfg)
		if err != nil {
			return nil, err
		}
		i.SetCache(c, cache.DefaultExpiration)
	}
	return i, nil
}

var logOnce sync.Once
var logErr error

// log returns the shared logrus backed logger, registering it on first use.
func log() (logger.Manager, error) {
	logOnce.Do(func() {
		logErr = logger.Register(defaultLogger, logrus.New())
	})
	if logErr != nil {
		return nil, logErr
	}
	return logger.Get(defaultLogger)
}
