// Copyright (c) 2026 Martin Gerste <development@mgerste.dev>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package logrus is a provider for the logger package wrapping
// https://github.com/sirupsen/logrus.
// The underlying logrus can be configured by the exported Instance
// field.
package logrus

import (
	"github.com/mgerste/relq/logger"
	"github.com/sirupsen/logrus"
)

// New creates a new logrus provider.
func New() *provider {
	log := logrus.New()
	log.SetLevel(logrus.DebugLevel)
	return &provider{Instance: log}
}

type provider struct {
	Instance *logrus.Logger
}

func (p *provider) Log(entry logger.Entry) {
	switch entry.Level {
	case logger.DEBUG:
		p.Instance.WithFields(entry.Fields.Map()).Debug(entry.Message)
	case logger.INFO:
		p.Instance.WithFields(entry.Fields.Map()).Info(entry.Message)
	case logger.WARNING:
		p.Instance.WithFields(entry.Fields.Map()).Warning(entry.Message)
	case logger.ERROR:
		p.Instance.WithFields(entry.Fields.Map()).Error(entry.Message)
	}
}
