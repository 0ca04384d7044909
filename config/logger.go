/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"io"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/suparena/crudstore/errors"
)

// ParseLevel parses a logrus level, defaulting to info when empty
func ParseLevel(level string) (logrus.Level, error) {
	if level == "" {
		return logrus.InfoLevel, nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return 0, pkgerrors.Wrapf(errors.ErrInvalidConfig, "log level %q", level)
	}
	return lvl, nil
}

// NewLogger builds the logger described by c, writing to out
func (c Log) NewLogger(out io.Writer) (*logrus.Logger, error) {
	lvl, err := ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(lvl)
	if c.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log, nil
}
