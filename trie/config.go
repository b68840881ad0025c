// Copyright 2021 Optakt Labs OÜ
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package trie

import (
	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
)

// Default configuration values.
const (
	DefaultStoreCapacityHint = 0
	DefaultLogLevel          = zerolog.InfoLevel
	DefaultLogHashingPass    = false
)

// Config configures a Tree.
type Config struct {
	StoreCapacityHint int `validate:"gte=0"`
	LogLevel          zerolog.Level
	LogHashingPass    bool
}

// Option is a function that modifies a configuration.
type Option func(*Config)

// DefaultConfig is the tree's default configuration.
var DefaultConfig = Config{
	StoreCapacityHint: DefaultStoreCapacityHint,
	LogLevel:          DefaultLogLevel,
	LogHashingPass:    DefaultLogHashingPass,
}

// WithStoreCapacityHint pre-sizes the node store for the given number of
// branches.
func WithStoreCapacityHint(n int) Option {
	return func(cfg *Config) {
		cfg.StoreCapacityHint = n
	}
}

// WithLogLevel sets the verbosity of the tree's diagnostic logging.
func WithLogLevel(level zerolog.Level) Option {
	return func(cfg *Config) {
		cfg.LogLevel = level
	}
}

// WithHashingPassLogging turns on start/finish log lines around every
// CalculateHash call, useful when tracing why a pass is slow. The lines are
// logged at debug level, so they appear only when the log level is Debug or
// lower.
func WithHashingPassLogging() Option {
	return func(cfg *Config) {
		cfg.LogHashingPass = true
	}
}

var configValidate = validator.New()

// newConfig builds a Config from DefaultConfig plus opts, returning an
// error if the result fails validation.
func newConfig(opts ...Option) (Config, error) {
	cfg := DefaultConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var merr *multierror.Error
	if err := configValidate.Struct(c); err != nil {
		merr = multierror.Append(merr, err)
	}
	return merr.ErrorOrNil()
}
