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

// Package telemetry sets up the zerolog logger shared by the trie's
// components.
package telemetry

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New creates a logger that writes structured, leveled log lines to
// stderr, timestamped in UTC.
func New(level zerolog.Level) zerolog.Logger {
	zerolog.TimestampFieldName = "ts"
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
	return zerolog.New(os.Stderr).With().Timestamp().Logger().Level(level)
}
