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

// Package metrics exposes prometheus collectors for the trie's own
// operations. It carries no HTTP server or scrape endpoint: wiring a
// registry up to a handler is left to the embedding application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Inserts counts calls to Tree.Insert.
	Inserts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kvmerkletrie_inserts_total",
		Help: "number of keys inserted into the trie",
	})

	// LeafSplits counts restructuring operations that insert a new branch
	// between a parent and a diverging leaf.
	LeafSplits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kvmerkletrie_leaf_splits_total",
		Help: "number of leaf-split restructuring operations",
	})

	// BranchSplits counts restructuring operations that insert a new
	// branch above a diverging extension.
	BranchSplits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kvmerkletrie_branch_splits_total",
		Help: "number of branch-split restructuring operations",
	})

	// HashingPassDuration records how long each CalculateHash call takes,
	// in seconds.
	HashingPassDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kvmerkletrie_hashing_pass_duration_seconds",
		Help:    "duration of a CalculateHash depth-first recompute pass",
		Buckets: prometheus.DefBuckets,
	})
)
