// Copyright 2025 hybrec Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package similarity

import (
	"runtime"
	"sync"
	"time"

	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/hybrec-io/hybrec/base/log"
	"github.com/hybrec-io/hybrec/base/parallel"
	"github.com/hybrec-io/hybrec/dataset"
)

// Kind selects the entity space a similarity is computed over.
type Kind int

const (
	// UserUser is the similarity between two users over co-rated items.
	UserUser Kind = iota
	// ItemItem is the similarity between two items over co-rating users.
	ItemItem
	// ItemContent is the cosine similarity between two item feature vectors.
	ItemContent
)

func (k Kind) String() string {
	switch k {
	case UserUser:
		return "user-user"
	case ItemItem:
		return "item-item"
	case ItemContent:
		return "item-content"
	default:
		return "unknown"
	}
}

type pairCache struct {
	mu     sync.RWMutex
	scores map[uint64]float64
}

func newPairCache() *pairCache {
	return &pairCache{scores: make(map[uint64]float64)}
}

func pairKey(a, b int) uint64 {
	if a > b {
		a, b = b, a
	}
	return uint64(a)<<32 | uint64(uint32(b))
}

func (c *pairCache) get(a, b int) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	score, ok := c.scores[pairKey(a, b)]
	return score, ok
}

func (c *pairCache) put(a, b int, score float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scores[pairKey(a, b)] = score
}

// Engine computes similarities over one snapshot and caches them for the
// snapshot's lifetime. Pairs are computed lazily on first query; Precompute
// fills a full pairwise matrix in parallel. The engine never mutates the
// snapshot, so queries are safe from concurrent goroutines.
type Engine struct {
	snapshot *dataset.Snapshot
	metric   Func
	caches   [3]*pairCache
}

// NewEngine creates an engine over a snapshot. The metric applies to user-user
// and item-item similarity; item-content similarity is always cosine.
func NewEngine(snapshot *dataset.Snapshot, metric Func) *Engine {
	return &Engine{
		snapshot: snapshot,
		metric:   metric,
		caches:   [3]*pairCache{newPairCache(), newPairCache(), newPairCache()},
	}
}

// UserSimilarity returns the similarity between two users. The self-similarity
// of a user with at least one rating is one; a cold user has zero
// self-similarity.
func (e *Engine) UserSimilarity(a, b int) float64 {
	matrix := e.snapshot.Matrix()
	if a == b {
		if matrix.UserRatings(a).Len() == 0 {
			return 0
		}
		return 1
	}
	if score, ok := e.caches[UserUser].get(a, b); ok {
		return score
	}
	score := e.metric(matrix.UserRatings(a), matrix.UserRatings(b))
	e.caches[UserUser].put(a, b, score)
	return score
}

// ItemSimilarity returns the similarity between two items over co-rating users.
func (e *Engine) ItemSimilarity(a, b int) float64 {
	matrix := e.snapshot.Matrix()
	if a == b {
		if matrix.ItemRatings(a).Len() == 0 {
			return 0
		}
		return 1
	}
	if score, ok := e.caches[ItemItem].get(a, b); ok {
		return score
	}
	score := e.metric(matrix.ItemRatings(a), matrix.ItemRatings(b))
	e.caches[ItemItem].put(a, b, score)
	return score
}

// ContentSimilarity returns the cosine similarity between the feature vectors
// of two items. Items without content have zero similarity with everything,
// themselves included.
func (e *Engine) ContentSimilarity(a, b int) float64 {
	features := e.snapshot.Features()
	if a == b {
		if features.Get(a).Norm() == 0 {
			return 0
		}
		return 1
	}
	if score, ok := e.caches[ItemContent].get(a, b); ok {
		return score
	}
	score := features.Get(a).Cosine(features.Get(b))
	e.caches[ItemContent].put(a, b, score)
	return score
}

// Precompute fills the pairwise similarity cache of a kind. Rows are
// independent and computed in parallel by nWorkers workers; zero means one
// worker per CPU.
func (e *Engine) Precompute(kind Kind, nWorkers int) error {
	start := time.Now()
	if nWorkers <= 0 {
		nWorkers = runtime.NumCPU()
	}
	matrix := e.snapshot.Matrix()
	var n int
	var compute func(a, b int) float64
	switch kind {
	case UserUser:
		n = matrix.CountUsers()
		compute = func(a, b int) float64 {
			return e.metric(matrix.UserRatings(a), matrix.UserRatings(b))
		}
	case ItemItem:
		n = matrix.CountItems()
		compute = func(a, b int) float64 {
			return e.metric(matrix.ItemRatings(a), matrix.ItemRatings(b))
		}
	case ItemContent:
		n = matrix.CountItems()
		compute = func(a, b int) float64 {
			return e.snapshot.Features().Get(a).Cosine(e.snapshot.Features().Get(b))
		}
	default:
		return errors.Errorf("unknown similarity kind %v", kind)
	}
	cache := e.caches[kind]
	err := parallel.Parallel(n, nWorkers, func(_, i int) error {
		// Collect the row before taking the write lock.
		scores := make([]float64, 0, n-i-1)
		for j := i + 1; j < n; j++ {
			scores = append(scores, compute(i, j))
		}
		cache.mu.Lock()
		defer cache.mu.Unlock()
		for j := i + 1; j < n; j++ {
			cache.scores[pairKey(i, j)] = scores[j-i-1]
		}
		return nil
	})
	if err != nil {
		return errors.Trace(err)
	}
	log.Logger().Info("similarity matrix computed",
		zap.String("kind", kind.String()),
		zap.Int("n_entities", n),
		zap.Duration("used_time", time.Since(start)))
	return nil
}
