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

// Package similarity computes pairwise similarities between users and items
// over one snapshot. Scores of correlation metrics lie in [-1, 1], cosine
// scores in [0, 1]. All metrics are symmetric.
package similarity

import (
	"math"

	"github.com/hybrec-io/hybrec/dataset"
)

// Func computes the similarity between a pair of sparse vectors.
type Func func(a, b *dataset.SparseVector) float64

// Cosine computes the cosine similarity between a pair of users (or items)
// over their co-rated set. An empty co-rated set yields zero.
func Cosine(a, b *dataset.SparseVector) float64 {
	m, n, l := .0, .0, .0
	a.ForIntersection(b, func(_ int, a, b float64) {
		m += a * a
		n += b * b
		l += a * b
	})
	if m == 0 || n == 0 {
		return 0
	}
	return l / (math.Sqrt(m) * math.Sqrt(n))
}

// Pearson computes the Pearson correlation coefficient between a pair of users
// (or items) over their co-rated set. When either side has zero variance on
// the co-rated set, the correlation is undefined and the cosine similarity is
// used instead.
func Pearson(a, b *dataset.SparseVector) float64 {
	meanA := a.Mean()
	meanB := b.Mean()
	// Mean-centered cosine
	m, n, l := .0, .0, .0
	a.ForIntersection(b, func(_ int, a, b float64) {
		ratingA := a - meanA
		ratingB := b - meanB
		m += ratingA * ratingA
		n += ratingB * ratingB
		l += ratingA * ratingB
	})
	if m == 0 || n == 0 {
		return Cosine(a, b)
	}
	return l / (math.Sqrt(m) * math.Sqrt(n))
}

// MSD computes the Mean Squared Difference similarity between a pair of users
// (or items) over their co-rated set.
func MSD(a, b *dataset.SparseVector) float64 {
	count, sum := 0.0, 0.0
	a.ForIntersection(b, func(_ int, a, b float64) {
		sum += (a - b) * (a - b)
		count++
	})
	if count == 0 {
		return 0
	}
	return 1.0 / (sum/count + 1)
}
