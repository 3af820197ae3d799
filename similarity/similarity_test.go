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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hybrec-io/hybrec/dataset"
)

func newVector(indices []int, values []float64) *dataset.SparseVector {
	vec := dataset.NewSparseVector()
	for i := range indices {
		vec.Add(indices[i], values[i])
	}
	return vec
}

func TestCosine(t *testing.T) {
	a := newVector([]int{0, 1, 2}, []float64{1, 2, 3})
	b := newVector([]int{1, 2, 3}, []float64{4, 6, 8})
	// Co-rated indices are 1 and 2.
	assert.InDelta(t, 26.0/(3.605551*7.211103), Cosine(a, b), 1e-5)
	assert.Equal(t, Cosine(a, b), Cosine(b, a))

	parallel := newVector([]int{0, 1}, []float64{1, 2})
	scaled := newVector([]int{0, 1}, []float64{3, 6})
	assert.InDelta(t, 1.0, Cosine(parallel, scaled), 1e-8)

	disjoint := newVector([]int{7, 8}, []float64{1, 1})
	assert.Zero(t, Cosine(a, disjoint))
	assert.Zero(t, Cosine(a, newVector(nil, nil)))
}

func TestPearson(t *testing.T) {
	a := newVector([]int{0, 1, 2}, []float64{1, 2, 3})
	b := newVector([]int{0, 1, 2}, []float64{2, 4, 6})
	assert.InDelta(t, 1.0, Pearson(a, b), 1e-8)
	opposite := newVector([]int{0, 1, 2}, []float64{3, 2, 1})
	assert.InDelta(t, -1.0, Pearson(a, opposite), 1e-8)
	assert.Equal(t, Pearson(a, opposite), Pearson(opposite, a))

	// A constant vector has zero variance; fall back to cosine.
	constant := newVector([]int{0, 1, 2}, []float64{4, 4, 4})
	assert.Equal(t, Cosine(a, constant), Pearson(a, constant))
	assert.Zero(t, Pearson(a, newVector(nil, nil)))
}

func TestMSD(t *testing.T) {
	a := newVector([]int{0, 1}, []float64{3, 4})
	assert.InDelta(t, 1.0, MSD(a, newVector([]int{0, 1}, []float64{3, 4})), 1e-8)
	b := newVector([]int{0, 1}, []float64{4, 5})
	assert.InDelta(t, 0.5, MSD(a, b), 1e-8)
	assert.Equal(t, MSD(a, b), MSD(b, a))
	assert.Zero(t, MSD(a, newVector([]int{9}, []float64{1})))
}
