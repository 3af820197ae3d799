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

package dataset

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// SparseVector is the data structure for a sparse vector. Indices are dense
// user or item indices, values are ratings. Absence of an index means unrated,
// never zero.
type SparseVector struct {
	Indices []int
	Values  []float64
	sorted  bool
}

// NewSparseVector creates a SparseVector.
func NewSparseVector() *SparseVector {
	return &SparseVector{
		Indices: make([]int, 0),
		Values:  make([]float64, 0),
	}
}

// Add a new element.
func (vec *SparseVector) Add(index int, value float64) {
	vec.Indices = append(vec.Indices, index)
	vec.Values = append(vec.Values, value)
	vec.sorted = false
}

// Len returns the number of elements.
func (vec *SparseVector) Len() int {
	if vec == nil {
		return 0
	}
	return len(vec.Values)
}

func (vec *SparseVector) Less(i, j int) bool {
	return vec.Indices[i] < vec.Indices[j]
}

func (vec *SparseVector) Swap(i, j int) {
	vec.Indices[i], vec.Indices[j] = vec.Indices[j], vec.Indices[i]
	vec.Values[i], vec.Values[j] = vec.Values[j], vec.Values[i]
}

// Mean of the values. Returns zero for an empty vector.
func (vec *SparseVector) Mean() float64 {
	if vec.Len() == 0 {
		return 0
	}
	return stat.Mean(vec.Values, nil)
}

// SortIndex sorts elements by indices.
func (vec *SparseVector) SortIndex() {
	if !vec.sorted {
		sort.Sort(vec)
		vec.sorted = true
	}
}

// Get returns the value at an index. The second return value reports whether
// the index is present.
func (vec *SparseVector) Get(index int) (float64, bool) {
	if vec.Len() == 0 {
		return 0, false
	}
	vec.SortIndex()
	pos := sort.SearchInts(vec.Indices, index)
	if pos < len(vec.Indices) && vec.Indices[pos] == index {
		return vec.Values[pos], true
	}
	return 0, false
}

// Contain reports whether an index is present.
func (vec *SparseVector) Contain(index int) bool {
	_, ok := vec.Get(index)
	return ok
}

// ForEach iterates elements in the sparse vector.
func (vec *SparseVector) ForEach(f func(i, index int, value float64)) {
	for i := range vec.Indices {
		f(i, vec.Indices[i], vec.Values[i])
	}
}

// ForIntersection iterates elements in the intersection of two vectors. The
// method sorts two vectors by indices first, then finds common indices in
// linear time.
func (vec *SparseVector) ForIntersection(other *SparseVector, f func(index int, a, b float64)) {
	vec.SortIndex()
	other.SortIndex()
	i, j := 0, 0
	for i < vec.Len() && j < other.Len() {
		if vec.Indices[i] == other.Indices[j] {
			f(vec.Indices[i], vec.Values[i], other.Values[j])
			i++
			j++
		} else if vec.Indices[i] < other.Indices[j] {
			i++
		} else {
			j++
		}
	}
}

// RatingMatrix is the sparse matrix of (user, item, rating) triples, indexed
// both by user and by item. It is read-only once built.
type RatingMatrix struct {
	userIndex   *Dict
	itemIndex   *Dict
	userRatings []*SparseVector // user index -> (item index, rating)
	itemRatings []*SparseVector // item index -> (user index, rating)
	userMeans   []float64
	itemMeans   []float64
	globalMean  float64
	count       int
}

// NewRatingMatrix builds a RatingMatrix from deduplicated triples. The dicts
// define the id space; triples are addressed by dense indices.
func NewRatingMatrix(userIndex, itemIndex *Dict, users, items []int, values []float64) *RatingMatrix {
	m := &RatingMatrix{
		userIndex:   userIndex,
		itemIndex:   itemIndex,
		userRatings: newSparseVectors(userIndex.Count()),
		itemRatings: newSparseVectors(itemIndex.Count()),
		count:       len(values),
	}
	for i := range values {
		m.userRatings[users[i]].Add(items[i], values[i])
		m.itemRatings[items[i]].Add(users[i], values[i])
	}
	for _, vec := range m.userRatings {
		vec.SortIndex()
	}
	for _, vec := range m.itemRatings {
		vec.SortIndex()
	}
	m.userMeans = sparseVectorsMean(m.userRatings)
	m.itemMeans = sparseVectorsMean(m.itemRatings)
	if len(values) > 0 {
		m.globalMean = stat.Mean(values, nil)
	}
	return m
}

func newSparseVectors(row int) []*SparseVector {
	mat := make([]*SparseVector, row)
	for i := range mat {
		mat[i] = NewSparseVector()
	}
	return mat
}

func sparseVectorsMean(a []*SparseVector) []float64 {
	m := make([]float64, len(a))
	for i := range a {
		m[i] = a[i].Mean()
	}
	return m
}

// CountUsers returns the number of known users.
func (m *RatingMatrix) CountUsers() int { return m.userIndex.Count() }

// CountItems returns the number of known items.
func (m *RatingMatrix) CountItems() int { return m.itemIndex.Count() }

// CountRatings returns the number of ratings.
func (m *RatingMatrix) CountRatings() int { return m.count }

// UserIndex returns the user id dictionary.
func (m *RatingMatrix) UserIndex() *Dict { return m.userIndex }

// ItemIndex returns the item id dictionary.
func (m *RatingMatrix) ItemIndex() *Dict { return m.itemIndex }

// UserRatings returns ratings of a user as (item index, rating) pairs.
func (m *RatingMatrix) UserRatings(userId int) *SparseVector { return m.userRatings[userId] }

// ItemRatings returns ratings of an item as (user index, rating) pairs.
func (m *RatingMatrix) ItemRatings(itemId int) *SparseVector { return m.itemRatings[itemId] }

// UserMean returns the mean rating of a user. Zero for a user without ratings.
func (m *RatingMatrix) UserMean(userId int) float64 { return m.userMeans[userId] }

// ItemMean returns the mean rating of an item. Zero for an item without ratings.
func (m *RatingMatrix) ItemMean(itemId int) float64 { return m.itemMeans[itemId] }

// GlobalMean returns the mean of all ratings.
func (m *RatingMatrix) GlobalMean() float64 { return m.globalMean }

// Rating returns the rating of a (user, item) pair if present.
func (m *RatingMatrix) Rating(userId, itemId int) (float64, bool) {
	return m.userRatings[userId].Get(itemId)
}
