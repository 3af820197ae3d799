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
package base

import (
	"container/heap"
	"sort"
)

// MaxHeap is designed to store the K maximal elements. A heap is used to reduce
// time complexity and memory complexity in top-K searching.
type MaxHeap[T any] struct {
	Elem  []T       // store elements
	Score []float64 // store scores
	K     int       // the size of heap
}

// NewMaxHeap creates a MaxHeap.
func NewMaxHeap[T any](k int) *MaxHeap[T] {
	maxHeap := new(MaxHeap[T])
	maxHeap.Elem = make([]T, 0)
	maxHeap.Score = make([]float64, 0)
	maxHeap.K = k
	return maxHeap
}

// Less returns true if the score of the i-th item is less than the score of the
// j-th item. It is a method of heap.Interface.
func (maxHeap *MaxHeap[T]) Less(i, j int) bool {
	return maxHeap.Score[i] < maxHeap.Score[j]
}

// Swap the i-th item with the j-th item. It is a method of heap.Interface.
func (maxHeap *MaxHeap[T]) Swap(i, j int) {
	maxHeap.Elem[i], maxHeap.Elem[j] = maxHeap.Elem[j], maxHeap.Elem[i]
	maxHeap.Score[i], maxHeap.Score[j] = maxHeap.Score[j], maxHeap.Score[i]
}

// Len returns the size of heap. It is a method of heap.Interface.
func (maxHeap *MaxHeap[T]) Len() int {
	return len(maxHeap.Elem)
}

type heapItem[T any] struct {
	elem  T
	score float64
}

// Push an element into the MaxHeap. It is a method of heap.Interface.
func (maxHeap *MaxHeap[T]) Push(x interface{}) {
	item := x.(heapItem[T])
	maxHeap.Elem = append(maxHeap.Elem, item.elem)
	maxHeap.Score = append(maxHeap.Score, item.score)
}

// Pop the element with minimal score from the MaxHeap.
// It is a method of heap.Interface.
func (maxHeap *MaxHeap[T]) Pop() interface{} {
	n := maxHeap.Len()
	item := heapItem[T]{
		elem:  maxHeap.Elem[n-1],
		score: maxHeap.Score[n-1],
	}
	maxHeap.Elem = maxHeap.Elem[:n-1]
	maxHeap.Score = maxHeap.Score[:n-1]
	return item
}

// Add a new element to the MaxHeap.
func (maxHeap *MaxHeap[T]) Add(elem T, score float64) {
	// Insert item
	heap.Push(maxHeap, heapItem[T]{elem, score})
	// Remove minimum
	if maxHeap.Len() > maxHeap.K {
		heap.Pop(maxHeap)
	}
}

// ToSorted returns elements in the heap sorted by score in descending order.
func (maxHeap *MaxHeap[T]) ToSorted() ([]T, []float64) {
	indices := make([]int, maxHeap.Len())
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(i, j int) bool {
		return maxHeap.Score[indices[i]] > maxHeap.Score[indices[j]]
	})
	elems := make([]T, maxHeap.Len())
	scores := make([]float64, maxHeap.Len())
	for i, index := range indices {
		elems[i] = maxHeap.Elem[index]
		scores[i] = maxHeap.Score[index]
	}
	return elems, scores
}
