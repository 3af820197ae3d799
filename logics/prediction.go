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

// Package logics implements the prediction and ranking logic on top of one
// snapshot: neighborhood collaborative filtering, content-based affinity and
// the hybrid blend of both.
package logics

// Source tags the signal a prediction was produced from.
type Source int

const (
	Collaborative Source = iota
	Content
	Hybrid
)

func (s Source) String() string {
	switch s {
	case Collaborative:
		return "collaborative"
	case Content:
		return "content"
	case Hybrid:
		return "hybrid"
	default:
		return "unknown"
	}
}

// Variant selects the neighborhood of collaborative filtering.
type Variant int

const (
	UserBased Variant = iota
	ItemBased
)

func (v Variant) String() string {
	switch v {
	case UserBased:
		return "user-based"
	case ItemBased:
		return "item-based"
	default:
		return "unknown"
	}
}

// Prediction is a scored (user, item) pair.
type Prediction struct {
	UserId string
	ItemId string
	Score  float64
	Source Source
}

// Recommendation is one entry of a recommendation list.
type Recommendation struct {
	ItemId string
	Score  float64
}
