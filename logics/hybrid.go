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

package logics

import "gonum.org/v1/gonum/floats"

// Blender combines a collaborative score and a content score into one ranking
// score:
//
//	score = alpha * norm(collaborative) + (1 - alpha) * norm(content)
//
// Both signals are min-max normalized over the current candidate set before
// blending so they are commensurable; raw ranges differ per snapshot. With
// alpha one the blend ranks identically to the pure collaborative signal, with
// alpha zero identically to the pure content signal.
type Blender struct {
	alpha float64
}

// NewBlender creates a Blender. alpha is the weight of the collaborative
// signal, in [0, 1].
func NewBlender(alpha float64) *Blender {
	return &Blender{alpha: alpha}
}

// Blend computes blended scores for one candidate set. Both slices hold the
// raw score of the i-th candidate at position i.
func (b *Blender) Blend(collaborative, content []float64) []float64 {
	normCF := minMaxNormalize(collaborative)
	normContent := minMaxNormalize(content)
	blended := make([]float64, len(normCF))
	for i := range blended {
		blended[i] = b.alpha*normCF[i] + (1-b.alpha)*normContent[i]
	}
	return blended
}

// minMaxNormalize maps scores onto [0, 1] over the candidate set. A constant
// set normalizes to 0.5 for every member so the other signal decides the
// ranking.
func minMaxNormalize(scores []float64) []float64 {
	normalized := make([]float64, len(scores))
	if len(scores) == 0 {
		return normalized
	}
	min, max := floats.Min(scores), floats.Max(scores)
	if min == max {
		for i := range normalized {
			normalized[i] = 0.5
		}
		return normalized
	}
	for i, score := range scores {
		normalized[i] = (score - min) / (max - min)
	}
	return normalized
}
