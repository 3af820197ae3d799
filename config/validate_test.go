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

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		Data: DataConfig{
			Separator: ",",
			MinRating: 1,
			MaxRating: 5,
		},
		Recommend: RecommendConfig{
			SimilarityMetric: "cosine",
			NumNeighbors:     10,
			Alpha:            0.5,
			Variant:          "item-based",
			NumWorkers:       1,
		},
		Evaluate: EvaluateConfig{
			Splitter:           "ratio",
			TestRatio:          0.2,
			TopK:               10,
			RelevanceThreshold: 4,
		},
	}
}

func TestValidate(t *testing.T) {
	conf := validConfig()
	assert.NoError(t, conf.Validate())

	conf = validConfig()
	conf.Recommend.Alpha = -0.1
	assert.Error(t, conf.Validate())

	conf = validConfig()
	conf.Recommend.SimilarityMetric = "hamming"
	assert.Error(t, conf.Validate())

	conf = validConfig()
	conf.Data.MaxRating = conf.Data.MinRating
	assert.Error(t, conf.Validate())

	conf = validConfig()
	conf.Evaluate.TopK = 0
	assert.Error(t, conf.Validate())
}
