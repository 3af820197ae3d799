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
	"runtime"
	"strings"

	"github.com/juju/errors"
	"github.com/spf13/viper"
)

// Config is the configuration for the engine.
type Config struct {
	Data      DataConfig      `mapstructure:"data"`
	Recommend RecommendConfig `mapstructure:"recommend"`
	Evaluate  EvaluateConfig  `mapstructure:"evaluate"`
}

// DataConfig describes where ratings and item features are loaded from and the
// declared rating range.
type DataConfig struct {
	RatingsPath string  `mapstructure:"ratings_path"`
	UsersPath   string  `mapstructure:"users_path"`
	ItemsPath   string  `mapstructure:"items_path"`
	Separator   string  `mapstructure:"separator"`
	MinRating   float64 `mapstructure:"min_rating"`
	MaxRating   float64 `mapstructure:"max_rating" validate:"gtfield=MinRating"`
}

// RecommendConfig holds the tunable parameters of the predictors. The original
// system names no concrete values for the neighborhood size, similarity metric
// or blend weight, so all of them are configuration.
type RecommendConfig struct {
	SimilarityMetric string  `mapstructure:"similarity_metric" validate:"oneof=cosine pearson msd"`
	NumNeighbors     int     `mapstructure:"num_neighbors" validate:"gt=0"`
	Alpha            float64 `mapstructure:"alpha" validate:"gte=0,lte=1"`
	Variant          string  `mapstructure:"variant" validate:"oneof=user-based item-based"`
	Precompute       bool    `mapstructure:"precompute"`
	NumWorkers       int     `mapstructure:"num_workers" validate:"gte=0"`
}

// EvaluateConfig holds the parameters of offline evaluation.
type EvaluateConfig struct {
	Splitter           string  `mapstructure:"splitter" validate:"oneof=ratio leave-one-out"`
	TestRatio          float64 `mapstructure:"test_ratio" validate:"gt=0,lt=1"`
	TopK               int     `mapstructure:"top_k" validate:"gt=0"`
	RelevanceThreshold float64 `mapstructure:"relevance_threshold"`
	Seed               int64   `mapstructure:"seed"`
}

func setDefault() {
	viper.SetDefault("data.separator", ",")
	viper.SetDefault("data.min_rating", 1)
	viper.SetDefault("data.max_rating", 5)
	viper.SetDefault("recommend.similarity_metric", "pearson")
	viper.SetDefault("recommend.num_neighbors", 20)
	viper.SetDefault("recommend.alpha", 0.5)
	viper.SetDefault("recommend.variant", "user-based")
	viper.SetDefault("recommend.precompute", false)
	viper.SetDefault("recommend.num_workers", runtime.NumCPU())
	viper.SetDefault("evaluate.splitter", "ratio")
	viper.SetDefault("evaluate.test_ratio", 0.2)
	viper.SetDefault("evaluate.top_k", 10)
	viper.SetDefault("evaluate.relevance_threshold", 4)
	viper.SetDefault("evaluate.seed", 0)
}

// LoadConfig loads the configuration from a TOML file. An empty path yields
// the default configuration.
func LoadConfig(path string) (*Config, error) {
	setDefault()
	viper.SetConfigType("toml")
	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, errors.Trace(err)
		}
	} else if err := viper.ReadConfig(strings.NewReader("")); err != nil {
		return nil, errors.Trace(err)
	}
	// Bind environment variables, e.g. HYBREC_RECOMMEND_ALPHA.
	viper.SetEnvPrefix("hybrec")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	var conf Config
	if err := viper.Unmarshal(&conf); err != nil {
		return nil, errors.Trace(err)
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &conf, nil
}
