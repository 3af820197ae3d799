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

// Package eval measures prediction accuracy and ranking quality against a
// held-out test split of ratings.
package eval

import (
	"math"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/hybrec-io/hybrec/base/log"
	"github.com/hybrec-io/hybrec/dataset"
	"github.com/hybrec-io/hybrec/logics"
)

// Score aggregates evaluation metrics across users. Metrics without support
// are NaN; Insufficient marks an evaluation with no usable test data at all.
type Score struct {
	RMSE           float64
	MAE            float64
	Precision      float64
	Recall         float64
	NumRatingPairs int
	NumRankedUsers int
	Insufficient   bool
}

// RMSE is the root mean squared error between predictions and ground truth.
func RMSE(predictions, truth []float64) float64 {
	if len(predictions) == 0 {
		return math.NaN()
	}
	temp := make([]float64, len(predictions))
	floats.SubTo(temp, predictions, truth)
	floats.Mul(temp, temp)
	return math.Sqrt(stat.Mean(temp, nil))
}

// MAE is the mean absolute error between predictions and ground truth.
func MAE(predictions, truth []float64) float64 {
	if len(predictions) == 0 {
		return math.NaN()
	}
	temp := make([]float64, len(predictions))
	floats.SubTo(temp, predictions, truth)
	for i := range temp {
		temp[i] = math.Abs(temp[i])
	}
	return stat.Mean(temp, nil)
}

// Evaluate compares the recommender against held-out ratings. Test pairs whose
// user or item is absent from the training snapshot are skipped, never failed
// on. RMSE and MAE cover all remaining pairs; precision@k and recall@k are
// averaged over users with at least one relevant held-out item (value >=
// threshold), since recall is undefined for the others.
func Evaluate(recommender *logics.Recommender, testRatings []dataset.Rating, topK int, threshold float64) (Score, error) {
	snapshot := recommender.Snapshot()
	// Accuracy over predictable test pairs.
	predictions := make([]float64, 0, len(testRatings))
	truth := make([]float64, 0, len(testRatings))
	relevant := make(map[string]mapset.Set[string])
	for _, rating := range testRatings {
		if _, err := snapshot.UserId(rating.UserId); errors.Is(err, errors.NotFound) {
			continue
		}
		if _, err := snapshot.ItemId(rating.ItemId); errors.Is(err, errors.NotFound) {
			continue
		}
		prediction, err := recommender.Predict(rating.UserId, rating.ItemId, logics.Collaborative)
		if err != nil {
			return Score{}, errors.Trace(err)
		}
		predictions = append(predictions, prediction.Score)
		truth = append(truth, rating.Value)
		if rating.Value >= threshold {
			if _, exist := relevant[rating.UserId]; !exist {
				relevant[rating.UserId] = mapset.NewThreadUnsafeSet[string]()
			}
			relevant[rating.UserId].Add(rating.ItemId)
		}
	}
	// Ranking quality over users with relevant held-out items.
	sumPrecision, sumRecall := 0.0, 0.0
	rankedUsers := 0
	for userId, relevantItems := range relevant {
		recommendations, err := recommender.Recommend(userId, topK)
		if err != nil {
			return Score{}, errors.Trace(err)
		}
		if len(recommendations) == 0 {
			continue
		}
		hits := 0
		for _, recommendation := range recommendations {
			if relevantItems.Contains(recommendation.ItemId) {
				hits++
			}
		}
		sumPrecision += float64(hits) / float64(topK)
		sumRecall += float64(hits) / float64(relevantItems.Cardinality())
		rankedUsers++
	}
	score := Score{
		RMSE:           RMSE(predictions, truth),
		MAE:            MAE(predictions, truth),
		Precision:      math.NaN(),
		Recall:         math.NaN(),
		NumRatingPairs: len(predictions),
		NumRankedUsers: rankedUsers,
		Insufficient:   len(predictions) == 0 && rankedUsers == 0,
	}
	if rankedUsers > 0 {
		score.Precision = sumPrecision / float64(rankedUsers)
		score.Recall = sumRecall / float64(rankedUsers)
	}
	log.Logger().Info("evaluation complete",
		zap.Int("n_rating_pairs", score.NumRatingPairs),
		zap.Int("n_ranked_users", score.NumRankedUsers),
		zap.Float64("rmse", score.RMSE),
		zap.Float64("mae", score.MAE),
		zap.Float64("precision", score.Precision),
		zap.Float64("recall", score.Recall))
	return score, nil
}
