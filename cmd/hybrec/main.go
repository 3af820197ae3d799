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

package main

import (
	"fmt"

	"github.com/juju/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hybrec-io/hybrec/base/log"
	"github.com/hybrec-io/hybrec/config"
	"github.com/hybrec-io/hybrec/dataset"
	"github.com/hybrec-io/hybrec/eval"
	"github.com/hybrec-io/hybrec/logics"
	"github.com/hybrec-io/hybrec/similarity"
)

var rootCommand = &cobra.Command{
	Use:   "hybrec",
	Short: "Hybrid recommender combining collaborative filtering with item content.",
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		log.SetLogger(cmd.Flags(), debug)
	},
}

var recommendCommand = &cobra.Command{
	Use:   "recommend [user-id]",
	Short: "Recommend top-k items for a user, or for every user with --all.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recommender, _, err := setup(cmd)
		if err != nil {
			return errors.Trace(err)
		}
		k, _ := cmd.Flags().GetInt("top-k")
		if all, _ := cmd.Flags().GetBool("all"); all {
			return recommendAll(recommender, k)
		}
		if len(args) != 1 {
			return errors.New("a user id or --all is required")
		}
		recommendations, err := recommender.Recommend(args[0], k)
		if err != nil {
			return errors.Trace(err)
		}
		for _, recommendation := range recommendations {
			fmt.Printf("%s\t%.4f\n", recommendation.ItemId, recommendation.Score)
		}
		return nil
	},
}

func recommendAll(recommender *logics.Recommender, k int) error {
	userIndex := recommender.Snapshot().Matrix().UserIndex()
	bar := progressbar.Default(int64(userIndex.Count()), "recommending")
	for user := 0; user < userIndex.Count(); user++ {
		userId, _ := userIndex.String(user)
		recommendations, err := recommender.Recommend(userId, k)
		if err != nil {
			return errors.Trace(err)
		}
		for _, recommendation := range recommendations {
			fmt.Printf("%s\t%s\t%.4f\n", userId, recommendation.ItemId, recommendation.Score)
		}
		_ = bar.Add(1)
	}
	return nil
}

var predictCommand = &cobra.Command{
	Use:   "predict user-id item-id",
	Short: "Predict the score of a user on an item.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		recommender, _, err := setup(cmd)
		if err != nil {
			return errors.Trace(err)
		}
		var source logics.Source
		switch name, _ := cmd.Flags().GetString("source"); name {
		case "collaborative":
			source = logics.Collaborative
		case "content":
			source = logics.Content
		case "hybrid":
			source = logics.Hybrid
		default:
			return errors.Errorf("unknown source %q", name)
		}
		prediction, err := recommender.Predict(args[0], args[1], source)
		if err != nil {
			return errors.Trace(err)
		}
		fmt.Printf("%s\t%s\t%.4f\t%s\n",
			prediction.UserId, prediction.ItemId, prediction.Score, prediction.Source)
		return nil
	},
}

var neighborsCommand = &cobra.Command{
	Use:   "neighbors item-id",
	Short: "List the most similar items by co-rating or by content.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recommender, _, err := setup(cmd)
		if err != nil {
			return errors.Trace(err)
		}
		n, _ := cmd.Flags().GetInt("top-k")
		kind := similarity.ItemItem
		if byContent, _ := cmd.Flags().GetBool("content"); byContent {
			kind = similarity.ItemContent
		}
		neighbors, err := recommender.Neighbors(args[0], n, kind)
		if err != nil {
			return errors.Trace(err)
		}
		for _, neighbor := range neighbors {
			fmt.Printf("%s\t%.4f\n", neighbor.ItemId, neighbor.Score)
		}
		return nil
	},
}

var evaluateCommand = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate prediction accuracy and ranking quality on a held-out split.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		conf, err := loadConfig(cmd)
		if err != nil {
			return errors.Trace(err)
		}
		ratings, users, items, err := loadData(conf)
		if err != nil {
			return errors.Trace(err)
		}
		train, test, err := dataset.Split(ratings, conf.Evaluate.Splitter, conf.Evaluate.TestRatio, conf.Evaluate.Seed)
		if err != nil {
			return errors.Trace(err)
		}
		snapshot, err := dataset.BuildSnapshot(train, users, items, conf.Data.MinRating, conf.Data.MaxRating)
		if err != nil {
			return errors.Trace(err)
		}
		recommender, err := logics.NewRecommender(snapshot, conf.Recommend)
		if err != nil {
			return errors.Trace(err)
		}
		score, err := eval.Evaluate(recommender, test, conf.Evaluate.TopK, conf.Evaluate.RelevanceThreshold)
		if err != nil {
			return errors.Trace(err)
		}
		if score.Insufficient {
			fmt.Println("insufficient data")
			return nil
		}
		fmt.Printf("RMSE\t%.4f\nMAE\t%.4f\nPrecision@%d\t%.4f\nRecall@%d\t%.4f\n",
			score.RMSE, score.MAE, conf.Evaluate.TopK, score.Precision, conf.Evaluate.TopK, score.Recall)
		return nil
	},
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	conf, err := config.LoadConfig(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return conf, nil
}

func loadData(conf *config.Config) ([]dataset.Rating, []dataset.User, []dataset.Item, error) {
	if conf.Data.RatingsPath == "" {
		return nil, nil, nil, errors.New("data.ratings_path is required")
	}
	ratings, err := dataset.LoadRatings(conf.Data.RatingsPath, conf.Data.Separator)
	if err != nil {
		return nil, nil, nil, errors.Trace(err)
	}
	var users []dataset.User
	if conf.Data.UsersPath != "" {
		if users, err = dataset.LoadUsers(conf.Data.UsersPath, conf.Data.Separator); err != nil {
			return nil, nil, nil, errors.Trace(err)
		}
	}
	var items []dataset.Item
	if conf.Data.ItemsPath != "" {
		if items, err = dataset.LoadItems(conf.Data.ItemsPath, conf.Data.Separator); err != nil {
			return nil, nil, nil, errors.Trace(err)
		}
	}
	return ratings, users, items, nil
}

func setup(cmd *cobra.Command) (*logics.Recommender, *config.Config, error) {
	conf, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	ratings, users, items, err := loadData(conf)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	snapshot, err := dataset.BuildSnapshot(ratings, users, items, conf.Data.MinRating, conf.Data.MaxRating)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	recommender, err := logics.NewRecommender(snapshot, conf.Recommend)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	return recommender, conf, nil
}

func init() {
	rootCommand.PersistentFlags().String("config", "", "path of configuration file")
	rootCommand.PersistentFlags().Bool("debug", false, "enable debug log")
	log.AddFlags(rootCommand.PersistentFlags())
	recommendCommand.Flags().Int("top-k", 10, "number of items to recommend")
	recommendCommand.Flags().Bool("all", false, "recommend for every known user")
	predictCommand.Flags().String("source", "hybrid", "prediction source (collaborative, content or hybrid)")
	neighborsCommand.Flags().Int("top-k", 10, "number of neighbors to list")
	neighborsCommand.Flags().Bool("content", false, "use content similarity instead of co-rating")
	rootCommand.AddCommand(recommendCommand, predictCommand, neighborsCommand, evaluateCommand)
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute command", zap.Error(err))
	}
}
