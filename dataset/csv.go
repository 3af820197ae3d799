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
	"bufio"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/hybrec-io/hybrec/base/log"
)

// LoadRatings loads ratings from a CSV file. Each line is
// `userId <sep> itemId <sep> value [<sep> unix timestamp]`.
func LoadRatings(path, sep string) ([]Rating, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	ratings := make([]Rating, 0)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, sep)
		if len(fields) < 3 {
			return nil, errors.Errorf("invalid rating line %q", line)
		}
		value, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, errors.Annotatef(err, "invalid rating line %q", line)
		}
		rating := Rating{UserId: fields[0], ItemId: fields[1], Value: value}
		if len(fields) > 3 {
			stamp, err := strconv.ParseInt(fields[3], 10, 64)
			if err != nil {
				return nil, errors.Annotatef(err, "invalid rating line %q", line)
			}
			rating.Timestamp = time.Unix(stamp, 0)
		}
		ratings = append(ratings, rating)
	}
	if err = scanner.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Info("ratings loaded",
		zap.String("path", path), zap.Int("n_ratings", len(ratings)))
	return ratings, nil
}

// LoadUsers loads user records from a CSV file. The first field of each line
// is the user id; further fields are ignored. Listing a user keeps them known
// to the engine before their first rating.
func LoadUsers(path, sep string) ([]User, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	users := make([]User, 0)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		users = append(users, User{UserId: strings.Split(line, sep)[0]})
	}
	if err = scanner.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Info("users loaded",
		zap.String("path", path), zap.Int("n_users", len(users)))
	return users, nil
}

// LoadItems loads item features from a CSV file. Each line is
// `itemId <sep> feature <sep> weight`. Lines of the same item accumulate into
// one feature vector.
func LoadItems(path, sep string) ([]Item, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	features := make(map[string]FeatureVector)
	order := make([]string, 0)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, sep)
		if len(fields) < 3 {
			return nil, errors.Errorf("invalid item line %q", line)
		}
		weight, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, errors.Annotatef(err, "invalid item line %q", line)
		}
		if _, exist := features[fields[0]]; !exist {
			features[fields[0]] = make(FeatureVector)
			order = append(order, fields[0])
		}
		features[fields[0]][fields[1]] = weight
	}
	if err = scanner.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	items := make([]Item, 0, len(order))
	for _, itemId := range order {
		items = append(items, Item{ItemId: itemId, Features: features[itemId]})
	}
	log.Logger().Info("items loaded",
		zap.String("path", path), zap.Int("n_items", len(items)))
	return items, nil
}
