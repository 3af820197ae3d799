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

// NotId is returned by Dict.Id for identifiers absent from the dictionary.
const NotId = -1

// Dict maps external identifiers to dense indices. Dense indices start from
// zero and are used to address rows of matrices and caches.
type Dict struct {
	si map[string]int
	is []string
}

func NewDict() *Dict {
	return &Dict{si: map[string]int{}, is: []string{}}
}

func (d *Dict) Count() int {
	return len(d.is)
}

// Add returns the index of an identifier, inserting it if unseen.
func (d *Dict) Add(s string) (y int) {
	if y, ok := d.si[s]; ok {
		return y
	}
	y = len(d.is)
	d.si[s] = y
	d.is = append(d.is, s)
	return
}

// Id returns the index of an identifier, or NotId if it was never added.
func (d *Dict) Id(s string) int {
	if y, ok := d.si[s]; ok {
		return y
	}
	return NotId
}

// String returns the identifier at an index.
func (d *Dict) String(id int) (s string, ok bool) {
	if id < 0 || id >= len(d.is) {
		return "", false
	}
	return d.is[id], true
}
