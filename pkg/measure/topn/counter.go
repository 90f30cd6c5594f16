// Copyright 2022 GalenaDB
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package topn

import (
	"github.com/google/btree"
)

const btreeDegree = 32

type entry struct {
	item  string
	count float64
}

func (e *entry) Less(than btree.Item) bool {
	o := than.(*entry)
	if e.count != o.count {
		return e.count < o.count
	}
	return e.item < o.item
}

// Entry is one ranked item of a counter result.
type Entry struct {
	Item  string
	Count float64
}

// Counter keeps the heaviest items seen so far, pruned to a fixed
// capacity. Pruning drops the lightest items, so counts for items near
// the capacity boundary are approximate.
type Counter struct {
	capacity int
	tree     *btree.BTree
	index    map[string]*entry
	bytes    int
}

func NewCounter(capacity int) *Counter {
	return &Counter{
		capacity: capacity,
		tree:     btree.New(btreeDegree),
		index:    make(map[string]*entry),
	}
}

func (c *Counter) Add(item string, weight float64) {
	if e, ok := c.index[item]; ok {
		// reinsert under the new count to keep tree order
		c.tree.Delete(e)
		e.count += weight
		c.tree.ReplaceOrInsert(e)
		return
	}
	e := &entry{item: item, count: weight}
	c.index[item] = e
	c.tree.ReplaceOrInsert(e)
	c.bytes += len(item) + 16
	c.prune()
}

func (c *Counter) prune() {
	for c.tree.Len() > c.capacity {
		min := c.tree.DeleteMin().(*entry)
		delete(c.index, min.item)
		c.bytes -= len(min.item) + 16
	}
}

// Merge folds other into c. other is left untouched.
func (c *Counter) Merge(other *Counter) {
	other.tree.Ascend(func(i btree.Item) bool {
		e := i.(*entry)
		c.Add(e.item, e.count)
		return true
	})
}

// Top returns at most k entries ordered by descending count.
func (c *Counter) Top(k int) []Entry {
	out := make([]Entry, 0, k)
	c.tree.Descend(func(i btree.Item) bool {
		if len(out) == k {
			return false
		}
		e := i.(*entry)
		out = append(out, Entry{Item: e.item, Count: e.count})
		return true
	})
	return out
}

func (c *Counter) Len() int {
	return c.tree.Len()
}

func (c *Counter) Capacity() int {
	return c.capacity
}

func (c *Counter) Bytes() int {
	return c.bytes
}
