//
//  Copyright 2024 The vfskit authors
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//  	http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.
//

package vfskit

import "sort"

// EntryResult pairs an Entry with the error, if any, encountered producing
// it. A backend's directory source yields EntryResult values one at a time;
// Cache pulls them all into memory so Sort/DirsFirst/FilesFirst can reorder
// them.
type EntryResult struct {
	Entry Entry
	Err   error
}

// EntrySource is the minimal backend hook an EntryIter wraps: a single
// "give me the next child of this directory" call. Both memfs and stdfs
// implement one of these per open directory.
type EntrySource interface {
	// Next returns the next entry, or ok == false once exhausted.
	Next() (EntryResult, bool)
}

// EntryIter iterates the immediate children of a single directory. It
// starts in a "live" state, pulling from its EntrySource one at a time. A
// call to Cache, Sort, DirsFirst or FilesFirst drains the source and
// switches the iterator to a "cached" state backed by a slice, after which
// iteration replays from that slice.
type EntryIter struct {
	src    EntrySource
	cached []EntryResult
	pos    int
	live   bool
}

// NewEntryIter wraps src in a live EntryIter.
func NewEntryIter(src EntrySource) *EntryIter {
	return &EntryIter{src: src, live: true}
}

// Next returns the next entry in the directory, or ok == false once
// exhausted.
func (it *EntryIter) Next() (EntryResult, bool) {
	if it.live {
		return it.src.Next()
	}

	if it.pos >= len(it.cached) {
		return EntryResult{}, false
	}

	r := it.cached[it.pos]
	it.pos++

	return r, true
}

// Cache drains the remaining live entries into memory, switching the
// iterator into its cached state. It is a no-op if already cached.
func (it *EntryIter) Cache() *EntryIter {
	if !it.live {
		return it
	}

	var all []EntryResult
	for {
		r, ok := it.src.Next()
		if !ok {
			break
		}

		all = append(all, r)
	}

	it.cached = all
	it.pos = 0
	it.live = false

	return it
}

// lessResult is the total order used to sort EntryResult values: an error always
// sorts before any Ok value; two errors are considered equal.
func lessResult(cmp func(a, b Entry) bool) func(a, b EntryResult) bool {
	return func(a, b EntryResult) bool {
		if a.Err != nil || b.Err != nil {
			if a.Err != nil && b.Err != nil {
				return false
			}

			return a.Err != nil
		}

		return cmp(a.Entry, b.Entry)
	}
}

// Sort caches the iterator and orders its entries with cmp, an a-before-b
// predicate over Entry values. Errors sort before every Entry and compare
// equal to each other.
func (it *EntryIter) Sort(cmp func(a, b Entry) bool) *EntryIter {
	it.Cache()
	sortResults(it.cached, lessResult(cmp))

	return it
}

// DirsFirst caches the iterator, partitions entries into directories and
// non-directories, sorts each partition with cmp, and concatenates
// dirs+files. Errors are attached to the directory partition.
func (it *EntryIter) DirsFirst(cmp func(a, b Entry) bool) *EntryIter {
	it.Cache()
	it.cached = partitionSort(it.cached, func(r EntryResult) bool {
		return r.Err != nil || r.Entry.IsDir()
	}, lessResult(cmp))

	return it
}

// FilesFirst is the mirror of DirsFirst: non-directories are sorted and
// emitted first, directories (and errors) follow.
func (it *EntryIter) FilesFirst(cmp func(a, b Entry) bool) *EntryIter {
	it.Cache()
	it.cached = partitionSort(it.cached, func(r EntryResult) bool {
		return r.Err == nil && !r.Entry.IsDir()
	}, lessResult(cmp))

	return it
}

// WithFollow caches the iterator if it is still live, then toggles
// symlink-following on every cached entry.
func (it *EntryIter) WithFollow(enabled bool) *EntryIter {
	if it.live {
		it.Cache()
	}

	for i, r := range it.cached {
		if r.Err == nil {
			it.cached[i].Entry = r.Entry.WithFollow(enabled)
		}
	}

	return it
}

func partitionSort(items []EntryResult, firstGroup func(EntryResult) bool, less func(a, b EntryResult) bool) []EntryResult {
	var a, b []EntryResult

	for _, it := range items {
		if firstGroup(it) {
			a = append(a, it)
		} else {
			b = append(b, it)
		}
	}

	sortResults(a, less)
	sortResults(b, less)

	return append(a, b...)
}

func sortResults(items []EntryResult, less func(a, b EntryResult) bool) {
	sort.SliceStable(items, func(i, j int) bool {
		return less(items[i], items[j])
	})
}
