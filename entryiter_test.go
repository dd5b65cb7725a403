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

package vfskit_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vfskit/vfskit"
)

type sliceSource struct {
	items []vfskit.EntryResult
	pos   int
}

func (s *sliceSource) Next() (vfskit.EntryResult, bool) {
	if s.pos >= len(s.items) {
		return vfskit.EntryResult{}, false
	}

	r := s.items[s.pos]
	s.pos++

	return r, true
}

func byName(a, b vfskit.Entry) bool { return a.Path < b.Path }

func TestEntryIterSort(t *testing.T) {
	src := &sliceSource{items: []vfskit.EntryResult{
		{Entry: vfskit.Entry{Path: "c"}},
		{Entry: vfskit.Entry{Path: "a"}},
		{Entry: vfskit.Entry{Path: "b"}},
	}}

	it := vfskit.NewEntryIter(src).Sort(byName)

	var got []string
	for {
		r, ok := it.Next()
		if !ok {
			break
		}

		got = append(got, r.Entry.Path)
	}

	require.Equal(t, []string{"a", "b", "c"}, got)
}

func TestEntryIterDirsFirst(t *testing.T) {
	src := &sliceSource{items: []vfskit.EntryResult{
		{Entry: vfskit.Entry{Path: "file-b", Kind: vfskit.KindFile}},
		{Entry: vfskit.Entry{Path: "dir-b", Kind: vfskit.KindDir}},
		{Entry: vfskit.Entry{Path: "file-a", Kind: vfskit.KindFile}},
		{Entry: vfskit.Entry{Path: "dir-a", Kind: vfskit.KindDir}},
	}}

	it := vfskit.NewEntryIter(src).DirsFirst(byName)

	var got []string
	for {
		r, ok := it.Next()
		if !ok {
			break
		}

		got = append(got, r.Entry.Path)
	}

	require.Equal(t, []string{"dir-a", "dir-b", "file-a", "file-b"}, got)
}

func TestEntryIterErrorSortsFirst(t *testing.T) {
	boom := errors.New("boom")
	src := &sliceSource{items: []vfskit.EntryResult{
		{Entry: vfskit.Entry{Path: "a"}},
		{Err: boom},
	}}

	it := vfskit.NewEntryIter(src).Sort(byName)

	r, ok := it.Next()
	require.True(t, ok)
	require.ErrorIs(t, r.Err, boom)

	r, ok = it.Next()
	require.True(t, ok)
	require.Equal(t, "a", r.Entry.Path)
}
