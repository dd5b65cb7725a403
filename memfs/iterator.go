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

package memfs

import "github.com/vfskit/vfskit"

// dirSource is a snapshot of a directory's immediate children taken under
// the store's read lock at OpenDir time; it never observes writes that
// happen after the snapshot, the same way a stdfs directory handle opened
// at one instant doesn't see files created after it was opened.
type dirSource struct {
	entries []vfskit.Entry
	pos     int
}

func (d *dirSource) Next() (vfskit.EntryResult, bool) {
	if d.pos >= len(d.entries) {
		return vfskit.EntryResult{}, false
	}

	e := d.entries[d.pos]
	d.pos++

	return vfskit.EntryResult{Entry: e}, true
}

func (m *Memfs) OpenDir(path string) (*vfskit.EntryIter, error) {
	abs, err := m.Abs(path)
	if err != nil {
		return nil, vfskit.WrapPath("opendir", path, err)
	}

	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	e, ok := m.s.entries[abs]
	if !ok {
		return nil, vfskit.WrapPath("opendir", path, vfskit.ErrDoesNotExist)
	}

	if !e.IsDir() {
		return nil, vfskit.WrapPath("opendir", path, vfskit.ErrIsNotDir)
	}

	children := m.s.childPaths(abs)
	entries := make([]vfskit.Entry, 0, len(children))

	for _, childPath := range children {
		if child, ok := m.s.entries[childPath]; ok {
			entries = append(entries, *child)
		}
	}

	return vfskit.NewEntryIter(&dirSource{entries: entries}), nil
}
