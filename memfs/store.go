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

// Package memfs is the in-memory vfskit backend: a flat map of paths to
// entries and a flat map of paths to file contents, guarded by a single
// lock and shared by every clone of a given tree.
package memfs

import (
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/vfskit/vfskit"
	"github.com/vfskit/vfskit/internal/pathutil"
)

type fileData struct {
	content []byte
}

// store is the shared, lockable state behind every Memfs handle pointing
// at the same tree. Handles hold a pointer to one store so clones observe
// each other's writes, mirroring rivia's Arc<RwLock<MemfsInner>>.
type store struct {
	mu sync.RWMutex

	root string
	cwd  string
	home string

	entries map[string]*vfskit.Entry
	data    map[string]*fileData
}

func newStore(root string) *store {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "/root"
	}

	uid, gid := vfskit.CurrentUser()

	s := &store{
		root:    root,
		cwd:     root,
		home:    home,
		entries: make(map[string]*vfskit.Entry),
		data:    make(map[string]*fileData),
	}

	s.entries[root] = &vfskit.Entry{
		Path:     root,
		Kind:     vfskit.KindDir,
		Mode:     vfskit.ApplyUMask(vfskit.DefaultDirPerm),
		UID:      uid,
		GID:      gid,
		Children: map[string]struct{}{},
	}

	return s
}

// abs resolves path per vfskit's Abs rules: expand, trim protocol, clean,
// resolve relative to cwd, reject a ".." that would escape root.
func (s *store) abs(path string) (string, error) {
	if path == "" {
		return "", vfskit.ErrEmpty
	}

	expanded, err := pathutil.Expand(path, s.home)
	if err != nil {
		switch err {
		case pathutil.ErrMultipleHomeSymbols:
			return "", vfskit.ErrMultipleHomeSymbols
		default:
			return "", vfskit.ErrInvalidExpansion
		}
	}

	trimmed := pathutil.TrimProtocol(expanded)

	var full string
	if pathutil.IsAbs(trimmed) {
		full = trimmed
	} else {
		depth := 0
		for _, p := range strings.Split(s.cwd+"/"+trimmed, "/") {
			switch p {
			case "", ".":
			case "..":
				if depth == 0 {
					return "", vfskit.ErrParentNotFound
				}

				depth--
			default:
				depth++
			}
		}

		full = pathutil.Mash(s.cwd, trimmed)
	}

	cleaned := pathutil.Clean(full)

	rootPrefix := s.root
	if rootPrefix != "/" {
		rootPrefix += "/"
	}

	if cleaned != s.root && !strings.HasPrefix(cleaned, rootPrefix) {
		return "", vfskit.ErrParentNotFound
	}

	return cleaned, nil
}

// lookup returns a copy of the entry at path. A symlink is returned as the
// link itself; it is not followed.
func (s *store) lookup(path string) (vfskit.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[path]
	if !ok {
		return vfskit.Entry{}, vfskit.ErrDoesNotExist
	}

	return *e, nil
}

func (s *store) parent(path string) string {
	return pathutil.Dir(path)
}

func (s *store) addEntry(path string, e *vfskit.Entry) error {
	if _, exists := s.entries[path]; exists {
		return vfskit.ErrExistsAlready
	}

	parentPath := s.parent(path)

	parent, ok := s.entries[parentPath]
	if !ok || !parent.IsDir() {
		return vfskit.ErrParentNotFound
	}

	s.entries[path] = e
	parent.Children[pathutil.Base(path)] = struct{}{}

	return nil
}

func (s *store) childPaths(dir string) []string {
	e := s.entries[dir]

	names := make([]string, 0, len(e.Children))
	for name := range e.Children {
		names = append(names, name)
	}

	sort.Strings(names)

	out := make([]string, len(names))
	for i, name := range names {
		out[i] = pathutil.Mash(dir, name)
	}

	return out
}

func perm(mode uint32) fs.FileMode {
	return fs.FileMode(mode) & (fs.ModePerm | fs.ModeSticky | fs.ModeSetuid | fs.ModeSetgid)
}
