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

// Package stdfs is the OS-delegating vfskit backend: every operation
// forwards to the real os package, with a concurrent stat cache and a
// mmap-backed fast path for large reads layered on top.
package stdfs

import (
	"os"
	"strings"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/vfskit/vfskit"
	"github.com/vfskit/vfskit/internal/pathutil"
)

// mmapThreshold is the file size at or above which ReadAll uses the mmap-backed
// fast path instead of os.ReadFile.
const mmapThreshold = 4 << 20 // 4 MiB

// Stdfs forwards every vfskit.FS operation to the operating system, rooted
// at an arbitrary directory so tests can sandbox themselves under a
// scratch tree instead of touching the real filesystem root.
type Stdfs struct {
	root string

	cwdMu sync.RWMutex
	cwd   string

	// stats caches Lstat results keyed by absolute path. Any write
	// operation through this Stdfs invalidates the path it touched.
	stats *xsync.MapOf[string, vfskit.Entry]
}

// New returns a Stdfs rooted at root, made absolute against the process's
// working directory. New does not check that root exists.
func New(root string) (*Stdfs, error) {
	abs, err := pathAbs(root)
	if err != nil {
		return nil, err
	}

	return &Stdfs{
		root:  abs,
		cwd:   abs,
		stats: xsync.NewMapOf[string, vfskit.Entry](),
	}, nil
}

// NewVFS returns a ready-to-use VFS wrapping a Stdfs rooted at root.
func NewVFS(root string) (vfskit.VFS, error) {
	s, err := New(root)
	if err != nil {
		return vfskit.VFS{}, err
	}

	return vfskit.Upcast(vfskit.Standard, s), nil
}

func pathAbs(path string) (string, error) {
	abs, err := os.Getwd()
	if err != nil {
		return "", err
	}

	if pathutil.IsAbs(path) {
		return pathutil.Clean(path), nil
	}

	return pathutil.Clean(pathutil.Mash(abs, path)), nil
}

func (s *Stdfs) Root() string { return s.root }

func (s *Stdfs) Getwd() (string, error) {
	s.cwdMu.RLock()
	defer s.cwdMu.RUnlock()

	return s.cwd, nil
}

func (s *Stdfs) SetCwd(path string) error {
	abs, err := s.Abs(path)
	if err != nil {
		return vfskit.WrapPath("setcwd", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return vfskit.WrapPath("setcwd", path, vfskit.ErrDoesNotExist)
	}

	if !info.IsDir() {
		return vfskit.WrapPath("setcwd", path, vfskit.ErrIsNotDir)
	}

	s.cwdMu.Lock()
	s.cwd = abs
	s.cwdMu.Unlock()

	return nil
}

// Abs resolves path against this Stdfs's cwd and root, applying the same
// expand/trim-protocol/clean rules memfs does, including the same
// root-escape rejection.
func (s *Stdfs) Abs(path string) (string, error) {
	if path == "" {
		return "", vfskit.WrapPath("abs", path, vfskit.ErrEmpty)
	}

	home, _ := os.UserHomeDir()

	expanded, err := pathutil.Expand(path, home)
	if err != nil {
		switch err {
		case pathutil.ErrMultipleHomeSymbols:
			return "", vfskit.WrapPath("abs", path, vfskit.ErrMultipleHomeSymbols)
		default:
			return "", vfskit.WrapPath("abs", path, vfskit.ErrInvalidExpansion)
		}
	}

	trimmed := pathutil.TrimProtocol(expanded)

	s.cwdMu.RLock()
	cwd := s.cwd
	s.cwdMu.RUnlock()

	var full string
	if pathutil.IsAbs(trimmed) {
		full = trimmed
	} else {
		full = pathutil.Mash(cwd, trimmed)
	}

	cleaned := pathutil.Clean(full)

	rootPrefix := s.root
	if rootPrefix != "/" {
		rootPrefix += "/"
	}

	if cleaned != s.root && !strings.HasPrefix(cleaned, rootPrefix) {
		return "", vfskit.WrapPath("abs", path, vfskit.ErrParentNotFound)
	}

	return cleaned, nil
}

func (s *Stdfs) invalidate(path string) {
	s.stats.Delete(path)
}
