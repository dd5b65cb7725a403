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

import (
	"strconv"

	"github.com/valyala/fastrand"
)

// RndTreeOpts configures RndTree, a random directory-tree generator that
// works against either backend through the FS interface.
type RndTreeOpts struct {
	NbDirs      int // Number of directories.
	NbFiles     int // Number of files.
	NbSymlinks  int // Number of symbolic links.
	MaxFileSize int // Maximum size of a generated file, in bytes.
	MaxDepth    int // Maximum depth of the tree.
}

// RndTreeDir describes a directory RndTree will create.
type RndTreeDir struct {
	Path  string
	Depth int
}

// RndTreeFile describes a file RndTree will create.
type RndTreeFile struct {
	Path string
	Size int
}

// RndTreeSymlink describes a symbolic link RndTree will create.
type RndTreeSymlink struct {
	OldPath, NewPath string
}

// RndTree generates a random tree of directories, files and symbolic links
// against an FS, using fastrand for a fast, seedable source of randomness.
type RndTree struct {
	fs   FS
	rng  fastrand.RNG
	opts RndTreeOpts

	dirs     []RndTreeDir
	files    []RndTreeFile
	symlinks []RndTreeSymlink
}

// NewRndTree returns a generator for fs configured by opts. Negative option
// values are clamped to zero.
func NewRndTree(fsys FS, opts RndTreeOpts) *RndTree {
	if opts.NbDirs < 0 {
		opts.NbDirs = 0
	}

	if opts.NbFiles < 0 {
		opts.NbFiles = 0
	}

	if opts.NbSymlinks < 0 {
		opts.NbSymlinks = 0
	}

	if opts.MaxDepth < 0 {
		opts.MaxDepth = 0
	}

	if opts.MaxFileSize < 0 {
		opts.MaxFileSize = 0
	}

	return &RndTree{fs: fsys, opts: opts}
}

// Generate populates the tree's Dirs, Files and Symlinks without touching
// fs; call CreateTree afterwards to materialize it.
func (rt *RndTree) Generate() {
	if rt.dirs != nil {
		return
	}

	nameIdx := 0
	name := func(prefix string) string {
		nameIdx++
		return prefix + "-" + strconv.Itoa(nameIdx)
	}

	parents := make([]RndTreeDir, 1, 10)
	parents[0] = RndTreeDir{}

	dirs := make([]RndTreeDir, rt.opts.NbDirs)
	for i := range dirs {
		parent := parents[rt.rng.Uint32n(uint32(len(parents)))]
		dir := RndTreeDir{Path: parent.Path + "/" + name("dir"), Depth: parent.Depth + 1}
		dirs[i] = dir

		if dir.Depth < rt.opts.MaxDepth {
			parents = append(parents, dir)
		}
	}

	rt.dirs = dirs

	if rt.opts.NbFiles == 0 {
		rt.files = []RndTreeFile{}
		rt.symlinks = []RndTreeSymlink{}

		return
	}

	files := make([]RndTreeFile, rt.opts.NbFiles)

	for i := range files {
		parent := parents[rt.rng.Uint32n(uint32(len(parents)))]

		size := 0
		if rt.opts.MaxFileSize > 0 {
			size = int(rt.rng.Uint32n(uint32(rt.opts.MaxFileSize)))
		}

		files[i] = RndTreeFile{Path: parent.Path + "/" + name("file"), Size: size}
	}

	rt.files = files

	symlinks := make([]RndTreeSymlink, rt.opts.NbSymlinks)
	for i := range symlinks {
		oldFile := files[rt.rng.Uint32n(uint32(len(files)))]
		newDir := parents[rt.rng.Uint32n(uint32(len(parents)))]

		symlinks[i] = RndTreeSymlink{OldPath: oldFile.Path, NewPath: newDir.Path + "/" + name("symlink")}
	}

	rt.symlinks = symlinks
}

// CreateTree materializes the generated (or freshly generated) tree under
// baseDir.
func (rt *RndTree) CreateTree(baseDir string) error {
	rt.Generate()

	for _, d := range rt.dirs {
		if err := rt.fs.MkdirP(joinPath(baseDir, d.Path)); err != nil {
			return err
		}
	}

	buf := make([]byte, rt.opts.MaxFileSize)
	for i := range buf {
		buf[i] = byte(rt.rng.Uint32())
	}

	for _, f := range rt.files {
		if err := rt.fs.WriteAll(joinPath(baseDir, f.Path), buf[:f.Size]); err != nil {
			return err
		}
	}

	for _, s := range rt.symlinks {
		err := rt.fs.Symlink(joinPath(baseDir, s.OldPath), joinPath(baseDir, s.NewPath))
		if err != nil {
			return err
		}
	}

	return nil
}

func (rt *RndTree) Dirs() []RndTreeDir         { return rt.dirs }
func (rt *RndTree) Files() []RndTreeFile       { return rt.files }
func (rt *RndTree) Symlinks() []RndTreeSymlink { return rt.symlinks }

func joinPath(base, rel string) string {
	if rel == "" {
		return base
	}

	return base + rel
}
