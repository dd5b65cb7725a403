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

import "io/fs"

// DefaultMaxDescriptors is the default ceiling on live directory handles an
// EntriesIter holds open simultaneously before it falls back to caching.
const DefaultMaxDescriptors = 50

// DirOpener is the backend hook the traversal engine walks through. memfs
// and stdfs each implement one.
type DirOpener interface {
	// Stat returns the Entry for path without following a trailing symlink.
	Stat(path string) (Entry, error)

	// OpenDir returns an iterator over path's immediate children. path must
	// be a directory.
	OpenDir(path string) (*EntryIter, error)
}

// Item is a single value produced by an EntriesIter: either an Entry or an
// error encountered while walking.
type Item struct {
	Entry Entry
	Err   error
}

// Entries is a builder configuring a depth-first walk of a directory tree
// rooted at Root. Call Walk to obtain the EntriesIter.
type Entries struct {
	fs   DirOpener
	root string

	dirs, files bool
	follow      bool

	minDepth, maxDepth int // -1 means unset

	maxDescriptors int

	dirsFirst, filesFirst, sortByName, contentsFirst bool
	sortCmp                                           func(a, b Entry) bool

	preOp func(Entry) error
}

// NewEntries returns a builder for a walk rooted at root, using fs to open
// directories.
func NewEntries(fsys DirOpener, root string) *Entries {
	return &Entries{
		fs:             fsys,
		root:           root,
		minDepth:       -1,
		maxDepth:       -1,
		maxDescriptors: DefaultMaxDescriptors,
	}
}

// Dirs restricts emitted entries to directories and symlinks to
// directories, whether or not Follow is set.
func (e *Entries) Dirs(yes bool) *Entries { e.dirs = yes; return e }

// Files restricts emitted entries to regular files and symlinks to files,
// whether or not Follow is set.
func (e *Entries) Files(yes bool) *Entries { e.files = yes; return e }

// Follow enables symlink resolution: a symlink to a directory is descended
// into and a symlink entry's Path reports its target (Alt keeps the link).
func (e *Entries) Follow(yes bool) *Entries { e.follow = yes; return e }

// MinDepth sets the minimum depth (root is depth 0) an entry must be at to
// be emitted. Setting MinDepth above the current MaxDepth raises MaxDepth
// to match.
func (e *Entries) MinDepth(d int) *Entries {
	e.minDepth = d
	if e.maxDepth >= 0 && e.minDepth > e.maxDepth {
		e.maxDepth = e.minDepth
	}

	return e
}

// MaxDepth sets the maximum depth walked. Setting MaxDepth below the
// current MinDepth lowers MinDepth to match.
func (e *Entries) MaxDepth(d int) *Entries {
	e.maxDepth = d
	if e.minDepth >= 0 && e.maxDepth < e.minDepth {
		e.minDepth = e.maxDepth
	}

	return e
}

// Depths returns the currently configured min/max depth, or -1 for either
// bound left unset.
func (e *Entries) Depths() (min, max int) { return e.minDepth, e.maxDepth }

// MaxDescriptors sets the ceiling on simultaneously open live directory
// handles before the walker falls back to caching an iterator instead.
func (e *Entries) MaxDescriptors(n int) *Entries { e.maxDescriptors = n; return e }

// DirsFirst sorts each directory's children with cmp, directories (and
// listing errors) before files.
func (e *Entries) DirsFirst(cmp func(a, b Entry) bool) *Entries {
	e.dirsFirst, e.filesFirst = true, false
	e.sortCmp = cmp

	return e
}

// FilesFirst is the mirror of DirsFirst: files before directories.
func (e *Entries) FilesFirst(cmp func(a, b Entry) bool) *Entries {
	e.filesFirst, e.dirsFirst = true, false
	e.sortCmp = cmp

	return e
}

// SortByName sorts each directory's children lexically by Path.
func (e *Entries) SortByName() *Entries {
	e.sortByName = true
	e.sortCmp = func(a, b Entry) bool { return a.Path < b.Path }

	return e
}

// Sort sorts each directory's children with cmp.
func (e *Entries) Sort(cmp func(a, b Entry) bool) *Entries {
	e.sortByName = true
	e.sortCmp = cmp

	return e
}

// ContentsFirst defers emission of a directory's own entry until after all
// of its descendants have been emitted (post-order).
func (e *Entries) ContentsFirst(yes bool) *Entries { e.contentsFirst = yes; return e }

// PreOp installs a callback invoked on a directory entry just before the
// walker descends into it, before any of its children are visited.
func (e *Entries) PreOp(fn func(Entry) error) *Entries { e.preOp = fn; return e }

func (e *Entries) needsCache() bool {
	return e.dirsFirst || e.filesFirst || e.sortByName
}

func (e *Entries) cmp() func(a, b Entry) bool {
	if e.sortCmp != nil {
		return e.sortCmp
	}

	return func(a, b Entry) bool { return a.Path < b.Path }
}

// Walk starts the traversal and returns the iterator producing Items.
func (e *Entries) Walk() (*EntriesIter, error) {
	root, err := e.fs.Stat(e.root)
	if err != nil {
		return nil, err
	}

	return &EntriesIter{b: e, rootPending: true, rootEntry: root.WithFollow(e.follow)}, nil
}

type entriesFrame struct {
	path       string
	depth      int
	iter       *EntryIter
	self       Entry
	deferSelf  bool
	liveHandle bool
}

// EntriesIter is the running depth-first walk produced by Entries.Walk.
type EntriesIter struct {
	b    *Entries
	done bool

	rootPending bool
	rootEntry   Entry

	stack  []*entriesFrame
	openFD int
}

func (it *EntriesIter) inStack(path string) bool {
	for _, f := range it.stack {
		if f.path == path {
			return true
		}
	}

	return false
}

func (it *EntriesIter) passes(entry Entry, depth int) bool {
	if it.b.minDepth >= 0 && depth < it.b.minDepth {
		return false
	}

	if it.b.maxDepth >= 0 && depth > it.b.maxDepth {
		return false
	}

	switch {
	case it.b.dirs && !it.b.files:
		return entry.IsDir()
	case it.b.files && !it.b.dirs:
		return entry.IsFile()
	default:
		return true
	}
}

func (it *EntriesIter) openDir(path string, depth int) (*entriesFrame, error) {
	iter, err := it.b.fs.OpenDir(path)
	if err != nil {
		return nil, err
	}

	frame := &entriesFrame{path: path, depth: depth, iter: iter}

	needCache := it.b.needsCache() || it.openFD+1 > it.b.maxDescriptors
	if needCache {
		iter.Cache()
	} else {
		it.openFD++
		frame.liveHandle = true
	}

	cmp := it.b.cmp()

	switch {
	case it.b.dirsFirst:
		iter.DirsFirst(cmp)
	case it.b.filesFirst:
		iter.FilesFirst(cmp)
	case it.b.sortByName:
		iter.Sort(cmp)
	}

	return frame, nil
}

func (it *EntriesIter) push(f *entriesFrame) {
	it.stack = append(it.stack, f)
}

func (it *EntriesIter) pop() *entriesFrame {
	n := len(it.stack)
	f := it.stack[n-1]
	it.stack = it.stack[:n-1]

	if f.liveHandle {
		it.openFD--
	}

	return f
}

// Next returns the next Item produced by the walk, or ok == false once the
// walk is exhausted.
func (it *EntriesIter) Next() (Item, bool) {
	if it.done {
		return Item{}, false
	}

	if it.rootPending {
		it.rootPending = false

		if it.rootEntry.IsDir() && (!it.rootEntry.IsSymlink() || it.b.follow) {
			if it.b.preOp != nil {
				if err := it.b.preOp(it.rootEntry); err != nil {
					it.done = true
					return Item{Err: err}, true
				}
			}

			frame, err := it.openDir(it.rootEntry.Path, 0)
			if err != nil {
				it.done = true
				return Item{Err: err}, true
			}

			if it.b.contentsFirst {
				frame.self = it.rootEntry
				frame.deferSelf = true
				it.push(frame)

				return it.Next()
			}

			it.push(frame)

			if it.passes(it.rootEntry, 0) {
				return Item{Entry: it.rootEntry}, true
			}

			return it.Next()
		}

		it.done = true

		if it.passes(it.rootEntry, 0) {
			return Item{Entry: it.rootEntry}, true
		}

		return Item{}, false
	}

	for {
		if len(it.stack) == 0 {
			it.done = true
			return Item{}, false
		}

		top := it.stack[len(it.stack)-1]

		res, ok := top.iter.Next()
		if !ok {
			frame := it.pop()

			if frame.deferSelf && it.passes(frame.self, frame.depth) {
				return Item{Entry: frame.self}, true
			}

			continue
		}

		if res.Err != nil {
			return Item{Err: res.Err}, true
		}

		entry := res.Entry.WithFollow(it.b.follow)
		depth := top.depth + 1

		if it.b.follow && entry.IsSymlinkDir() {
			// WithFollow already swapped Path to the resolved target.
			if it.inStack(entry.Path) {
				return Item{Err: &fs.PathError{Op: "walk", Path: entry.Alt, Err: ErrLinkLooping}}, true
			}
		}

		descend := entry.IsDir() && (!entry.IsSymlink() || it.b.follow)
		if descend && (it.b.maxDepth < 0 || depth <= it.b.maxDepth) {
			// WithFollow has already swapped Path/Alt for a followed
			// symlink, so Path is the resolved directory to open.
			descPath := entry.Path

			if it.b.preOp != nil {
				if err := it.b.preOp(entry); err != nil {
					return Item{Err: err}, true
				}
			}

			frame, err := it.openDir(descPath, depth)
			if err != nil {
				return Item{Err: err}, true
			}

			if it.b.contentsFirst {
				frame.self = entry
				frame.deferSelf = true
				it.push(frame)

				continue
			}

			it.push(frame)

			if it.passes(entry, depth) {
				return Item{Entry: entry}, true
			}

			continue
		}

		if it.passes(entry, depth) {
			return Item{Entry: entry}, true
		}
	}
}

// Collect drains the iterator into a slice of Items.
func (it *EntriesIter) Collect() []Item {
	var out []Item

	for {
		item, ok := it.Next()
		if !ok {
			break
		}

		out = append(out, item)
	}

	return out
}
