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

package stdfs

import (
	"os"

	"github.com/karrick/godirwalk"

	"github.com/vfskit/vfskit"
	"github.com/vfskit/vfskit/internal/pathutil"
)

// scannerSource wraps a godirwalk.Scanner, avoiding the full-slice
// allocation os.ReadDir does for directories the walker only needs to
// visit once.
type scannerSource struct {
	dir     string
	scanner *godirwalk.Scanner
}

func (ss *scannerSource) Next() (vfskit.EntryResult, bool) {
	if !ss.scanner.Scan() {
		if err := ss.scanner.Err(); err != nil {
			return vfskit.EntryResult{Err: err}, true
		}

		return vfskit.EntryResult{}, false
	}

	dirent, err := ss.scanner.Dirent()
	if err != nil {
		return vfskit.EntryResult{Err: err}, true
	}

	childPath := pathutil.Mash(ss.dir, dirent.Name())

	info, serr := os.Lstat(childPath)
	if serr != nil {
		return vfskit.EntryResult{Err: serr}, true
	}

	e := toEntry(childPath, info)

	if e.IsSymlink() {
		if target, rerr := os.Readlink(childPath); rerr == nil {
			e.Alt = target

			if ti, terr := os.Stat(childPath); terr == nil {
				if ti.IsDir() {
					e.ResolvedKind = vfskit.KindDir
				} else {
					e.ResolvedKind = vfskit.KindFile
				}
			}
		}
	}

	return vfskit.EntryResult{Entry: e}, true
}

func (s *Stdfs) OpenDir(path string) (*vfskit.EntryIter, error) {
	abs, err := s.Abs(path)
	if err != nil {
		return nil, vfskit.WrapPath("opendir", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, vfskit.WrapPath("opendir", path, vfskit.ErrDoesNotExist)
		}

		return nil, vfskit.WrapPath("opendir", path, err)
	}

	if !info.IsDir() {
		return nil, vfskit.WrapPath("opendir", path, vfskit.ErrIsNotDir)
	}

	scanner, err := godirwalk.NewScanner(abs)
	if err != nil {
		return nil, vfskit.WrapPath("opendir", path, err)
	}

	return vfskit.NewEntryIter(&scannerSource{dir: abs, scanner: scanner}), nil
}
