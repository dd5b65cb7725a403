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

	"github.com/opencoff/go-mmap"

	"github.com/vfskit/vfskit"
)

// ReadAll returns the full contents of the file at path. Files at or above
// mmapThreshold are read through a memory-mapped view instead of being
// copied into a single os.ReadFile buffer.
func (s *Stdfs) ReadAll(path string) ([]byte, error) {
	abs, err := s.Abs(path)
	if err != nil {
		return nil, vfskit.WrapPath("readall", path, err)
	}

	f, err := os.Open(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, vfskit.WrapPath("readall", path, vfskit.ErrDoesNotExist)
		}

		return nil, vfskit.WrapPath("readall", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, vfskit.WrapPath("readall", path, err)
	}

	if info.IsDir() {
		return nil, vfskit.WrapPath("readall", path, vfskit.ErrIsNotFile)
	}

	if info.Size() < mmapThreshold {
		data, err := os.ReadFile(abs)
		return data, vfskit.WrapPath("readall", path, err)
	}

	out := make([]byte, 0, info.Size())

	_, err = mmap.Reader(f, func(chunk []byte) error {
		out = append(out, chunk...)
		return nil
	})
	if err != nil {
		return nil, vfskit.WrapPath("readall", path, err)
	}

	return out, nil
}
