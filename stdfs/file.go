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

	"github.com/vfskit/vfskit"
)

func (s *Stdfs) OpenWrite(path string) (vfskit.WriteHandle, error) {
	abs, err := s.Abs(path)
	if err != nil {
		return nil, vfskit.WrapPath("open", path, err)
	}

	if err := os.MkdirAll(parentOf(abs), vfskit.ApplyUMask(vfskit.DefaultDirPerm)); err != nil {
		return nil, vfskit.WrapPath("open", path, err)
	}

	f, err := os.OpenFile(abs, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, vfskit.ApplyUMask(vfskit.DefaultFilePerm))
	if err != nil {
		return nil, vfskit.WrapPath("open", path, err)
	}

	s.invalidate(abs)

	return f, nil
}

func (s *Stdfs) OpenAppend(path string) (vfskit.WriteHandle, error) {
	abs, err := s.Abs(path)
	if err != nil {
		return nil, vfskit.WrapPath("open", path, err)
	}

	if err := os.MkdirAll(parentOf(abs), vfskit.ApplyUMask(vfskit.DefaultDirPerm)); err != nil {
		return nil, vfskit.WrapPath("open", path, err)
	}

	f, err := os.OpenFile(abs, os.O_WRONLY|os.O_CREATE|os.O_APPEND, vfskit.ApplyUMask(vfskit.DefaultFilePerm))
	if err != nil {
		return nil, vfskit.WrapPath("open", path, err)
	}

	s.invalidate(abs)

	return f, nil
}

func (s *Stdfs) OpenRead(path string) (vfskit.ReadHandle, error) {
	abs, err := s.Abs(path)
	if err != nil {
		return nil, vfskit.WrapPath("open", path, err)
	}

	f, err := os.Open(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, vfskit.WrapPath("open", path, vfskit.ErrDoesNotExist)
		}

		return nil, vfskit.WrapPath("open", path, err)
	}

	return f, nil
}

func (s *Stdfs) WriteAll(path string, data []byte) error {
	abs, err := s.Abs(path)
	if err != nil {
		return vfskit.WrapPath("writeall", path, err)
	}

	if err := os.MkdirAll(parentOf(abs), vfskit.ApplyUMask(vfskit.DefaultDirPerm)); err != nil {
		return vfskit.WrapPath("writeall", path, err)
	}

	if err := os.WriteFile(abs, data, vfskit.ApplyUMask(vfskit.DefaultFilePerm)); err != nil {
		return vfskit.WrapPath("writeall", path, err)
	}

	s.invalidate(abs)

	return nil
}

func (s *Stdfs) Append(path string, data []byte) error {
	abs, err := s.Abs(path)
	if err != nil {
		return vfskit.WrapPath("append", path, err)
	}

	f, err := os.OpenFile(abs, os.O_WRONLY|os.O_CREATE|os.O_APPEND, vfskit.ApplyUMask(vfskit.DefaultFilePerm))
	if err != nil {
		return vfskit.WrapPath("append", path, err)
	}

	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return vfskit.WrapPath("append", path, err)
	}

	s.invalidate(abs)

	return nil
}

func parentOf(path string) string {
	i := len(path) - 1
	for i > 0 && path[i] != '/' {
		i--
	}

	if i == 0 {
		return "/"
	}

	return path[:i]
}
