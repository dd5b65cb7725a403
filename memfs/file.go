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

import (
	"bytes"

	"github.com/vfskit/vfskit"
)

// writeHandle buffers writes in memory and commits them to the store as a
// single update on Close, matching the all-or-nothing visibility a snapshot
// based store naturally gives a writer.
type writeHandle struct {
	m    *Memfs
	path string
	buf  bytes.Buffer
}

func (w *writeHandle) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *writeHandle) Close() error {
	return w.m.WriteAll(w.path, w.buf.Bytes())
}

type appendHandle struct {
	m    *Memfs
	path string
	buf  bytes.Buffer
}

func (w *appendHandle) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *appendHandle) Close() error {
	return w.m.Append(w.path, w.buf.Bytes())
}

type readHandle struct {
	r *bytes.Reader
}

func (r *readHandle) Read(p []byte) (int, error) { return r.r.Read(p) }
func (r *readHandle) Close() error                { return nil }

func (m *Memfs) OpenWrite(path string) (vfskit.WriteHandle, error) {
	abs, err := m.Abs(path)
	if err != nil {
		return nil, err
	}

	if err := m.ensureFile(abs); err != nil {
		return nil, err
	}

	return &writeHandle{m: m, path: abs}, nil
}

func (m *Memfs) OpenAppend(path string) (vfskit.WriteHandle, error) {
	abs, err := m.Abs(path)
	if err != nil {
		return nil, err
	}

	if err := m.ensureFile(abs); err != nil {
		return nil, err
	}

	return &appendHandle{m: m, path: abs}, nil
}

func (m *Memfs) OpenRead(path string) (vfskit.ReadHandle, error) {
	data, err := m.ReadAll(path)
	if err != nil {
		return nil, err
	}

	return &readHandle{r: bytes.NewReader(data)}, nil
}
