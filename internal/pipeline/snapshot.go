// Copyright 2025 ByteDance Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
)

// Snapshot pins the content of an input so later runs can tell whether it changed.
type Snapshot struct {
	Path string
	Hash string // hex-encoded sha256 of the raw bytes
	Size int
}

func NewSnapshot(path string, raw []byte) *Snapshot {
	return &Snapshot{
		Path: path,
		Hash: HashBytes(raw),
		Size: len(raw),
	}
}

// SnapshotFile reads path and snapshots it.
func SnapshotFile(path string) (*Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewSnapshot(path, raw), nil
}

func HashBytes(raw []byte) string {
	h := sha256.Sum256(raw)
	return hex.EncodeToString(h[:])
}
