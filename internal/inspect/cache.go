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

package inspect

import (
	"context"
	"crypto/sha256"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachingScanner remembers the exports of sources it has already parsed,
// keyed by content. Watch mode regenerates mostly identical files.
type CachingScanner struct {
	scanner *Scanner
	cache   *lru.Cache[[sha256.Size]byte, []string]
}

func NewCachingScanner(size int) (*CachingScanner, error) {
	cache, err := lru.New[[sha256.Size]byte, []string](size)
	if err != nil {
		return nil, err
	}
	return &CachingScanner{scanner: NewScanner(), cache: cache}, nil
}

// Exports implements the same contract as Scanner.Exports. Results with
// errors are not cached.
func (c *CachingScanner) Exports(ctx context.Context, path string, src []byte) ([]string, error) {
	key := sha256.Sum256(src)
	if names, ok := c.cache.Get(key); ok {
		return append([]string(nil), names...), nil
	}
	names, err := c.scanner.Exports(ctx, path, src)
	if err == nil {
		c.cache.Add(key, append([]string(nil), names...))
	}
	return names, err
}

func (c *CachingScanner) Len() int { return c.cache.Len() }
