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

// Package watch re-runs generation when the IDL file changes on disk.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/cloudwego/idl2sdk/internal/log"
	"github.com/cloudwego/idl2sdk/internal/pipeline"
)

const DefaultDebounce = 300 * time.Millisecond

// Watcher calls OnChange once at start and then after every burst of writes
// to Path whose content differs from the last run. Calls never overlap.
type Watcher struct {
	Path     string
	Debounce time.Duration
	OnChange func(ctx context.Context) error

	lastHash string
}

// Run blocks until ctx is done. Errors from OnChange are logged, not returned.
func (w *Watcher) Run(ctx context.Context) error {
	if w.OnChange == nil {
		return errors.New("watch: OnChange is nil")
	}
	path, err := filepath.Abs(w.Path)
	if err != nil {
		return errors.Wrap(err, "watch")
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "watch")
	}
	defer fw.Close()
	// editors often replace the file instead of writing it, so watch the directory
	if err := fw.Add(filepath.Dir(path)); err != nil {
		return errors.Wrapf(err, "watch %s", filepath.Dir(path))
	}
	log.Info("watching %s", path)

	w.trigger(ctx, path)

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			log.Debug("watch: %s", ev)
			fire = time.After(debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch: %v", err)
		case <-fire:
			fire = nil
			w.trigger(ctx, path)
		}
	}
}

func (w *Watcher) trigger(ctx context.Context, path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn("watch: read %s: %v", path, err)
		return
	}
	hash := pipeline.HashBytes(raw)
	if hash == w.lastHash {
		log.Debug("watch: %s unchanged", path)
		return
	}
	w.lastHash = hash
	if err := w.OnChange(ctx); err != nil {
		log.Error("regenerate: %v", err)
	}
}
