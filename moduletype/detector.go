/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package moduletype

import (
	"fmt"
	"hash/fnv"

	lru "github.com/hashicorp/golang-lru/v2"

	cabfs "bennypowers.dev/cabinet/fs"
)

// DefaultCacheSize is the number of detection results a Detector keeps.
const DefaultCacheSize = 1024

// Detector detects the module system of files on a filesystem. Results are
// cached by path and content hash, so an edited file is parsed again.
type Detector struct {
	fs    cabfs.FileSystem
	cache *lru.Cache[cacheKey, Type]
}

type cacheKey struct {
	path string
	sum  uint64
}

// NewDetector creates a detector reading through filesystem. A non-positive
// size selects DefaultCacheSize.
func NewDetector(filesystem cabfs.FileSystem, size int) *Detector {
	if size <= 0 {
		size = DefaultCacheSize
	}
	// lru.New only fails for non-positive sizes.
	cache, _ := lru.New[cacheKey, Type](size)
	return &Detector{fs: filesystem, cache: cache}
}

// DetectFile reads filename and reports its module system.
func (d *Detector) DetectFile(filename string) (Type, error) {
	src, err := d.fs.ReadFile(filename)
	if err != nil {
		return None, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	h := fnv.New64a()
	_, _ = h.Write(src)
	key := cacheKey{path: filename, sum: h.Sum64()}

	if t, ok := d.cache.Get(key); ok {
		return t, nil
	}

	t, err := Detect(src)
	if err != nil {
		return None, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	d.cache.Add(key, t)
	return t, nil
}

// Len returns the number of cached results.
func (d *Detector) Len() int {
	return d.cache.Len()
}

// Purge drops every cached result.
func (d *Detector) Purge() {
	d.cache.Purge()
}
