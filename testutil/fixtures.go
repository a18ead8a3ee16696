/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package testutil provides fixture and golden-file helpers for cabinet tests.
package testutil

import (
	"flag"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"bennypowers.dev/cabinet/internal/mapfs"
)

// updateGolden rewrites golden files with actual output when -update is set.
var updateGolden = flag.Bool("update", false, "update golden files with actual output")

// candidates lists where testdata/name may live relative to a package under
// test, nearest first.
func candidates(name string) []string {
	return []string{
		filepath.Join("testdata", name),
		filepath.Join("..", "testdata", name),
		filepath.Join("..", "..", "testdata", name),
	}
}

// FixturePath returns the on-disk path of a testdata fixture.
func FixturePath(t *testing.T, name string) string {
	t.Helper()
	for _, p := range candidates(name) {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	t.Fatalf("fixture %s not found", name)
	return ""
}

// NewFixtureFS loads a testdata fixture tree into a MapFileSystem, placing
// its files under rootPath.
func NewFixtureFS(t *testing.T, fixtureDir string, rootPath string) *mapfs.MapFileSystem {
	t.Helper()

	fixturePath := FixturePath(t, fixtureDir)
	mfs := mapfs.New()

	err := filepath.WalkDir(fixturePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(fixturePath, path)
		if err != nil {
			return err
		}

		mfs.AddFile(filepath.Join(rootPath, rel), string(content), 0644)
		return nil
	})
	if err != nil {
		t.Fatalf("loading fixtures from %s: %v", fixtureDir, err)
	}

	return mfs
}

// LoadFixtureFile reads a single fixture file.
func LoadFixtureFile(t *testing.T, name string) []byte {
	t.Helper()
	content, err := os.ReadFile(FixturePath(t, name))
	if err != nil {
		t.Fatalf("reading fixture %s: %v", name, err)
	}
	return content
}

// UpdateGoldenFile writes actual to the golden file when -update is set.
func UpdateGoldenFile(t *testing.T, goldenPath string, actual []byte) {
	t.Helper()
	if !*updateGolden {
		return
	}

	paths := candidates(goldenPath)
	target := paths[0]
	for _, p := range paths {
		if _, err := os.Stat(filepath.Dir(p)); err == nil {
			target = p
			break
		}
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		t.Fatalf("creating directory for %s: %v", goldenPath, err)
	}
	if err := os.WriteFile(target, actual, 0644); err != nil {
		t.Fatalf("writing golden file %s: %v", goldenPath, err)
	}
	t.Logf("updated golden file: %s", target)
}
