/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package cabinet_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/cabinet/cabinet"
	"bennypowers.dev/cabinet/config"
	"bennypowers.dev/cabinet/internal/mapfs"
	"bennypowers.dev/cabinet/lookup"
	"bennypowers.dev/cabinet/moduletype"
	"bennypowers.dev/cabinet/testutil"
)

// spy records the requests it receives and returns a fixed outcome.
type spy struct {
	mu     sync.Mutex
	name   string
	result string
	err    error
	calls  []lookup.Request
}

func newSpy(name string) *spy {
	return &spy{name: name, result: "/resolved/by/" + name}
}

func (s *spy) Resolve(req lookup.Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, req)
	return s.result, s.err
}

func (s *spy) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type spies struct {
	generic, amd, commonjs, sass, stylus, typescript *spy
}

func (s spies) all() []*spy {
	return []*spy{s.generic, s.amd, s.commonjs, s.sass, s.stylus, s.typescript}
}

// newSpyCabinet builds a Cabinet over the filing fixtures whose built-in
// resolvers are all spies.
func newSpyCabinet(t *testing.T) (*cabinet.Cabinet, spies) {
	t.Helper()
	s := spies{
		generic:    newSpy("generic"),
		amd:        newSpy("amd"),
		commonjs:   newSpy("commonjs"),
		sass:       newSpy("sass"),
		stylus:     newSpy("stylus"),
		typescript: newSpy("typescript"),
	}
	c := cabinet.New(cabinet.Options{
		FS:         testutil.NewFixtureFS(t, "filing", "/"),
		Generic:    s.generic,
		AMD:        s.amd,
		CommonJS:   s.commonjs,
		Sass:       s.sass,
		Stylus:     s.stylus,
		TypeScript: s.typescript,
	})
	return c, s
}

// assertOnlyCalled checks that want received exactly one call and every
// other spy none.
func assertOnlyCalled(t *testing.T, s spies, want *spy) {
	t.Helper()
	for _, sp := range s.all() {
		if sp == want {
			assert.Equal(t, 1, sp.count(), "%s resolver calls", sp.name)
		} else {
			assert.Zero(t, sp.count(), "%s resolver calls", sp.name)
		}
	}
}

func TestResolve_BuiltinRouting(t *testing.T) {
	tests := []struct {
		filename string
		want     func(spies) *spy
	}{
		{"/js/amd/foo.js", func(s spies) *spy { return s.amd }},
		{"/js/commonjs/foo.js", func(s spies) *spy { return s.commonjs }},
		{"/js/es6/foo.js", func(s spies) *spy { return s.generic }},
		{"/sass/foo.scss", func(s spies) *spy { return s.sass }},
		{"/sass/foo.sass", func(s spies) *spy { return s.sass }},
		{"/stylus/foo.styl", func(s spies) *spy { return s.stylus }},
		{"/ts/foo.ts", func(s spies) *spy { return s.typescript }},
		{"/ts/foo.tsx", func(s spies) *spy { return s.typescript }},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			c, s := newSpyCabinet(t)
			want := tt.want(s)

			got, err := c.Resolve(cabinet.Request{
				Partial:   "./bar",
				Filename:  tt.filename,
				Directory: "/",
			})
			require.NoError(t, err)
			assert.Equal(t, want.result, got)
			assertOnlyCalled(t, s, want)
		})
	}
}

func TestResolve_PassesRequestThrough(t *testing.T) {
	c, s := newSpyCabinet(t)
	cfg := &config.Config{TSConfig: "/tsconfig.json"}
	req := cabinet.Request{
		Partial:   "./bar",
		Filename:  "/ts/foo.ts",
		Directory: "/",
		Config:    cfg,
	}

	_, err := c.Resolve(req)
	require.NoError(t, err)
	require.Len(t, s.typescript.calls, 1)
	assert.Equal(t, req, s.typescript.calls[0])
}

func TestResolve_AMDPathUnchanged(t *testing.T) {
	c, s := newSpyCabinet(t)
	s.amd.result = "foo/bar"

	got, err := c.Resolve(cabinet.Request{
		Partial:   "./bar",
		Filename:  "js/amd/foo.js",
		Directory: "js/amd/",
	})
	require.NoError(t, err)
	assert.Equal(t, "foo/bar", got)
	assertOnlyCalled(t, s, s.amd)
}

func TestResolve_ModuleSystemOverride(t *testing.T) {
	tests := []struct {
		setting string
		want    func(spies) *spy
	}{
		{"commonjs", func(s spies) *spy { return s.commonjs }},
		{"amd", func(s spies) *spy { return s.amd }},
		{"es6", func(s spies) *spy { return s.generic }},
		{"bogus", func(s spies) *spy { return s.amd }},
	}

	for _, tt := range tests {
		t.Run(tt.setting, func(t *testing.T) {
			c, s := newSpyCabinet(t)
			_, err := c.Resolve(cabinet.Request{
				Partial:   "./bar",
				Filename:  "/js/amd/foo.js",
				Directory: "/",
				Config:    &config.Config{ModuleSystem: tt.setting},
			})
			require.NoError(t, err)
			assertOnlyCalled(t, s, tt.want(s))
		})
	}
}

func TestResolve_UnreadableJavaScriptUsesGeneric(t *testing.T) {
	c, s := newSpyCabinet(t)
	_, err := c.Resolve(cabinet.Request{
		Partial:   "./bar",
		Filename:  "/js/missing.js",
		Directory: "/",
	})
	require.NoError(t, err)
	assertOnlyCalled(t, s, s.generic)
}

func TestResolve_UnsupportedExtension(t *testing.T) {
	tests := []struct {
		name     string
		filename string
	}{
		{"unregistered extension", "/docs/readme.txt"},
		{"no extension", "/bin/Makefile"},
		{"case differs", "/js/es6/FOO.JS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, s := newSpyCabinet(t)

			got, err := c.Resolve(cabinet.Request{
				Partial:   "./bar",
				Filename:  tt.filename,
				Directory: "/",
			})
			require.NoError(t, err)
			assert.Empty(t, got)
			assertOnlyCalled(t, s, nil)

			result, err := c.ResolveDetailed(cabinet.Request{
				Partial:   "./bar",
				Filename:  tt.filename,
				Directory: "/",
			})
			require.NoError(t, err)
			assert.Equal(t, cabinet.ReasonUnsupportedExtension, result.Reason)
		})
	}
}

func TestRegister_Override(t *testing.T) {
	c, _ := newSpyCabinet(t)
	a, b := newSpy("a"), newSpy("b")
	req := cabinet.Request{Partial: "./x", Filename: "/src/widget.foobar", Directory: "/"}

	c.Register(".foobar", a)
	got, err := c.Resolve(req)
	require.NoError(t, err)
	assert.Equal(t, a.result, got)

	c.Register(".foobar", b)
	got, err = c.Resolve(req)
	require.NoError(t, err)
	assert.Equal(t, b.result, got)

	assert.Equal(t, 1, a.count())
	assert.Equal(t, 1, b.count())
}

func TestRegister_Isolation(t *testing.T) {
	c, s := newSpyCabinet(t)
	c.Register(".foobar", newSpy("foobar"))

	for _, filename := range []string{"/stylus/foo.styl", "/sass/foo.scss", "/sass/foo.sass"} {
		_, err := c.Resolve(cabinet.Request{Partial: "bar", Filename: filename, Directory: "/"})
		require.NoError(t, err)
	}

	assert.Equal(t, 1, s.stylus.count())
	assert.Equal(t, 2, s.sass.count())
}

func TestRegister_Multiple(t *testing.T) {
	c, _ := newSpyCabinet(t)
	foobar, barbar := newSpy("foobar"), newSpy("barbar")
	c.Register(".foobar", foobar)
	c.Register(".barbar", barbar)

	got, err := c.Resolve(cabinet.Request{Partial: "x", Filename: "/a.foobar", Directory: "/"})
	require.NoError(t, err)
	assert.Equal(t, foobar.result, got)

	got, err = c.Resolve(cabinet.Request{Partial: "x", Filename: "/a.barbar", Directory: "/"})
	require.NoError(t, err)
	assert.Equal(t, barbar.result, got)

	assert.Equal(t, 1, foobar.count())
	assert.Equal(t, 1, barbar.count())
}

func TestRegister_ReplacesBuiltin(t *testing.T) {
	c, s := newSpyCabinet(t)
	custom := newSpy("custom")
	c.Register(".styl", custom)

	got, err := c.Resolve(cabinet.Request{Partial: "bar", Filename: "/stylus/foo.styl", Directory: "/"})
	require.NoError(t, err)
	assert.Equal(t, custom.result, got)
	assert.Zero(t, s.stylus.count())
}

func TestResolve_Misses(t *testing.T) {
	tests := []struct {
		name   string
		result string
		err    error
	}{
		{"empty result", "", nil},
		{"not found error", "", lookup.ErrNotFound},
		{"wrapped not found", "/ignored", errors.Join(errors.New("context"), lookup.ErrNotFound)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newSpyCabinet(t)
			miss := &spy{name: "miss", result: tt.result, err: tt.err}
			c.Register(".miss", miss)
			req := cabinet.Request{Partial: "x", Filename: "/a.miss", Directory: "/"}

			got, err := c.Resolve(req)
			require.NoError(t, err)
			assert.Empty(t, got)

			result, err := c.ResolveDetailed(req)
			require.NoError(t, err)
			assert.Equal(t, cabinet.ReasonNotFound, result.Reason)
			assert.Empty(t, result.Path)
		})
	}
}

func TestResolve_MalfunctionPropagates(t *testing.T) {
	c, _ := newSpyCabinet(t)
	boom := errors.New("permission denied")
	c.Register(".broken", &spy{name: "broken", err: boom})

	got, err := c.Resolve(cabinet.Request{Partial: "x", Filename: "/a.broken", Directory: "/"})
	assert.Empty(t, got)
	assert.Same(t, boom, err)
}

func TestResolve_NilResolver(t *testing.T) {
	tests := []struct {
		name     string
		resolver lookup.Resolver
	}{
		{"nil interface", nil},
		{"nil func", lookup.Func(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newSpyCabinet(t)
			c.Register(".nil", tt.resolver)

			_, err := c.Resolve(cabinet.Request{Partial: "x", Filename: "/a.nil", Directory: "/"})
			assert.ErrorIs(t, err, cabinet.ErrNilResolver)
		})
	}
}

func TestResolve_InvalidRequest(t *testing.T) {
	c, s := newSpyCabinet(t)
	tests := []struct {
		name string
		req  cabinet.Request
	}{
		{"missing filename", cabinet.Request{Partial: "./bar", Directory: "/"}},
		{"missing directory", cabinet.Request{Partial: "./bar", Filename: "/js/es6/foo.js"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Resolve(tt.req)
			assert.ErrorIs(t, err, lookup.ErrInvalidRequest)
		})
	}
	assertOnlyCalled(t, s, nil)
}

func TestResolveDetailed(t *testing.T) {
	c, s := newSpyCabinet(t)

	result, err := c.ResolveDetailed(cabinet.Request{
		Partial:   "./bar",
		Filename:  "/js/commonjs/foo.js",
		Directory: "/",
	})
	require.NoError(t, err)
	assert.Equal(t, cabinet.Result{
		Path:         s.commonjs.result,
		Extension:    ".js",
		Reason:       cabinet.ReasonResolved,
		ModuleSystem: moduletype.CommonJS,
	}, result)

	result, err = c.ResolveDetailed(cabinet.Request{
		Partial:   "bar",
		Filename:  "/sass/foo.scss",
		Directory: "/",
	})
	require.NoError(t, err)
	assert.Equal(t, moduletype.None, result.ModuleSystem)
	assert.Equal(t, ".scss", result.Extension)
}

func TestExtensions(t *testing.T) {
	c, _ := newSpyCabinet(t)
	assert.Equal(t,
		[]string{".cjs", ".js", ".jsx", ".mjs", ".sass", ".scss", ".styl", ".ts", ".tsx"},
		c.Extensions())

	c.Register(".vue", newSpy("vue"))
	assert.Contains(t, c.Extensions(), ".vue")
}

func TestDefault_Register(t *testing.T) {
	reg := cabinet.Default().Registry()
	saved := reg.Snapshot()
	t.Cleanup(func() { reg.Restore(saved) })

	custom := newSpy("custom")
	cabinet.Register(".foobar", custom)

	r, ok := cabinet.Lookup(".foobar")
	require.True(t, ok)
	assert.Same(t, custom, r)

	got, err := cabinet.Resolve(cabinet.Request{Partial: "x", Filename: "/a.foobar", Directory: "/"})
	require.NoError(t, err)
	assert.Equal(t, custom.result, got)

	reg.Restore(saved)
	_, ok = cabinet.Lookup(".foobar")
	assert.False(t, ok)
	assert.NotContains(t, cabinet.Extensions(), ".foobar")
}

func TestResolve_BuiltinResolvers(t *testing.T) {
	c := cabinet.New(cabinet.Options{FS: testutil.NewFixtureFS(t, "filing", "/")})

	tests := []struct {
		filename string
		partial  string
		want     string
	}{
		{"/js/amd/foo.js", "./bar", "/js/amd/bar.js"},
		{"/js/commonjs/foo.js", "./bar", "/js/commonjs/bar.js"},
		{"/js/es6/foo.js", "./bar", "/js/es6/bar.js"},
		{"/sass/foo.scss", "bar", "/sass/_bar.scss"},
		{"/stylus/foo.styl", "bar", "/stylus/bar.styl"},
		{"/ts/foo.ts", "./bar", "/ts/bar.ts"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := c.Resolve(cabinet.Request{
				Partial:   tt.partial,
				Filename:  tt.filename,
				Directory: "/",
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_BuiltinMiss(t *testing.T) {
	c := cabinet.New(cabinet.Options{FS: mapfs.FromMap(map[string]string{
		"/src/app.js": `var x = require("./missing");`,
	})})

	result, err := c.ResolveDetailed(cabinet.Request{
		Partial:   "./missing",
		Filename:  "/src/app.js",
		Directory: "/",
	})
	require.NoError(t, err)
	assert.Equal(t, cabinet.ReasonNotFound, result.Reason)
	assert.Equal(t, moduletype.CommonJS, result.ModuleSystem)
}
