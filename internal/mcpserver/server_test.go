/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package mcpserver

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/cabinet/cabinet"
	"bennypowers.dev/cabinet/moduletype"
	"bennypowers.dev/cabinet/testutil"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	mfs := testutil.NewFixtureFS(t, "filing", "/project")
	return New(Options{
		Cabinet:  cabinet.New(cabinet.Options{FS: mfs}),
		Detector: moduletype.NewDetector(mfs, 0),
		Root:     "/project",
	})
}

func TestResolveTool(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   ResolveInput
		want ResolveOutput
	}{
		{
			name: "amd relative",
			in:   ResolveInput{Partial: "./bar", Filename: "js/amd/foo.js"},
			want: ResolveOutput{Path: "/project/js/amd/bar.js", Reason: "resolved", Extension: ".js", ModuleSystem: "amd"},
		},
		{
			name: "sass partial",
			in:   ResolveInput{Partial: "bar", Filename: "/project/sass/foo.scss"},
			want: ResolveOutput{Path: "/project/sass/_bar.scss", Reason: "resolved", Extension: ".scss"},
		},
		{
			name: "module system override",
			in:   ResolveInput{Partial: "./missing", Filename: "js/amd/foo.js", ModuleSystem: "commonjs"},
			want: ResolveOutput{Reason: "not found", Extension: ".js", ModuleSystem: "commonjs"},
		},
		{
			name: "unsupported",
			in:   ResolveInput{Partial: "./x", Filename: "notes.txt"},
			want: ResolveOutput{Reason: "unsupported extension", Extension: ".txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, got, err := s.resolve(ctx, nil, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveTool_RelativeWithoutRoot(t *testing.T) {
	s := New(Options{Cabinet: cabinet.New(cabinet.Options{FS: testutil.NewFixtureFS(t, "filing", "/")})})

	_, _, err := s.resolve(context.Background(), nil, ResolveInput{Partial: "./bar", Filename: "js/amd/foo.js"})
	assert.True(t, errors.Is(err, ErrRelativePath), "got %v", err)
}

func TestDetectTool(t *testing.T) {
	s := newServer(t)

	_, got, err := s.detect(context.Background(), nil, DetectInput{Filename: "js/commonjs/foo.js"})
	require.NoError(t, err)
	assert.Equal(t, "commonjs", got.ModuleSystem)

	_, _, err = s.detect(context.Background(), nil, DetectInput{Filename: "js/absent.js"})
	assert.Error(t, err)
}

func TestServer_Session(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := s.MCP().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	names := make([]string, 0, len(tools.Tools))
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"resolve_dependency", "detect_module_system", "list_extensions"}, names)

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: "resolve_dependency",
		Arguments: map[string]any{
			"partial":  "./bar",
			"filename": "js/commonjs/foo.js",
		},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	structured, ok := res.StructuredContent.(map[string]any)
	require.True(t, ok, "structured content: %#v", res.StructuredContent)
	assert.Equal(t, "/project/js/commonjs/bar.js", structured["path"])
	assert.Equal(t, "commonjs", structured["moduleSystem"])
}
