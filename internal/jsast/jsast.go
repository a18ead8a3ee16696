/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package jsast wraps the tree-sitter JavaScript grammar with the handful of
// syntax-tree queries cabinet needs: walking call expressions and reading
// literal values.
package jsast

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"
	tsjs "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

// ErrParse indicates the parser produced no tree for the source.
var ErrParse = errors.New("failed to parse javascript")

var language = ts.NewLanguage(tsjs.Language())

// Node is a syntax tree node.
type Node = ts.Node

// Document is a parsed JavaScript source. Close releases the tree.
type Document struct {
	Source []byte
	tree   *ts.Tree
}

// Parse parses JavaScript (JSX included) source. The parser tolerates syntax
// errors, so a document is returned for any input the grammar can load.
func Parse(src []byte) (*Document, error) {
	parser := ts.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("loading javascript grammar: %w", err)
	}

	tree := parser.Parse(src, nil)
	if tree == nil {
		return nil, ErrParse
	}
	return &Document{Source: src, tree: tree}, nil
}

// Close releases the underlying syntax tree.
func (d *Document) Close() {
	d.tree.Close()
}

// Root returns the program node.
func (d *Document) Root() *Node {
	return d.tree.RootNode()
}

// Text returns the source text covered by n.
func (d *Document) Text(n *Node) string {
	return n.Utf8Text(d.Source)
}

// Walk visits n and its descendants depth-first. Returning false from visit
// skips the children of the visited node.
func Walk(n *Node, visit func(*Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		Walk(n.Child(i), visit)
	}
}

// Callee returns the dotted name of a call expression's function, such as
// "define" or "require.config". Computed callees yield "".
func (d *Document) Callee(call *Node) string {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return ""
	}
	switch fn.Kind() {
	case "identifier", "member_expression":
		return d.Text(fn)
	default:
		return ""
	}
}

// Arguments returns the named argument nodes of a call expression.
func Arguments(call *Node) []*Node {
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return nil
	}
	return namedChildren(args)
}

// StringValue returns the contents of a string literal, or of a template
// literal without substitutions.
func (d *Document) StringValue(n *Node) (string, bool) {
	switch n.Kind() {
	case "string":
		text := d.Text(n)
		if len(text) < 2 {
			return "", false
		}
		return text[1 : len(text)-1], true
	case "template_string":
		for _, child := range namedChildren(n) {
			if child.Kind() == "template_substitution" {
				return "", false
			}
		}
		return strings.Trim(d.Text(n), "`"), true
	default:
		return "", false
	}
}

// Value converts a literal node to plain Go data: objects become
// map[string]any, arrays []any, numbers float64. Anything that is not a
// literal (functions, identifiers, spreads) reports false.
func (d *Document) Value(n *Node) (any, bool) {
	switch n.Kind() {
	case "string", "template_string":
		return d.StringValue(n)
	case "number":
		f, err := strconv.ParseFloat(d.Text(n), 64)
		if err != nil {
			return nil, false
		}
		return f, true
	case "true":
		return true, true
	case "false":
		return false, true
	case "null":
		return nil, true
	case "parenthesized_expression":
		children := namedChildren(n)
		if len(children) != 1 {
			return nil, false
		}
		return d.Value(children[0])
	case "array":
		var out []any
		for _, child := range namedChildren(n) {
			if child.Kind() == "comment" {
				continue
			}
			if v, ok := d.Value(child); ok {
				out = append(out, v)
			}
		}
		return out, true
	case "object":
		out := make(map[string]any)
		for _, child := range namedChildren(n) {
			if child.Kind() != "pair" {
				continue
			}
			key, ok := d.propertyKey(child.ChildByFieldName("key"))
			if !ok {
				continue
			}
			valueNode := child.ChildByFieldName("value")
			if valueNode == nil {
				continue
			}
			if v, ok := d.Value(valueNode); ok {
				out[key] = v
			}
		}
		return out, true
	default:
		return nil, false
	}
}

func (d *Document) propertyKey(n *Node) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Kind() {
	case "property_identifier", "number":
		return d.Text(n), true
	case "string":
		return d.StringValue(n)
	default:
		return "", false
	}
}

func namedChildren(n *Node) []*Node {
	count := n.NamedChildCount()
	children := make([]*Node, 0, count)
	for i := uint(0); i < count; i++ {
		if child := n.NamedChild(i); child != nil {
			children = append(children, child)
		}
	}
	return children
}
