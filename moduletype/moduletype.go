/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package moduletype detects which JavaScript module system a file uses from
// the markers in its syntax tree.
package moduletype

import (
	"errors"
	"fmt"
	"strings"

	"bennypowers.dev/cabinet/internal/jsast"
)

// ErrUnknownType indicates an unrecognized module system name.
var ErrUnknownType = errors.New("unknown module system")

// Type is a JavaScript module system.
type Type int

const (
	// None means the file carries no module markers.
	None Type = iota
	// AMD modules are wrapped in define() or loaded by require([deps], fn).
	AMD
	// CommonJS modules call require("x") or assign module.exports.
	CommonJS
	// ES6 modules use import and export declarations.
	ES6
)

func (t Type) String() string {
	switch t {
	case AMD:
		return "amd"
	case CommonJS:
		return "commonjs"
	case ES6:
		return "es6"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ParseType parses a module system name as used in config files.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "amd":
		return AMD, nil
	case "commonjs", "cjs":
		return CommonJS, nil
	case "es6", "esm", "es2015":
		return ES6, nil
	case "none", "":
		return None, nil
	default:
		return None, fmt.Errorf("%w: %s", ErrUnknownType, s)
	}
}

// markers records which module-family evidence a file contains.
type markers struct {
	define     bool
	amdRequire bool
	require    bool
	exports    bool
	es6        bool
}

// Type applies the precedence AMD, CommonJS, ES6. A require() call alongside
// import/export declarations is treated as ES6, since bundlers allow that mix
// in ES modules.
func (m markers) Type() Type {
	switch {
	case m.define || m.amdRequire:
		return AMD
	case m.exports || (m.require && !m.es6):
		return CommonJS
	case m.es6:
		return ES6
	default:
		return None
	}
}

// Detect parses src and reports its module system.
func Detect(src []byte) (Type, error) {
	doc, err := jsast.Parse(src)
	if err != nil {
		return None, err
	}
	defer doc.Close()

	var m markers
	jsast.Walk(doc.Root(), func(n *jsast.Node) bool {
		switch n.Kind() {
		case "import_statement", "export_statement":
			m.es6 = true
		case "call_expression":
			inspectCall(doc, n, &m)
		case "assignment_expression":
			inspectAssignment(doc, n, &m)
		}
		return true
	})

	return m.Type(), nil
}

func inspectCall(doc *jsast.Document, call *jsast.Node, m *markers) {
	switch doc.Callee(call) {
	case "define":
		m.define = true
	case "require", "requirejs":
		args := jsast.Arguments(call)
		if len(args) == 0 {
			return
		}
		// require(['a', 'b'], function (a, b) {}) is the AMD driver form.
		if args[0].Kind() == "array" {
			m.amdRequire = true
			return
		}
		if _, ok := doc.StringValue(args[0]); ok {
			m.require = true
		}
	}
}

func inspectAssignment(doc *jsast.Document, assign *jsast.Node, m *markers) {
	left := assign.ChildByFieldName("left")
	if left == nil || left.Kind() != "member_expression" {
		return
	}
	target := doc.Text(left)
	if target == "module.exports" ||
		strings.HasPrefix(target, "module.exports.") ||
		strings.HasPrefix(target, "exports.") {
		m.exports = true
	}
}
