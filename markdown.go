// Copyright 2024 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package commonmark

import (
	"bytes"
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
)

// Markdown bundles a parser and an HTML renderer configuration, plus any
// registered Extensions, into one reusable value (spec.md §6's "a single
// collaborator bundling parse+render", mirroring marko's
// Markdown.__init__/use design).
type Markdown struct {
	Renderer HTMLRenderer

	extensions map[string]Extension
	setupDone  bool
}

// Use registers one or more Extensions. It may only be called once per
// Markdown value (mirroring marko's SetupDone guard); calling it twice,
// or passing extensions whose names collide, is a setup-time error —
// never a panic, since registering extensions is ordinary fallible setup
// code, not a programmer-error-only path.
func (md *Markdown) Use(extensions ...Extension) error {
	if md.setupDone {
		return fmt.Errorf("commonmark: Markdown.Use called more than once")
	}
	md.setupDone = true
	md.extensions = make(map[string]Extension, len(extensions))

	var errs error
	for _, ext := range extensions {
		if ext.Name == "" {
			errs = multierror.Append(errs, fmt.Errorf("commonmark: extension registered with empty Name"))
			continue
		}
		if _, exists := md.extensions[ext.Name]; exists {
			errs = multierror.Append(errs, fmt.Errorf("commonmark: extension %q registered more than once", ext.Name))
			continue
		}
		md.extensions[ext.Name] = ext
	}
	if errs != nil {
		return errs
	}
	md.Renderer.extensions = md.extensions
	return nil
}

// Parse parses source into a Document tree and the document's link
// reference definitions. Parsing a CommonMark document can never fail:
// every byte sequence is some valid (if perhaps unexpected) tree (spec.md
// §7's never-fatal-on-user-Markdown invariant).
func (md *Markdown) Parse(source []byte) (*Block, ReferenceMap) {
	return parseDocument(source)
}

// Render writes doc as HTML to w, using md's renderer configuration.
func (md *Markdown) Render(w io.Writer, source []byte, doc *Block, lrds ReferenceMap) error {
	r := md.Renderer
	r.ReferenceMap = lrds
	r.extensions = md.extensions
	return r.RenderHTML(w, source, doc)
}

// Convert is the one-shot convenience path: parse source and render it to
// HTML, returning the result as a string.
func (md *Markdown) Convert(source []byte) (string, error) {
	doc, lrds := md.Parse(source)
	var buf bytes.Buffer
	if err := md.Render(&buf, source, doc, lrds); err != nil {
		return "", err
	}
	return buf.String(), nil
}
