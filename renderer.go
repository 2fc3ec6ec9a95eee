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

// BlockRule describes one additional kind of block an Extension
// contributes. Try takes a line already stripped of its enclosing
// containers' prefixes and reports whether it claims the line and, if so,
// how much of it its opening syntax consumes. The block parser does not
// call it (see Extension).
type BlockRule struct {
	Name     string
	Priority int
	Try      func(line []byte, canInterruptParagraph bool) (consumed int, ok bool)
}

// InlineRule describes one additional inline token kind. The inline parser
// does not call it (see Extension).
type InlineRule struct {
	Name string
	Try  func(text []byte, i int) (end int, node *Inline, ok bool)
}

// Extension adds block rules, inline rules, and/or renderer cases to a
// Markdown instance. It mirrors marko's mixin-based
// BlockElement/InlineElement/render_* contribution
// (original_source/marko/__init__.py's use()), recast as explicit
// registries instead of multiple inheritance.
//
// Markdown.Use records an Extension under its Name, but the block and
// inline parsers do not consult BlockRules or InlineRules. Only
// RenderBlock and RenderInline take effect, when the HTML renderer meets
// an ExtensionBlockKind or ExtensionInlineKind node with this Name.
type Extension struct {
	Name string

	BlockRules func() []BlockRule
	InlineRules func() []InlineRule

	// RenderBlock and RenderInline let the extension's own block/inline
	// kinds (identified by name, since they don't have a BlockKind/
	// InlineKind constant of their own) render themselves. Returning
	// false falls back to rendering children with no wrapping markup,
	// the same contract marko's Renderer.render_children fallback gives
	// any element with no bespoke render_* method.
	RenderBlock func(rs *renderState, b *Block) bool
	RenderInline func(rs *renderState, in *Inline, flattened string) bool
}
