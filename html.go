// Copyright 2023 Ross Light
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
	"fmt"
	"html"
	"io"
	"strings"
)

// SoftBreakBehavior controls how an HTMLRenderer renders a soft line
// break (CommonMark §6.8 treats it as renderer-defined).
type SoftBreakBehavior int

const (
	// SoftBreakAsNewline renders a soft break as a single '\n', the
	// default CommonMark-conformant behavior.
	SoftBreakAsNewline SoftBreakBehavior = iota
	// SoftBreakAsSpace renders a soft break as a single space, collapsing
	// the source's line wrapping entirely.
	SoftBreakAsSpace
	// SoftBreakAsHardBreak promotes every soft break to a hard break
	// (<br />), useful for renderers of chat-style text where line
	// wrapping in the source is meaningful.
	SoftBreakAsHardBreak
)

// HTMLRenderer converts a parsed document into HTML (spec.md §4.4).
type HTMLRenderer struct {
	// ReferenceMap resolves the document's link reference definitions;
	// Convert/Markdown.Render populate this automatically.
	ReferenceMap ReferenceMap

	// SoftBreakBehavior controls soft line break rendering.
	SoftBreakBehavior SoftBreakBehavior

	// IgnoreRaw, when true, drops raw HTML blocks and raw inline HTML
	// instead of passing them through (spec.md §7's "escape-hatch"
	// mitigation for untrusted input).
	IgnoreRaw bool

	// FilterTag, if non-nil, is consulted with the lower-cased tag name of
	// every raw inline HTML tag; returning true writes that tag as escaped
	// text instead of raw HTML. HTML blocks are not passed through it.
	FilterTag func(tagName string) bool

	// extensions holds the render callbacks of every Extension a Markdown
	// wired in, keyed by Extension.Name, for ExtensionBlockKind/
	// ExtensionInlineKind nodes to dispatch through.
	extensions map[string]Extension
}

// renderState carries the output writer, the renderer configuration, and
// the first write error, after which further writes are skipped.
type renderState struct {
	w   io.Writer
	r   *HTMLRenderer
	err error
}

func (rs *renderState) writeString(s string) {
	if rs.err != nil {
		return
	}
	_, rs.err = io.WriteString(rs.w, s)
}

// RenderHTML renders doc (and, for Paragraph/ATXHeading/SetextHeading
// leaves, their already-parsed inline children against source) into w.
func (r *HTMLRenderer) RenderHTML(w io.Writer, source []byte, doc *Block) error {
	rs := &renderState{w: w, r: r}
	rs.block(doc, source)
	return rs.err
}

func (rs *renderState) block(b *Block, source []byte) {
	if rs.err != nil || b == nil {
		return
	}
	if b.kind == ExtensionBlockKind {
		if ext, ok := rs.r.extensions[b.extensionName]; ok && ext.RenderBlock != nil && ext.RenderBlock(rs, b) {
			return
		}
		rs.blockChildren(b, source, false)
		return
	}
	switch b.kind {
	case DocumentKind:
		rs.blockChildren(b, source, false)
	case ParagraphKind:
		if tightListParagraph(b) {
			rs.inlineChildren(b, source)
			rs.writeString("\n")
			return
		}
		rs.writeString("<p>")
		rs.inlineChildren(b, source)
		rs.writeString("</p>\n")
	case ThematicBreakKind:
		rs.writeString("<hr />\n")
	case ATXHeadingKind, SetextHeadingKind:
		tag := fmt.Sprintf("h%d", b.level)
		rs.writeString("<" + tag + ">")
		rs.inlineChildren(b, source)
		rs.writeString("</" + tag + ">\n")
	case IndentedCodeBlockKind:
		rs.writeString("<pre><code>")
		rs.writeString(escapeHTML(b.content))
		rs.writeString("</code></pre>\n")
	case FencedCodeBlockKind:
		rs.writeString("<pre><code")
		if lang := b.Lang(); lang != "" {
			rs.writeString(` class="language-`)
			rs.writeString(escapeHTML(lang))
			rs.writeString(`"`)
		}
		rs.writeString(">")
		rs.writeString(escapeHTML(b.content))
		rs.writeString("</code></pre>\n")
	case HTMLBlockKind:
		if rs.r.IgnoreRaw {
			return
		}
		rs.writeString(b.content)
	case LinkReferenceDefinitionKind:
		// Renders to nothing (spec.md §8: boundary case).
	case BlockQuoteKind:
		rs.writeString("<blockquote>\n")
		rs.blockChildren(b, source, false)
		rs.writeString("</blockquote>\n")
	case ListKind:
		tag := "ul"
		if b.ordered {
			tag = "ol"
		}
		rs.writeString("<" + tag)
		if b.ordered && b.start != 1 {
			rs.writeString(fmt.Sprintf(` start="%d"`, b.start))
		}
		rs.writeString(">\n")
		rs.blockChildren(b, source, false)
		rs.writeString("</" + tag + ">\n")
	case ListItemKind:
		rs.writeString("<li>")
		rs.blockChildren(b, source, b.tight)
		rs.writeString("</li>\n")
	default:
		rs.blockChildren(b, source, false)
	}
}

func tightListParagraph(b *Block) bool {
	return b.tight
}

func (rs *renderState) blockChildren(b *Block, source []byte, tight bool) {
	for _, child := range b.blockChildren {
		if tight && child.kind == ParagraphKind {
			child.tight = true
		}
		rs.block(child, source)
	}
}

func (rs *renderState) inlineChildren(b *Block, source []byte) {
	for _, in := range b.inlineChildren {
		rs.inline(in, b.content)
	}
}

func (rs *renderState) inline(in *Inline, flattened string) {
	if rs.err != nil || in == nil {
		return
	}
	if in.kind == ExtensionInlineKind {
		if ext, ok := rs.r.extensions[in.extensionName]; ok && ext.RenderInline != nil && ext.RenderInline(rs, in, flattened) {
			return
		}
		rs.inlineSlice(in.children, flattened)
		return
	}
	switch in.kind {
	case TextKind:
		rs.writeString(escapeHTML(in.Text(flattened)))
	case SoftLineBreakKind:
		switch rs.r.SoftBreakBehavior {
		case SoftBreakAsSpace:
			rs.writeString(" ")
		case SoftBreakAsHardBreak:
			rs.writeString("<br />\n")
		default:
			rs.writeString("\n")
		}
	case HardLineBreakKind:
		rs.writeString("<br />\n")
	case CharacterReferenceKind:
		rs.writeString(escapeHTML(html.UnescapeString(in.Text(flattened))))
	case CodeSpanKind:
		rs.writeString("<code>")
		rs.writeString(escapeHTML(normalizeCodeSpanText(in.Text(flattened))))
		rs.writeString("</code>")
	case EmphasisKind:
		rs.writeString("<em>")
		rs.inlineSlice(in.children, flattened)
		rs.writeString("</em>")
	case StrongKind:
		rs.writeString("<strong>")
		rs.inlineSlice(in.children, flattened)
		rs.writeString("</strong>")
	case LinkKind:
		rs.writeString(`<a href="`)
		rs.writeString(escapeHTML(NormalizeURI(in.destination)))
		rs.writeString(`"`)
		if title, ok := in.LinkTitle(); ok {
			rs.writeString(` title="`)
			rs.writeString(escapeHTML(title))
			rs.writeString(`"`)
		}
		rs.writeString(">")
		rs.inlineSlice(in.children, flattened)
		rs.writeString("</a>")
	case ImageKind:
		rs.writeString(`<img src="`)
		rs.writeString(escapeHTML(NormalizeURI(in.destination)))
		rs.writeString(`" alt="`)
		rs.writeString(escapeHTML(appendAltText(in.children, flattened)))
		rs.writeString(`"`)
		if title, ok := in.LinkTitle(); ok {
			rs.writeString(` title="`)
			rs.writeString(escapeHTML(title))
			rs.writeString(`"`)
		}
		rs.writeString(" />")
	case AutolinkKind:
		dest := in.destination
		rs.writeString(`<a href="`)
		rs.writeString(escapeHTML(NormalizeURI(dest)))
		rs.writeString(`">`)
		rs.writeString(escapeHTML(in.Text(flattened)))
		rs.writeString("</a>")
	case RawHTMLKind:
		if rs.r.IgnoreRaw {
			return
		}
		tagText := in.Text(flattened)
		if rs.r.FilterTag != nil && rs.r.FilterTag(rawTagName(tagText)) {
			rs.writeString(escapeHTML(tagText))
			return
		}
		rs.writeString(tagText)
	default:
		rs.inlineSlice(in.children, flattened)
	}
}

func (rs *renderState) inlineSlice(nodes []*Inline, flattened string) {
	for _, in := range nodes {
		rs.inline(in, flattened)
	}
}

func rawTagName(tag string) string {
	i := 0
	for i < len(tag) && (tag[i] == '<' || tag[i] == '/') {
		i++
	}
	start := i
	for i < len(tag) && tag[i] != ' ' && tag[i] != '>' && tag[i] != '/' {
		i++
	}
	return strings.ToLower(tag[start:i])
}

// appendAltText flattens an image's children to plain text for its alt
// attribute, per CommonMark §6.4 (nested markup is stripped, not
// re-rendered).
func appendAltText(nodes []*Inline, flattened string) string {
	var b strings.Builder
	var walk func([]*Inline)
	walk = func(ns []*Inline) {
		for _, n := range ns {
			switch n.kind {
			case TextKind, CodeSpanKind, AutolinkKind, RawHTMLKind:
				b.WriteString(n.Text(flattened))
			case CharacterReferenceKind:
				b.WriteString(html.UnescapeString(n.Text(flattened)))
			case SoftLineBreakKind:
				b.WriteString("\n")
			case HardLineBreakKind:
				b.WriteString("\n")
			default:
				walk(n.children)
			}
		}
	}
	walk(nodes)
	return b.String()
}

// normalizeCodeSpanText implements CommonMark §6.3's code span whitespace
// rule: internal newlines become spaces, and a single leading and
// trailing space is stripped if the content isn't all whitespace.
func normalizeCodeSpanText(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) >= 2 && s[0] == ' ' && s[len(s)-1] == ' ' && strings.TrimSpace(s) != "" {
		s = s[1 : len(s)-1]
	}
	return s
}

// escapeHTML escapes the characters HTML output requires ('&', '<', '>',
// '"') but deliberately leaves apostrophe unescaped, per spec.md §4.4 (the
// teacher's own html.go escapes it to "&#39;"; this renderer does not).
func escapeHTML(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// uriSafeBytes is the set of punctuation NormalizeURI leaves unescaped,
// matching the teacher's html.go.
const uriSafeBytes = ";/?:@&=+$,-_.!~*'()#"

// NormalizeURI percent-encodes a URI the way a conformant CommonMark
// renderer must before writing it into an href/src attribute: bytes
// outside [A-Za-z0-9] and uriSafeBytes are percent-encoded, and existing
// "%XX" escapes are passed through unchanged.
func NormalizeURI(uri string) string {
	var b strings.Builder
	for i := 0; i < len(uri); i++ {
		c := uri[i]
		if c == '%' && i+2 < len(uri) && isHexDigit(uri[i+1]) && isHexDigit(uri[i+2]) {
			b.WriteByte(c)
			continue
		}
		if isASCIILetter(c) || isASCIIDigit(c) || strings.IndexByte(uriSafeBytes, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}
