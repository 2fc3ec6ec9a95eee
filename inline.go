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
	"strings"
	"unicode"
	"unicode/utf8"
)

// This file is the inline phase (spec.md §4.3): a left-to-right token scan
// over one leaf block's flattened text, producing code spans, autolinks,
// raw HTML, hard/soft breaks, and character references directly, plus a
// delimiter stack of emphasis-run and bracket candidates that gets
// resolved into Emphasis/Strong/Link/Image nodes afterward. The
// delimiter-stack algorithm is ported from original_source/marko's
// inline_parser.py (process_emphasis / look_for_image_or_link), since the
// teacher's own copy of this engine is absent from the retrieval pack.

// delimKind distinguishes the three things the delimiter stack tracks.
type delimKind uint8

const (
	delimEmph delimKind = iota
	delimBracket
	delimImageBracket
)

// delimiter is one entry in the stack process_emphasis walks to resolve
// emphasis and bracket pairs once the whole leaf's tokens are known.
type delimiter struct {
	kind      delimKind
	node      *Inline // the TextKind placeholder node this delimiter annotates
	char      byte    // '*' or '_', for delimEmph
	length    int     // remaining (unconsumed) run length, for delimEmph
	canOpen   bool
	canClose  bool
	active    bool // brackets: false once "deactivated" by a failed link search
	origIndex int  // position in the node list, for splitting text nodes
}

// parseInlines runs the full inline phase over content (a leaf block's
// flattened, container-stripped text) and returns its top-level inline
// children.
func parseInlines(content string, lrds ReferenceMap) []*Inline {
	nodes, delims := scanTokens(content)
	resolveEmphasis(nodes, delims, 0, len(delims))
	nodes = resolveLinksAndImages(content, nodes, delims, lrds)
	return nodes
}

// scanTokens performs the first left-to-right pass: it walks content byte
// by byte, emitting literal text / code spans / autolinks / raw HTML /
// breaks / character references directly into the node list, and pushing
// delimiter-run and bracket candidates onto the delimiter stack for the
// second pass to resolve.
func scanTokens(content string) ([]*Inline, []*delimiter) {
	var nodes []*Inline
	var delims []*delimiter
	b := []byte(content)
	i := 0
	textStart := 0

	flushText := func(end int) {
		if end > textStart {
			nodes = append(nodes, &Inline{kind: TextKind, span: Span{Start: textStart, End: end}})
		}
	}

	for i < len(b) {
		c := b[i]
		switch {
		case c == '\\' && i+1 < len(b) && isASCIIPunctuation(b[i+1]):
			flushText(i)
			nodes = append(nodes, &Inline{kind: TextKind, span: Span{Start: i + 1, End: i + 2}})
			i += 2
			textStart = i

		case c == '\\' && i+1 < len(b) && b[i+1] == '\n':
			flushText(i)
			nodes = append(nodes, &Inline{kind: HardLineBreakKind})
			i += 2
			textStart = i

		case c == '\n':
			flushText(i)
			if hardBreakBefore(b, textStart, i) {
				nodes = append(nodes, &Inline{kind: HardLineBreakKind})
			} else {
				nodes = append(nodes, &Inline{kind: SoftLineBreakKind})
			}
			i++
			for i < len(b) && isSpaceOrTab(b[i]) {
				i++
			}
			textStart = i

		case c == '`':
			if end, ok := scanCodeSpan(b, i); ok {
				flushText(i)
				nodes = append(nodes, codeSpanNode(b, i, end))
				i = end
				textStart = i
			} else {
				i++
			}

		case c == '&':
			if end, ok := scanCharacterReference(b, i); ok {
				flushText(i)
				nodes = append(nodes, &Inline{kind: CharacterReferenceKind, span: Span{Start: i, End: end}})
				i = end
				textStart = i
			} else {
				i++
			}

		case c == '<':
			if end, ok := scanAutolink(b, i); ok {
				flushText(i)
				nodes = append(nodes, autolinkNode(b, i, end))
				i = end
				textStart = i
			} else if end, ok := scanHTMLTag(b, i); ok {
				flushText(i)
				nodes = append(nodes, &Inline{kind: RawHTMLKind, span: Span{Start: i, End: end}})
				i = end
				textStart = i
			} else {
				i++
			}

		case c == '*' || c == '_':
			flushText(i)
			end := i
			for end < len(b) && b[end] == c {
				end++
			}
			before := precedingRune(b, i)
			after := followingRune(b, end)
			leftFlank, rightFlank := flankingRules(before, after)
			canOpen, canClose := leftFlank, rightFlank
			if c == '_' {
				canOpen = leftFlank && (!rightFlank || isUnicodePunct(before))
				canClose = rightFlank && (!leftFlank || isUnicodePunct(after))
			}
			node := &Inline{kind: TextKind, span: Span{Start: i, End: end}}
			nodes = append(nodes, node)
			delims = append(delims, &delimiter{
				kind: delimEmph, node: node, char: c, length: end - i,
				canOpen: canOpen, canClose: canClose, origIndex: len(nodes) - 1,
			})
			i = end
			textStart = i

		case c == '[':
			flushText(i)
			node := &Inline{kind: TextKind, span: Span{Start: i, End: i + 1}}
			nodes = append(nodes, node)
			delims = append(delims, &delimiter{kind: delimBracket, node: node, active: true, origIndex: len(nodes) - 1})
			i++
			textStart = i

		case c == '!' && i+1 < len(b) && b[i+1] == '[':
			flushText(i)
			node := &Inline{kind: TextKind, span: Span{Start: i, End: i + 2}}
			nodes = append(nodes, node)
			delims = append(delims, &delimiter{kind: delimImageBracket, node: node, active: true, origIndex: len(nodes) - 1})
			i += 2
			textStart = i

		case c == ']':
			flushText(i)
			node := &Inline{kind: TextKind, span: Span{Start: i, End: i + 1}}
			nodes = append(nodes, node)
			delims = append(delims, &delimiter{kind: delimBracket, char: ']', node: node, origIndex: len(nodes) - 1})
			i++
			textStart = i

		default:
			i++
		}
	}
	flushText(len(b))
	return nodes, delims
}

// hardBreakBefore reports whether the text run ending at nlPos (the index
// of the '\n') ends in 2+ trailing spaces, CommonMark's other hard break
// spelling besides a trailing backslash.
func hardBreakBefore(b []byte, start, nlPos int) bool {
	trailing := 0
	for k := nlPos - 1; k >= start && b[k] == ' '; k-- {
		trailing++
	}
	return trailing >= 2
}

func precedingRune(b []byte, i int) rune {
	if i == 0 {
		return ' '
	}
	r, _ := utf8.DecodeLastRune(b[:i])
	return r
}

func followingRune(b []byte, i int) rune {
	if i >= len(b) {
		return ' '
	}
	r, _ := utf8.DecodeRune(b[i:])
	return r
}

func isUnicodeWhitespace(r rune) bool {
	return unicode.IsSpace(r)
}

func isUnicodePunct(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// flankingRules implements CommonMark §6.2's left/right-flanking tests for
// a delimiter run given the rune immediately before and after it.
func flankingRules(before, after rune) (leftFlanking, rightFlanking bool) {
	beforeWS := isUnicodeWhitespace(before)
	afterWS := isUnicodeWhitespace(after)
	beforeP := isUnicodePunct(before)
	afterP := isUnicodePunct(after)

	leftFlanking = !afterWS && (!afterP || beforeWS || beforeP)
	rightFlanking = !beforeWS && (!beforeP || afterWS || afterP)
	return leftFlanking, rightFlanking
}

// codeSpanNode builds a code span node whose span is the content between
// the opening and closing backtick runs.
func codeSpanNode(b []byte, start, end int) *Inline {
	n := 0
	for start+n < end && b[start+n] == '`' {
		n++
	}
	return &Inline{kind: CodeSpanKind, span: Span{Start: start + n, End: end - n}}
}

// scanCodeSpan matches a code span (CommonMark §6.3): a backtick run,
// content, and a backtick run of the same length.
func scanCodeSpan(b []byte, i int) (end int, ok bool) {
	j := i
	for j < len(b) && b[j] == '`' {
		j++
	}
	openLen := j - i
	k := j
	for k < len(b) {
		if b[k] == '`' {
			closeStart := k
			for k < len(b) && b[k] == '`' {
				k++
			}
			if k-closeStart == openLen {
				return k, true
			}
			continue
		}
		k++
	}
	return i, false
}

// scanAutolink matches an autolink (CommonMark §6.5): <scheme:...> or
// <email-like-address>.
func scanAutolink(b []byte, i int) (end int, ok bool) {
	if i >= len(b) || b[i] != '<' {
		return i, false
	}
	j := i + 1
	start := j
	for j < len(b) && b[j] != '>' && !isSpaceTabOrLineEnding(b[j]) && b[j] != '<' {
		j++
	}
	if j >= len(b) || b[j] != '>' {
		return i, false
	}
	body := b[start:j]
	if looksLikeURIAutolink(body) || looksLikeEmailAutolink(body) {
		return j + 1, true
	}
	return i, false
}

func looksLikeURIAutolink(body []byte) bool {
	colon := -1
	for k, c := range body {
		switch {
		case isASCIILetter(c) || (k > 0 && (isASCIIDigit(c) || c == '+' || c == '-' || c == '.')):
			continue
		case c == ':':
			colon = k
		}
		if c == ':' {
			break
		}
		if !isASCIILetter(c) {
			return false
		}
	}
	if colon < 2 {
		return false
	}
	return true
}

func looksLikeEmailAutolink(body []byte) bool {
	at := indexByteFrom(body, 0, '@')
	if at <= 0 || at == len(body)-1 {
		return false
	}
	for _, c := range body {
		if c <= 0x20 || c == '<' || c == '>' {
			return false
		}
	}
	return true
}

func autolinkNode(b []byte, start, end int) *Inline {
	body := string(b[start+1 : end-1])
	dest := body
	if strings.Contains(body, "@") && !strings.Contains(body, ":") {
		dest = "mailto:" + body
	}
	in := &Inline{kind: AutolinkKind, span: Span{Start: start + 1, End: end - 1}}
	in.destination = dest
	return in
}

// scanCharacterReference matches &name;, &#123;, or &#xAB; (CommonMark
// §6.2's entity and numeric character reference grammar, shared with HTML
// entity decoding at render time via html.UnescapeString).
func scanCharacterReference(b []byte, i int) (end int, ok bool) {
	if i >= len(b) || b[i] != '&' {
		return i, false
	}
	j := i + 1
	if j < len(b) && b[j] == '#' {
		j++
		if j < len(b) && (b[j] == 'x' || b[j] == 'X') {
			j++
			start := j
			for j < len(b) && isHexDigit(b[j]) {
				j++
			}
			if j == start || j-start > 6 || j >= len(b) || b[j] != ';' {
				return i, false
			}
			return j + 1, true
		}
		start := j
		for j < len(b) && isASCIIDigit(b[j]) {
			j++
		}
		if j == start || j-start > 7 || j >= len(b) || b[j] != ';' {
			return i, false
		}
		return j + 1, true
	}
	start := j
	for j < len(b) && (isASCIILetter(b[j]) || isASCIIDigit(b[j])) {
		j++
	}
	if j == start || j >= len(b) || b[j] != ';' {
		return i, false
	}
	name := string(b[start:j])
	if !knownHTMLEntity(name) {
		return i, false
	}
	return j + 1, true
}

func isHexDigit(c byte) bool {
	return isASCIIDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
