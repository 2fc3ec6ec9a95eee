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

import "golang.org/x/net/html/atom"

// This file implements the raw-HTML tag grammar shared by the inline
// parser's raw-HTML token (CommonMark §6.11) and the HTML block condition 7
// matcher (§4.6). Both scan a byte slice with a plain integer cursor rather
// than the teacher's unsafe.Pointer-backed multi-span reader, since every
// caller here already operates over one flattened string.

// scanHTMLTag attempts to parse an HTML tag, comment, processing
// instruction, declaration, or CDATA section starting at s[i] (which must
// be '<'). It returns the exclusive end offset and true on success.
func scanHTMLTag(s []byte, i int) (end int, ok bool) {
	const (
		cdataPrefix = "[CDATA["
		cdataSuffix = "]]>"
	)
	if i >= len(s) || s[i] != '<' {
		return i, false
	}
	j := i + 1
	if j >= len(s) {
		return i, false
	}
	switch s[j] {
	case '?':
		j++
		for {
			k := indexByteFrom(s, j, '?')
			if k < 0 || k+1 >= len(s) {
				return i, false
			}
			if s[k+1] == '>' {
				return k + 2, true
			}
			j = k + 1
		}
	case '!':
		j++
		switch {
		case j < len(s) && isASCIILetter(s[j]):
			for j < len(s) && s[j] != '>' {
				j++
			}
			if j >= len(s) {
				return i, false
			}
			return j + 1, true
		case hasBytePrefix(s[j:], "--"):
			j += 2
			if hasBytePrefix(s[j:], ">") || hasBytePrefix(s[j:], "->") {
				return i, false
			}
			for {
				k := indexString(s, j, "-->")
				if k < 0 {
					return i, false
				}
				if indexString(s, j, "--") < k {
					return i, false
				}
				return k + 3, true
			}
		case hasBytePrefix(s[j:], cdataPrefix):
			j += len(cdataPrefix)
			k := indexString(s, j, cdataSuffix)
			if k < 0 {
				return i, false
			}
			return k + len(cdataSuffix), true
		default:
			return i, false
		}
	case '/':
		return scanHTMLClosingTag(s, i)
	default:
		return scanHTMLOpenTag(s, i)
	}
}

func indexByteFrom(s []byte, start int, c byte) int {
	for k := start; k < len(s); k++ {
		if s[k] == c {
			return k
		}
	}
	return -1
}

func indexString(s []byte, start int, search string) int {
	for k := start; k+len(search) <= len(s); k++ {
		if hasBytePrefix(s[k:], search) {
			return k
		}
	}
	return -1
}

// scanHTMLOpenTag parses an open tag (CommonMark §6.1) starting at '<'.
func scanHTMLOpenTag(s []byte, i int) (end int, ok bool) {
	j := i + 1
	j, ok = scanHTMLTagName(s, j)
	if !ok {
		return i, false
	}
	for {
		before := j
		j = skipTagWhitespace(s, j)
		if j < len(s) && s[j] == '/' {
			j++
			if j < len(s) && s[j] == '>' {
				return j + 1, true
			}
			return i, false
		}
		if j < len(s) && s[j] == '>' {
			return j + 1, true
		}
		if j == before {
			return i, false
		}
		var attrOK bool
		j, attrOK = scanHTMLAttribute(s, j)
		if !attrOK {
			return i, false
		}
	}
}

// scanHTMLClosingTag parses a closing tag starting at '<'.
func scanHTMLClosingTag(s []byte, i int) (end int, ok bool) {
	if i+1 >= len(s) || s[i+1] != '/' {
		return i, false
	}
	j := i + 2
	j, ok = scanHTMLTagName(s, j)
	if !ok {
		return i, false
	}
	j = skipTagWhitespace(s, j)
	if j < len(s) && s[j] == '>' {
		return j + 1, true
	}
	return i, false
}

func scanHTMLTagName(s []byte, i int) (end int, ok bool) {
	if i >= len(s) || !isASCIILetter(s[i]) {
		return i, false
	}
	j := i + 1
	for j < len(s) && (isASCIILetter(s[j]) || isASCIIDigit(s[j]) || s[j] == '-') {
		j++
	}
	return j, true
}

func scanHTMLAttribute(s []byte, i int) (end int, ok bool) {
	if i >= len(s) || (!isASCIILetter(s[i]) && s[i] != '_' && s[i] != ':') {
		return i, false
	}
	j := i + 1
	for j < len(s) && (isASCIILetter(s[j]) || isASCIIDigit(s[j]) || indexByte("_.:-", s[j]) >= 0) {
		j++
	}
	before := j
	k := skipTagWhitespace(s, j)
	if k >= len(s) || s[k] != '=' {
		return before, true
	}
	k++
	k = skipTagWhitespace(s, k)
	if k >= len(s) {
		return i, false
	}
	switch s[k] {
	case '\'':
		k++
		e := indexByteFrom(s, k, '\'')
		if e < 0 {
			return i, false
		}
		return e + 1, true
	case '"':
		k++
		e := indexByteFrom(s, k, '"')
		if e < 0 {
			return i, false
		}
		return e + 1, true
	default:
		start := k
		for k < len(s) && isUnquotedAttributeValueChar(s[k]) {
			k++
		}
		if k == start {
			return i, false
		}
		return k, true
	}
}

func skipTagWhitespace(s []byte, i int) int {
	for i < len(s) && isSpaceTabOrLineEnding(s[i]) {
		i++
	}
	return i
}

func indexByte(s string, c byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}

func isUnquotedAttributeValueChar(c byte) bool {
	return !isSpaceTabOrLineEnding(c) && indexByte("\"'=<>`", c) < 0
}

// htmlBlockConditions is the set of HTML block start/end conditions,
// CommonMark §4.6, tried in order (condition index is i+1).
var htmlBlockConditions = []struct {
	start                 func(line []byte) bool
	end                   func(line []byte) bool
	canInterruptParagraph bool
}{
	{
		start: func(line []byte) bool {
			for _, starter := range htmlBlockStarters1 {
				if hasCaseInsensitiveBytePrefix(line, starter) {
					rest := line[len(starter):]
					if len(rest) == 0 || isSpaceTabOrLineEnding(rest[0]) || rest[0] == '>' {
						return true
					}
				}
			}
			return false
		},
		end: func(line []byte) bool {
			for _, ender := range htmlBlockEnders1 {
				if caseInsensitiveContains(line, ender) {
					return true
				}
			}
			return false
		},
		canInterruptParagraph: true,
	},
	{
		start:                 func(line []byte) bool { return hasBytePrefix(line, "<!--") },
		end:                   func(line []byte) bool { return contains(line, "-->") },
		canInterruptParagraph: true,
	},
	{
		start:                 func(line []byte) bool { return hasBytePrefix(line, "<?") },
		end:                   func(line []byte) bool { return contains(line, "?>") },
		canInterruptParagraph: true,
	},
	{
		start: func(line []byte) bool {
			return hasBytePrefix(line, "<!") && len(line) >= 3 && isASCIILetter(line[2])
		},
		end:                   func(line []byte) bool { return contains(line, ">") },
		canInterruptParagraph: true,
	},
	{
		start:                 func(line []byte) bool { return hasBytePrefix(line, "<![CDATA[") },
		end:                   func(line []byte) bool { return contains(line, "]]>") },
		canInterruptParagraph: true,
	},
	{
		start: func(line []byte) bool {
			var rest []byte
			switch {
			case hasBytePrefix(line, "</"):
				rest = line[2:]
			case hasBytePrefix(line, "<"):
				rest = line[1:]
			default:
				return false
			}
			for _, starter := range htmlBlockStarters6 {
				if hasCaseInsensitiveBytePrefix(rest, starter) {
					after := rest[len(starter):]
					if len(after) == 0 || isSpaceTabOrLineEnding(after[0]) || after[0] == '>' || hasBytePrefix(after, "/>") {
						return true
					}
				}
			}
			return false
		},
		end:                   isBlankLine,
		canInterruptParagraph: true,
	},
	{
		start: func(line []byte) bool {
			if !hasBytePrefix(line, "<") {
				return false
			}
			var end int
			var ok bool
			if hasBytePrefix(line, "</") {
				end, ok = scanHTMLClosingTag(line, 0)
			} else {
				end, ok = scanHTMLOpenTag(line, 0)
			}
			if !ok {
				return false
			}
			return isBlankLine(line[end:])
		},
		end:                   isBlankLine,
		canInterruptParagraph: false,
	},
}

var (
	htmlBlockStarters1 = []string{"<pre", "<script", "<style", "<textarea"}
	htmlBlockEnders1   = []string{"</pre>", "</script>", "</style>", "</textarea>"}

	htmlBlockStarters6 = []string{
		atom.Address.String(), atom.Article.String(), atom.Aside.String(), atom.Base.String(),
		atom.Basefont.String(), atom.Blockquote.String(), atom.Body.String(), atom.Caption.String(),
		atom.Center.String(), atom.Col.String(), atom.Colgroup.String(), atom.Dd.String(),
		atom.Details.String(), atom.Dialog.String(), atom.Dir.String(), atom.Div.String(),
		atom.Dl.String(), atom.Dt.String(), atom.Fieldset.String(), atom.Figcaption.String(),
		atom.Figure.String(), atom.Footer.String(), atom.Form.String(), atom.Frame.String(),
		atom.Frameset.String(), atom.H1.String(), atom.H2.String(), atom.H3.String(),
		atom.H4.String(), atom.H5.String(), atom.H6.String(), atom.Head.String(),
		atom.Header.String(), atom.Hr.String(), atom.Html.String(), atom.Iframe.String(),
		atom.Legend.String(), atom.Li.String(), atom.Link.String(), atom.Main.String(),
		atom.Menu.String(), atom.Menuitem.String(), atom.Nav.String(), atom.Noframes.String(),
		atom.Ol.String(), atom.Optgroup.String(), atom.Option.String(), atom.P.String(),
		atom.Param.String(), atom.Section.String(), atom.Source.String(), atom.Summary.String(),
		atom.Table.String(), atom.Tbody.String(), atom.Td.String(), atom.Tfoot.String(),
		atom.Th.String(), atom.Thead.String(), atom.Title.String(), atom.Tr.String(),
		atom.Track.String(), atom.Ul.String(),
	}
)
