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

// Character classification helpers shared by the block and inline parsers.
// These mirror the byte-level predicates CommonMark's reference grammar is
// phrased in terms of (ASCII only; Unicode punctuation/whitespace checks
// for flanking delimiters live in inline.go next to their one call site).

func isASCIILetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isASCIIDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isSpaceOrTab(c byte) bool {
	return c == ' ' || c == '\t'
}

func isLineEnding(c byte) bool {
	return c == '\n' || c == '\r'
}

func isSpaceTabOrLineEnding(c byte) bool {
	return isSpaceOrTab(c) || isLineEnding(c)
}

func isASCIIPunctuation(c byte) bool {
	switch {
	case c >= '!' && c <= '/':
		return true
	case c >= ':' && c <= '@':
		return true
	case c >= '[' && c <= '`':
		return true
	case c >= '{' && c <= '~':
		return true
	default:
		return false
	}
}

// isBlankLine reports whether line (with or without its trailing newline)
// consists only of spaces and tabs.
func isBlankLine(line []byte) bool {
	for _, b := range line {
		if !isSpaceTabOrLineEnding(b) {
			return false
		}
	}
	return true
}

func hasBytePrefix(b []byte, prefix string) bool {
	if len(b) < len(prefix) {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		if b[i] != prefix[i] {
			return false
		}
	}
	return true
}

func contains(b []byte, search string) bool {
	if len(search) == 0 {
		return true
	}
	for i := 0; i+len(search) <= len(b); i++ {
		if hasBytePrefix(b[i:], search) {
			return true
		}
	}
	return false
}

func toLowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c - 'A' + 'a'
	}
	return c
}

func hasCaseInsensitiveBytePrefix(b []byte, prefix string) bool {
	if len(b) < len(prefix) {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		if toLowerASCII(b[i]) != toLowerASCII(prefix[i]) {
			return false
		}
	}
	return true
}

func caseInsensitiveContains(b []byte, search string) bool {
	for i := 0; i+len(search) <= len(b); i++ {
		if hasCaseInsensitiveBytePrefix(b[i:], search) {
			return true
		}
	}
	return false
}

// tabStopWidth returns the number of columns consumed by a tab that starts
// at column start, expanding to the next multiple of 4.
func tabStopWidth(start int) int {
	const tabSize = 4
	return tabSize - start%tabSize
}

// columnWidth returns the column width of byte b appearing at column
// start (tabs expand to 4-column stops; everything else is one column).
func columnWidth(start int, b byte) int {
	if b == '\t' {
		return tabStopWidth(start)
	}
	return 1
}

// leadingIndent returns the column width of the run of spaces and tabs at
// the start of line (tab-expanded to 4-column stops) and the byte offset
// in line immediately following that run.
func leadingIndent(line []byte) (cols int, byteOffset int) {
	col := 0
	i := 0
	for i < len(line) && isSpaceOrTab(line[i]) {
		col += columnWidth(col, line[i])
		i++
	}
	return col, i
}
