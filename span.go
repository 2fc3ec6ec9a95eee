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

// Span is a half-open byte range [Start, End) into a document's source
// buffer. Spans let nodes reference their source text without copying it.
type Span struct {
	Start int
	End   int
}

// NullSpan returns an invalid span, used in place of a nil pointer to mean
// "this node has no backing source text".
func NullSpan() Span {
	return Span{Start: -1, End: -1}
}

// IsValid reports whether the span refers to an actual byte range.
func (s Span) IsValid() bool {
	return s.Start >= 0 && s.End >= s.Start
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int {
	if !s.IsValid() {
		return 0
	}
	return s.End - s.Start
}

// Text returns the span's bytes from source as a string.
func (s Span) Text(source []byte) string {
	if !s.IsValid() {
		return ""
	}
	return string(source[s.Start:s.End])
}

func spanSlice(source []byte, s Span) []byte {
	if !s.IsValid() {
		return nil
	}
	return source[s.Start:s.End]
}
