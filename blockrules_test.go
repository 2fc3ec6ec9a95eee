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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestParseThematicBreak(t *testing.T) {
	tests := []struct {
		line string
		want int
	}{
		{"***\n", 3},
		{"---\n", 3},
		{"___\n", 3},
		{"--\n", -1},
		{"+++\n", -1},
		{"===\n", -1},
		{"**\n", -1},
		{" ***\n", 4},
		{"    ***\n", -1},
		{"_____________________________________\n", 37},
		{" - - -\n", 6},
		{"-- -\n", 4},
		{"- - - -    \n", 7},
		{"_ _ _ _ a\n", -1},
		{"a------\n", -1},
		{"*-*\n", -1},
	}
	for _, tt := range tests {
		if got := parseThematicBreak([]byte(tt.line)); got != tt.want {
			t.Errorf("parseThematicBreak(%q) = %d, want %d", tt.line, got, tt.want)
		}
	}
}

func TestParseATXHeading(t *testing.T) {
	tests := []struct {
		line string
		want atxHeading
		ok   bool
	}{
		{"# foo\n", atxHeading{level: 1, content: Span{2, 5}}, true},
		{"## foo\n", atxHeading{level: 2, content: Span{3, 6}}, true},
		{"### foo\n", atxHeading{level: 3, content: Span{4, 7}}, true},
		{"####### foo\n", atxHeading{}, false},
		{"#5 bolt\n", atxHeading{}, false},
		{"#hashtag\n", atxHeading{}, false},
		{"# foo ##\n", atxHeading{level: 1, content: Span{2, 5}}, true},
		{"# foo #####\n", atxHeading{level: 1, content: Span{2, 5}}, true},
		{"### foo ### b\n", atxHeading{level: 3, content: Span{4, 13}}, true},
		{"# foo#\n", atxHeading{level: 1, content: Span{2, 6}}, true},
		{"## \n", atxHeading{level: 2, content: Span{3, 3}}, true},
		{"#\n", atxHeading{level: 1, content: Span{1, 1}}, true},
		{"### ###\n", atxHeading{level: 3, content: Span{4, 4}}, true},
	}
	opts := []cmp.Option{cmp.AllowUnexported(atxHeading{}, Span{})}
	for _, tt := range tests {
		got, ok := parseATXHeading([]byte(tt.line))
		if ok != tt.ok {
			t.Errorf("parseATXHeading(%q) ok = %v, want %v", tt.line, ok, tt.ok)
			continue
		}
		if ok {
			if diff := cmp.Diff(tt.want, got, opts...); diff != "" {
				t.Errorf("parseATXHeading(%q) (-want +got):\n%s", tt.line, diff)
			}
		}
	}
}

func TestParseSetextHeadingUnderline(t *testing.T) {
	tests := []struct {
		line string
		want int
	}{
		{"===\n", 1},
		{"---\n", 2},
		{"- - -\n", 0},
		{"===  \n", 1},
		{"===x\n", 0},
		{"   ---\n", 2},
		{"    ---\n", 0},
	}
	for _, tt := range tests {
		if got := parseSetextHeadingUnderline([]byte(tt.line)); got != tt.want {
			t.Errorf("parseSetextHeadingUnderline(%q) = %d, want %d", tt.line, got, tt.want)
		}
	}
}

func TestParseListMarker(t *testing.T) {
	tests := []struct {
		line string
		want listMarker
		ok   bool
	}{
		{"- foo\n", listMarker{bullet: '-', markerWidth: 1}, true},
		{"* foo\n", listMarker{bullet: '*', markerWidth: 1}, true},
		{"1. foo\n", listMarker{ordered: true, start: 1, markerWidth: 2}, true},
		{"10) foo\n", listMarker{ordered: true, start: 10, markerWidth: 3}, true},
		{"1.foo\n", listMarker{}, false},
		{"-foo\n", listMarker{}, false},
		{"a. foo\n", listMarker{}, false},
	}
	opts := []cmp.Option{cmp.AllowUnexported(listMarker{}), cmpopts.EquateComparable()}
	for _, tt := range tests {
		got, ok := parseListMarker([]byte(tt.line))
		if ok != tt.ok {
			t.Errorf("parseListMarker(%q) ok = %v, want %v", tt.line, ok, tt.ok)
			continue
		}
		if ok {
			if diff := cmp.Diff(tt.want, got, opts...); diff != "" {
				t.Errorf("parseListMarker(%q) (-want +got):\n%s", tt.line, diff)
			}
		}
	}
}
