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

package commonmark_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/arborist-go/commonmark"
	"github.com/arborist-go/commonmark/internal/normhtml"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "heading",
			source: "# Hello\n",
			want:   "<h1>Hello</h1>\n",
		},
		{
			name:   "paragraph",
			source: "Hello, *world*!\n",
			want:   "<p>Hello, <em>world</em>!</p>\n",
		},
		{
			name: "nested emphasis",
			source: "***strong emph***\n",
			want: "<p><em><strong>strong emph</strong></em></p>\n",
		},
		{
			name: "blockquote with fenced code and list item",
			source: "> - ```\n" +
				"  > code\n" +
				"  > ```\n",
			want: "<blockquote>\n<ul>\n<li>\n<pre><code>code\n</code></pre>\n</li>\n</ul>\n</blockquote>\n",
		},
		{
			name: "link reference definition",
			source: "[foo]: /url \"title\"\n\n[foo]\n",
			want:  "<p><a href=\"/url\" title=\"title\">foo</a></p>\n",
		},
		{
			name:   "loose list",
			source: "- one\n\n- two\n",
			want:   "<ul>\n<li>\n<p>one</p>\n</li>\n<li>\n<p>two</p>\n</li>\n</ul>\n",
		},
		{
			name:   "code span with interior backtick",
			source: "`` foo ` bar ``\n",
			want:   "<p><code>foo ` bar</code></p>\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := &commonmark.Markdown{}
			got, err := md.Convert([]byte(tt.source))
			if err != nil {
				t.Fatalf("Convert(%q): %v", tt.source, err)
			}
			gotNorm := normhtml.NormalizeHTML([]byte(got))
			wantNorm := normhtml.NormalizeHTML([]byte(tt.want))
			if diff := cmp.Diff(string(wantNorm), string(gotNorm)); diff != "" {
				t.Errorf("Convert(%q) (-want +got):\n%s\nraw output: %s", tt.source, diff, got)
			}
		})
	}
}

func TestApostropheNotEscaped(t *testing.T) {
	md := &commonmark.Markdown{}
	got, err := md.Convert([]byte("it's fine\n"))
	if err != nil {
		t.Fatal(err)
	}
	const want = "<p>it's fine</p>\n"
	if got != want {
		t.Errorf("Convert(\"it's fine\\n\") = %q, want %q", got, want)
	}
}
