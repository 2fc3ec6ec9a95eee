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

// BlockKind is an enumeration of the structural block elements a document
// tree can contain.
type BlockKind uint8

const (
	_ BlockKind = iota
	// DocumentKind is the unique root of every tree returned by Parse.
	DocumentKind
	ParagraphKind
	ThematicBreakKind
	ATXHeadingKind
	SetextHeadingKind
	IndentedCodeBlockKind
	FencedCodeBlockKind
	HTMLBlockKind
	LinkReferenceDefinitionKind
	BlockQuoteKind
	ListKind
	ListItemKind
	// ExtensionBlockKind is a block contributed by an Extension's BlockRules;
	// (*Block).ExtensionName identifies which one.
	ExtensionBlockKind
)

func (k BlockKind) String() string {
	switch k {
	case DocumentKind:
		return "Document"
	case ParagraphKind:
		return "Paragraph"
	case ThematicBreakKind:
		return "ThematicBreak"
	case ATXHeadingKind:
		return "ATXHeading"
	case SetextHeadingKind:
		return "SetextHeading"
	case IndentedCodeBlockKind:
		return "IndentedCodeBlock"
	case FencedCodeBlockKind:
		return "FencedCodeBlock"
	case HTMLBlockKind:
		return "HTMLBlock"
	case LinkReferenceDefinitionKind:
		return "LinkReferenceDefinition"
	case BlockQuoteKind:
		return "BlockQuote"
	case ListKind:
		return "List"
	case ListItemKind:
		return "ListItem"
	case ExtensionBlockKind:
		return "ExtensionBlock"
	default:
		return "BlockKind(0)"
	}
}

// IsCode reports whether k is one of the two code block kinds.
func (k BlockKind) IsCode() bool {
	return k == IndentedCodeBlockKind || k == FencedCodeBlockKind
}

// IsHeading reports whether k is one of the two heading kinds.
func (k BlockKind) IsHeading() bool {
	return k == ATXHeadingKind || k == SetextHeadingKind
}

// Block is a single node in a document's block tree. Container kinds
// (Document, BlockQuote, List, ListItem) hold further blocks as children;
// leaf kinds hold either literal text (code and HTML blocks) or, after the
// inline phase has run, a tree of inline children.
type Block struct {
	kind BlockKind
	span Span

	blockChildren  []*Block
	inlineChildren []*Inline

	// content holds a leaf block's text before it has been claimed by the
	// inline phase (Paragraph, ATXHeading, SetextHeading) or, for code and
	// HTML blocks, the literal body that is never inline-parsed at all.
	content string

	level   int  // heading level, 1-6
	ordered bool  // List: ordered vs. bulleted
	start   int   // List: starting number when ordered
	bullet  byte  // List/ListItem: bullet byte, or 0 when ordered
	tight   bool  // List/ListItem

	// hadBlankLine records, for a List or ListItem, whether a blank line
	// was seen while it was still open on the parser's stack. Used only by
	// finalizeContainer's loose/tight detection; not exposed publicly.
	hadBlankLine bool

	fenceChar  byte   // FencedCodeBlock
	infoString string // FencedCodeBlock, raw (unsplit) info string

	label        string // LinkReferenceDefinition: normalized label
	dest         string // LinkReferenceDefinition
	title        string // LinkReferenceDefinition
	titlePresent bool

	htmlCondition int // HTMLBlock: which of the 7 CommonMark conditions matched

	extensionName string // ExtensionBlockKind: the contributing Extension's Name
}

// ExtensionName returns the name of the Extension that contributed an
// ExtensionBlockKind block.
func (b *Block) ExtensionName() string { return b.extensionName }

func (b *Block) Kind() BlockKind {
	if b == nil {
		return 0
	}
	return b.kind
}

func (b *Block) Span() Span {
	if b == nil {
		return NullSpan()
	}
	return b.span
}

func (b *Block) ChildCount() int {
	if b == nil {
		return 0
	}
	if len(b.blockChildren) > 0 {
		return len(b.blockChildren)
	}
	return len(b.inlineChildren)
}

func (b *Block) Child(i int) Node {
	if len(b.blockChildren) > 0 {
		return blockNode(b.blockChildren[i])
	}
	return inlineNode(b.inlineChildren[i])
}

func (b *Block) BlockChildren() []*Block   { return b.blockChildren }
func (b *Block) InlineChildren() []*Inline { return b.inlineChildren }

// HeadingLevel returns the 1-6 level of an ATX or Setext heading.
func (b *Block) HeadingLevel() int { return b.level }

// IsOrderedList reports whether a List is numbered rather than bulleted.
func (b *Block) IsOrderedList() bool { return b.ordered }

// ListStart returns an ordered list's starting number.
func (b *Block) ListStart() int { return b.start }

// IsTightList reports whether a List (or the List containing a ListItem or
// Paragraph) renders without wrapping its items' paragraphs in <p>.
func (b *Block) IsTightList() bool { return b.tight }

// Bullet returns the bullet byte ('*', '-', '+') of a bulleted list, or 0
// for an ordered list.
func (b *Block) Bullet() byte { return b.bullet }

// Lang returns a fenced code block's language, the first whitespace-
// separated word of its info string.
func (b *Block) Lang() string {
	words := splitFields(b.infoString)
	if len(words) == 0 {
		return ""
	}
	return words[0]
}

// InfoString returns a fenced code block's raw, unsplit info string.
func (b *Block) InfoString() string { return b.infoString }

// RawText returns the literal content of a code or HTML block.
func (b *Block) RawText() string { return b.content }

// LinkLabel returns a link reference definition's normalized label.
func (b *Block) LinkLabel() string { return b.label }

// LinkDestination returns a link reference definition's destination.
func (b *Block) LinkDestination() string { return b.dest }

// LinkTitle returns a link reference definition's title and whether one
// was present (an empty title and no title are distinguishable).
func (b *Block) LinkTitle() (title string, ok bool) { return b.title, b.titlePresent }

func splitFields(s string) []string {
	var fields []string
	start := -1
	for i := 0; i < len(s); i++ {
		if isSpaceOrTab(s[i]) {
			if start >= 0 {
				fields = append(fields, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		fields = append(fields, s[start:])
	}
	return fields
}

// InlineKind is an enumeration of the inline (span-level) elements that can
// appear inside a leaf block's content.
type InlineKind uint8

const (
	_ InlineKind = iota
	TextKind
	SoftLineBreakKind
	HardLineBreakKind
	CharacterReferenceKind
	EmphasisKind
	StrongKind
	LinkKind
	ImageKind
	CodeSpanKind
	AutolinkKind
	RawHTMLKind
	// ExtensionInlineKind is an inline node contributed by an Extension's
	// InlineRules; (*Inline).ExtensionName identifies which one.
	ExtensionInlineKind
)

func (k InlineKind) String() string {
	switch k {
	case TextKind:
		return "Text"
	case SoftLineBreakKind:
		return "SoftLineBreak"
	case HardLineBreakKind:
		return "HardLineBreak"
	case CharacterReferenceKind:
		return "CharacterReference"
	case EmphasisKind:
		return "Emphasis"
	case StrongKind:
		return "Strong"
	case LinkKind:
		return "Link"
	case ImageKind:
		return "Image"
	case CodeSpanKind:
		return "CodeSpan"
	case AutolinkKind:
		return "Autolink"
	case RawHTMLKind:
		return "RawHTML"
	case ExtensionInlineKind:
		return "ExtensionInline"
	default:
		return "InlineKind(0)"
	}
}

// Inline is a single node in a leaf block's inline tree. The tree is built
// from a flattened string assembled during the block phase (see
// (*Block).content); spans are offsets into that string, not into the
// original document source.
type Inline struct {
	kind     InlineKind
	span     Span
	children []*Inline

	destination  string
	title        string
	titlePresent bool
	reference    string // normalized label, set when resolved via a reference definition

	extensionName string // ExtensionInlineKind: the contributing Extension's Name
}

// ExtensionName returns the name of the Extension that contributed an
// ExtensionInlineKind node.
func (in *Inline) ExtensionName() string { return in.extensionName }

func (in *Inline) Kind() InlineKind {
	if in == nil {
		return 0
	}
	return in.kind
}

func (in *Inline) Span() Span {
	if in == nil {
		return NullSpan()
	}
	return in.span
}

func (in *Inline) ChildCount() int {
	if in == nil {
		return 0
	}
	return len(in.children)
}

func (in *Inline) Child(i int) *Inline { return in.children[i] }

func (in *Inline) Children() []*Inline {
	if in == nil {
		return nil
	}
	return in.children
}

// Text returns the inline node's span sliced out of the flattened text it
// was parsed from.
func (in *Inline) Text(flattened string) string {
	if in == nil || !in.span.IsValid() {
		return ""
	}
	return flattened[in.span.Start:in.span.End]
}

// LinkDestination returns a Link, Image, or Autolink's destination.
func (in *Inline) LinkDestination() string { return in.destination }

// LinkTitle returns a Link or Image's title, and whether one was present.
func (in *Inline) LinkTitle() (title string, ok bool) { return in.title, in.titlePresent }

// LinkReference returns the normalized label a Link or Image resolved
// through, or "" if it used an inline destination instead.
func (in *Inline) LinkReference() string { return in.reference }

// Node is a pointer to either a Block or an Inline. Unlike the two
// concrete types, Node lets tree-walking code (Walk, renderer dispatch)
// treat both families uniformly.
type Node struct {
	block  *Block
	inline *Inline
}

func blockNode(b *Block) Node  { return Node{block: b} }
func inlineNode(i *Inline) Node { return Node{inline: i} }

// Block returns the referenced block, or nil if n refers to an inline node.
func (n Node) Block() *Block { return n.block }

// Inline returns the referenced inline node, or nil if n refers to a block.
func (n Node) Inline() *Inline { return n.inline }

// IsValid reports whether n refers to anything.
func (n Node) IsValid() bool { return n.block != nil || n.inline != nil }

func (n Node) ChildCount() int {
	if n.block != nil {
		return n.block.ChildCount()
	}
	return n.inline.ChildCount()
}

func (n Node) Child(i int) Node {
	if n.block != nil {
		return n.block.Child(i)
	}
	return inlineNode(n.inline.Child(i))
}
