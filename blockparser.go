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
	"bytes"
	"strings"
)

// openBlock is one entry on the parser's stack of currently-open block
// containers, from Document down to the innermost leaf being written to.
// It wraps the *Block under construction plus the bookkeeping the driver
// needs while more lines are still arriving for it.
type openBlock struct {
	block *Block

	// raw accumulates a leaf block's literal source across lines: the
	// paragraph/heading text before inline parsing, or a code/HTML
	// block's literal body.
	raw bytes.Buffer

	// list/list item bookkeeping.
	marker listMarker

	// fenced code bookkeeping.
	fence codeFence

	// HTML block bookkeeping.
	htmlConditionIdx int
}

func (ob *openBlock) isOpen(kind BlockKind) bool { return ob.block.kind == kind }

// parserState drives the block phase: one pass over the document's lines,
// descending into already-open containers, opening new ones, and finally
// feeding whatever's left of the line to the innermost leaf.
type parserState struct {
	source []byte
	stack  []*openBlock // stack[0] is always the Document
	lrds   ReferenceMap
}

// parseDocument runs the full block phase over source and returns the
// Document root plus the link reference definitions collected from it.
func parseDocument(source []byte) (*Block, ReferenceMap) {
	root := &Block{kind: DocumentKind, span: Span{Start: 0, End: len(source)}}
	p := &parserState{
		source: source,
		stack:  []*openBlock{{block: root}},
		lrds:   make(ReferenceMap),
	}
	for _, ln := range splitLines(source) {
		p.processLine(ln)
	}
	p.closeBlocksAbove(0)
	finalizeContainer(root)
	walkInlineLeaves(root, p.lrds)
	return root, p.lrds
}

type rawLine struct{ start, end int } // end is exclusive, includes line ending if present

func splitLines(source []byte) []rawLine {
	var lines []rawLine
	start := 0
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			lines = append(lines, rawLine{start, i + 1})
			start = i + 1
		}
	}
	if start < len(source) {
		lines = append(lines, rawLine{start, len(source)})
	}
	return lines
}

// processLine matches the line against the open container stack, then
// opens whatever new blocks the remaining text starts, then disposes of
// whatever's left as leaf content.
func (p *parserState) processLine(ln rawLine) {
	line := p.source[ln.start:ln.end]
	depth := 1 // stack[0] (Document) always matches
	col := 0

	for depth < len(p.stack) {
		ob := p.stack[depth]
		rest, newCol, ok := matchContainerContinuation(ob, line, col)
		if !ok {
			break
		}
		line, col = rest, newCol
		depth++
	}

	blank := isBlankLine(line)
	if blank {
		for _, ob := range p.stack[1:] {
			if ob.isOpen(ListKind) || ob.isOpen(ListItemKind) {
				ob.block.hadBlankLine = true
			}
		}
	}
	top := p.stack[len(p.stack)-1]
	paragraphOpen := top.isOpen(ParagraphKind) && !blank
	if paragraphOpen && depth == len(p.stack) {
		depth-- // the open paragraph is a leaf, not a parent for new blocks
	}
	// A fenced code or HTML block that every container still matches takes
	// the whole line as content, even a line that looks like a block start.
	literal := depth == len(p.stack) && (top.isOpen(FencedCodeBlockKind) || top.isOpen(HTMLBlockKind))
	opened := false

	if !literal {
		// Try to open new block containers/leaves nested under p.stack[depth-1].
		// A container match (block quote, list item) may still hold further
		// nested containers, so the loop keeps going; a leaf match consumes
		// the rest of this line's block-opening work outright.
		for {
			result, rest, newCol := p.tryOpenBlock(depth, line, col, blank)
			if result == notOpened {
				break
			}
			opened = true
			line, col = rest, newCol
			if result == consumedLine {
				// The match (thematic break, ATX/setext heading, an HTML
				// block's own opening line) already finalized or wrote
				// everything this line owns. Nothing left to append.
				return
			}
			depth = len(p.stack)
			if result == openedLeaf {
				break
			}
		}
	}

	if paragraphOpen && !opened {
		// Paragraph continuation, including a lazy continuation line whose
		// container prefixes did not all match.
		writeParagraphLine(&top.raw, line)
		return
	}
	if !opened && p.stack[depth-1].isOpen(ListKind) {
		depth-- // a line that starts no new item ends the list
	}

	p.closeBlocksAbove(depth)

	p.appendToLeaf(p.stack[len(p.stack)-1], line, blank)
}

// matchContainerContinuation reports whether an already-open container
// (BlockQuote, ListItem) continues to match this line, and if so the
// line/column remaining after consuming its prefix. Leaf containers
// (everything else already open) always "continue" here; whether the
// line actually belongs to them is decided by tryOpenBlock/appendToLeaf.
func matchContainerContinuation(ob *openBlock, line []byte, col int) ([]byte, int, bool) {
	switch ob.block.kind {
	case BlockQuoteKind:
		end := blockQuoteMarker(line)
		if end < 0 {
			return nil, 0, false
		}
		return line[end:], 0, true
	case ListItemKind:
		need := ob.marker.markerWidth
		if isBlankLine(line) {
			return line, 0, true
		}
		cols, _ := leadingIndent(line)
		if cols < need {
			return nil, 0, false
		}
		consumed := consumeColumns(line, need)
		return line[consumed:], cols - need, true
	case FencedCodeBlockKind, IndentedCodeBlockKind, HTMLBlockKind, ParagraphKind, ATXHeadingKind, SetextHeadingKind:
		return line, col, true
	case DocumentKind, ListKind:
		return line, col, true
	default:
		return line, col, true
	}
}

// consumeColumns returns the byte offset in line after consuming exactly
// need columns of leading whitespace (tab-aware).
func consumeColumns(line []byte, need int) int {
	col := 0
	i := 0
	for i < len(line) && col < need && isSpaceOrTab(line[i]) {
		col += columnWidth(col, line[i])
		i++
	}
	return i
}

// Results from tryOpenBlock, distinguishing containers (which may still
// hold further nested containers on the same line) from leaves (which
// cannot) from the case where nothing on this line was still open to try.
const (
	notOpened = iota
	openedContainer
	openedLeaf
	consumedLine
)

// tryOpenBlock attempts to open exactly one new container or leaf block
// nested under the container at p.stack[depth-1], given the still-unread
// remainder of the line. It reports what kind of match (if any) it made
// and the line/column remaining after consuming whatever prefix it owns.
func (p *parserState) tryOpenBlock(depth int, line []byte, col int, blank bool) (int, []byte, int) {
	parent := p.stack[depth-1]
	top := p.stack[len(p.stack)-1]

	indentCols, _ := leadingIndent(line)

	if !blank && top.isOpen(ParagraphKind) && top.raw.Len() > 0 {
		if level := parseSetextHeadingUnderline(line); level > 0 {
			top.block.kind = SetextHeadingKind
			top.block.level = level
			p.closeBlocksAbove(len(p.stack) - 1)
			return consumedLine, line[len(line):], 0
		}
	}

	if end := blockQuoteMarker(line); end >= 0 {
		p.closeLeafFor(parent)
		blk := &Block{kind: BlockQuoteKind}
		p.push(blk)
		return openedContainer, line[end:], 0
	}

	if indentCols <= 3 {
		if m, ok := parseListMarker(line); ok {
			if p.canInterruptParagraphWithList(m, line) {
				p.closeLeafFor(parent)
				p.openList(m)
				_, off := leadingIndent(line)
				markerEnd := off + m.markerWidth
				itemCols := indentCols + m.markerWidth
				rest := line[markerEnd:]
				restIndent, _ := leadingIndent(rest)
				if restIndent >= 5 || isBlankLine(rest) {
					itemCols++ // one-space marker when content is far indented or absent
				} else {
					itemCols += restIndent
					rest = line[markerEnd+consumeColumns(rest, restIndent):]
				}
				item := &openBlock{block: &Block{kind: ListItemKind}, marker: listMarker{markerWidth: itemCols}}
				p.pushOpen(item)
				return openedContainer, rest, 0
			}
		}
	}

	if !blank {
		if end := parseThematicBreak(line); end >= 0 {
			p.closeLeafFor(parent)
			p.appendChild(&Block{kind: ThematicBreakKind})
			return consumedLine, line[len(line):], 0
		}
		if h, ok := parseATXHeading(line); ok {
			p.closeLeafFor(parent)
			text := string(trimLineEnding(line[h.content.Start:h.content.End]))
			p.appendChild(&Block{kind: ATXHeadingKind, level: h.level, content: text})
			return consumedLine, line[len(line):], 0
		}
		if fence, ok := parseCodeFence(line); ok {
			p.closeLeafFor(parent)
			blk := &Block{kind: FencedCodeBlockKind, fenceChar: fence.char, infoString: string(fence.info.Text(line))}
			p.pushOpen(&openBlock{block: blk, fence: fence})
			return openedLeaf, line[len(line):], 0
		}
		if idx := matchHTMLBlockStart(line, p.stack[len(p.stack)-1]); idx >= 0 {
			p.closeLeafFor(parent)
			blk := &Block{kind: HTMLBlockKind, htmlCondition: idx + 1}
			ob := &openBlock{block: blk, htmlConditionIdx: idx}
			ob.raw.Write(line)
			p.appendChild(blk)
			if htmlBlockConditions[idx].end(line) {
				p.finalizeLeaf(ob)
			} else {
				p.stack = append(p.stack, ob)
			}
			// The whole line is already written into ob.raw (or the block
			// is already finalized); nothing remains for appendToLeaf.
			return consumedLine, line[len(line):], 0
		}
		if indentCols >= 4 && !p.stack[len(p.stack)-1].isOpen(ParagraphKind) {
			p.closeLeafFor(parent)
			blk := &Block{kind: IndentedCodeBlockKind}
			p.pushOpen(&openBlock{block: blk})
			consumed := consumeColumns(line, 4)
			return openedLeaf, line[consumed:], 0
		}
	}

	return notOpened, line, col
}

func trimLineEnding(b []byte) []byte {
	for len(b) > 0 && isLineEnding(b[len(b)-1]) {
		b = b[:len(b)-1]
	}
	return b
}

// canInterruptParagraphWithList applies spec.md §5's resolved open
// question: a list can interrupt a paragraph only with a bullet, or an
// ordered marker starting at 1, and only when the item has content. The
// rule applies to a list's first item: a further item of the list whose
// item holds the open paragraph is not restricted.
func (p *parserState) canInterruptParagraphWithList(m listMarker, line []byte) bool {
	top := p.stack[len(p.stack)-1]
	if !top.isOpen(ParagraphKind) {
		return true
	}
	if n := len(p.stack); n >= 3 && p.stack[n-3].isOpen(ListKind) &&
		p.stack[n-3].marker.bullet == m.bullet && p.stack[n-3].marker.ordered == m.ordered {
		return true
	}
	if m.ordered && m.start != 1 {
		return false
	}
	rest := line[m.markerWidth:]
	return !isBlankLine(rest)
}

func (p *parserState) openList(m listMarker) {
	top := p.stack[len(p.stack)-1]
	if top.isOpen(ListKind) {
		// Continuing the same list only if the bullet character and
		// ordered-ness match (an ordered list's '.' or ')' delimiter is not
		// compared); otherwise close it and start a new one.
		if top.marker.bullet == m.bullet && top.marker.ordered == m.ordered {
			return
		}
		p.closeBlocksAbove(len(p.stack) - 1)
	}
	blk := &Block{kind: ListKind, ordered: m.ordered, start: m.start, bullet: m.bullet, tight: true}
	p.pushOpen(&openBlock{block: blk, marker: m})
}

func (p *parserState) push(blk *Block) {
	p.pushOpen(&openBlock{block: blk})
}

func (p *parserState) pushOpen(ob *openBlock) {
	p.appendChild(ob.block)
	p.stack = append(p.stack, ob)
}

func (p *parserState) appendChild(blk *Block) {
	parent := p.stack[len(p.stack)-1].block
	parent.blockChildren = append(parent.blockChildren, blk)
}

// closeLeafFor closes the currently open leaf (paragraph, code block,
// etc.) sitting above parent, if any, so a new sibling container/leaf can
// be appended instead.
func (p *parserState) closeLeafFor(parent *openBlock) {
	depth := 0
	for i, ob := range p.stack {
		if ob == parent {
			depth = i + 1
			break
		}
	}
	p.closeBlocksAbove(depth)
}

// closeBlocksAbove finalizes and pops every open block past depth.
func (p *parserState) closeBlocksAbove(depth int) {
	for len(p.stack) > depth {
		ob := p.stack[len(p.stack)-1]
		p.finalizeLeaf(ob)
		p.stack = p.stack[:len(p.stack)-1]
	}
}

func (p *parserState) finalizeLeaf(ob *openBlock) {
	switch ob.block.kind {
	case ParagraphKind:
		p.finalizeParagraph(ob)
	case ATXHeadingKind, SetextHeadingKind:
		if ob.raw.Len() > 0 {
			ob.block.content = ob.raw.String()
		}
	case IndentedCodeBlockKind, FencedCodeBlockKind, HTMLBlockKind:
		ob.block.content = ob.raw.String()
	case ListKind:
		finalizeContainer(ob.block)
	case ListItemKind, BlockQuoteKind, DocumentKind:
		finalizeContainer(ob.block)
	}
}

// finalizeParagraph strips any leading link reference definitions from a
// finished paragraph's accumulated lines (CommonMark §4.7), registering
// each into p.lrds, the way marko's block.py resolves them at paragraph-
// close time rather than while lines are still arriving: a paragraph open
// block always has non-empty raw content from its very first line, so an
// LRD can never be recognized against the "still empty" paragraph the old
// per-line check looked for. A paragraph left with no remaining content
// renders as nothing; one left with trailing text after its leading
// definitions keeps that text as its content.
func (p *parserState) finalizeParagraph(ob *openBlock) {
	if ob.raw.Len() == 0 {
		return
	}
	lines := strings.Split(ob.raw.String(), "\n")
	for len(lines) > 0 {
		lrd, consumed := tryParseLinkReferenceDefinition([]byte(lines[0]))
		if !consumed {
			break
		}
		p.lrds.define(lrd.label, LinkDefinition{Destination: lrd.dest, Title: lrd.title, TitlePresent: lrd.titlePresent})
		lines = lines[1:]
	}
	if len(lines) == 0 {
		ob.block.kind = LinkReferenceDefinitionKind
		return
	}
	ob.block.content = strings.Join(lines, "\n")
}

// finalizeContainer runs loose/tight detection for a finished List
// (CommonMark §5.3): a list is loose if a blank line was seen between any
// two of its items, or within any item's own content; tight otherwise.
// Other container kinds (BlockQuote, ListItem, Document) need no
// finalization of their own beyond having already been built bottom-up.
func finalizeContainer(blk *Block) {
	if blk.kind != ListKind {
		return
	}
	tight := !blk.hadBlankLine
	if tight {
		for _, item := range blk.blockChildren {
			if item.hadBlankLine {
				tight = false
				break
			}
		}
	}
	blk.tight = tight
	for _, item := range blk.blockChildren {
		item.tight = tight
	}
}

func matchHTMLBlockStart(line []byte, top *openBlock) int {
	canInterrupt := !top.isOpen(ParagraphKind)
	for i, cond := range htmlBlockConditions {
		if !canInterrupt && !cond.canInterruptParagraph {
			continue
		}
		if cond.start(line) {
			return i
		}
	}
	return -1
}

// appendToLeaf feeds the (already container-stripped) remainder of a line
// to whatever leaf is now open at the top of the stack, opening a fresh
// Paragraph if nothing is.
func (p *parserState) appendToLeaf(top *openBlock, line []byte, blank bool) {
	switch top.block.kind {
	case FencedCodeBlockKind:
		if matchClosingFence(line, top.fence.char, top.fence.length) {
			p.closeBlocksAbove(len(p.stack) - 1)
			return
		}
		top.raw.Write(stripFenceIndent(line, top.fence))
	case IndentedCodeBlockKind:
		if blank {
			top.raw.WriteByte('\n')
			return
		}
		top.raw.Write(line)
	case HTMLBlockKind:
		top.raw.Write(line)
		if htmlBlockConditions[top.htmlConditionIdx].end(line) {
			p.closeBlocksAbove(len(p.stack) - 1)
		}
	case ParagraphKind:
		if blank {
			p.closeBlocksAbove(len(p.stack) - 1)
			return
		}
		writeParagraphLine(&top.raw, line)
	default:
		if blank {
			return
		}
		blk := &Block{kind: ParagraphKind}
		p.appendChild(blk)
		ob := &openBlock{block: blk}
		writeParagraphLine(&ob.raw, line)
		p.stack = append(p.stack, ob)
	}
}

func writeParagraphLine(buf *bytes.Buffer, line []byte) {
	trimmed := bytes.TrimLeft(line, " \t")
	if buf.Len() > 0 {
		buf.WriteByte('\n')
	}
	buf.Write(trimLineEnding(trimmed))
}

// stripFenceIndent removes up to fence.indent columns of leading
// whitespace from a code line (CommonMark §4.5: content lines have the
// fence's own indentation stripped, not just re-matched like a container
// prefix, since fenced code is a leaf).
func stripFenceIndent(line []byte, fence codeFence) []byte {
	if fence.indent <= 0 {
		return line
	}
	return line[consumeColumns(line, fence.indent):]
}

// walkInlineLeaves runs the inline parser over every Paragraph/heading
// leaf in the tree, now that lrds (collected across the whole document)
// is complete.
func walkInlineLeaves(blk *Block, lrds ReferenceMap) {
	switch blk.kind {
	case ParagraphKind, ATXHeadingKind, SetextHeadingKind:
		blk.inlineChildren = parseInlines(blk.content, lrds)
		return
	}
	for _, child := range blk.blockChildren {
		walkInlineLeaves(child, lrds)
	}
}
