// Package paper turns loosely structured exam text into an ordered sequence of
// styled blocks laid out in the institutional question-paper format.
//
// Everything in this package is pure: no I/O, no logging, no shared state.
// Rendering the blocks to a file format lives in internal/render.
package paper

// Alignment is the horizontal alignment of a block.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// Style holds the formatting attached to a block.
type Style struct {
	Align       Alignment
	Bold        bool
	Indent      int // 0 or 1
	SpaceBefore bool
	// Size is the font size in points; zero means the document default.
	Size int
	// RightTab anchors a tab stop at the right margin so that a tab in the
	// text pushes the remainder flush right.
	RightTab bool
}

// Block is one structural unit of an OutputDocument. The set of block kinds is
// closed: Paragraph, BulletItem, Heading and PageBreak.
type Block interface {
	isBlock()
}

// Paragraph is a run of text with a style.
type Paragraph struct {
	Text  string
	Style Style
}

// BulletItem is one entry of a bulleted list.
type BulletItem struct {
	Text string
}

// Heading is a titled break in the document. Level 1 is the top level.
type Heading struct {
	Text  string
	Level int
	Style Style
}

// PageBreak starts a new page.
type PageBreak struct{}

func (Paragraph) isBlock()  {}
func (BulletItem) isBlock() {}
func (Heading) isBlock()    {}
func (PageBreak) isBlock()  {}

// Document is the assembled output in physical reading order.
type Document struct {
	Blocks []Block
}

// Builder accumulates blocks for a single Document. It is owned by exactly one
// assembly call; Document hands the result off and the builder must not be
// used afterwards.
type Builder struct {
	blocks []Block
	done   bool
}

// Append adds blocks in order.
func (b *Builder) Append(blocks ...Block) {
	if b.done {
		panic("paper: Append after Document")
	}
	b.blocks = append(b.blocks, blocks...)
}

// Len returns the number of blocks appended so far.
func (b *Builder) Len() int {
	return len(b.blocks)
}

// Document finalizes the builder and returns the assembled document.
func (b *Builder) Document() *Document {
	b.done = true
	return &Document{Blocks: b.blocks}
}

// PageBreaks returns the number of PageBreak blocks in d.
func (d *Document) PageBreaks() int {
	n := 0
	for _, blk := range d.Blocks {
		if _, ok := blk.(PageBreak); ok {
			n++
		}
	}
	return n
}

// BlockText returns the text carried by blk, or "" for a PageBreak.
func BlockText(blk Block) string {
	switch v := blk.(type) {
	case Paragraph:
		return v.Text
	case BulletItem:
		return v.Text
	case Heading:
		return v.Text
	default:
		return ""
	}
}
