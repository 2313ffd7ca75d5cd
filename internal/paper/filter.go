package paper

import "fmt"

// Emits reports whether a line of class c produces a block. Blank lines,
// metadata echoes and decorative separators never do.
func Emits(c LineClass) bool {
	switch c {
	case Blank, Metadata, Separator:
		return false
	case SectionHeading, MarksAnnotation, SubQuestion, Body:
		return true
	default:
		panic(fmt.Sprintf("paper: unhandled line class %d", c))
	}
}

// StyleFor returns the style directive a question-paper line of class c
// receives. Classes that never emit get the zero Style.
func StyleFor(c LineClass) Style {
	switch c {
	case SectionHeading:
		return Style{Align: AlignCenter, Bold: true, SpaceBefore: true}
	case MarksAnnotation:
		return Style{Align: AlignRight}
	case SubQuestion:
		return Style{Indent: 1}
	case Body, Blank, Metadata, Separator:
		return Style{}
	default:
		panic(fmt.Sprintf("paper: unhandled line class %d", c))
	}
}

// questionBlock builds the block for an emitted question-paper line.
func questionBlock(cl Classification) Block {
	switch cl.Class {
	case SectionHeading:
		return Heading{Text: cl.Text, Level: 2, Style: StyleFor(cl.Class)}
	case MarksAnnotation, SubQuestion, Body:
		return Paragraph{Text: cl.Text, Style: StyleFor(cl.Class)}
	default:
		panic(fmt.Sprintf("paper: no block for line class %s", cl.Class))
	}
}

// answerBlock builds the block for an emitted answer-key line. Answer keys are
// always plain left-aligned paragraphs whatever the class.
func answerBlock(cl Classification) Block {
	return Paragraph{Text: cl.Text}
}
