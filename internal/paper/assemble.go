package paper

// Assemble builds the complete document for p: header, instructions, the
// classified question-paper body, one page break, then the answer key.
// It never fails on malformed text. A nil p is a programming error.
func Assemble(p *Parameters) *Document {
	if p == nil {
		panic("paper: Assemble called with nil parameters")
	}
	var b Builder
	b.Append(BuildHeader(p)...)

	if items := NormalizeInstructions(p.Instructions); len(items) > 0 {
		b.Append(Paragraph{Text: InstructionsTitle, Style: Style{Bold: true, SpaceBefore: true}})
		for _, item := range items {
			b.Append(BulletItem{Text: item})
		}
	}

	appendBody(&b, p.QuestionPaper, questionBlock)
	b.Append(PageBreak{})
	b.Append(Heading{Text: AnswerKeyTitle, Level: 1, Style: Style{Align: AlignCenter, Bold: true}})
	appendBody(&b, p.AnswerKey, answerBlock)

	return b.Document()
}

// ClassifyText classifies every line of text in order, tracking which line is
// the first non-blank one.
func ClassifyText(text string) []Classification {
	lines := SplitLines(text)
	out := make([]Classification, 0, len(lines))
	seen := false
	for _, line := range lines {
		nonBlank := StripMarkdown(line.Text) != ""
		out = append(out, Classify(line.Text, nonBlank && !seen))
		seen = seen || nonBlank
	}
	return out
}

func appendBody(b *Builder, text string, build func(Classification) Block) {
	for _, cl := range ClassifyText(text) {
		if !Emits(cl.Class) {
			continue
		}
		b.Append(build(cl))
	}
}

// Questions returns the text of every question line in a question paper:
// lines classified as Body or SubQuestion, in order.
func Questions(text string) []string {
	var out []string
	for _, cl := range ClassifyText(text) {
		if cl.Class == Body || cl.Class == SubQuestion {
			out = append(out, cl.Text)
		}
	}
	return out
}
