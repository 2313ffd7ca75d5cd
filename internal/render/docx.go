// Package render serializes assembled documents: WordprocessingML (.docx) for
// download and plain text for terminal previews.
package render

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/qpaper/internal/paper"
)

// DOCXContentType is the MIME type of a .docx package.
const DOCXContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

const (
	wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	relNS  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

	// rightTabPos is 6.5in in twentieths of a point: the right margin of a
	// Letter page with 1in margins.
	rightTabPos = 9360
	// indentStep is 0.5in per indent level.
	indentStep = 720
	// spaceBefore is 12pt.
	spaceBefore = 240
	bulletNumID = 1
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
<Override PartName="/word/numbering.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"/>
</Types>`

const packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering" Target="numbering.xml"/>
</Relationships>`

// Normal is Times New Roman 12pt; headings keep the body font.
const stylesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="` + wordNS + `">
<w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii="Times New Roman" w:hAnsi="Times New Roman" w:cs="Times New Roman"/><w:sz w:val="24"/></w:rPr></w:rPrDefault></w:docDefaults>
<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>
<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:pPr><w:keepNext/><w:spacing w:before="480" w:after="120"/><w:outlineLvl w:val="0"/></w:pPr><w:rPr><w:b/><w:sz w:val="32"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="heading 2"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:pPr><w:keepNext/><w:outlineLvl w:val="1"/></w:pPr><w:rPr><w:b/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="ListBullet"><w:name w:val="List Bullet"/><w:basedOn w:val="Normal"/><w:pPr><w:numPr><w:numId w:val="1"/></w:numPr></w:pPr></w:style>
</w:styles>`

const numberingXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:numbering xmlns:w="` + wordNS + `">
<w:abstractNum w:abstractNumId="0"><w:multiLevelType w:val="singleLevel"/><w:lvl w:ilvl="0"><w:start w:val="1"/><w:numFmt w:val="bullet"/><w:lvlText w:val="&#8226;"/><w:lvlJc w:val="left"/><w:pPr><w:ind w:left="720" w:hanging="360"/></w:pPr></w:lvl></w:abstractNum>
<w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num>
</w:numbering>`

// DOCX serializes doc into a .docx package.
func DOCX(doc *paper.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteDOCX(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDOCX writes doc as a .docx package to w.
func WriteDOCX(w io.Writer, doc *paper.Document) error {
	body, err := documentXML(doc)
	if err != nil {
		return err
	}
	zw := zip.NewWriter(w)
	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(packageRelsXML)},
		{"word/_rels/document.xml.rels", []byte(documentRelsXML)},
		{"word/styles.xml", []byte(stylesXML)},
		{"word/numbering.xml", []byte(numberingXML)},
		{"word/document.xml", body},
	}
	for _, p := range parts {
		fw, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("create %s: %w", p.name, err)
		}
		if _, err := fw.Write(p.data); err != nil {
			return fmt.Errorf("write %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("close docx: %w", err)
	}
	return nil
}

func documentXML(doc *paper.Document) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(xml.Header)
	b.WriteString(`<w:document xmlns:w="` + wordNS + `" xmlns:r="` + relNS + `"><w:body>`)
	for i, blk := range doc.Blocks {
		if err := writeBlock(&b, blk); err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
	}
	b.WriteString(`<w:sectPr><w:pgSz w:w="12240" w:h="15840"/><w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="720" w:footer="720" w:gutter="0"/></w:sectPr>`)
	b.WriteString(`</w:body></w:document>`)
	return b.Bytes(), nil
}

func writeBlock(b *bytes.Buffer, blk paper.Block) error {
	switch v := blk.(type) {
	case paper.Paragraph:
		return writeParagraph(b, "", v.Text, v.Style)
	case paper.BulletItem:
		return writeParagraph(b, "ListBullet", v.Text, paper.Style{})
	case paper.Heading:
		return writeParagraph(b, fmt.Sprintf("Heading%d", v.Level), v.Text, v.Style)
	case paper.PageBreak:
		b.WriteString(`<w:p><w:r><w:br w:type="page"/></w:r></w:p>`)
		return nil
	default:
		return fmt.Errorf("unsupported block %T", blk)
	}
}

func writeParagraph(b *bytes.Buffer, styleID, text string, st paper.Style) error {
	b.WriteString(`<w:p><w:pPr>`)
	if styleID != "" {
		fmt.Fprintf(b, `<w:pStyle w:val="%s"/>`, styleID)
	}
	if st.RightTab {
		fmt.Fprintf(b, `<w:tabs><w:tab w:val="right" w:pos="%d"/></w:tabs>`, rightTabPos)
	}
	if st.SpaceBefore {
		fmt.Fprintf(b, `<w:spacing w:before="%d"/>`, spaceBefore)
	}
	if st.Indent > 0 {
		fmt.Fprintf(b, `<w:ind w:left="%d"/>`, st.Indent*indentStep)
	}
	switch st.Align {
	case paper.AlignCenter:
		b.WriteString(`<w:jc w:val="center"/>`)
	case paper.AlignRight:
		b.WriteString(`<w:jc w:val="right"/>`)
	}
	b.WriteString(`</w:pPr><w:r>`)
	if st.Bold || st.Size > 0 {
		b.WriteString(`<w:rPr>`)
		if st.Bold {
			b.WriteString(`<w:b/>`)
		}
		if st.Size > 0 {
			fmt.Fprintf(b, `<w:sz w:val="%d"/>`, st.Size*2)
		}
		b.WriteString(`</w:rPr>`)
	}
	for i, seg := range strings.Split(text, "\t") {
		if i > 0 {
			b.WriteString(`<w:tab/>`)
		}
		if seg == "" {
			continue
		}
		b.WriteString(`<w:t xml:space="preserve">`)
		if err := xml.EscapeText(b, []byte(seg)); err != nil {
			return err
		}
		b.WriteString(`</w:t>`)
	}
	b.WriteString(`</w:r></w:p>`)
	return nil
}
