package export

import (
	"fmt"
	"strconv"
	"strings"
)

//RTFBuilder is the bundled rich-document encoder. It produces an RTF file
//honoring per-paragraph text direction
type RTFBuilder struct {
	paragraphs []rtfParagraph
}

type rtfParagraph struct {
	dir  Direction
	runs []rtfRun
}

type rtfRun struct {
	text  string
	color string
	bold  bool
}

//NewRTFBuilder creates an empty builder
func NewRTFBuilder() *RTFBuilder {
	return &RTFBuilder{}
}

//AddParagraph starts a new paragraph
func (r *RTFBuilder) AddParagraph() {
	r.paragraphs = append(r.paragraphs, rtfParagraph{})
}

//SetAlignment sets the current paragraph direction
func (r *RTFBuilder) SetAlignment(d Direction) {
	if len(r.paragraphs) == 0 {
		r.AddParagraph()
	}
	r.paragraphs[len(r.paragraphs)-1].dir = d
}

//AddLabelRun appends a bold colored run
func (r *RTFBuilder) AddLabelRun(text, color string) {
	r.addRun(rtfRun{text: text, color: color, bold: true})
}

//AddTextRun appends a plain run
func (r *RTFBuilder) AddTextRun(text string) {
	r.addRun(rtfRun{text: text})
}

func (r *RTFBuilder) addRun(run rtfRun) {
	if len(r.paragraphs) == 0 {
		r.AddParagraph()
	}
	p := &r.paragraphs[len(r.paragraphs)-1]
	p.runs = append(p.runs, run)
}

//Bytes serializes the document
func (r *RTFBuilder) Bytes() []byte {
	colors, colorIndex := r.colorTable()

	var b strings.Builder
	b.WriteString(`{\rtf1\ansi\deff0{\fonttbl{\f0 Arial;}}`)
	b.WriteString(`{\colortbl ;`)
	for _, c := range colors {
		red, green, blue := splitColor(c)
		fmt.Fprintf(&b, `\red%d\green%d\blue%d;`, red, green, blue)
	}
	b.WriteString("}\n")

	for _, p := range r.paragraphs {
		b.WriteString(`{\pard`)
		if p.dir == RightToLeft {
			b.WriteString(`\rtlpar\qr`)
		} else {
			b.WriteString(`\ltrpar\ql`)
		}
		b.WriteString(`\sa300`)
		for _, run := range p.runs {
			b.WriteString(`{`)
			if run.bold {
				b.WriteString(`\b\fs20`)
			} else {
				b.WriteString(`\fs24`)
			}
			if idx, found := colorIndex[run.color]; found {
				b.WriteString(`\cf` + strconv.Itoa(idx))
			}
			b.WriteString(` `)
			b.WriteString(escapeRTF(run.text))
			b.WriteString(`}`)
		}
		b.WriteString("\\par}\n")
	}
	b.WriteString("}")
	return []byte(b.String())
}

func (r *RTFBuilder) colorTable() ([]string, map[string]int) {
	var colors []string
	index := make(map[string]int)
	for _, p := range r.paragraphs {
		for _, run := range p.runs {
			if run.color == "" {
				continue
			}
			if _, found := index[run.color]; !found {
				colors = append(colors, run.color)
				index[run.color] = len(colors) // entry 0 is the auto color
			}
		}
	}
	return colors, index
}

func splitColor(hex string) (int, int, int) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}

func escapeRTF(s string) string {
	var b strings.Builder
	for _, c := range s {
		switch {
		case c == '\\' || c == '{' || c == '}':
			b.WriteByte('\\')
			b.WriteRune(c)
		case c == '\n':
			b.WriteString(`\line `)
		case c < 0x80:
			b.WriteRune(c)
		default:
			v := int32(c)
			if v > 32767 {
				v -= 65536
			}
			fmt.Fprintf(&b, `\u%d?`, v)
		}
	}
	return b.String()
}
