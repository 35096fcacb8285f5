package export

import (
	"golang.org/x/text/unicode/bidi"

	"github.com/quickscribe/quickscribe/internal/pkg/transcript"
)

//Direction is a paragraph text direction
type Direction int

const (
	//LeftToRight direction
	LeftToRight Direction = iota
	//RightToLeft direction
	RightToLeft
)

//Builder abstracts a rich-document encoder. The core prepares paragraph
//data and calls the builder, it owns no encoding logic itself. A DOCX
//encoder plugs in by implementing this interface
type Builder interface {
	//AddParagraph starts a new paragraph
	AddParagraph()
	//SetAlignment sets the current paragraph's direction and alignment
	SetAlignment(d Direction)
	//AddLabelRun appends a bold colored label run to the current paragraph
	AddLabelRun(text, color string)
	//AddTextRun appends a plain text run to the current paragraph
	AddTextRun(text string)
}

//DocOpts controls document content
type DocOpts struct {
	ShowTime    bool
	ShowSpeaker bool
	Labels      transcript.Labels
	Suppress    transcript.SuppressRule
}

//DetectDirection decides the paragraph direction from the script of the
//text. Transcripts in right-to-left scripts get right-to-left paragraphs
func DetectDirection(text string) Direction {
	var p bidi.Paragraph
	if _, err := p.SetString(text); err != nil {
		return LeftToRight
	}
	if !p.IsLeftToRight() {
		return RightToLeft
	}
	return LeftToRight
}

//BuildDocument feeds paragraph groups into the builder: an optional bold
//label line ([mm:ss] time prefix, then speaker label when shown and not
//suppressed) followed by the paragraph text
func BuildDocument(b Builder, segments []transcript.Segment, opts DocOpts) error {
	if len(segments) == 0 {
		return ErrNoSegments
	}
	multiple := transcript.MultipleSpeakers(segments)
	for _, g := range transcript.GroupBySpeaker(segments) {
		text := g.Text()
		dir := DetectDirection(text)

		showSpeaker := opts.ShowSpeaker && !opts.Suppress.Suppressed(g.Speaker, multiple)
		if showSpeaker || opts.ShowTime {
			label := ""
			if opts.ShowTime {
				label += "[" + transcript.FormatTime(g.Start) + "] "
			}
			if showSpeaker {
				label += opts.Labels.Format(g.Speaker)
			}
			b.AddParagraph()
			b.SetAlignment(dir)
			b.AddLabelRun(label, transcript.SpeakerColor(g.Speaker))
		}
		b.AddParagraph()
		b.SetAlignment(dir)
		b.AddTextRun(text)
	}
	return nil
}
