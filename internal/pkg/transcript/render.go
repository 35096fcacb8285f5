package transcript

import (
	"fmt"
	"html"
	"strconv"
	"strings"
)

//RenderOpts controls the rendered markup
type RenderOpts struct {
	ShowTime    bool
	ShowSpeaker bool
	Labels      Labels
	Suppress    SuppressRule
}

//FormatTime renders seconds as mm:ss
func FormatTime(s float64) string {
	secs := int(s)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

//Render turns segments into paragraph markup. It is a pure function of its
//inputs: repeated calls with the same arguments yield identical output.
//Each segment gets its own span so edits can be written back by position
func Render(segments []Segment, opts RenderOpts) string {
	multiple := MultipleSpeakers(segments)
	var b strings.Builder
	for _, g := range GroupBySpeaker(segments) {
		writeGroup(&b, &g, opts, multiple)
	}
	return b.String()
}

func writeGroup(b *strings.Builder, g *Group, opts RenderOpts, multiple bool) {
	suppressed := opts.Suppress.Suppressed(g.Speaker, multiple)
	rowClass := "paragraph-row"
	if suppressed {
		rowClass += " no-speaker"
	}
	b.WriteString(`<div class="` + rowClass + `">`)
	if opts.ShowTime {
		b.WriteString(`<div class="ts-col">` + FormatTime(g.Start) + `</div>`)
	}
	b.WriteString(`<div class="text-col">`)
	if opts.ShowSpeaker && !suppressed {
		b.WriteString(`<span class="speaker-label" style="color: ` + SpeakerColor(g.Speaker) + `">`)
		b.WriteString(html.EscapeString(opts.Labels.Format(g.Speaker)))
		b.WriteString(`</span>`)
	}
	b.WriteString(`<p>`)
	for _, s := range g.Segments {
		b.WriteString(`<span class="clickable-sent" data-start="` +
			strconv.FormatFloat(s.Start, 'g', -1, 64) + `">`)
		b.WriteString(html.EscapeString(s.Text))
		b.WriteString(` </span>`)
	}
	b.WriteString(`</p></div></div>`)
}
