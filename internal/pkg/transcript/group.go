package transcript

import "strings"

//Group is a maximal run of consecutive segments sharing the same speaker.
//Groups partition the segment sequence: boundaries occur exactly where
//the speaker changes, segment order and identity are preserved
type Group struct {
	Speaker  string
	Start    float64
	Segments []Segment
}

//Text returns the group's segment texts joined by a single space
func (g *Group) Text() string {
	parts := make([]string, 0, len(g.Segments))
	for _, s := range g.Segments {
		parts = append(parts, strings.TrimSpace(s.Text))
	}
	return strings.Join(parts, " ")
}

//GroupBySpeaker merges consecutive segments with an equal speaker into
//paragraph groups. Segments without a speaker share one sentinel value, so
//consecutive un-diarized segments merge, but never with a named speaker
func GroupBySpeaker(segments []Segment) []Group {
	var res []Group
	for _, s := range segments {
		if len(res) == 0 || res[len(res)-1].Speaker != s.Speaker {
			res = append(res, Group{Speaker: s.Speaker, Start: s.Start})
		}
		g := &res[len(res)-1]
		g.Segments = append(g.Segments, s)
	}
	return res
}
