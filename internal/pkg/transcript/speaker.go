package transcript

import (
	"fmt"
	"regexp"
	"strconv"
)

//DefaultSpeakerID is the diarization system's placeholder identifier
const DefaultSpeakerID = "SPEAKER_00"

var colors = []string{"#5d5dff", "#9333ea", "#059669", "#d97706", "#7c3aed", "#db2777", "#2563eb", "#ca8a04"}

var digitsRegexp = regexp.MustCompile(`\d+`)
var speakerRegexp = regexp.MustCompile(`SPEAKER_(\d+)`)

//SpeakerColor assigns a palette color to a speaker identifier. The first
//integer embedded in the identifier selects the color modulo palette size,
//missing or unparseable identifiers map to index 0. Stable across calls
func SpeakerColor(id string) string {
	index := 0
	if m := digitsRegexp.FindString(id); m != "" {
		v, err := strconv.Atoi(m)
		if err == nil {
			index = v
		}
	}
	return colors[index%len(colors)]
}

//Labels holds user-visible speaker label texts
type Labels struct {
	//Speaker is a format with one %d for the 1-based speaker number
	Speaker string
	//Unknown names a segment without diarization data
	Unknown string
}

//DefaultLabels are the English label texts
var DefaultLabels = Labels{Speaker: "Speaker %d", Unknown: "Unknown speaker"}

func (l Labels) orDefault() Labels {
	if l.Speaker == "" {
		l.Speaker = DefaultLabels.Speaker
	}
	if l.Unknown == "" {
		l.Unknown = DefaultLabels.Unknown
	}
	return l
}

//Format maps a canonical SPEAKER_<n> identifier to the 1-based human
//label. Unrecognized non-empty identifiers pass through unchanged
func (l Labels) Format(id string) string {
	l = l.orDefault()
	if id == "" {
		return l.Unknown
	}
	if m := speakerRegexp.FindStringSubmatch(id); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return fmt.Sprintf(l.Speaker, n+1)
		}
	}
	return id
}

//SuppressPolicy selects the dummy-speaker suppression rule
type SuppressPolicy int

const (
	//SuppressDefaultOnly hides the label only when the sole speaker is the
	//literal placeholder identifier
	SuppressDefaultOnly SuppressPolicy = iota
	//SuppressAnySingle hides the label of any sole speaker
	SuppressAnySingle
)

//SuppressRule decides whether a speaker label is hidden
type SuppressRule struct {
	Policy SuppressPolicy
	//DefaultID overrides the placeholder identifier, DefaultSpeakerID if empty
	DefaultID string
}

//Suppressed returns true when the speaker label must be hidden everywhere.
//multiple is the transcript-wide MultipleSpeakers value
func (r SuppressRule) Suppressed(speaker string, multiple bool) bool {
	if multiple {
		return false
	}
	switch r.Policy {
	case SuppressAnySingle:
		return true
	default:
		defID := r.DefaultID
		if defID == "" {
			defID = DefaultSpeakerID
		}
		return speaker == defID
	}
}
