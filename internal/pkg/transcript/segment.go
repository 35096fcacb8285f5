package transcript

//Segment is one transcribed utterance unit.
//Empty Speaker means the diarization step produced no attribution
type Segment struct {
	Speaker string  `json:"speaker,omitempty"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
}

//MultipleSpeakers returns true iff segments carry more than one distinct
//non-empty speaker identifier. A single detected speaker is treated as
//"no diarization", not as one named speaker
func MultipleSpeakers(segments []Segment) bool {
	seen := make(map[string]bool)
	for _, s := range segments {
		if s.Speaker != "" {
			seen[s.Speaker] = true
			if len(seen) > 1 {
				return true
			}
		}
	}
	return false
}
