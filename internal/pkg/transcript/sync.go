package transcript

//SyncIndex finds the segment to highlight for a playback position: the
//last segment in sequence order whose start does not exceed pos. Returns
//-1 when the position precedes the first segment
func SyncIndex(segments []Segment, pos float64) int {
	res := -1
	for i, s := range segments {
		if s.Start <= pos {
			res = i
		}
	}
	return res
}
