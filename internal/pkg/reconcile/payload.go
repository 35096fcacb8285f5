package reconcile

import (
	"encoding/json"

	"github.com/quickscribe/quickscribe/internal/pkg/transcript"
)

//Payload is a job notification as delivered by the push channel or the
//status-check endpoint. Both carry the same shape. Result envelopes vary
//by backend version, see Normalize
type Payload struct {
	ID            string               `json:"id,omitempty"`
	Status        string               `json:"status"`
	Result        json.RawMessage      `json:"result,omitempty"`
	Output        json.RawMessage      `json:"output,omitempty"`
	Segments      []transcript.Segment `json:"segments,omitempty"`
	Transcription string               `json:"transcription,omitempty"`
	Error         string               `json:"error,omitempty"`
	Progress      int32                `json:"progress,omitempty"`
}
