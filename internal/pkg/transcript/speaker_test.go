package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpeakerColor(t *testing.T) {
	assert.Equal(t, "#5d5dff", SpeakerColor("SPEAKER_00"))
	assert.Equal(t, "#d97706", SpeakerColor("SPEAKER_03"))
	// palette has 8 colors, index wraps
	assert.Equal(t, SpeakerColor("SPEAKER_01"), SpeakerColor("SPEAKER_09"))
}

func TestSpeakerColor_Stable(t *testing.T) {
	assert.Equal(t, SpeakerColor("SPEAKER_05"), SpeakerColor("SPEAKER_05"))
}

func TestSpeakerColor_Unparseable(t *testing.T) {
	assert.Equal(t, "#5d5dff", SpeakerColor(""))
	assert.Equal(t, "#5d5dff", SpeakerColor("guest"))
}

func TestLabelsFormat(t *testing.T) {
	assert.Equal(t, "Speaker 1", Labels{}.Format("SPEAKER_00"))
	assert.Equal(t, "Speaker 4", Labels{}.Format("SPEAKER_03"))
	assert.Equal(t, "Unknown speaker", Labels{}.Format(""))
	assert.Equal(t, "guest", Labels{}.Format("guest"))
}

func TestLabelsFormat_Custom(t *testing.T) {
	l := Labels{Speaker: "דובר %d", Unknown: "דובר לא ידוע"}
	assert.Equal(t, "דובר 2", l.Format("SPEAKER_01"))
	assert.Equal(t, "דובר לא ידוע", l.Format(""))
}

func TestSuppressed_DefaultOnly(t *testing.T) {
	r := SuppressRule{}
	assert.True(t, r.Suppressed("SPEAKER_00", false))
	assert.False(t, r.Suppressed("SPEAKER_00", true))
	assert.False(t, r.Suppressed("SPEAKER_01", false))
	assert.False(t, r.Suppressed("", false))
}

func TestSuppressed_AnySingle(t *testing.T) {
	r := SuppressRule{Policy: SuppressAnySingle}
	assert.True(t, r.Suppressed("SPEAKER_03", false))
	assert.True(t, r.Suppressed("", false))
	assert.False(t, r.Suppressed("SPEAKER_03", true))
}

func TestSuppressed_CustomDefaultID(t *testing.T) {
	r := SuppressRule{DefaultID: "spk0"}
	assert.True(t, r.Suppressed("spk0", false))
	assert.False(t, r.Suppressed("SPEAKER_00", false))
}
