package sound

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthProducesValidWAV(t *testing.T) {
	synth := &Synth{}

	for _, cue := range []Cue{CueCorrect, CueWrong, CueBell, CueDrum, CueClap, CueQuiet} {
		t.Run(string(cue), func(t *testing.T) {
			data := Render(synth, cue)
			require.NotNil(t, data)
			require.Greater(t, len(data), 44, "payload must be larger than the header")

			assert.Equal(t, "RIFF", string(data[0:4]))
			assert.Equal(t, "WAVE", string(data[8:12]))
			assert.Equal(t, "fmt ", string(data[12:16]))
			assert.Equal(t, "data", string(data[36:40]))

			// 16-bit mono PCM at 44.1kHz.
			assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[20:22]))
			assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[22:24]))
			assert.Equal(t, uint32(44100), binary.LittleEndian.Uint32(data[24:28]))
			assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(data[34:36]))

			// Chunk sizes must match the actual payload.
			assert.Equal(t, uint32(len(data)-8), binary.LittleEndian.Uint32(data[4:8]))
			assert.Equal(t, uint32(len(data)-44), binary.LittleEndian.Uint32(data[40:44]))
		})
	}
}

func TestSynthCuesAreAudible(t *testing.T) {
	synth := &Synth{}

	for _, cue := range []Cue{CueCorrect, CueWrong, CueBell, CueDrum, CueClap, CueQuiet} {
		data := Render(synth, cue)
		require.NotNil(t, data)

		audible := false
		for i := 44; i+1 < len(data); i += 2 {
			if sample := int16(binary.LittleEndian.Uint16(data[i : i+2])); sample > 1000 || sample < -1000 {
				audible = true
				break
			}
		}
		assert.True(t, audible, "cue %s is silent", cue)
	}
}

func TestRenderUnknownCue(t *testing.T) {
	assert.Nil(t, Render(&Synth{}, Cue("kazoo")))
	assert.Nil(t, Render(nil, CueBell))
}
