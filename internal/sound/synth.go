package sound

import (
	"encoding/binary"
	"math"
	"math/rand"
)

const sampleRate = 44100

// Synth procedurally generates every cue, with no audio assets. Output
// is 16-bit mono WAV at 44.1 kHz, ready to hand to any playback backend.
type Synth struct{}

// NewSynth creates the default procedural engine.
func NewSynth() *Synth {
	return &Synth{}
}

// Correct is a rising sine sweep.
func (s *Synth) Correct() []byte {
	duration := 0.3
	samples := renderSamples(duration, func(t float64) float64 {
		progress := t / duration
		// Integrated phase of a 400 -> 900 Hz linear sweep.
		phase := 2 * math.Pi * (400*t + 250*t*t/duration)
		return math.Sin(phase) * (1 - progress)
	})
	return encodeWAV(samples)
}

// Wrong is a falling sawtooth buzz.
func (s *Synth) Wrong() []byte {
	duration := 0.4
	phase := 0.0
	samples := renderSamples(duration, func(t float64) float64 {
		progress := t / duration
		freq := 300 - 180*progress
		phase += freq / sampleRate
		return sawtooth(phase) * 0.8 * (1 - progress)
	})
	return encodeWAV(samples)
}

// Bell is a slowly decaying triangle tone.
func (s *Synth) Bell() []byte {
	duration := 1.2
	samples := renderSamples(duration, func(t float64) float64 {
		return triangle(880*t) * math.Exp(-2.5*t)
	})
	return encodeWAV(samples)
}

// Drum is an exponentially decaying low sine thump.
func (s *Synth) Drum() []byte {
	duration := 0.35
	samples := renderSamples(duration, func(t float64) float64 {
		return math.Sin(2*math.Pi*90*t) * math.Exp(-9*t)
	})
	return encodeWAV(samples)
}

// Clap is a burst of short randomized-frequency square pulses.
func (s *Synth) Clap() []byte {
	const pulses = 15
	pulseLen := 0.025
	gap := 0.035
	duration := pulses * gap

	freqs := make([]float64, pulses)
	for i := range freqs {
		freqs[i] = 800 + rand.Float64()*800
	}

	samples := renderSamples(duration, func(t float64) float64 {
		pulse := int(t / gap)
		if pulse >= pulses {
			return 0
		}
		offset := t - float64(pulse)*gap
		if offset > pulseLen {
			return 0
		}
		return square(freqs[pulse]*offset) * 0.5 * (1 - offset/pulseLen)
	})
	return encodeWAV(samples)
}

// Quiet is a long, softly faded sine used to hush the room.
func (s *Synth) Quiet() []byte {
	duration := 2.0
	fade := 0.4
	samples := renderSamples(duration, func(t float64) float64 {
		envelope := 1.0
		if t < fade {
			envelope = t / fade
		} else if t > duration-fade {
			envelope = (duration - t) / fade
		}
		return math.Sin(2*math.Pi*220*t) * 0.6 * envelope
	})
	return encodeWAV(samples)
}

// renderSamples evaluates generate at each sample instant.
func renderSamples(duration float64, generate func(t float64) float64) []float64 {
	count := int(duration * sampleRate)
	samples := make([]float64, count)
	for i := range samples {
		samples[i] = generate(float64(i) / sampleRate)
	}
	return samples
}

// sawtooth, triangle, and square take phase in cycles.
func sawtooth(phase float64) float64 {
	_, frac := math.Modf(phase)
	return 2*frac - 1
}

func triangle(phase float64) float64 {
	_, frac := math.Modf(phase)
	if frac < 0.5 {
		return 4*frac - 1
	}
	return 3 - 4*frac
}

func square(phase float64) float64 {
	_, frac := math.Modf(phase)
	if frac < 0.5 {
		return 1
	}
	return -1
}

// encodeWAV packs samples into a 16-bit mono PCM WAV payload.
func encodeWAV(samples []float64) []byte {
	dataLen := len(samples) * 2
	buf := make([]byte, 44+dataLen)

	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataLen))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], 1) // mono
	binary.LittleEndian.PutUint32(buf[24:28], sampleRate)
	binary.LittleEndian.PutUint32(buf[28:32], sampleRate*2)
	binary.LittleEndian.PutUint16(buf[32:34], 2)
	binary.LittleEndian.PutUint16(buf[34:36], 16)
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataLen))

	for i, sample := range samples {
		clipped := math.Max(-1, math.Min(1, sample))
		binary.LittleEndian.PutUint16(buf[44+i*2:], uint16(int16(clipped*32767)))
	}
	return buf
}
