package sound

// Cue identifies one feedback sound.
type Cue string

const (
	CueCorrect Cue = "correct"
	CueWrong   Cue = "wrong"
	CueBell    Cue = "bell"
	CueDrum    Cue = "drum"
	CueClap    Cue = "clap"
	CueQuiet   Cue = "quiet"
)

// Engine synthesizes feedback cues. Each method returns a complete WAV
// payload, or nil when synthesis is unavailable. Callers treat nil as
// "no sound" and never fail because of it.
type Engine interface {
	Correct() []byte
	Wrong() []byte
	Bell() []byte
	Drum() []byte
	Clap() []byte
	Quiet() []byte
}

// Render dispatches a cue identifier to the matching Engine method.
// Unknown cues yield nil.
func Render(engine Engine, cue Cue) []byte {
	if engine == nil {
		return nil
	}
	switch cue {
	case CueCorrect:
		return engine.Correct()
	case CueWrong:
		return engine.Wrong()
	case CueBell:
		return engine.Bell()
	case CueDrum:
		return engine.Drum()
	case CueClap:
		return engine.Clap()
	case CueQuiet:
		return engine.Quiet()
	default:
		return nil
	}
}
