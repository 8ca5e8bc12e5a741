package domain

// VoiceConfig describes how narration audio is produced.
type VoiceConfig struct {
	LanguageCode string  `yaml:"languageCode"`
	VoiceName    string  `yaml:"voiceName"`
	Gender       string  `yaml:"gender"`
	Encoding     string  `yaml:"encoding"`
	SpeakingRate float64 `yaml:"speakingRate"`
	Pitch        float64 `yaml:"pitch"`
}

// DefaultVoice is a natural-sounding US English Wavenet voice rendered to MP3.
func DefaultVoice() VoiceConfig {
	return VoiceConfig{
		LanguageCode: "en-US",
		VoiceName:    "en-US-Wavenet-F",
		Gender:       "FEMALE",
		Encoding:     "MP3",
		SpeakingRate: 1.0,
		Pitch:        0.0,
	}
}
