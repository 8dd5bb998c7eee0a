package util

// Config holds runtime settings and flags.
type Config struct {
	DSN           string
	Language      string // output language for narration
	PrimaryModel  string
	FallbackModel string
	TTSEnabled    bool
	Version       string
}
