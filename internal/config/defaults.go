package config

const (
	defaultConfigPath           = "~/.config/cratekit/config.toml"
	defaultTrashDir             = "~/.local/share/cratekit/trash"
	defaultLogDir               = "~/.local/share/cratekit/logs"
	defaultTranscriptDir        = "~/.local/share/cratekit/transcripts"
	defaultDigest               = DigestMD5
	defaultMaxCollisionAttempts = 1000
	defaultRenamePattern        = "{artist} - {title}"
	defaultLLMBaseURL           = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel             = "google/gemini-3-flash-preview"
	defaultLLMReferer           = "https://github.com/cratekit/cratekit"
	defaultLLMTitle             = "cratekit"
	defaultLLMTimeoutSeconds    = 30
	defaultWhisperModel         = "large-v3"
	defaultVADMethod            = "silero"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultLogRetentionDays     = 60
)

// Supported digest algorithms for duplicate detection.
const (
	DigestMD5     = "md5"
	DigestSHA256  = "sha256"
	DigestMurmur3 = "murmur3"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			TrashDir:      defaultTrashDir,
			LogDir:        defaultLogDir,
			TranscriptDir: defaultTranscriptDir,
		},
		Library: Library{
			Extensions: []string{".mp3", ".wav"},
		},
		Duplicates: Duplicates{
			Digest:               defaultDigest,
			CopyMarkers:          []string{"copy", "duplicate"},
			MaxCollisionAttempts: defaultMaxCollisionAttempts,
		},
		Rename: Rename{
			Pattern:          defaultRenamePattern,
			AIFallback:       true,
			TitleCaseAllCaps: true,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Transcription: Transcription{
			Model:     defaultWhisperModel,
			VADMethod: defaultVADMethod,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
