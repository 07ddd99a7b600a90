package whisperx

// Config captures runtime settings for WhisperX operations.
type Config struct {
	// Model is the default WhisperX model (e.g. "small", "large-v3").
	Model string
	// Language is the default spoken-language hint, "auto" to detect.
	Language string
	// CUDAEnabled enables GPU acceleration.
	CUDAEnabled bool
	// VADMethod selects the voice activity detection method ("silero" or "pyannote").
	VADMethod string
	// HFToken is the Hugging Face token for pyannote VAD.
	HFToken string
	// FFmpegBinary and FFprobeBinary override the media tool executables.
	FFmpegBinary  string
	FFprobeBinary string
}

// Options are the per-call transcription settings.
type Options struct {
	// Language is the spoken-language hint; empty or "auto" lets WhisperX detect it.
	Language string
	// Task is TaskTranscribe or TaskTranslate (speech to English).
	Task string
	// Model overrides Config.Model when set.
	Model string
}

// WhisperX configuration constants.
const (
	DefaultModel      = "small"
	CUDAIndexURL      = "https://download.pytorch.org/whl/cu128"
	PypiIndexURL      = "https://pypi.org/simple"
	BatchSize         = "4"
	ChunkSize         = "15"
	VADOnset          = "0.08"
	VADOffset         = "0.07"
	BeamSize          = "5"
	Temperature       = "0.0"
	SegmentResolution = "sentence"
	OutputFormat      = "json"
	CPUDevice         = "cpu"
	CUDADevice        = "cuda"
	CPUComputeType    = "float32"
	VADMethodPyannote = "pyannote"
	VADMethodSilero   = "silero"
	TaskTranscribe    = "transcribe"
	TaskTranslate     = "translate"
)

// Audio format expected by WhisperX: mono, 16 kHz, signed 16-bit PCM.
const (
	AudioChannels   = "1"
	AudioSampleRate = "16000"
	AudioCodec      = "pcm_s16le"
)

// Command names for external tools.
const (
	UVXCommand     = "uvx"
	FFmpegCommand  = "ffmpeg"
	FFprobeCommand = "ffprobe"
)
