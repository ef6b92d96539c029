package constants

const (
	// DefaultConfigPath is the named model configuration loaded when --config is not given.
	DefaultConfigPath = "projects/retri/signclip_v1/baseline_sp_b768_pre_aug.yaml"
	// DefaultPosePath is scored by the root command when no pose file is given.
	DefaultPosePath = "/shares/volk.cl.uzh/zifjia/RWTH_Fingerspelling/pose/1_1_1_cam2.pose"
	DefaultModelURL = "http://localhost:8000/forward"
	DefaultDBName   = "signclip_index.db"

	DefaultEmbeddingDim = 768
	DefaultFeatureDim   = 534
	DefaultMaxLen       = 320
	DefaultMaxVideoLen  = 256

	// GuessLanguagePrompt is wrapped with "<en> <lang>" for every candidate.
	GuessLanguagePrompt = "Athens"
)

// Environment variables read on startup, optionally from a .env file.
const (
	EnvConfig       = "SIGNCLIP_CONFIG"
	EnvModelURL     = "SIGNCLIP_MODEL_URL"
	EnvModelBackend = "SIGNCLIP_MODEL_BACKEND"
	EnvDB           = "SIGNCLIP_DB"
	EnvLogLevel     = "SIGNCLIP_LOG_LEVEL"
)
