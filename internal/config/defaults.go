package config

const (
	defaultSourceDir           = "~/media/unorganized"
	defaultLibraryDir          = "~/media"
	defaultDataDir             = "~/.local/share/organizer"
	defaultLogDir              = "~/.local/share/organizer/logs"
	defaultMoviesDir           = "Movies"
	defaultShowsDir            = "Shows"
	defaultJAVDir              = "JAV"
	defaultTMDBBaseURL         = "https://api.themoviedb.org/3"
	defaultTMDBLanguage        = "en-US"
	defaultAIBaseURL           = "https://api.openai.com/v1"
	defaultAIModel             = "gpt-4o-mini"
	defaultAIConfidence        = 0.7
	defaultAITimeoutSeconds    = 30
	defaultDebridBaseURL       = "https://api.real-debrid.com/rest/1.0"
	defaultMinVideoSizeMB      = 300
	defaultDebridTimeout       = 30
	defaultDebridRequestsPS    = 4
	defaultDebridPollInterval  = 30
	defaultScanIntervalMinutes = 30
	defaultDebounceSeconds     = 60
	defaultCacheRetentionDays  = 30
	defaultStaleLinkDays       = 14
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			SourceDir:  defaultSourceDir,
			LibraryDir: defaultLibraryDir,
			DataDir:    defaultDataDir,
			LogDir:     defaultLogDir,
		},
		Library: Library{
			MoviesDir: defaultMoviesDir,
			ShowsDir:  defaultShowsDir,
			JAVDir:    defaultJAVDir,
		},
		TMDB: TMDB{
			BaseURL:  defaultTMDBBaseURL,
			Language: defaultTMDBLanguage,
		},
		AI: AI{
			BaseURL:             defaultAIBaseURL,
			Model:               defaultAIModel,
			ConfidenceThreshold: defaultAIConfidence,
			TimeoutSeconds:      defaultAITimeoutSeconds,
		},
		Debrid: Debrid{
			BaseURL:         defaultDebridBaseURL,
			MinVideoSizeMB:  defaultMinVideoSizeMB,
			TimeoutSeconds:  defaultDebridTimeout,
			RequestsPerSec:  defaultDebridRequestsPS,
			PollIntervalSec: defaultDebridPollInterval,
		},
		Workflow: Workflow{
			ScanIntervalMinutes: defaultScanIntervalMinutes,
			DebounceSeconds:     defaultDebounceSeconds,
			CacheRetentionDays:  defaultCacheRetentionDays,
			StaleLinkDays:       defaultStaleLinkDays,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
