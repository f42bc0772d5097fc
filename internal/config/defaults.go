package config

const (
	defaultDataDir    = "./data"
	defaultModelsDir  = "./models"
	defaultLogDir     = "~/.local/share/carprice/logs"
	defaultHTTPBind   = "127.0.0.1:8080"
	defaultModelName  = "carprice-forest"
	defaultParamsFile = "params.toml"
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			ModelsDir: defaultModelsDir,
			LogDir:    defaultLogDir,
			HTTPBind:  defaultHTTPBind,
		},
		Registry: Registry{
			ModelName: defaultModelName,
		},
		Pipeline: Pipeline{
			ParamsFile: defaultParamsFile,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
