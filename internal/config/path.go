package config

const (
	//? These paths must match the paths in the embed directive

	StaticLocalDir = "static"
	StaticUrlPath  = "/" + StaticLocalDir + "/"

	TemplatesLocalDir = "templates"

	TemplateLayout = "layout.html"
	TemplateIndex  = "index.html"
)

// ConfigPathEnv names the environment variable holding the config file path.
const (
	ConfigPathEnv     = "SCRIBE_CONFIG"
	DefaultConfigPath = "config.yaml"
)
