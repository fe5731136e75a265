package global

var (
	Version   = "0.0.1"
	Commit    = ""
	BuildTime = "none"
	Verbose   = false

	ConfigFilename      = "buildgen.yaml"
	BuildEnvFilename    = "build.env"
	ManifestFilename    = "buildgen-manifest.toml"
	DefaultInstallRoot  = "/tmp/buildgen/platforms"
	DefaultBuiltInRoot  = "/opt"
	EnvSetupScriptPath  = "/opt/buildgen/benv"
	DefaultBuildImage   = "buildgen/build"
	DefaultRuntimeImage = "buildgen"
)
