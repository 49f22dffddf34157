package config

// SupportedVersion is the only config file version understood by the loader.
const SupportedVersion = "1"

// Compdbfile represents the structure of the compdb.yaml configuration file.
type Compdbfile struct {
	Version   string `yaml:"version"`
	Target    string `yaml:"target"`
	BuildBase string `yaml:"build_base"`
	Output    string `yaml:"output"`
}
