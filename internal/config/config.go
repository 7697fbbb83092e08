package config

// Config represents the full hook configuration.
type Config struct {
	Git     GitConfig     `yaml:"git"`
	Checks  ChecksConfig  `yaml:"checks"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
}

type GitConfig struct {
	RepositoryDir string `yaml:"repositoryDir"`
}

// ChecksConfig tunes the individual hygiene checks.
type ChecksConfig struct {
	// AutofixWhitespace rewrites files to strip trailing whitespace on
	// changed lines and re-stages them. When false the hook only reports.
	AutofixWhitespace bool `yaml:"autofixWhitespace"`

	// MaxSubpathChars caps the repository-relative path length so checkouts
	// stay usable on Windows.
	MaxSubpathChars int `yaml:"maxSubpathChars"`

	// CaseCollision enables the case-folding collision check against all
	// files tracked on the branch.
	CaseCollision bool `yaml:"caseCollision"`
}

// StoreConfig configures the optional run-history database.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig configures diagnostic output.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, error
	Format string `yaml:"format"` // json, human
}
