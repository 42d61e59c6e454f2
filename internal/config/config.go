// Package config loads the workspace declaration: which resources make up
// the workspace, where notebook artifacts come from, and how to reach the
// platform. All of it is threaded explicitly through constructors; nothing
// reads ambient globals past this package.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Env var names honored as overrides on top of the config file.
const (
	EnvToken        = "FROSTLINE_TOKEN"
	EnvTokenFile    = "FROSTLINE_TOKEN_FILE"
	EnvAccount      = "FROSTLINE_ACCOUNT"
	EnvFetchTimeout = "FROSTLINE_FETCH_TIMEOUT"
)

// Config is the full workspace declaration.
type Config struct {
	Platform  Platform  `yaml:"platform"`
	Workspace Workspace `yaml:"workspace"`
	Artifacts Artifacts `yaml:"artifacts"`
}

// Platform describes how to reach the managing platform.
type Platform struct {
	Provider string `yaml:"provider"` // "snowflake" or "memory"
	Account  string `yaml:"account"`
	Host     string `yaml:"host"` // endpoint override, mainly for tests
	Token    string `yaml:"-"`    // from env only, never from file contents
}

// Workspace names every managed resource of the workspace.
type Workspace struct {
	Role        string      `yaml:"role"`
	Database    string      `yaml:"database"`
	Schema      string      `yaml:"schema"`
	Warehouse   Warehouse   `yaml:"warehouse"`
	ComputePool ComputePool `yaml:"computePool"`
	Stages      Stages      `yaml:"stages"`
	Network     Network     `yaml:"network"`
	Integration string      `yaml:"integration"`
	Model       string      `yaml:"model"`
	Notebooks   []Notebook  `yaml:"notebooks"`
}

type Warehouse struct {
	Name string `yaml:"name"`
	Size string `yaml:"size"`
}

type ComputePool struct {
	Name           string `yaml:"name"`
	InstanceFamily string `yaml:"instanceFamily"`
	MinNodes       int    `yaml:"minNodes"`
	MaxNodes       int    `yaml:"maxNodes"`
}

type Stages struct {
	Notebooks string `yaml:"notebooks"`
	Models    string `yaml:"models"`
}

type Network struct {
	RuleName  string   `yaml:"ruleName"`
	AllowList []string `yaml:"allowList"`
}

type Notebook struct {
	Name string `yaml:"name"`
	File string `yaml:"file"` // main artifact file the notebook runs
}

// Artifacts describes the remote artifact source and the fixed file list.
type Artifacts struct {
	BaseURL      string         `yaml:"baseURL"`
	FetchTimeout time.Duration  `yaml:"-"`
	RawTimeout   string         `yaml:"fetchTimeout"`
	Files        []ArtifactFile `yaml:"files"`
	Storage      Storage        `yaml:"storage"`
}

// Storage locates the S3 bucket backing the notebook stage when it is an
// external stage. Left empty, publishing goes through the platform client.
type Storage struct {
	Bucket  string `yaml:"bucket"`
	Prefix  string `yaml:"prefix"`
	Region  string `yaml:"region"`
	Profile string `yaml:"profile"`
}

type ArtifactFile struct {
	Name   string `yaml:"name"`
	SHA256 string `yaml:"sha256,omitempty"`
}

// Load reads a YAML config file, applies environment overrides and
// validates the result. An empty path yields the built-in default
// workspace.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Platform.Account = getEnv(EnvAccount, cfg.Platform.Account)
	cfg.Platform.Token = getEnv(EnvToken, getSecretFile(os.Getenv(EnvTokenFile)))

	timeout := 30 * time.Second
	if cfg.Artifacts.RawTimeout != "" {
		if d, err := time.ParseDuration(cfg.Artifacts.RawTimeout); err == nil {
			timeout = d
		}
	}
	cfg.Artifacts.FetchTimeout = getDurationEnv(EnvFetchTimeout, timeout)
}

// Validate checks the declaration for structural problems that should stop
// a run before any side effect.
func (c *Config) Validate() error {
	if c.Platform.Provider == "" {
		return fmt.Errorf("platform.provider is required")
	}
	if c.Workspace.Database == "" || c.Workspace.Schema == "" || c.Workspace.Role == "" {
		return fmt.Errorf("workspace role, database and schema are required")
	}
	if c.Artifacts.BaseURL == "" && len(c.Artifacts.Files) > 0 {
		return fmt.Errorf("artifacts.baseURL is required when files are declared")
	}
	if c.Artifacts.RawTimeout != "" {
		if _, err := time.ParseDuration(c.Artifacts.RawTimeout); err != nil {
			return fmt.Errorf("artifacts.fetchTimeout: %w", err)
		}
	}
	seen := make(map[string]bool)
	for _, nb := range c.Workspace.Notebooks {
		if nb.Name == "" || nb.File == "" {
			return fmt.Errorf("every notebook needs a name and a file")
		}
		if seen[nb.Name] {
			return fmt.Errorf("notebook %s declared twice", nb.Name)
		}
		seen[nb.Name] = true
	}
	return nil
}

// Default returns the built-in imaging workspace declaration: a GPU-backed
// registration-model setup with three notebooks covering ingest, training
// and batch inference.
func Default() *Config {
	return &Config{
		Platform: Platform{
			Provider: "snowflake",
		},
		Workspace: Workspace{
			Role:     "IMAGING_ROLE",
			Database: "IMAGING_DB",
			Schema:   "IMAGING_SCHEMA",
			Warehouse: Warehouse{
				Name: "IMAGING_WH",
				Size: "MEDIUM",
			},
			ComputePool: ComputePool{
				Name:           "IMAGING_GPU_POOL",
				InstanceFamily: "GPU_NV_S",
				MinNodes:       1,
				MaxNodes:       2,
			},
			Stages: Stages{
				Notebooks: "NOTEBOOKS",
				Models:    "MODELS",
			},
			Network: Network{
				RuleName: "IMAGING_EGRESS_RULE",
				AllowList: []string{
					"pypi.org:443",
					"files.pythonhosted.org:443",
					"huggingface.co:443",
					"cdn-lfs.huggingface.co:443",
				},
			},
			Integration: "IMAGING_ACCESS_INTEGRATION",
			Model:       "REGISTRATION_MODEL",
			Notebooks: []Notebook{
				{Name: "INGEST_DATA", File: "01_ingest_data.ipynb"},
				{Name: "MODEL_TRAINING", File: "02_model_training.ipynb"},
				{Name: "MODEL_INFERENCE", File: "03_model_inference.ipynb"},
			},
		},
		Artifacts: Artifacts{
			BaseURL:      "https://raw.githubusercontent.com/frostline-io/imaging-quickstart/main/notebooks",
			FetchTimeout: 30 * time.Second,
			Files: []ArtifactFile{
				{Name: "01_ingest_data.ipynb"},
				{Name: "02_model_training.ipynb"},
				{Name: "03_model_inference.ipynb"},
			},
		},
	}
}
