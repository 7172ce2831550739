package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/johncolby/DTI-Preprocessing/internal/branding"
	"github.com/johncolby/DTI-Preprocessing/internal/layout"
	"github.com/spf13/viper"
)

const (
	fileName    = "config"
	fileType    = "yaml"
	projectFile = "dtilists.yaml"
)

// Config keys.
const (
	KeySubjectsDir     = "subjects_dir"
	KeyPipelineDir     = "pipeline_dir"
	KeyGradDir         = "grad_dir"
	KeyRawDir          = "raw_dir"
	KeyScanExt         = "scan_ext"
	KeyRequiredVersion = "required_version"
	KeyLogLevel        = "log.level"
	KeyLogFile         = "log.file"
	KeyLogMaxSize      = "log.max_size_mb"
	KeyLogMaxAge       = "log.max_age_days"
)

// Config is the resolved set of run settings.
type Config struct {
	Layout          layout.Names
	RequiredVersion string
	Log             LogConfig
	File            string // config file that was read; empty if none
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxAgeDays int
}

// Dir returns the user config directory (~/.dtilists/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the user config file (~/.dtilists/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// ProjectFilePath returns the per-experiment config file path.
func ProjectFilePath(exptDir string) string {
	return filepath.Join(exptDir, layout.DefaultPipelineDir, projectFile)
}

// Locate picks the config file to read. An explicit path must exist; the
// implicit candidates are skipped when absent. It returns "" if none apply.
func Locate(explicit, exptDir string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("reading config file: %w", err)
		}
		return explicit, nil
	}

	var candidates []string
	if exptDir != "" {
		candidates = append(candidates, ProjectFilePath(exptDir))
	}
	candidates = append(candidates, FilePath())

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", nil
}

// Load resolves settings from defaults, the located config file, and the
// environment, in increasing priority.
func Load(explicit, exptDir string) (*Config, error) {
	path, err := Locate(explicit, exptDir)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		result, err := ValidateFile(path)
		if err != nil {
			return nil, err
		}
		if !result.Valid {
			return nil, &InvalidError{Path: path, Issues: result.Issues}
		}

		v.SetConfigFile(path)
		v.SetConfigType(fileType)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	return &Config{
		Layout: layout.Names{
			Subjects: v.GetString(KeySubjectsDir),
			Pipeline: v.GetString(KeyPipelineDir),
			Grad:     v.GetString(KeyGradDir),
			Raw:      v.GetString(KeyRawDir),
			ScanExt:  v.GetString(KeyScanExt),
		},
		RequiredVersion: v.GetString(KeyRequiredVersion),
		Log: LogConfig{
			Level:      v.GetString(KeyLogLevel),
			File:       v.GetString(KeyLogFile),
			MaxSizeMB:  v.GetInt(KeyLogMaxSize),
			MaxAgeDays: v.GetInt(KeyLogMaxAge),
		},
		File: path,
	}, nil
}

func setDefaults(v *viper.Viper) {
	d := layout.DefaultNames()
	v.SetDefault(KeySubjectsDir, d.Subjects)
	v.SetDefault(KeyPipelineDir, d.Pipeline)
	v.SetDefault(KeyGradDir, d.Grad)
	v.SetDefault(KeyRawDir, d.Raw)
	v.SetDefault(KeyScanExt, d.ScanExt)
	v.SetDefault(KeyRequiredVersion, "")
	v.SetDefault(KeyLogLevel, "")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogMaxSize, 10)
	v.SetDefault(KeyLogMaxAge, 30)
}
