package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// File is the optional configuration file, TOML or YAML by extension. Its values apply to flags
// that were not set on the command line or through the environment.
type File struct {
	Log struct {
		Level  string `toml:"level" yaml:"level"`
		Format string `toml:"format" yaml:"format"`
	} `toml:"log" yaml:"log"`

	Server struct {
		Addr string `toml:"addr" yaml:"addr"`
	} `toml:"server" yaml:"server"`

	Pipeline struct {
		Bucket        string `toml:"bucket" yaml:"bucket"`
		ScratchDir    string `toml:"scratch_dir" yaml:"scratch_dir"`
		FFmpegPath    string `toml:"ffmpeg_path" yaml:"ffmpeg_path"`
		YtdlpPath     string `toml:"ytdlp_path" yaml:"ytdlp_path"`
		YtdlpInstall  *bool  `toml:"ytdlp_install" yaml:"ytdlp_install"`
		Format        string `toml:"format" yaml:"format"`
		CookieTimeout string `toml:"cookie_timeout" yaml:"cookie_timeout"`
	} `toml:"pipeline" yaml:"pipeline"`

	Storage struct {
		ProjectID       string `toml:"gcp_project_id" yaml:"gcp_project_id"`
		CredentialsFile string `toml:"gcs_credentials_file" yaml:"gcs_credentials_file"`
		Endpoint        string `toml:"gcs_endpoint" yaml:"gcs_endpoint"`
	} `toml:"storage" yaml:"storage"`

	Sentry struct {
		DSN string `toml:"dsn" yaml:"dsn"`
		Env string `toml:"env" yaml:"env"`
	} `toml:"sentry" yaml:"sentry"`
}

// ConfigFileFlag returns the flag that points to a TOML or YAML configuration file
func ConfigFileFlag(dst *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Configuration file (.toml, .yaml or .yml)",
		Destination: dst,
		Sources:     cli.EnvVars("YTCLIP_CONFIG"),
	}
}

// LoadFile reads a configuration file. An empty path yields an empty File.
func LoadFile(path string) (*File, error) {
	f := &File{}
	if path == "" {
		return f, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, f)
	default:
		err = toml.Unmarshal(data, f)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse config file", goerr.V("path", path))
	}
	if f.Pipeline.CookieTimeout != "" {
		if _, err := time.ParseDuration(f.Pipeline.CookieTimeout); err != nil {
			return nil, goerr.Wrap(err, "invalid pipeline.cookie_timeout", goerr.V("path", path))
		}
	}

	return f, nil
}

func applyString(c *cli.Command, name string, dst *string, value string) {
	if value != "" && !c.IsSet(name) {
		*dst = value
	}
}

// ApplyLogger fills unset logger flags
func (f *File) ApplyLogger(c *cli.Command, cfg *Logger) {
	applyString(c, "log-level", &cfg.Level, f.Log.Level)
	applyString(c, "log-format", &cfg.Format, f.Log.Format)
}

// ApplyServer fills unset server flags
func (f *File) ApplyServer(c *cli.Command, cfg *Server) {
	applyString(c, "addr", &cfg.Addr, f.Server.Addr)
}

// ApplyPipeline fills unset pipeline flags
func (f *File) ApplyPipeline(c *cli.Command, cfg *Pipeline) {
	applyString(c, "bucket", &cfg.Bucket, f.Pipeline.Bucket)
	applyString(c, "scratch-dir", &cfg.ScratchDir, f.Pipeline.ScratchDir)
	applyString(c, "ffmpeg-path", &cfg.FFmpegPath, f.Pipeline.FFmpegPath)
	applyString(c, "ytdlp-path", &cfg.YtdlpPath, f.Pipeline.YtdlpPath)
	applyString(c, "format", &cfg.Format, f.Pipeline.Format)

	if f.Pipeline.YtdlpInstall != nil && !c.IsSet("ytdlp-install") {
		cfg.YtdlpInstall = *f.Pipeline.YtdlpInstall
	}
	if f.Pipeline.CookieTimeout != "" && !c.IsSet("cookie-timeout") {
		// validated by LoadFile
		cfg.CookieTimeout, _ = time.ParseDuration(f.Pipeline.CookieTimeout)
	}
}

// ApplyStorage fills unset storage flags
func (f *File) ApplyStorage(c *cli.Command, cfg *Storage) {
	applyString(c, "gcp-project-id", &cfg.ProjectID, f.Storage.ProjectID)
	applyString(c, "gcs-credentials-file", &cfg.CredentialsFile, f.Storage.CredentialsFile)
	applyString(c, "gcs-endpoint", &cfg.Endpoint, f.Storage.Endpoint)
}

// ApplySentry fills unset sentry flags
func (f *File) ApplySentry(c *cli.Command, cfg *Sentry) {
	applyString(c, "sentry-dsn", &cfg.DSN, f.Sentry.DSN)
	applyString(c, "sentry-env", &cfg.Env, f.Sentry.Env)
}
