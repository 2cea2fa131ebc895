package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/farm-insights/pkg/services/backend"
	"github.com/spf13/viper"
)

const EnvPrefix = "INSIGHTS"

// Source kinds for warehouse-backed record collections.
const (
	SourceNone       = ""
	SourceDuckDB     = "duckdb"
	SourceSnowflake  = "snowflake"
	SourceDatabricks = "databricks"
)

type Settings struct {
	Backend     backend.Config    `mapstructure:"backend"`
	Generation  backend.Options   `mapstructure:"generation"`
	Source      SourceConfig      `mapstructure:"source"`
	Diagnostics DiagnosticsConfig `mapstructure:"diagnostics"`
	Server      ServerConfig      `mapstructure:"server"`
}

type SourceConfig struct {
	Kind        string `mapstructure:"kind"`
	Table       string `mapstructure:"table"`
	DuckDBPath  string `mapstructure:"duckdb_path"`
	ProfilePath string `mapstructure:"profile_path"` // snowflake/databricks connection file
	Profile     string `mapstructure:"profile"`      // .databrickscfg section, when ProfilePath is an ini file
	HTTPPath    string `mapstructure:"http_path"`
}

type DiagnosticsConfig struct {
	DuckDBPath string `mapstructure:"duckdb_path"` // empty disables the attempt log
	S3Bucket   string `mapstructure:"s3_bucket"`   // empty disables failure archiving
	S3Prefix   string `mapstructure:"s3_prefix"`
	S3Region   string `mapstructure:"s3_region"`
	S3Endpoint string `mapstructure:"s3_endpoint"` // MinIO, LocalStack
	AWSProfile string `mapstructure:"aws_profile"`
}

type ServerConfig struct {
	Addr           string        `mapstructure:"addr"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("backend.provider", "http")
	v.SetDefault("backend.url", "")
	v.SetDefault("backend.model", "")
	v.SetDefault("backend.api_key", "")
	v.SetDefault("backend.format", "local")
	v.SetDefault("backend.timeout", 60*time.Second)
	v.SetDefault("generation.max_new_tokens", backend.DefaultMaxNewTokens)
	v.SetDefault("generation.temperature", backend.DefaultTemperature)
	v.SetDefault("source.kind", SourceNone)
	v.SetDefault("source.table", "farm_records")
	v.SetDefault("source.duckdb_path", "")
	v.SetDefault("source.profile_path", "")
	v.SetDefault("source.profile", "")
	v.SetDefault("source.http_path", "")
	v.SetDefault("diagnostics.duckdb_path", "")
	v.SetDefault("diagnostics.s3_bucket", "")
	v.SetDefault("diagnostics.s3_prefix", "generation-failures")
	v.SetDefault("diagnostics.s3_region", "")
	v.SetDefault("diagnostics.s3_endpoint", "")
	v.SetDefault("diagnostics.aws_profile", "")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.request_timeout", 90*time.Second)
}

// Load reads settings from path (optional) and the environment. Every key
// can be overridden as INSIGHTS_<SECTION>_<KEY>; the backend credential is
// also read from BACKEND_API_KEY and HUGGINGFACE_API_KEY.
func Load(path string) (*Settings, error) {
	v := viper.New()
	defaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("backend.api_key", EnvPrefix+"_BACKEND_API_KEY", "BACKEND_API_KEY", "HUGGINGFACE_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind backend credential: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return &s, nil
}
