package sources

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/databricks/databricks-sql-go"
	"github.com/de-tools/farm-insights/pkg/services/config"
	"github.com/spf13/viper"
)

type DatabricksConfig struct {
	Host     string `mapstructure:"host" validate:"required"`
	Token    string `mapstructure:"token" validate:"required"`
	HTTPPath string `mapstructure:"http_path" validate:"required"`
	Catalog  string `mapstructure:"catalog"`
	Schema   string `mapstructure:"schema"`
}

func LoadDatabricksConfig(profilePath string) (*DatabricksConfig, error) {
	v := viper.New()
	v.SetConfigFile(profilePath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg DatabricksConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse databricks config: %w", err)
	}
	return &cfg, nil
}

// DatabricksConfigFromProfile resolves host and token from a .databrickscfg
// section. httpPath wins over the profile's own http_path.
func DatabricksConfigFromProfile(
	ctx context.Context,
	registry config.ProfileRegistry,
	profile string,
	httpPath string,
) (*DatabricksConfig, error) {
	cfg, err := registry.GetConfig(ctx, profile)
	if err != nil {
		return nil, err
	}
	if httpPath == "" {
		httpPath, err = registry.GetHTTPPath(ctx, profile)
		if err != nil {
			return nil, err
		}
	}
	return &DatabricksConfig{
		Host:     cfg.Host,
		Token:    cfg.Token,
		HTTPPath: httpPath,
	}, nil
}

// DatabricksDSN builds a databricks-sql-go DSN.
func DatabricksDSN(cfg *DatabricksConfig) (string, error) {
	if cfg.Host == "" || cfg.Token == "" || cfg.HTTPPath == "" {
		return "", fmt.Errorf("databricks source requires host, token and http_path")
	}

	host := strings.TrimPrefix(strings.TrimPrefix(cfg.Host, "https://"), "http://")
	host = strings.TrimRight(host, "/")
	httpPath := cfg.HTTPPath
	if !strings.HasPrefix(httpPath, "/") {
		httpPath = "/" + httpPath
	}
	dsn := fmt.Sprintf("token:%s@%s%s", cfg.Token, host, httpPath)

	params := url.Values{}
	if cfg.Catalog != "" {
		params.Set("catalog", cfg.Catalog)
	}
	if cfg.Schema != "" {
		params.Set("schema", cfg.Schema)
	}
	if qp := params.Encode(); qp != "" {
		dsn = dsn + "?" + qp
	}
	return dsn, nil
}

func openDatabricks(ctx context.Context, src config.SourceConfig) (*sql.DB, error) {
	var (
		cfg *DatabricksConfig
		err error
	)
	if src.Profile != "" {
		registry, rerr := config.NewProfileRegistry(src.ProfilePath)
		if rerr != nil {
			return nil, rerr
		}
		cfg, err = DatabricksConfigFromProfile(ctx, registry, src.Profile, src.HTTPPath)
	} else {
		cfg, err = LoadDatabricksConfig(src.ProfilePath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	dsn, err := DatabricksDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("databricks", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Databricks: %w", err)
	}
	return db, nil
}
