package config

import (
	"context"
	"fmt"

	"github.com/databricks/databricks-sdk-go/config"
	"gopkg.in/ini.v1"
)

// ProfileRegistry reads warehouse connection profiles from a
// .databrickscfg-style ini file.
type ProfileRegistry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetConfig(ctx context.Context, profile string) (*config.Config, error)
	// GetHTTPPath returns the SQL warehouse path stored with the profile, if any.
	GetHTTPPath(ctx context.Context, profile string) (string, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

func NewProfileRegistry(path string) (ProfileRegistry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles from %s: %w", path, err)
	}
	return &cfgRegistry{cfg: cfg}, nil
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (cr *cfgRegistry) GetConfig(_ context.Context, profile string) (*config.Config, error) {
	section, err := cr.section(profile)
	if err != nil {
		return nil, err
	}

	host := section.Key("host").String()
	if host == "" {
		return nil, fmt.Errorf("profile %s has no host", profile)
	}

	return &config.Config{
		Profile: profile,
		Host:    host,
		Token:   section.Key("token").String(),
	}, nil
}

func (cr *cfgRegistry) GetHTTPPath(_ context.Context, profile string) (string, error) {
	section, err := cr.section(profile)
	if err != nil {
		return "", err
	}
	return section.Key("http_path").String(), nil
}

func (cr *cfgRegistry) section(profile string) (*ini.Section, error) {
	if profile == "" {
		profile = "DEFAULT"
	}
	section, err := cr.cfg.GetSection(profile)
	if err != nil {
		return nil, fmt.Errorf("profile %s not found", profile)
	}
	return section, nil
}
