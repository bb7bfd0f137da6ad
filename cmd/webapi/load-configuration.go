package main

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/ardanlabs/conf"
	"gopkg.in/yaml.v2"
)

// loadConfiguration creates a WebAPIConfiguration starting from flags, environment variables and configuration file.
// It works by loading environment variables first, then update the config using command line flags, finally loading
// the configuration file (specified in WebAPIConfiguration.Config.Path).
// So, CLI parameters will override the environment, and configuration file will override everything.
// Note that the configuration file can be specified only via CLI or environment variable.
func loadConfiguration(args []string) (WebAPIConfiguration, error) {
	var cfg WebAPIConfiguration

	// Try to load configuration from environment variables and command line switches
	if err := conf.Parse(args, "CFG", &cfg); err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			usage, err := conf.Usage("CFG", &cfg)
			if err != nil {
				return cfg, fmt.Errorf("generating config usage: %w", err)
			}
			fmt.Println(usage)
			return cfg, conf.ErrHelpWanted
		}
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	// Override values from YAML if specified and if it exists (useful in k8s/compose)
	fp, err := os.Open(cfg.Config.Path)
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("can't read the config file, while it exists: %w", err)
	} else if err == nil {
		defer fp.Close()
		yamlFile, err := io.ReadAll(fp)
		if err != nil {
			return cfg, fmt.Errorf("can't read config file: %w", err)
		}
		if err = yaml.Unmarshal(yamlFile, &cfg); err != nil {
			return cfg, fmt.Errorf("can't unmarshal config file: %w", err)
		}
	}

	return cfg, validateConfiguration(cfg)
}

func validateConfiguration(cfg WebAPIConfiguration) error {
	if cfg.Listing.PageSize < 1 {
		return errors.New("listing page size must be positive")
	}
	if cfg.Web.MaxUploadBytes < 1 {
		return errors.New("maximum upload size must be positive")
	}
	switch cfg.Media.Backend {
	case mediaDirectory:
	case mediaS3:
		if cfg.Media.S3.Bucket == "" {
			return errors.New("the s3 media backend requires a bucket")
		}
		// media links must point at the bucket, not at the static files server
		prefix, err := url.Parse(cfg.Media.URLPrefix)
		if err != nil || (prefix.Scheme != "http" && prefix.Scheme != "https") || prefix.Host == "" {
			return fmt.Errorf("the s3 media backend requires an absolute http(s) url prefix, got %q", cfg.Media.URLPrefix)
		}
	default:
		return fmt.Errorf("unknown media backend %q", cfg.Media.Backend)
	}
	return nil
}
