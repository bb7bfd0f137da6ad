package main

import (
	"time"
)

// WebAPIConfiguration describes the web API configuration. This structure is automatically parsed by
// loadConfiguration and values from flags, environment variables or configuration file will be loaded.
type WebAPIConfiguration struct {
	Config struct {
		Path string `conf:"default:/conf/config.yml"`
	}
	Web struct {
		APIHost         string        `conf:"default:0.0.0.0:3000"`
		ReadTimeout     time.Duration `conf:"default:5s"`
		WriteTimeout    time.Duration `conf:"default:5s"`
		ShutdownTimeout time.Duration `conf:"default:5s"`
		StaticDir       string        `conf:"default:static"`
		MaxUploadBytes  int64         `conf:"default:33554432"`
	}
	Debug bool
	DB    struct {
		Filename string `conf:"default:/tmp/sightings.db"`
	}
	Session struct {
		// an empty secret is replaced by a random one, invalidating sessions at every restart
		Secret     string        `conf:"noprint"`
		CookieName string        `conf:"default:session"`
		MaxAge     time.Duration `conf:"default:168h"`
		Secure     bool
	}
	Accounts struct {
		PasswordPepper string `conf:"default:gliderwatch,noprint"`
	}
	Listing struct {
		PageSize int `conf:"default:5"`
	}
	Media struct {
		// Backend is either "directory" or "s3"
		Backend   string `conf:"default:directory"`
		Directory string `conf:"default:static/uploads"`
		// URLPrefix is prepended to media file names in listings; the s3 backend needs the bucket's public URL
		URLPrefix string `conf:"default:uploads"`
		S3        struct {
			Bucket    string
			Prefix    string `conf:"default:uploads"`
			Region    string `conf:"default:us-east-1"`
			Endpoint  string
			AccessKey string
			SecretKey string `conf:"noprint"`
		}
	}
}
