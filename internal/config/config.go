// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

const (
	// EnvJSONOverride names the environment variable holding a JSON document merged over main.toml.
	EnvJSONOverride = "SATEXT_CONFIG_JSON"

	// GatewayTwilio sends through the Twilio REST API.
	GatewayTwilio = "twilio"
	// GatewayDryRun validates numbers locally and only logs sends.
	GatewayDryRun = "dryrun"

	// EngineMySQL selects the gorm mysql driver.
	EngineMySQL = "mysql"
	// EnginePostgres selects the gorm postgres driver.
	EnginePostgres = "postgres"
	// EngineSQLite selects the pure go sqlite driver.
	EngineSQLite = "sqlite"

	defaultShutDownTime = 5
	defaultSendTimeout  = 15 * time.Second
	defaultSessionTTL   = 24 * time.Hour
	defaultRegion       = "US"
	defaultProviderURL  = "https://accounts.google.com"
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvJSONOverride)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to decode "+EnvJSONOverride)
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings the daemon can not start without and fills in defaults.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	switch c.DB.GormEngine {
	case "":
		c.DB.GormEngine = EngineMySQL
	case EngineMySQL, EnginePostgres, EngineSQLite:
	default:
		return errors.Wrap(ErrUnknownGormEngine, invalidErrMessage)
	}

	switch c.Gateway.Driver {
	case "":
		c.Gateway.Driver = GatewayDryRun
	case GatewayDryRun:
	case GatewayTwilio:
		if c.Gateway.AccountSID == "" || c.Gateway.AuthToken == "" {
			return errors.Wrap(ErrGatewayCredentialsMissing, invalidErrMessage)
		}
	default:
		return errors.Wrap(ErrUnknownGatewayDriver, invalidErrMessage)
	}

	if c.Gateway.SendTimeout <= 0 {
		c.Gateway.SendTimeout = defaultSendTimeout
	}

	if c.Gateway.Region == "" {
		c.Gateway.Region = defaultRegion
	}

	if c.Auth.OIDC.ProviderURL == "" {
		c.Auth.OIDC.ProviderURL = defaultProviderURL
	}

	if c.Webserver.Session.ExpiryTime <= 0 {
		c.Webserver.Session.ExpiryTime = defaultSessionTTL
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	return nil
}
