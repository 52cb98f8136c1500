package config

import (
	"errors"
)

var (
	// ErrConfigNil error if a nil config is passed on.
	ErrConfigNil = errors.New("config is nil")

	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnknownGatewayDriver error if gateway.driver is neither twilio nor dryrun.
	ErrUnknownGatewayDriver = errors.New("toml config gateway.driver must be twilio or dryrun")

	// ErrGatewayCredentialsMissing error if the twilio driver is selected without credentials.
	ErrGatewayCredentialsMissing = errors.New("toml config gateway.accountSID and gateway.authToken are required for twilio")

	// ErrUnknownGormEngine error if db.gormEngine is not supported.
	ErrUnknownGormEngine = errors.New("toml config db.gormEngine must be mysql, postgres or sqlite")
)
