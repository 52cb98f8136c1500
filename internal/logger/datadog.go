package logger

import (
	"context"
	"os"

	"github.com/DataDog/datadog-api-client-go/v2/api/datadog"
	"github.com/DataDog/datadog-api-client-go/v2/api/datadogV2"
)

// DataDogSink submits records to the datadog logs intake.
type DataDogSink struct {
	api      *datadogV2.LogsApi
	apiKeys  map[string]datadog.APIKey
	site     string
	service  string
	source   string
	hostname string
}

// NewDataDogSink creates a sink for the account configured in cfg.
func NewDataDogSink(cfg DataDog, appName string) (*DataDogSink, error) {
	if cfg.APIKey == "" {
		return nil, ErrDataDogAPIKeyIsEmpty
	}

	configuration := datadog.NewConfiguration()
	if len(cfg.Servers) > 0 {
		configuration.Servers = cfg.Servers
	}

	hostname, _ := os.Hostname()

	service := cfg.ServiceName
	if service == "" {
		service = appName
	}

	return &DataDogSink{
		api:      datadogV2.NewLogsApi(datadog.NewAPIClient(configuration)),
		apiKeys:  map[string]datadog.APIKey{"apiKeyAuth": {Key: cfg.APIKey}},
		site:     cfg.Site,
		service:  service,
		source:   appName,
		hostname: hostname,
	}, nil
}

// Emit submits one log item carrying the record fields as attributes.
func (d *DataDogSink) Emit(ctx context.Context, rec Record) error {
	ctx = context.WithValue(ctx, datadog.ContextAPIKeys, d.apiKeys)
	if d.site != "" {
		ctx = context.WithValue(ctx, datadog.ContextServerVariables, map[string]string{"site": d.site})
	}

	props := make(map[string]interface{}, len(rec.Fields)+4)
	for k, v := range rec.Fields {
		props[k] = v
	}

	props["status"] = rec.Level.String()
	props["timestamp"] = rec.Time.UnixMilli()

	if rec.Caller != "" {
		props["logger.caller"] = rec.Caller
	}

	if rec.Error != "" {
		props["error.message"] = rec.Error
	}

	if rec.Stack != "" {
		props["error.stack"] = rec.Stack
	}

	body := []datadogV2.HTTPLogItem{{
		Ddsource:             datadog.PtrString(d.source),
		Ddtags:               datadog.PtrString("level:" + rec.Level.String()),
		Hostname:             datadog.PtrString(d.hostname),
		Message:              rec.Message,
		Service:              datadog.PtrString(d.service),
		AdditionalProperties: props,
	}}

	_, _, err := d.api.SubmitLog(ctx, body)

	return err //nolint:wrapcheck
}
