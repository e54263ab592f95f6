// Package permissionset wires the removal workflow end to end: configuration
// resolution, the REST transport, credential resolution, and the Salesforce
// orchestrator. Library consumers that need finer control can assemble the
// sub-packages themselves.
package permissionset

import (
	"context"
	"net/http"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/sgnl-actions/salesforce-remove-from-permission-set/auth"
	"github.com/sgnl-actions/salesforce-remove-from-permission-set/core"
	"github.com/sgnl-actions/salesforce-remove-from-permission-set/salesforce"
	"github.com/sgnl-actions/salesforce-remove-from-permission-set/transport"
)

type RemovalParams = core.RemovalParams

type RemovalOutcome = core.RemovalOutcome

type Secrets = core.Secrets

type runnerOptions struct {
	httpClient     transport.HTTPDoer
	logger         core.Logger
	configProvider core.ConfigProvider
	runtimeConfig  core.Config
}

type Option func(*runnerOptions)

func WithHTTPClient(client transport.HTTPDoer) Option {
	return func(o *runnerOptions) {
		o.httpClient = client
	}
}

func WithLogger(logger core.Logger) Option {
	return func(o *runnerOptions) {
		o.logger = logger
	}
}

func WithConfigProvider(provider core.ConfigProvider) Option {
	return func(o *runnerOptions) {
		o.configProvider = provider
	}
}

// WithConfig layers runtime configuration over environment and defaults.
func WithConfig(cfg core.Config) Option {
	return func(o *runnerOptions) {
		o.runtimeConfig = cfg
	}
}

// Run executes one removal invocation. Everything is constructed fresh from
// the inputs and discarded with the outcome.
func Run(ctx context.Context, params RemovalParams, secrets Secrets, opts ...Option) (RemovalOutcome, error) {
	options := runnerOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&options)
	}

	cfg, err := core.ResolveConfig(ctx, options.configProvider, nil, options.runtimeConfig)
	if err != nil {
		return RemovalOutcome{}, err
	}

	httpClient := options.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout()}
	}
	adapter := transport.NewRESTAdapter(httpClient, cfg.UserAgent)
	resolver := auth.NewResolver(adapter)
	client := salesforce.NewClient(adapter, cfg.APIVersion)
	service := salesforce.NewService(client, resolver, cfg,
		salesforce.WithLogger(glog.Ensure(options.logger)),
	)
	return service.Remove(ctx, params, secrets)
}
