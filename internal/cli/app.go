package cli

import (
	"os"

	"github.com/monmarche/monmarche-cli/internal/common/httpclient"
	"github.com/monmarche/monmarche-cli/internal/common/logtrace"
	"github.com/monmarche/monmarche-cli/internal/config"
	"github.com/monmarche/monmarche-cli/internal/monmarche"
	"github.com/monmarche/monmarche-cli/internal/session"
)

// appContext is what the commands run against once the configuration is
// loaded.
type appContext struct {
	config  *config.ConfigParam
	store   *session.Store
	backend monmarche.Backend
}

var app *appContext

func setupApp(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	logtrace.InitLogger(logtrace.Options{
		Level:   cfg.Log.Level,
		Console: cfg.Log.Console,
		Out:     os.Stderr,
	})

	store, err := session.Open(cfg.Session.File)
	if err != nil {
		return err
	}

	timeout, err := cfg.HTTP.GetTimeout()
	if err != nil {
		return err
	}
	gateway := httpclient.NewClient(cfg, store, httpclient.ClientOptions{Timeout: timeout})

	app = &appContext{
		config: cfg,
		store:  store,
		backend: monmarche.NewClient(gateway, store, monmarche.Options{
			SiteURL:             cfg.API.SiteURL,
			MaxConcurrency:      cfg.Search.MaxConcurrency,
			IsolateItemFailures: cfg.Search.IsolateItemFailures,
		}),
	}
	return nil
}
