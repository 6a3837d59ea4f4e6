package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/gaurav-prasanna/pagepress/core/extract"
	"github.com/gaurav-prasanna/pagepress/core/fetch"
	"github.com/gaurav-prasanna/pagepress/core/normalize"
	"github.com/gaurav-prasanna/pagepress/core/pipeline"
	"github.com/gaurav-prasanna/pagepress/core/render"
	"github.com/gaurav-prasanna/pagepress/core/theme"
	"github.com/gaurav-prasanna/pagepress/logging"
)

// App holds the wired components shared by the subcommands.
type App struct {
	Config   *viper.Viper
	Logger   *slog.Logger
	Themes   *theme.Store
	Fetcher  *fetch.HTTPFetcher
	Pipeline *pipeline.Pipeline
	HTML     *render.HTMLRenderer
}

func buildApp(v *viper.Viper, stdin io.Reader, logOut io.Writer) (*App, error) {
	level, err := logging.ParseLevel(v.GetString("log.level"))
	if err != nil {
		return nil, err
	}
	logger := logging.New(logOut, level, v.GetString("log.format"))
	slog.SetDefault(logger)

	themes, err := theme.New(
		theme.WithDir(v.GetString("themes.dir")),
		theme.WithDefault(v.GetString("themes.default")),
	)
	if err != nil {
		return nil, fmt.Errorf("loading themes: %w", err)
	}

	fetcher := fetch.New(
		fetch.WithTimeout(v.GetDuration("fetch.timeout")),
		fetch.WithUserAgent(v.GetString("fetch.user_agent")),
	)
	p := pipeline.New(fetcher, extract.New(), normalize.New(), themes,
		pipeline.WithStdin(stdin),
		pipeline.WithLogger(logger),
	)

	html := render.NewHTMLRenderer(themes,
		render.WithSanitize(v.GetBool("render.sanitize")),
		render.WithDefaultTitle(v.GetString("render.title")),
	)

	return &App{
		Config:   v,
		Logger:   logger,
		Themes:   themes,
		Fetcher:  fetcher,
		Pipeline: p,
		HTML:     html,
	}, nil
}
