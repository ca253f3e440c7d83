// Copyright (c) 2017 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package pollcache assembles the poll cache server out of its components.
package pollcache

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/multierr"
	"golang.org/x/time/rate"

	"github.com/votecube/pollcache/common/clock"
	"github.com/votecube/pollcache/common/config"
	"github.com/votecube/pollcache/common/log"
	"github.com/votecube/pollcache/common/log/loggerimpl"
	"github.com/votecube/pollcache/common/log/tag"
	"github.com/votecube/pollcache/common/metrics"
	"github.com/votecube/pollcache/service/cache"
	"github.com/votecube/pollcache/service/frontend"
	"github.com/votecube/pollcache/service/timekeeper"
)

// ServiceName is reported with every log line and metric
const ServiceName = "pollcache"

type (
	// daemons is everything started once the graph is built
	daemons struct {
		fx.In

		Logger      log.Logger
		CreatePolls frontend.CreatePollDispatcher
		Votes       frontend.VoteDispatcher
		Timekeeper  timekeeper.Timekeeper
		Frontend    *frontend.Service
	}

	fxPrinter struct {
		logger log.Logger
	}
)

// Module provides every component of the server from a *config.Config
var Module = fx.Options(
	fx.Provide(
		newLogger,
		newMetricsClient,
		clock.NewRealTimeSource,
		newCache,
		frontend.NewPollApp,
		newCreatePollDispatcher,
		newVoteDispatcher,
		newTimekeeper,
		newHandler,
		newFrontend,
	),
	fx.Invoke(registerDaemons),
)

// NewApp builds the server for cfg. cfg must already be validated.
func NewApp(cfg *config.Config, opts ...fx.Option) *fx.App {
	return fx.New(append([]fx.Option{
		fx.Provide(func() *config.Config { return cfg }),
		fx.Logger(fxPrinter{logger: bootstrapLogger(cfg)}),
		Module,
	}, opts...)...)
}

// Run starts the server and blocks until the process is signaled to stop
func Run(cfg *config.Config) error {
	app := NewApp(cfg)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(context.Background(), app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
		defer cancel()
		return multierr.Append(err, app.Stop(stopCtx))
	}

	<-app.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	return app.Stop(stopCtx)
}

func newLogger(cfg *config.Config) (log.Logger, error) {
	zapLogger, err := cfg.Log.NewZapLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to create the zap logger: %w", err)
	}
	return loggerimpl.NewLogger(zapLogger).WithTags(tag.Service(ServiceName)), nil
}

// bootstrapLogger logs the dependency graph itself, it falls back to a no-op logger
func bootstrapLogger(cfg *config.Config) log.Logger {
	logger, err := newLogger(cfg)
	if err != nil {
		return loggerimpl.NewNopLogger()
	}
	return logger
}

func newMetricsClient(lc fx.Lifecycle, cfg *config.Config, logger log.Logger) metrics.Client {
	scope, closer := cfg.Metrics.NewScope(logger, ServiceName)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return closer.Close()
		},
	})
	return metrics.NewClient(scope)
}

func newCache(cfg *config.Config, timeSource clock.TimeSource, logger log.Logger, metricsClient metrics.Client) cache.Cache {
	return cache.New(cfg.Cache, timeSource, logger, metricsClient)
}

func newCreatePollDispatcher(
	app *frontend.PollApp,
	cfg *config.Config,
	timeSource clock.TimeSource,
	logger log.Logger,
	metricsClient metrics.Client,
) frontend.CreatePollDispatcher {
	return frontend.NewCreatePollDispatcher(app, timeSource, cfg.Dispatcher, logger, metricsClient)
}

func newVoteDispatcher(
	app *frontend.PollApp,
	cfg *config.Config,
	timeSource clock.TimeSource,
	logger log.Logger,
	metricsClient metrics.Client,
) frontend.VoteDispatcher {
	return frontend.NewVoteDispatcher(app, timeSource, cfg.Dispatcher, logger, metricsClient)
}

func newTimekeeper(
	c cache.Cache,
	cfg *config.Config,
	timeSource clock.TimeSource,
	logger log.Logger,
	metricsClient metrics.Client,
) timekeeper.Timekeeper {
	return timekeeper.New(c, timeSource, cfg.Timekeeper, logger, metricsClient)
}

func newHandler(
	c cache.Cache,
	createPolls frontend.CreatePollDispatcher,
	votes frontend.VoteDispatcher,
	cfg *config.Config,
	logger log.Logger,
	metricsClient metrics.Client,
) *frontend.Handler {
	var limiter clock.Ratelimiter
	if cfg.Frontend.RPS > 0 {
		limiter = clock.NewRatelimiter(rate.Limit(cfg.Frontend.RPS), cfg.Frontend.Burst)
	}
	return frontend.NewHandler(c, createPolls, votes, limiter, cfg.Frontend, logger, metricsClient)
}

func newFrontend(handler *frontend.Handler, cfg *config.Config, logger log.Logger) *frontend.Service {
	return frontend.NewService(handler, cfg.Frontend, logger)
}

// registerDaemons starts the drain loops and the timekeeper before the frontend
// and stops the frontend first, so the final drains see every accepted request
func registerDaemons(lc fx.Lifecycle, d daemons) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if err := d.Frontend.Listen(); err != nil {
				return fmt.Errorf("failed to listen: %w", err)
			}
			d.CreatePolls.Start()
			d.Votes.Start()
			d.Timekeeper.Start()
			d.Frontend.Start()
			d.Logger.Info("Poll cache started.", tag.Lifecycle(tag.LifeCycleStarted), tag.Address(d.Frontend.Addr().String()))
			return nil
		},
		OnStop: func(context.Context) error {
			d.Frontend.Stop()
			d.Timekeeper.Stop()
			d.CreatePolls.Stop()
			d.Votes.Stop()
			d.Logger.Info("Poll cache stopped.", tag.Lifecycle(tag.LifeCycleStopped))
			return nil
		},
	})
}

func (p fxPrinter) Printf(format string, args ...interface{}) {
	p.logger.Debug(fmt.Sprintf(format, args...))
}
