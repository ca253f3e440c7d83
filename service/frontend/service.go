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

package frontend

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"

	"go.uber.org/atomic"

	"github.com/votecube/pollcache/common"
	"github.com/votecube/pollcache/common/config"
	"github.com/votecube/pollcache/common/log"
	"github.com/votecube/pollcache/common/log/tag"
)

// Service runs the HTTP server in front of a Handler
type Service struct {
	status     atomic.Int32
	config     config.Frontend
	logger     log.Logger
	server     *http.Server
	listener   net.Listener
	shutdownWG sync.WaitGroup
}

var _ common.Daemon = (*Service)(nil)

// NewService creates the frontend daemon serving handler on cfg.ListenAddress
func NewService(handler *Handler, cfg config.Frontend, logger log.Logger) *Service {
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	s := &Service{
		config: cfg,
		logger: logger.WithTags(tag.Component(tag.ComponentFrontend)),
		server: &http.Server{
			Addr:              cfg.ListenAddress,
			Handler:           mux,
			ReadHeaderTimeout: cfg.ShutdownTimeout,
		},
	}
	s.status.Store(common.DaemonStatusInitialized)
	return s
}

// Listen binds the listen address. Start calls it when it was not called before.
func (s *Service) Listen() error {
	if s.listener != nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		return err
	}
	s.listener = listener
	return nil
}

// Addr returns the bound address, nil before Listen
func (s *Service) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Start serves requests in the background
func (s *Service) Start() {
	if !s.status.CompareAndSwap(common.DaemonStatusInitialized, common.DaemonStatusStarted) {
		return
	}
	if err := s.Listen(); err != nil {
		s.logger.Fatal("Failed to listen.", tag.Address(s.config.ListenAddress), tag.Error(err))
	}

	s.shutdownWG.Add(1)
	go func() {
		defer s.shutdownWG.Done()
		if err := s.server.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Frontend stopped serving.", tag.Error(err))
		}
	}()
	s.logger.Info("Frontend started.", tag.Lifecycle(tag.LifeCycleStarted), tag.Address(s.listener.Addr().String()))
}

// Stop lets in flight requests finish for at most cfg.ShutdownTimeout
func (s *Service) Stop() {
	if !s.status.CompareAndSwap(common.DaemonStatusStarted, common.DaemonStatusStopped) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Warn("Frontend timed out on shutdown.", tag.Lifecycle(tag.LifeCycleStopTimedout), tag.Error(err))
		_ = s.server.Close()
	}
	s.shutdownWG.Wait()
	s.logger.Info("Frontend stopped.", tag.Lifecycle(tag.LifeCycleStopped))
}
