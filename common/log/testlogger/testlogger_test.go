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

package testlogger

import (
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/votecube/pollcache/common/log/tag"
	"github.com/votecube/pollcache/common/types"
)

var (
	done   = make(chan struct{})
	logged = make(chan struct{})
)

func TestMain(m *testing.M) {
	code := m.Run()
	close(done)
	select {
	case <-logged:
		os.Exit(code)
	case <-time.After(time.Second):
		log.Fatal("timed out waiting for late logs")
	}
}

func TestLoggerShouldNotFailIfLoggedLate(t *testing.T) {
	origLogger := New(t)
	withLogger := origLogger.WithTags(tag.Component(tag.ComponentDispatcher))
	go func() {
		<-done
		origLogger.Info("too late, orig")
		withLogger.Info("too late, with")
		close(logged)
	}()
}

func TestObserved(t *testing.T) {
	logger, obs := NewObserved(t)

	logger.Info("rotation completed", tag.Timezone(types.TimezoneGlobal))
	logger.SampleInfo("sampled", 1000)

	entries := obs.FilterMessage("rotation completed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "global", entries[0].ContextMap()["timezone"])
	assert.Equal(t, 1, obs.FilterMessage("sampled").Len())
}
