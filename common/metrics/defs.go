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

package metrics

import "github.com/uber-go/tally"

// types used/defined by the package
type (
	// MetricName is the name of the metric
	MetricName string

	// MetricType is the type of the metric
	MetricType int

	metricDefinition struct {
		metricType MetricType
		metricName MetricName
		buckets    tally.Buckets
	}

	scopeDefinition struct {
		operation string
		tags      map[string]string
	}
)

// MetricTypes which are supported
const (
	Counter MetricType = iota
	Timer
	Gauge
	Histogram
)

// Scope enum
const (
	// CacheCreatePollScope tracks poll registrations in the cache
	CacheCreatePollScope = iota
	// CacheRecordVoteScope tracks votes applied to the cache
	CacheRecordVoteScope
	// CacheRotateScope tracks period rotations
	CacheRotateScope
	// CacheQueryScope tracks ranking and pending list reads
	CacheQueryScope
	// DispatcherResolveScope tracks callers going through the batch dispatcher
	DispatcherResolveScope
	// DispatcherDrainScope tracks drain cycles of the batch dispatcher
	DispatcherDrainScope
	// TimekeeperScope tracks the rotation driver
	TimekeeperScope
	// FrontendCreatePollScope is the scope of the create poll endpoint
	FrontendCreatePollScope
	// FrontendVoteScope is the scope of the vote endpoint
	FrontendVoteScope
	// FrontendRankingsScope is the scope of the ranking endpoints
	FrontendRankingsScope
	// FrontendReadPollScope is the scope of the read poll endpoint
	FrontendReadPollScope
	// FrontendPendingScope is the scope of the pending polls endpoint
	FrontendPendingScope

	NumScopes
)

// Metric enum
const (
	// Requests counts operations entering a scope
	Requests = iota
	// Failures counts operations that ended with an unexpected error
	Failures
	// NotFound counts lookups of polls, locations or categories missing from their bucket
	NotFound
	// BadRequests counts requests rejected for their content
	BadRequests
	// Latency times operations
	Latency

	// PollsCreated counts polls registered in an active bucket
	PollsCreated
	// FuturePollsCreated counts polls registered for a future period
	FuturePollsCreated
	// VotesRecorded counts applied votes
	VotesRecorded
	// DirectionOverflows counts wraps of a direction sum
	DirectionOverflows
	// Rotations counts completed rotations
	Rotations
	// RotationNoops counts rotations that found nothing to change
	RotationNoops
	// PollsPromoted counts future polls activated by a rotation
	PollsPromoted
	// RotationLatency times bucket swaps
	RotationLatency

	// EntriesEnqueued counts entries accepted into the buffer
	EntriesEnqueued
	// ValidationRejections counts requests answered at intake
	ValidationRejections
	// DrainCycles counts drain ticks
	DrainCycles
	// EmptyDrains counts drain ticks that found nothing to aggregate
	EmptyDrains
	// BatchSize records the number of entries of each drain
	BatchSize
	// AggregationFailures counts failed or panicking aggregation passes
	AggregationFailures
	// UnfilledEntries counts entries left without a result by a successful aggregation
	UnfilledEntries
	// WaitCanceled counts callers that stopped waiting before their drain
	WaitCanceled
	// AggregationLatency times aggregation passes
	AggregationLatency
	// ResolveLatency times callers from intake to result
	ResolveLatency

	// RateLimited counts requests refused by the intake limiter
	RateLimited
	// RotationInProgressResponses counts responses served while their timezone was rotating
	RotationInProgressResponses

	NumMetrics
)

// ScopeDefs record the scopes for all services
var ScopeDefs = map[int]scopeDefinition{
	CacheCreatePollScope:    {operation: "CacheCreatePoll"},
	CacheRecordVoteScope:    {operation: "CacheRecordVote"},
	CacheRotateScope:        {operation: "CacheRotate"},
	CacheQueryScope:         {operation: "CacheQuery"},
	DispatcherResolveScope:  {operation: "DispatcherResolve"},
	DispatcherDrainScope:    {operation: "DispatcherDrain"},
	TimekeeperScope:         {operation: "Timekeeper"},
	FrontendCreatePollScope: {operation: "CreatePoll", tags: map[string]string{endpoint: "polls"}},
	FrontendVoteScope:       {operation: "Vote", tags: map[string]string{endpoint: "votes"}},
	FrontendRankingsScope:   {operation: "Rankings", tags: map[string]string{endpoint: "rankings"}},
	FrontendReadPollScope:   {operation: "ReadPoll", tags: map[string]string{endpoint: "polls"}},
	FrontendPendingScope:    {operation: "Pending", tags: map[string]string{endpoint: "pending"}},
}

var batchSizeBuckets = tally.ValueBuckets{0, 1, 8, 32, 128, 512, 2048, 8192, 32768}

// MetricDefs record the metrics for all services
var MetricDefs = map[int]metricDefinition{
	Requests:    {metricName: "requests", metricType: Counter},
	Failures:    {metricName: "errors", metricType: Counter},
	NotFound:    {metricName: "errors_not_found", metricType: Counter},
	BadRequests: {metricName: "errors_bad_request", metricType: Counter},
	Latency:     {metricName: "latency", metricType: Timer},

	PollsCreated:       {metricName: "polls_created", metricType: Counter},
	FuturePollsCreated: {metricName: "future_polls_created", metricType: Counter},
	VotesRecorded:      {metricName: "votes_recorded", metricType: Counter},
	DirectionOverflows: {metricName: "direction_overflows", metricType: Counter},
	Rotations:          {metricName: "rotations", metricType: Counter},
	RotationNoops:      {metricName: "rotation_noops", metricType: Counter},
	PollsPromoted:      {metricName: "polls_promoted", metricType: Counter},
	RotationLatency:    {metricName: "rotation_latency", metricType: Timer},

	EntriesEnqueued:      {metricName: "entries_enqueued", metricType: Counter},
	ValidationRejections: {metricName: "validation_rejections", metricType: Counter},
	DrainCycles:          {metricName: "drain_cycles", metricType: Counter},
	EmptyDrains:          {metricName: "empty_drains", metricType: Counter},
	BatchSize:            {metricName: "batch_size", metricType: Histogram, buckets: batchSizeBuckets},
	AggregationFailures:  {metricName: "aggregation_failures", metricType: Counter},
	UnfilledEntries:      {metricName: "unfilled_entries", metricType: Counter},
	WaitCanceled:         {metricName: "wait_canceled", metricType: Counter},
	AggregationLatency:   {metricName: "aggregation_latency", metricType: Timer},
	ResolveLatency:       {metricName: "resolve_latency", metricType: Timer},

	RateLimited:                 {metricName: "rate_limited", metricType: Counter},
	RotationInProgressResponses: {metricName: "rotation_in_progress_responses", metricType: Counter},
}
