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
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/votecube/pollcache/common/clock"
	"github.com/votecube/pollcache/common/config"
	"github.com/votecube/pollcache/common/errors"
	"github.com/votecube/pollcache/common/log"
	"github.com/votecube/pollcache/common/log/tag"
	"github.com/votecube/pollcache/common/metrics"
	"github.com/votecube/pollcache/common/pagination"
	"github.com/votecube/pollcache/common/types"
	"github.com/votecube/pollcache/service/batch"
	"github.com/votecube/pollcache/service/cache"
	"github.com/votecube/pollcache/service/cache/pending"
)

const (
	// RotationHeader is set on responses about a timezone that is swapping its period buckets
	RotationHeader = "X-Rotation-In-Progress"

	maxBodyBytes = 4 << 10
)

type (
	// Handler serves the HTTP surface of the cache
	Handler struct {
		cache         cache.Cache
		createPolls   batch.Resolver[*cache.CreatePollRequest, *cache.CreatePollResponse]
		votes         batch.Resolver[*cache.VoteRequest, *cache.VoteResponse]
		limiter       clock.Ratelimiter
		config        config.Frontend
		logger        log.Logger
		metricsClient metrics.Client
	}

	voteCountResponse struct {
		PollID         types.PollID `json:"pollId"`
		Count          uint32       `json:"count"`
		Dimensionality uint8        `json:"dimensionality"`
		Timezone       uint8        `json:"timezone"`
	}

	createPollResponse struct {
		PollID   types.PollID `json:"pollId"`
		PeriodID int32        `json:"periodId"`
	}

	voteResponse struct {
		voteCountResponse
		Period string `json:"period"`
	}

	rankingsResponse struct {
		Rankings []voteCountResponse `json:"rankings"`
	}

	pollResponse struct {
		PollID         types.PollID     `json:"pollId"`
		Period         string           `json:"period"`
		Dimensionality uint8            `json:"dimensionality"`
		LocationID     types.LocationID `json:"locationId"`
		CategoryID     types.CategoryID `json:"categoryId,omitempty"`
		Count          uint32           `json:"count"`
		Totals         []uint64         `json:"totals"`
	}

	pageResponse struct {
		Number    int            `json:"number"`
		IDs       []types.PollID `json:"ids"`
		ByteWidth uint8          `json:"byteWidth"`
		Sealed    bool           `json:"sealed"`
		Encoded   string         `json:"encoded"`
	}

	pendingResponse struct {
		Pages []pageResponse `json:"pages"`
		Next  pending.Cursor `json:"next"`
	}

	errorResponse struct {
		Message   string `json:"message"`
		Retryable bool   `json:"retryable,omitempty"`
	}
)

// NewHandler creates the HTTP handler. A nil limiter disables rate limiting.
func NewHandler(
	c cache.Cache,
	createPolls batch.Resolver[*cache.CreatePollRequest, *cache.CreatePollResponse],
	votes batch.Resolver[*cache.VoteRequest, *cache.VoteResponse],
	limiter clock.Ratelimiter,
	cfg config.Frontend,
	logger log.Logger,
	metricsClient metrics.Client,
) *Handler {
	return &Handler{
		cache:         c,
		createPolls:   createPolls,
		votes:         votes,
		limiter:       limiter,
		config:        cfg,
		logger:        logger.WithTags(tag.Component(tag.ComponentFrontend)),
		metricsClient: metricsClient,
	}
}

// RegisterRoutes adds every endpoint to mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /polls", h.limited(metrics.FrontendCreatePollScope, h.createPoll))
	mux.HandleFunc("POST /votes", h.limited(metrics.FrontendVoteScope, h.vote))
	mux.HandleFunc("GET /rankings/location", h.limited(metrics.FrontendRankingsScope, h.rankingsByLocation))
	mux.HandleFunc("GET /rankings/category", h.limited(metrics.FrontendRankingsScope, h.rankingsByCategory))
	mux.HandleFunc("GET /rankings/location-category", h.limited(metrics.FrontendRankingsScope, h.rankingsByLocationCategory))
	mux.HandleFunc("GET /polls/{tz}/{id}", h.limited(metrics.FrontendReadPollScope, h.readPoll))
	mux.HandleFunc("GET /pending", h.limited(metrics.FrontendPendingScope, h.pending))
}

type scopedHandler func(w http.ResponseWriter, r *http.Request, scope metrics.Scope)

func (h *Handler) limited(scopeIdx int, handler scopedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := h.metricsClient.Scope(scopeIdx)
		scope.IncCounter(metrics.Requests)
		sw := scope.StartTimer(metrics.Latency)
		defer sw.Stop()

		if h.limiter != nil && !h.limiter.Allow() {
			scope.IncCounter(metrics.RateLimited)
			h.writeJSON(w, http.StatusTooManyRequests, errorResponse{Message: "rate limit exceeded", Retryable: true})
			return
		}
		handler(w, r, scope)
	}
}

func (h *Handler) createPoll(w http.ResponseWriter, r *http.Request, scope metrics.Scope) {
	body, err := readBody(w, r)
	if err != nil {
		h.badRequest(w, scope, err)
		return
	}
	request, err := parseCreatePoll(body)
	if err != nil {
		h.badRequest(w, scope, err)
		return
	}
	h.markRotation(w, scope, request.Timezone)

	response, err := h.createPolls.Resolve(r.Context(), request)
	if err != nil {
		h.writeError(w, scope, err)
		return
	}
	h.writeJSON(w, http.StatusOK, createPollResponse{PollID: response.PollID, PeriodID: response.PeriodID})
}

func (h *Handler) vote(w http.ResponseWriter, r *http.Request, scope metrics.Scope) {
	body, err := readBody(w, r)
	if err != nil {
		h.badRequest(w, scope, err)
		return
	}
	request, err := parseVote(body)
	if err != nil {
		h.badRequest(w, scope, err)
		return
	}
	h.markRotation(w, scope, request.Timezone)

	response, err := h.votes.Resolve(r.Context(), request)
	if err != nil {
		h.writeError(w, scope, err)
		return
	}
	h.writeJSON(w, http.StatusOK, voteResponse{
		voteCountResponse: toVoteCount(response.VoteCount),
		Period:            response.Period.String(),
	})
}

func (h *Handler) rankingsByLocation(w http.ResponseWriter, r *http.Request, scope metrics.Scope) {
	q := r.URL.Query()
	tz, err := queryTimezone(q, false)
	if err != nil {
		h.badRequest(w, scope, err)
		return
	}
	period, err := queryPeriod(q)
	if err != nil {
		h.badRequest(w, scope, err)
		return
	}
	location, err := queryUint(q, "location", true)
	if err != nil {
		h.badRequest(w, scope, err)
		return
	}
	n, err := queryLimit(q, h.config.MaxRankingSize)
	if err != nil {
		h.badRequest(w, scope, err)
		return
	}
	h.markRotation(w, scope, tz)

	board, err := h.cache.TopByLocation(tz, period, types.LocationID(location), n)
	h.writeRankings(w, scope, board, err)
}

func (h *Handler) rankingsByCategory(w http.ResponseWriter, r *http.Request, scope metrics.Scope) {
	q := r.URL.Query()
	tz, err := queryTimezone(q, true)
	if err != nil {
		h.badRequest(w, scope, err)
		return
	}
	period, err := queryPeriod(q)
	if err != nil {
		h.badRequest(w, scope, err)
		return
	}
	category, err := queryUint(q, "category", true)
	if err != nil {
		h.badRequest(w, scope, err)
		return
	}
	n, err := queryLimit(q, h.config.MaxRankingSize)
	if err != nil {
		h.badRequest(w, scope, err)
		return
	}
	h.markRotation(w, scope, tz)

	board, err := h.cache.TopByCategory(tz, period, types.CategoryID(category), n)
	h.writeRankings(w, scope, board, err)
}

func (h *Handler) rankingsByLocationCategory(w http.ResponseWriter, r *http.Request, scope metrics.Scope) {
	q := r.URL.Query()
	tz, err := queryTimezone(q, false)
	if err != nil {
		h.badRequest(w, scope, err)
		return
	}
	period, err := queryPeriod(q)
	if err != nil {
		h.badRequest(w, scope, err)
		return
	}
	location, err := queryUint(q, "location", true)
	if err != nil {
		h.badRequest(w, scope, err)
		return
	}
	category, err := queryUint(q, "category", true)
	if err != nil {
		h.badRequest(w, scope, err)
		return
	}
	n, err := queryLimit(q, h.config.MaxRankingSize)
	if err != nil {
		h.badRequest(w, scope, err)
		return
	}
	h.markRotation(w, scope, tz)

	board, err := h.cache.TopByLocationCategory(tz, period, types.LocationID(location), types.CategoryID(category), n)
	h.writeRankings(w, scope, board, err)
}

func (h *Handler) readPoll(w http.ResponseWriter, r *http.Request, scope metrics.Scope) {
	tz, err := strconv.ParseUint(r.PathValue("tz"), 10, 8)
	if err != nil || int(tz) >= types.NumTimezones {
		h.badRequest(w, scope, errors.NewInvalidArgumentError("invalid tz %q", r.PathValue("tz")))
		return
	}
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		h.badRequest(w, scope, errors.NewInvalidArgumentError("invalid poll id %q", r.PathValue("id")))
		return
	}
	h.markRotation(w, scope, types.TimezoneID(tz))

	read, err := h.cache.ReadPoll(types.TimezoneID(tz), types.PollID(id))
	if err != nil {
		h.writeError(w, scope, err)
		return
	}
	snapshot := read.Snapshot
	h.writeJSON(w, http.StatusOK, pollResponse{
		PollID:         snapshot.VoteCount.PollID,
		Period:         read.Period.String(),
		Dimensionality: uint8(snapshot.Dimensionality()),
		LocationID:     snapshot.Placement.LocationID,
		CategoryID:     snapshot.Placement.CategoryID,
		Count:          snapshot.VoteCount.Count,
		Totals:         snapshot.Totals(),
	})
}

func (h *Handler) pending(w http.ResponseWriter, r *http.Request, scope metrics.Scope) {
	q := r.URL.Query()
	tz, err := queryTimezone(q, false)
	if err != nil {
		h.badRequest(w, scope, err)
		return
	}
	period, err := types.ParseFuturePeriod(q.Get("period"))
	if err != nil {
		h.badRequest(w, scope, err)
		return
	}
	location, err := queryUint(q, "location", true)
	if err != nil {
		h.badRequest(w, scope, err)
		return
	}
	category, err := queryUint(q, "category", false)
	if err != nil {
		h.badRequest(w, scope, err)
		return
	}
	cursor, err := queryCursor(q)
	if err != nil {
		h.badRequest(w, scope, err)
		return
	}
	h.markRotation(w, scope, tz)

	itr, err := h.cache.PendingSince(tz, period, types.LocationID(location), types.CategoryID(category), cursor)
	if err != nil {
		h.writeError(w, scope, err)
		return
	}
	response, err := collectPages(itr, cursor)
	if err != nil {
		h.writeError(w, scope, err)
		return
	}
	h.writeJSON(w, http.StatusOK, response)
}

func collectPages(itr pagination.Iterator, cursor pending.Cursor) (pendingResponse, error) {
	response := pendingResponse{Pages: []pageResponse{}, Next: cursor}
	for itr.HasNext() {
		entity, err := itr.Next()
		if err != nil {
			return response, err
		}
		page := entity.(pending.Page)
		response.Pages = append(response.Pages, pageResponse{
			Number:    page.Number,
			IDs:       page.IDs,
			ByteWidth: page.ByteWidth,
			Sealed:    page.Sealed,
			Encoded:   base64.StdEncoding.EncodeToString(pending.EncodePage(page)),
		})
		response.Next = page.Next
	}
	return response, nil
}

func (h *Handler) markRotation(w http.ResponseWriter, scope metrics.Scope, tz types.TimezoneID) {
	if h.cache.IsRotating(tz) {
		scope.IncCounter(metrics.RotationInProgressResponses)
		w.Header().Set(RotationHeader, "true")
	}
}

func (h *Handler) writeRankings(w http.ResponseWriter, scope metrics.Scope, board []types.VoteCount, err error) {
	if err != nil {
		h.writeError(w, scope, err)
		return
	}
	response := rankingsResponse{Rankings: make([]voteCountResponse, 0, len(board))}
	for _, vc := range board {
		response.Rankings = append(response.Rankings, toVoteCount(vc))
	}
	h.writeJSON(w, http.StatusOK, response)
}

func (h *Handler) badRequest(w http.ResponseWriter, scope metrics.Scope, err error) {
	scope.IncCounter(metrics.BadRequests)
	h.writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
}

func (h *Handler) writeError(w http.ResponseWriter, scope metrics.Scope, err error) {
	switch {
	case errors.IsBadRequestErrorType(err):
		scope.IncCounter(metrics.BadRequests)
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
	case errors.IsNotFoundErrorType(err):
		scope.IncCounter(metrics.NotFound)
		h.writeJSON(w, http.StatusNotFound, errorResponse{Message: err.Error()})
	case errors.IsRetryable(err), err == errors.ErrDispatcherStopped:
		scope.IncCounter(metrics.Failures)
		h.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Message: err.Error(), Retryable: true})
	case err == context.Canceled || err == context.DeadlineExceeded:
		scope.IncCounter(metrics.Failures)
		h.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Message: err.Error(), Retryable: true})
	default:
		scope.IncCounter(metrics.Failures)
		h.logger.Error("Request failed.", tag.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Message: err.Error()})
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Warn("Failed to write response.", tag.Error(err))
	}
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}

func toVoteCount(vc types.VoteCount) voteCountResponse {
	return voteCountResponse{
		PollID:         vc.PollID,
		Count:          vc.Count,
		Dimensionality: uint8(vc.PollTypeAndTimezone.Dimensionality()),
		Timezone:       uint8(vc.PollTypeAndTimezone.Timezone()),
	}
}
