package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"strconv"
	"time"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/gin-gonic/gin"

	"github.com/hupe1980/strknn"
	"github.com/hupe1980/strknn/internal/config"
	"github.com/hupe1980/strknn/internal/corpusfile"
	"github.com/hupe1980/strknn/matcher"
)

type uploadRequest struct {
	Strings any `json:"strings"`
}

type uploadResponse struct {
	Uploaded int `json:"uploaded"`
	Size     int `json:"size"`
}

type queryRequest struct {
	Text           any `json:"text"`
	K              any `json:"k"`
	OrderSensitive any `json:"orderSensitive"`
}

type queryResponse struct {
	Results []string `json:"results"`
}

type searchRequest struct {
	Text           string   `json:"text"`
	K              int      `json:"k"`
	OrderSensitive *bool    `json:"orderSensitive"`
	Strategy       string   `json:"strategy"`
	IDs            []uint64 `json:"ids"`
}

type searchResult struct {
	ID       uint64  `json:"id"`
	Text     string  `json:"text"`
	Distance float64 `json:"distance"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": s.opts.Version,
		"uptime":  time.Since(s.started).Round(time.Second).String(),
		"size":    s.eng.Size(),
	})
}

func (s *Server) handleUpload(c *gin.Context) {
	var req uploadRequest
	if err := decodeJSON(c, &req); err != nil {
		abortWithError(c, statusOf(err), err)
		return
	}

	n := 0
	if v, ok := req.Strings.([]any); ok {
		n = len(v)
	}
	if err := s.eng.UploadValues(c.Request.Context(), req.Strings); err != nil {
		abortWithError(c, statusOf(err), err)
		return
	}

	c.JSON(http.StatusOK, uploadResponse{Uploaded: n, Size: s.eng.Size()})
}

func (s *Server) handleQuery(c *gin.Context) {
	var req queryRequest
	if err := decodeJSON(c, &req); err != nil {
		abortWithError(c, statusOf(err), err)
		return
	}
	if err := checkMaxK(req.K, s.opts.Config.MaxK); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	results, err := s.eng.QueryValues(c.Request.Context(), req.Text, req.K, req.OrderSensitive)
	if err != nil {
		abortWithError(c, statusOf(err), err)
		return
	}
	if results == nil {
		results = []string{}
	}

	c.JSON(http.StatusOK, queryResponse{Results: results})
}

func (s *Server) handleSearch(c *gin.Context) {
	var req searchRequest
	if err := decodeJSON(c, &req); err != nil {
		abortWithError(c, statusOf(err), err)
		return
	}

	k := req.K
	if k == 0 {
		k = strknn.DefaultK
	}
	if k > s.opts.Config.MaxK {
		abortWithError(c, http.StatusBadRequest, fmt.Errorf("k exceeds the server limit of %d", s.opts.Config.MaxK))
		return
	}

	sb := s.eng.Find(req.Text).K(k)
	if req.OrderSensitive != nil && !*req.OrderSensitive {
		sb = sb.Unordered()
	}
	if req.Strategy != "" {
		strategy, err := config.ParseSetStrategy(req.Strategy)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, err)
			return
		}
		if strategy == matcher.SetApproximate {
			sb = sb.Greedy()
		}
	}
	if req.IDs != nil {
		sb = sb.Within(roaring64.BitmapOf(req.IDs...))
	}

	results, err := sb.Execute(c.Request.Context())
	if err != nil {
		abortWithError(c, statusOf(err), err)
		return
	}

	resp := searchResponse{Results: make([]searchResult, len(results))}
	for i, r := range results {
		resp.Results[i] = searchResult(r)
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleStats(c *gin.Context) {
	st := s.eng.Stats()
	c.JSON(http.StatusOK, gin.H{
		"size":              st.Size,
		"version":           st.Version,
		"queries_in_flight": st.QueriesInFlight,
		"cache": gin.H{
			"hits":   st.Cache.Hits,
			"misses": st.Cache.Misses,
			"len":    st.Cache.Len,
		},
		"limits": gin.H{
			"max_concurrent_queries":    st.Limits.MaxConcurrentQueries,
			"queries_per_second":        st.Limits.QueriesPerSecond,
			"upload_strings_per_second": st.Limits.UploadStringsPerSecond,
		},
	})
}

func (s *Server) handleExport(c *gin.Context) {
	compression, err := corpusfile.ParseCompression(c.Query("compression"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	entries := s.eng.Entries()

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Content-Disposition", "attachment; filename=corpus.txt"+compression.Ext())
	c.Header("X-Corpus-Size", strconv.Itoa(len(entries)))
	c.Status(http.StatusOK)

	if _, err := corpusfile.Write(c.Writer, compression, originals(entries)); err != nil {
		// Headers are already sent; record the failure for the request log.
		_ = c.Error(err)
	}
}

func originals(entries []strknn.Entry) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, e := range entries {
			if !yield(e.Original) {
				return
			}
		}
	}
}

// decodeJSON decodes the body keeping numbers as json.Number, so that
// fractional or oversized k values reach the engine's validation intact.
func decodeJSON(c *gin.Context, v any) error {
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return fmt.Errorf("%w: %w", errMalformedBody, err)
	}
	return nil
}

var errMalformedBody = errors.New("malformed request body")

// checkMaxK rejects integral k values above limit before they reach the
// engine. Other shapes are left to the engine to reject.
func checkMaxK(k any, limit int) error {
	n, ok := k.(json.Number)
	if !ok {
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil
	}
	if f > float64(limit) {
		return fmt.Errorf("k exceeds the server limit of %d", limit)
	}
	return nil
}

func statusOf(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errMalformedBody):
		return http.StatusBadRequest
	case errors.Is(err, strknn.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, strknn.ErrCapacityExceeded):
		return http.StatusInsufficientStorage
	case errors.Is(err, strknn.ErrClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, errorResponse{Error: err.Error()})
}
