package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"repair-shop-backend/internal/apperr"
	"repair-shop-backend/internal/mw"
	"repair-shop-backend/internal/store"
)

// fail writes err as a JSON error body. Classified errors keep their message
// and status; anything else is logged and answered with fallback and a 500.
func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindServer {
		h.log.Error(fallback,
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.Writer.Header().Get(mw.RequestIDHeader)),
			zap.Error(err))
	}
	c.AbortWithStatusJSON(kind.Status(), gin.H{"error": apperr.MessageOf(err, fallback)})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}

// listParams reads page, limit, search and sort. Invalid numbers fall back to
// the defaults.
func listParams(c *gin.Context) store.ListParams {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return store.ListParams{
		Page:   page,
		Limit:  limit,
		Search: strings.TrimSpace(c.Query("search")),
		Sort:   c.Query("sort"),
	}.Normalized()
}

// idParam parses a positive numeric path parameter.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// optionalIDQuery parses a positive numeric query parameter if present.
func optionalIDQuery(c *gin.Context, name string) (*int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "Invalid "+name)
		return nil, false
	}
	return &id, true
}

// caller returns the authenticated principal. Routes using it sit behind
// mw.Authenticate.
func caller(c *gin.Context) *mw.Principal {
	p, _ := mw.CurrentPrincipal(c)
	return p
}

// flexTime accepts either a date ("2025-03-07") or an RFC 3339 timestamp.
type flexTime struct {
	time.Time
}

func (t *flexTime) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return &time.ParseError{Layout: "2006-01-02", Value: raw, Message: ": expected a date or RFC 3339 timestamp"}
}

func (t *flexTime) ptr() *time.Time {
	if t == nil {
		return nil
	}
	v := t.Time
	return &v
}

// nullableID tells an absent field apart from an explicit null, which clears
// the reference.
type nullableID struct {
	Set   bool
	Value *int64
}

func (n *nullableID) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Value = nil
		return nil
	}
	var v int64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}
