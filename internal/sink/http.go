package sink

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler exposes the received samples over HTTP for inspection.
type Handler struct {
	st *Store
}

// NewHandler wires the store into a gin-compatible handler.
func NewHandler(st *Store) *Handler {
	return &Handler{st: st}
}

type sampleJSON struct {
	Metric    string  `json:"metric"`
	Value     float64 `json:"value"`
	Timestamp int64   `json:"timestamp"`
}

// Ping handles `GET /ping`.
func (h *Handler) Ping(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}

// ListSamples handles `GET /samples`.
func (h *Handler) ListSamples(c *gin.Context) {
	samples := h.st.List()
	out := make([]sampleJSON, len(samples))
	for i, s := range samples {
		out[i] = sampleJSON{Metric: s.Metric, Value: s.Value, Timestamp: s.Timestamp}
	}
	c.JSON(http.StatusOK, gin.H{
		"received": h.st.Received(),
		"samples":  out,
	})
}

// GetSample handles `GET /samples/:metric`.
func (h *Handler) GetSample(c *gin.Context) {
	s, ok := h.st.Get(c.Param("metric"))
	if !ok {
		c.String(http.StatusNotFound, "not found")
		return
	}
	c.JSON(http.StatusOK, sampleJSON{Metric: s.Metric, Value: s.Value, Timestamp: s.Timestamp})
}

// NewRouter assembles the inspection API.
func NewRouter(h *Handler, middlewares ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.GET("/ping", h.Ping)
	r.GET("/samples", h.ListSamples)
	r.GET("/samples/:metric", h.GetSample)

	return r
}

// ZapLogger logs every HTTP request with latency and status.
func ZapLogger(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		uri := c.Request.RequestURI

		c.Next()

		l.Info("http_request",
			zap.String("method", method),
			zap.String("uri", uri),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
