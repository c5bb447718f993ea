package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"growthai/internal/churn"
	"growthai/internal/recsys"
	"growthai/internal/retention"
	"growthai/internal/store"
)

// defaultTopK applies when a recommend request omits top_k. API-layer
// convenience only; an explicit non-positive value is still rejected.
const defaultTopK = 6

// fallbackChurnProbability is served when no scorer is configured, so the
// endpoint stays useful in demos without a model artifact.
const fallbackChurnProbability = 0.45

// Server exposes the personalization engine over HTTP.
type Server struct {
	engine    *recsys.Engine
	store     store.Store
	scorer    churn.Scorer
	retention *retention.Service
	logger    *zap.Logger

	router *gin.Engine
}

// Options carries the wired components. Engine and Store are required;
// Scorer and Retention are optional and their endpoints degrade gracefully
// without them.
type Options struct {
	Engine    *recsys.Engine
	Store     store.Store
	Scorer    churn.Scorer
	Retention *retention.Service
	Logger    *zap.Logger
	Debug     bool
}

func New(opts Options) (*Server, error) {
	if opts.Engine == nil {
		return nil, errors.New("server: engine required")
	}
	if opts.Store == nil {
		return nil, errors.New("server: store required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if !opts.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	s := &Server{
		engine:    opts.Engine,
		store:     opts.Store,
		scorer:    opts.Scorer,
		retention: opts.Retention,
		logger:    opts.Logger,
	}
	s.router = s.buildRouter()
	return s, nil
}

func (s *Server) buildRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), metricsMiddleware())

	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	v1.GET("/customers", s.handleListCustomers)
	v1.GET("/customers/:id", s.handleGetCustomer)
	v1.GET("/items", s.handleListItems)
	v1.GET("/items/:id", s.handleGetItem)
	v1.POST("/recommend", s.handleRecommend)
	v1.POST("/predict/churn", s.handlePredictChurn)
	v1.POST("/campaign/generate", s.handleGenerateCampaign)
	return r
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until the context is canceled, then drains with a short
// shutdown grace period.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func writeError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": code, "message": message})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"degraded": s.engine.Degraded(),
	})
}

func (s *Server) handleListCustomers(c *gin.Context) {
	ids := s.store.ListCustomerIDs()
	c.JSON(http.StatusOK, gin.H{"customer_ids": ids, "count": len(ids)})
}

func (s *Server) handleGetCustomer(c *gin.Context) {
	id := c.Param("id")
	cust, ok := s.store.GetCustomer(id)
	if !ok {
		writeError(c, http.StatusNotFound, "not_found", "unknown customer: "+id)
		return
	}
	c.JSON(http.StatusOK, cust)
}

func (s *Server) handleListItems(c *gin.Context) {
	items := s.engine.ListItems()
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

func (s *Server) handleGetItem(c *gin.Context) {
	id := c.Param("id")
	it, ok := s.engine.GetItem(id)
	if !ok {
		writeError(c, http.StatusNotFound, "not_found", "unknown item: "+id)
		return
	}
	c.JSON(http.StatusOK, it)
}

type recommendRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
	TopK       *int   `json:"top_k"`
}

func (s *Server) handleRecommend(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	topK := defaultTopK
	if req.TopK != nil {
		topK = *req.TopK
	}
	recs, mode, err := s.engine.RecommendWithMode(c.Request.Context(), req.CustomerID, topK)
	if err != nil {
		if errors.Is(err, recsys.ErrInvalidTopK) {
			writeError(c, http.StatusBadRequest, "invalid_top_k", err.Error())
			return
		}
		s.logger.Error("recommend failed", zap.String("customer", req.CustomerID), zap.Error(err))
		writeError(c, http.StatusInternalServerError, "internal", "recommendation failed")
		return
	}
	recommendationsServed.WithLabelValues(string(mode)).Inc()
	c.JSON(http.StatusOK, gin.H{
		"customer_id":     req.CustomerID,
		"count":           len(recs),
		"recommendations": recs,
	})
}

func (s *Server) handlePredictChurn(c *gin.Context) {
	var f churn.Features
	if err := c.ShouldBindJSON(&f); err != nil {
		writeError(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	if s.scorer == nil {
		c.JSON(http.StatusOK, gin.H{
			"churn_probability": fallbackChurnProbability,
			"risk_segment":      churn.SegmentMedium,
			"model":             "fallback",
		})
		return
	}
	prob := s.scorer.Score(f)
	c.JSON(http.StatusOK, gin.H{
		"churn_probability": prob,
		"risk_segment":      churn.Segment(prob),
		"model":             "logistic",
	})
}

type campaignRequest struct {
	CustomerID       string   `json:"customer_id" binding:"required"`
	RiskSegment      string   `json:"risk_segment"`
	ChurnProbability *float64 `json:"churn_probability"`
}

func (s *Server) handleGenerateCampaign(c *gin.Context) {
	if s.retention == nil {
		writeError(c, http.StatusServiceUnavailable, "unavailable", "campaign generation not configured")
		return
	}
	var req campaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	cust, ok := s.store.GetCustomer(req.CustomerID)
	if !ok {
		writeError(c, http.StatusNotFound, "not_found", "unknown customer: "+req.CustomerID)
		return
	}

	// a caller-supplied probability wins over recomputation, like the
	// risk_segment override
	prob := fallbackChurnProbability
	switch {
	case req.ChurnProbability != nil:
		prob = *req.ChurnProbability
	case s.scorer != nil:
		prob = s.scorer.Score(churn.BuildFeatures(s.store, cust, time.Now().UTC()))
	}
	segment := req.RiskSegment
	if segment == "" {
		segment = churn.Segment(prob)
	}

	// top picks give the copywriter concrete context; failure here only
	// costs personalization, not the campaign
	recs, err := s.engine.Recommend(c.Request.Context(), req.CustomerID, 2)
	if err != nil {
		s.logger.Warn("campaign context recommendations failed", zap.Error(err))
		recs = nil
	}

	campaign := s.retention.Generate(c.Request.Context(), retention.Request{
		Customer:         cust,
		RiskSegment:      segment,
		ChurnProbability: prob,
		Recommendations:  recs,
	})
	campaignsGenerated.WithLabelValues(segment).Inc()
	c.JSON(http.StatusOK, gin.H{
		"customer_id":       req.CustomerID,
		"risk_segment":      segment,
		"churn_probability": prob,
		"campaign":          campaign,
	})
}
