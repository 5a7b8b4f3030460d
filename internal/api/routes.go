package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"restaurant-viability/internal/ai"
	"restaurant-viability/internal/attrs"
	"restaurant-viability/internal/corrector"
	"restaurant-viability/internal/datagov"
	"restaurant-viability/internal/observability"
	"restaurant-viability/internal/pipeline"
	"restaurant-viability/internal/planning"
	"restaurant-viability/internal/retrieval"
	"restaurant-viability/internal/store"
)

// Config defines server dependencies.
type Config struct {
	DBPath         string
	AllowedOrigins []string
	SilentDB       bool
	AIConfig       ai.Config
	DisableAI      bool
	DataGovConfig  datagov.Config
	DisableDataGov bool
	CorrectorPath  string
	AreasPath      string
	RadiusKM       float64
	TopK           int
}

// Server wires HTTP handlers with persistence and the evaluation pipeline.
// The pipeline is rebuilt lazily whenever the corpus changes.
type Server struct {
	db             *store.Database
	generator      ai.Generator
	corrector      corrector.Corrector
	datagov        *datagov.Client
	locator        *planning.Locator
	allowedOrigins []string
	radiusKM       float64
	topK           int

	mu   sync.Mutex
	pipe *pipeline.Pipeline
}

// NewServer constructs the API server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.DBPath == "" {
		return nil, errors.New("db path required")
	}
	db, err := store.Open(cfg.DBPath, cfg.SilentDB)
	if err != nil {
		return nil, err
	}

	var generator ai.Generator
	if cfg.DisableAI {
		logrus.Info("text generation disabled via configuration")
	} else {
		client, err := ai.NewClient(cfg.AIConfig)
		if err != nil {
			if errors.Is(err, ai.ErrDisabled) {
				return nil, fmt.Errorf("text generation disabled: configure OpenAI credentials")
			}
			return nil, fmt.Errorf("ai client: %w", err)
		}
		generator = client
	}

	var model corrector.Corrector
	if trimmed := strings.TrimSpace(cfg.CorrectorPath); trimmed != "" {
		linear, err := corrector.NewLinearModel(trimmed)
		if err != nil {
			return nil, fmt.Errorf("residual corrector: %w", err)
		}
		model = linear
		logrus.WithField("path", trimmed).Info("residual corrector loaded")
	} else {
		logrus.Info("no residual corrector configured, scores stay uncorrected")
	}

	var govClient *datagov.Client
	if cfg.DisableDataGov {
		logrus.Info("data.gov.sg enrichment disabled via configuration")
	} else {
		govClient = datagov.NewClient(cfg.DataGovConfig)
	}

	var locator *planning.Locator
	if trimmed := strings.TrimSpace(cfg.AreasPath); trimmed != "" {
		loaded, err := planning.Load(trimmed)
		if err != nil {
			return nil, fmt.Errorf("planning areas: %w", err)
		}
		locator = loaded
		logrus.WithField("areas", loaded.Len()).Info("planning areas loaded")
	}

	return &Server{
		db:             db,
		generator:      generator,
		corrector:      model,
		datagov:        govClient,
		locator:        locator,
		allowedOrigins: cfg.AllowedOrigins,
		radiusKM:       cfg.RadiusKM,
		topK:           cfg.TopK,
	}, nil
}

// Close releases the underlying database handle.
func (s *Server) Close() error {
	return s.db.Close()
}

// Router configures gin routes.
func (s *Server) Router() (*gin.Engine, error) {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowCredentials = true
	if len(s.allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.allowedOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	r.GET("/api/healthz", s.handleHealth)
	r.GET("/api/config", s.handleConfig)
	r.GET("/metrics", gin.WrapH(observability.MetricsHandler(observability.InitRegistry())))

	api := r.Group("/api")
	{
		api.POST("/places", s.handleReplacePlaces)
		api.POST("/evaluate", s.handleEvaluate)
		api.POST("/candidates", s.handleCandidates)
		api.GET("/results", s.handleResults)
	}

	return r, nil
}

// evalPipeline builds (or returns the cached) evaluation pipeline over the
// stored corpus.
func (s *Server) evalPipeline() (*pipeline.Pipeline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pipe != nil {
		return s.pipe, nil
	}

	places, err := s.db.ListPlaces()
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}

	entries := make([]pipeline.CorpusEntry, 0, len(places))
	for _, place := range places {
		entries = append(entries, corpusEntryFromPlace(place))
	}
	logrus.WithField("places", len(entries)).Info("evaluation pipeline built")

	s.pipe = pipeline.New(pipeline.Config{
		Entries:   entries,
		Generator: s.generator,
		Corrector: s.corrector,
		DataGov:   s.datagov,
		Locator:   s.locator,
		RadiusKM:  s.radiusKM,
		TopK:      s.topK,
	})
	return s.pipe, nil
}

func corpusEntryFromPlace(place store.Place) pipeline.CorpusEntry {
	rec := attrs.Normalize(place.Attributes())
	id := place.PlaceID
	if id == "" {
		id = place.Name
	}
	return pipeline.CorpusEntry{
		Venue: place.Venue(),
		Doc: retrieval.Document{
			Content:  fmt.Sprintf("name: %s\n%s", place.Name, rec.PromptString()),
			Metadata: retrieval.Metadata{ID: id},
		},
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleConfig(c *gin.Context) {
	count, err := s.db.CountPlaces()
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"corpus_places":      count,
		"generation_enabled": s.generator != nil && s.generator.Enabled(),
		"corrector_enabled":  s.corrector != nil,
		"datagov_enabled":    s.datagov != nil,
		"planning_areas":     s.locator.Len(),
	})
}

func (s *Server) handleReplacePlaces(c *gin.Context) {
	var body []placeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		s.renderError(c, http.StatusBadRequest, fmt.Errorf("invalid payload: %w", err))
		return
	}

	places := make([]store.Place, 0, len(body))
	for i, req := range body {
		if strings.TrimSpace(req.PlaceID) == "" {
			s.renderError(c, http.StatusBadRequest, fmt.Errorf("place %d missing place_id", i))
			return
		}
		places = append(places, req.model())
	}

	if err := s.db.ReplacePlaces(places); err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}

	s.mu.Lock()
	s.pipe = nil
	s.mu.Unlock()

	logrus.WithField("places", len(places)).Info("corpus replaced")
	c.JSON(http.StatusOK, gin.H{"places": len(places)})
}

func (s *Server) handleEvaluate(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		s.renderError(c, http.StatusBadRequest, fmt.Errorf("invalid payload: %w", err))
		return
	}

	rec := attrs.NormalizeNumeric(body)
	p, err := s.evalPipeline()
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}

	result, err := p.Evaluate(c.Request.Context(), rec)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoGenerator) {
			s.renderError(c, http.StatusServiceUnavailable, err)
			return
		}
		s.renderError(c, http.StatusBadGateway, err)
		return
	}

	s.persistResult(result)
	c.JSON(http.StatusOK, evaluationFromResult(result))
}

func (s *Server) handleCandidates(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		s.renderError(c, http.StatusBadRequest, fmt.Errorf("invalid payload: %w", err))
		return
	}

	rec := attrs.NormalizeNumeric(body)
	p, err := s.evalPipeline()
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}

	ctx := c.Request.Context()
	candidates, raw, err := p.SuggestCandidates(ctx, rec)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoGenerator) {
			s.renderError(c, http.StatusServiceUnavailable, err)
			return
		}
		s.renderError(c, http.StatusBadGateway, err)
		return
	}

	results := p.EvaluateCandidates(ctx, rec, candidates)
	out := make([]candidateDTO, 0, len(results))
	for _, res := range results {
		dto := candidateDTO{
			Area:       res.Candidate.Area,
			Coordinate: res.Candidate.Coordinate,
		}
		if res.Err != nil {
			dto.Error = res.Err.Error()
		} else {
			s.persistResult(res.Result)
			evaluation := evaluationFromResult(res.Result)
			dto.Evaluation = &evaluation
		}
		out = append(out, dto)
	}

	c.JSON(http.StatusOK, gin.H{
		"suggestion_text": raw,
		"candidates":      out,
	})
}

func (s *Server) handleResults(c *gin.Context) {
	rows, err := s.db.RecentEvaluations(50)
	if err != nil {
		s.renderError(c, http.StatusInternalServerError, err)
		return
	}
	out := make([]storedEvaluationDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, storedFromModel(row))
	}
	c.JSON(http.StatusOK, gin.H{"results": out, "total": len(out)})
}

func (s *Server) persistResult(result pipeline.Result) {
	row := &store.Evaluation{
		Area:             result.Area,
		Coordinate:       result.Record.Location,
		Cuisine:          result.Record.Cuisine,
		PredictedScore:   result.PredictedScore,
		Correction:       result.Correction,
		AdjustedScore:    result.AdjustedScore,
		ScoreAvailable:   result.ScoreAvailable,
		Corrected:        result.Corrected,
		RawAssessment:    result.RawAssessment,
		ProcessingTimeMs: result.ProcessingTimeMs,
	}
	if err := s.db.SaveEvaluation(row); err != nil {
		logrus.WithError(err).Warn("persist evaluation")
	}
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}
