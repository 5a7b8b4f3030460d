package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"restaurant-viability/internal/ai"
	"restaurant-viability/internal/attrs"
	"restaurant-viability/internal/corrector"
	"restaurant-viability/internal/datagov"
	"restaurant-viability/internal/features"
	"restaurant-viability/internal/geo"
	"restaurant-viability/internal/observability"
	"restaurant-viability/internal/planning"
	"restaurant-viability/internal/retrieval"
	"restaurant-viability/internal/sites"
	"restaurant-viability/internal/swot"
	"restaurant-viability/internal/util"
)

// NoCompetitors is emitted into prompts when the neighborhood holds no
// comparable restaurants.
const NoCompetitors = "No competitors found."

// CorpusEntry couples a corpus restaurant's spatial form with its retrieval
// document. The document's metadata ID indexes back into the corpus.
type CorpusEntry struct {
	Venue geo.Venue
	Doc   retrieval.Document
}

// Config wires the pipeline's collaborators. Generator is required;
// Corrector, DataGov, and Locator degrade gracefully when nil.
type Config struct {
	Entries   []CorpusEntry
	Generator ai.Generator
	Corrector corrector.Corrector
	DataGov   *datagov.Client
	Locator   *planning.Locator
	RadiusKM  float64
	TopK      int
}

// Pipeline runs the viability assessment end to end: retrieval, spatial
// aggregation, generation, parsing, and residual correction.
type Pipeline struct {
	entries   []CorpusEntry
	byID      map[string]CorpusEntry
	index     *retrieval.Index
	generator ai.Generator
	corrector corrector.Corrector
	datagov   *datagov.Client
	locator   *planning.Locator
	radiusKM  float64
	topK      int
}

// Result is one completed evaluation. When ScoreAvailable is false the
// generated text held no usable success score and no correction was applied.
type Result struct {
	Record           attrs.Record
	Area             string
	RawAssessment    string
	PredictedScore   float64
	Correction       float64
	AdjustedScore    float64
	ScoreAvailable   bool
	Corrected        bool
	Neighborhood     geo.Summary
	Underserved      bool
	ProcessingTimeMs int64
}

// CandidateResult pairs a suggested site with its evaluation outcome.
type CandidateResult struct {
	Candidate sites.Candidate
	Result    Result
	Err       error
}

// ErrNoGenerator is returned when the pipeline has no usable text generator.
var ErrNoGenerator = errors.New("no text generator configured")

// New assembles a pipeline and builds the retrieval index over the corpus.
func New(cfg Config) *Pipeline {
	radius := cfg.RadiusKM
	if radius <= 0 {
		radius = geo.DefaultRadiusKM
	}
	topK := cfg.TopK
	if topK <= 0 {
		topK = retrieval.DefaultTopK
	}

	index := retrieval.NewIndex()
	byID := make(map[string]CorpusEntry, len(cfg.Entries))
	for _, entry := range cfg.Entries {
		index.Add(entry.Doc)
		byID[entry.Doc.Metadata.ID] = entry
	}

	return &Pipeline{
		entries:   cfg.Entries,
		byID:      byID,
		index:     index,
		generator: cfg.Generator,
		corrector: cfg.Corrector,
		datagov:   cfg.DataGov,
		locator:   cfg.Locator,
		radiusKM:  radius,
		topK:      topK,
	}
}

// CorpusSize reports how many restaurants back the retrieval index.
func (p *Pipeline) CorpusSize() int {
	return len(p.entries)
}

// Evaluate scores a single site described by the numeric-normalized record.
func (p *Pipeline) Evaluate(ctx context.Context, rec attrs.Record) (Result, error) {
	if p.generator == nil || !p.generator.Enabled() {
		return Result{}, ErrNoGenerator
	}

	timer := util.StartTimer()
	result := Result{Record: rec}

	similar, err := p.index.Search(ctx, rec.PromptString(), p.topK)
	if err != nil {
		observability.Evaluations.WithLabelValues("error").Inc()
		return Result{}, fmt.Errorf("retrieve similar restaurants: %w", err)
	}

	lat, lon, coordErr := geo.ParseCoordinate(rec.Location)
	if coordErr != nil {
		logrus.WithField("location", rec.Location).Warn("evaluating without usable coordinates")
	}

	summary, populated := geo.Aggregate(lat, lon, p.venues(), p.radiusKM)
	result.Neighborhood = summary
	result.Underserved = !populated

	neighborhoodContext := geo.UnderservedArea
	if populated {
		neighborhoodContext = summary.ContextString()
	}

	competitors := p.competitorContext(ctx, rec, lat, lon)

	if p.locator != nil && coordErr == nil {
		if area, ok := p.locator.Locate(lat, lon); ok {
			result.Area = area
		}
	}

	demographics, construction := p.areaContext(ctx, result.Area)

	prompt := ai.AssessmentPrompt(ai.AssessmentPromptInput{
		Record:       rec,
		Area:         result.Area,
		Demographics: demographics,
		Neighborhood: neighborhoodContext,
		Competitors:  competitors,
		Similar:      renderDocs(similar),
		Construction: construction,
	})

	genTimer := util.StartTimer()
	raw, err := p.generator.Complete(ctx, prompt)
	observability.ObserveGeneration("assessment", genTimer.Elapsed())
	if err != nil {
		observability.Evaluations.WithLabelValues("error").Inc()
		return Result{}, fmt.Errorf("generate assessment: %w", err)
	}
	result.RawAssessment = raw

	predicted, scored := swot.SuccessScore(raw)
	result.PredictedScore = predicted
	result.ScoreAvailable = scored

	if scored {
		vector := features.Combine(features.Structured(rec), features.Assessment(raw))
		adjusted, corrected := corrector.Adjust(p.corrector, predicted, vector)
		result.AdjustedScore = adjusted
		result.Correction = adjusted - predicted
		result.Corrected = corrected
		observability.Evaluations.WithLabelValues("scored").Inc()
	} else {
		logrus.Warn("assessment text carried no success score")
		observability.Evaluations.WithLabelValues("no_score").Inc()
	}

	result.ProcessingTimeMs = timer.ElapsedMs()
	observability.ObservePipeline(timer.Elapsed())
	return result, nil
}

// SuggestCandidates asks the generator for promising sites and extracts the
// coordinate list from its reply. The raw reply is returned for display.
func (p *Pipeline) SuggestCandidates(ctx context.Context, rec attrs.Record) ([]sites.Candidate, string, error) {
	if p.generator == nil || !p.generator.Enabled() {
		return nil, "", ErrNoGenerator
	}

	similar, err := p.index.Search(ctx, rec.PromptString(), p.topK)
	if err != nil {
		return nil, "", fmt.Errorf("retrieve similar restaurants: %w", err)
	}

	neighborhoods := make(map[string]string, len(similar))
	for _, doc := range similar {
		entry, ok := p.byID[doc.Metadata.ID]
		if !ok {
			continue
		}
		summary, populated := geo.Aggregate(entry.Venue.Lat, entry.Venue.Lon, p.venues(), p.radiusKM)
		if !populated {
			neighborhoods[entry.Venue.Name] = geo.UnderservedArea
			continue
		}
		neighborhoods[entry.Venue.Name] = summary.ContextString()
	}

	demographics, construction := p.areaContext(ctx, "")

	prompt := ai.CoordinatesPrompt(ai.CoordinatesPromptInput{
		Record:        rec,
		Similar:       renderDocs(similar),
		Neighborhoods: neighborhoods,
		Demographics:  demographics,
		Construction:  construction,
	})

	genTimer := util.StartTimer()
	raw, err := p.generator.Complete(ctx, prompt)
	observability.ObserveGeneration("coordinates", genTimer.Elapsed())
	if err != nil {
		return nil, "", fmt.Errorf("generate candidate sites: %w", err)
	}

	return sites.Extract(raw), raw, nil
}

// EvaluateCandidates scores every candidate site concurrently. Failures are
// captured per candidate; one bad site never cancels its siblings. Results
// come back in candidate order, with positional fallback names for unlabeled
// sites.
func (p *Pipeline) EvaluateCandidates(ctx context.Context, rec attrs.Record, candidates []sites.Candidate) []CandidateResult {
	results := make([]CandidateResult, len(candidates))

	var g errgroup.Group
	g.SetLimit(4)
	for i, candidate := range candidates {
		i, candidate := i, candidate
		if strings.TrimSpace(candidate.Area) == "" {
			candidate.Area = fmt.Sprintf("Area %d", i+1)
		}
		results[i].Candidate = candidate

		g.Go(func() error {
			moved := rec.WithLocation(candidate.Coordinate)
			res, err := p.Evaluate(ctx, moved)
			if err != nil {
				logrus.WithError(err).WithField("area", candidate.Area).Warn("candidate evaluation failed")
				results[i].Err = err
				return nil
			}
			if res.Area == "" {
				res.Area = candidate.Area
			}
			results[i].Result = res
			return nil
		})
	}
	g.Wait()
	return results
}

func (p *Pipeline) venues() []geo.Venue {
	out := make([]geo.Venue, 0, len(p.entries))
	for _, entry := range p.entries {
		out = append(out, entry.Venue)
	}
	return out
}

// competitorContext ranks the restaurants inside the radius by similarity to
// the input concept.
func (p *Pipeline) competitorContext(ctx context.Context, rec attrs.Record, lat, lon float64) string {
	nearby := geo.Nearby(lat, lon, p.venues(), p.radiusKM)
	if len(nearby) == 0 {
		return NoCompetitors
	}

	names := make(map[string]struct{}, len(nearby))
	for _, venue := range nearby {
		names[venue.Name] = struct{}{}
	}

	local := retrieval.NewIndex()
	for _, entry := range p.entries {
		if _, ok := names[entry.Venue.Name]; ok {
			local.Add(entry.Doc)
		}
	}

	docs, err := local.Search(ctx, rec.PromptString(), p.topK)
	if err != nil || len(docs) == 0 {
		return NoCompetitors
	}
	return renderDocs(docs)
}

// areaContext fetches demographics and construction rows, filtered to the
// planning area when one is known. Enrichment is best effort; failures log
// and return empty context.
func (p *Pipeline) areaContext(ctx context.Context, area string) (string, string) {
	if p.datagov == nil {
		return "", ""
	}

	var demographics, construction string
	if rows, err := p.datagov.Population(ctx); err != nil {
		logrus.WithError(err).Warn("population lookup failed")
	} else {
		if area != "" {
			rows = datagov.FilterByArea(rows, area)
		}
		demographics = datagov.RenderRows(rows, 12)
	}

	if rows, err := p.datagov.Construction(ctx); err != nil {
		logrus.WithError(err).Warn("construction lookup failed")
	} else {
		if area != "" {
			rows = datagov.FilterByArea(rows, area)
		}
		construction = datagov.RenderRows(rows, 12)
	}
	return demographics, construction
}

func renderDocs(docs []retrieval.Document) string {
	if len(docs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		parts = append(parts, doc.Content)
	}
	return strings.Join(parts, "\n\n")
}
