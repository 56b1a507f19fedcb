// Package engine composes the deterministic fallback pipeline: language
// detection, intent classification, candidate retrieval, compatibility
// ranking and response synthesis.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/ajitpratap0/openclaw-concierge/internal/classifier"
	"github.com/ajitpratap0/openclaw-concierge/internal/conversation"
	"github.com/ajitpratap0/openclaw-concierge/internal/language"
	"github.com/ajitpratap0/openclaw-concierge/internal/models"
	"github.com/ajitpratap0/openclaw-concierge/internal/retrieval"
	"github.com/ajitpratap0/openclaw-concierge/internal/scoring"
	"github.com/ajitpratap0/openclaw-concierge/internal/synth"
	"github.com/ajitpratap0/openclaw-concierge/pkg/textutil"
)

// DefaultMaxFailures is the number of consecutive failures tolerated before
// the apology is returned.
const DefaultMaxFailures = 3

// Options configures an Engine.
type Options struct {
	DefaultLanguage models.Language
	ListLimit       int
	MaxFailures     int
	Weights         scoring.Weights
	// Classifier replaces the built-in heuristic classifier when set.
	Classifier classifier.Classifier
}

// DefaultOptions returns the production options.
func DefaultOptions() Options {
	return Options{
		DefaultLanguage: models.LangFrench,
		ListLimit:       synth.MaxListed,
		MaxFailures:     DefaultMaxFailures,
		Weights:         scoring.DefaultWeights(),
	}
}

// Engine runs the pipeline. It holds no per-conversation state and is safe
// for concurrent use.
type Engine struct {
	detector    *language.Detector
	classifier  classifier.Classifier
	retriever   *retrieval.Retriever
	scorer      *scoring.Scorer
	synth       *synth.Synthesizer
	maxFailures int
	logger      *slog.Logger
}

// New creates an engine with the built-in keyword tables.
func New(opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxFailures <= 0 {
		opts.MaxFailures = DefaultMaxFailures
	}
	if opts.Weights == (scoring.Weights{}) {
		opts.Weights = scoring.DefaultWeights()
	}
	cls := opts.Classifier
	if cls == nil {
		cls = classifier.NewClassifier(logger)
	}
	return &Engine{
		detector:    language.NewDetector(opts.DefaultLanguage, logger),
		classifier:  cls,
		retriever:   retrieval.NewRetriever(logger),
		scorer:      scoring.NewScorer(opts.Weights, logger),
		synth:       synth.NewSynthesizer(opts.DefaultLanguage, opts.ListLimit, logger),
		maxFailures: opts.MaxFailures,
		logger:      logger,
	}
}

// DetectLanguage returns the language of text and its confidence tier.
func (e *Engine) DetectLanguage(text string) models.Detection {
	return e.detector.Detect(text)
}

// DefaultLanguage returns the configured fallback language.
func (e *Engine) DefaultLanguage() models.Language {
	return e.detector.Default()
}

// Classify determines the intent of text against catalog.
func (e *Engine) Classify(text string, catalog []models.CatalogItem) models.Intent {
	return e.classifier.Classify(text, catalog)
}

// Retrieve selects the candidates for intent.
func (e *Engine) Retrieve(intent models.Intent, catalog []models.CatalogItem) []models.CatalogItem {
	return e.retriever.Retrieve(intent, catalog)
}

// Rank scores and orders items for profile, which may be nil.
func (e *Engine) Rank(items []models.CatalogItem, profile *models.UserPreferenceProfile) []models.ScoredCandidate {
	return e.scorer.Rank(items, profile)
}

// Respond renders the reply for a ranked intent.
func (e *Engine) Respond(intent models.Intent, ranked []models.ScoredCandidate, lang models.Language, label models.ClientProfile) string {
	return e.synth.Respond(intent, ranked, lang, label)
}

// Sanitize applies the response policy to text produced outside the engine.
func (e *Engine) Sanitize(text string, lang models.Language) string {
	return synth.Sanitize(text, e.synth.Phrasebook(lang).CTA)
}

// Result is the outcome of one pipeline run.
type Result struct {
	Text       string                   `json:"text"`
	Language   models.Detection         `json:"language"`
	Intent     models.Intent            `json:"intent"`
	Candidates []models.ScoredCandidate `json:"candidates,omitempty"`
	Label      models.ClientProfile     `json:"client_profile"`
	// Failed is set when the pipeline panicked and a fallback text was used.
	Failed bool `json:"failed,omitempty"`
	// Apology is set when the failure threshold was exceeded.
	Apology bool `json:"apology,omitempty"`
}

// Reply runs the full pipeline for message within conv and records the turn.
// Empty or non-text input gets the greeting in the default language.
// It always returns text: a panic inside the pipeline is recovered and counted
// on conv, and once the count exceeds the threshold the apology is returned
// and the counter is reset.
func (e *Engine) Reply(conv *conversation.Context, message string, catalog []models.CatalogItem, profile *models.UserPreferenceProfile) Result {
	res, err := e.run(conv, message, catalog, profile)
	if err != nil {
		res = e.fallback(conv, res, err)
	} else {
		conv.ResetFailures()
	}
	conv.SetLanguage(res.Language.Language)
	conv.Update(conversation.Turn{Message: message, Response: res.Text})
	return res
}

// Prepare runs the pipeline for message without recording a turn or touching
// the failure counter. A recovered panic is returned as an error.
func (e *Engine) Prepare(conv *conversation.Context, message string, catalog []models.CatalogItem, profile *models.UserPreferenceProfile) (Result, error) {
	return e.run(conv, message, catalog, profile)
}

func (e *Engine) run(conv *conversation.Context, message string, catalog []models.CatalogItem, profile *models.UserPreferenceProfile) (res Result, err error) {
	res.Language = models.Detection{Language: e.DefaultLanguage(), Confidence: models.ConfidenceLow}
	res.Label = conv.Label()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pipeline panic: %v", r)
		}
	}()

	res.Language = e.DetectLanguage(message)
	res.Label = conv.ClassifyClientProfile(message)
	res.Intent = e.Classify(message, catalog)
	if textutil.Canonical(message) == "" {
		res.Text = e.synth.Greeting(res.Language.Language)
		return res, nil
	}
	items := e.Retrieve(res.Intent, catalog)
	res.Candidates = e.Rank(items, profile)
	res.Text = e.Respond(res.Intent, res.Candidates, res.Language.Language, res.Label)
	return res, nil
}

func (e *Engine) fallback(conv *conversation.Context, res Result, err error) Result {
	failures := conv.RecordFailure()
	res.Failed = true
	res.Candidates = nil
	lang := res.Language.Language

	if failures > e.maxFailures {
		conv.ResetFailures()
		res.Apology = true
		res.Text = e.synth.Apology(lang)
		e.logger.Warn("repeated pipeline failure, returning apology",
			"conversation", conv.ID(), "failures", failures, "error", err)
		return res
	}

	res.Intent = models.Intent{Category: models.IntentGeneral, Confidence: 0.5, SourceText: res.Intent.SourceText}
	pb := e.synth.Phrasebook(lang)
	res.Text = synth.Sanitize(pb.AskCategory, pb.CTA)
	e.logger.Warn("pipeline failure recovered",
		"conversation", conv.ID(), "failures", failures, "error", err)
	return res
}
