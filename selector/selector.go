package selector

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sartorproj/aqforecast/features"
	"github.com/sartorproj/aqforecast/regress"
	"github.com/sartorproj/aqforecast/stats"
)

var (
	// ErrTargetMissing is returned when the target column is absent from the input.
	ErrTargetMissing = errors.New("target column missing")
	// ErrInsufficientRows is returned when there are too few complete rows to cross-validate.
	ErrInsufficientRows = errors.New("insufficient rows for cross-validation")
	// ErrSelectionAborted is returned when the context ends during evaluation.
	ErrSelectionAborted = errors.New("model selection aborted")
)

// CandidateScore is the cross-validation outcome of one candidate.
type CandidateScore struct {
	Name  string    `json:"name" yaml:"name"`
	Mean  float64   `json:"mean_mse" yaml:"mean_mse"`
	Folds []float64 `json:"folds" yaml:"folds"`
}

// Diagnostics describes how a target's model was chosen and how it fits.
type Diagnostics struct {
	Target       string                `json:"target" yaml:"target"`
	Model        string                `json:"model" yaml:"model"`
	MSE          float64               `json:"mse" yaml:"mse"`
	MAE          float64               `json:"mae" yaml:"mae"`
	R2           float64               `json:"r2" yaml:"r2"`
	CVScores     []CandidateScore      `json:"cv_scores" yaml:"cv_scores"`
	Rows         int                   `json:"rows" yaml:"rows"`
	Splits       int                   `json:"splits" yaml:"splits"`
	LjungBox     *stats.LjungBoxResult `json:"ljung_box,omitempty" yaml:"ljung_box,omitempty"`
	DurbinWatson *float64              `json:"durbin_watson,omitempty" yaml:"durbin_watson,omitempty"`
}

// CVScore returns the mean fold score of a candidate.
func (d *Diagnostics) CVScore(name string) (float64, bool) {
	for _, s := range d.CVScores {
		if s.Name == name {
			return s.Mean, true
		}
	}
	return 0, false
}

// TrainingReport gathers the per-target outcomes of a training run.
type TrainingReport struct {
	RunID       uuid.UUID               `json:"run_id" yaml:"run_id"`
	Targets     []string                `json:"targets" yaml:"targets"`
	Diagnostics map[string]*Diagnostics `json:"diagnostics" yaml:"diagnostics"`
	Omissions   map[string]error        `json:"-" yaml:"-"`
}

// Observer receives selection events, typically to export metrics.
type Observer interface {
	ObserveSelection(target, model string, cvScore float64, elapsed time.Duration)
	ObserveOmission(target string, err error)
}

// Selector evaluates candidates and freezes the winner per target.
type Selector struct {
	config     *Config
	candidates []regress.Candidate
	logger     *zap.Logger
	observer   Observer
}

// Option configures a Selector.
type Option func(*Selector)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *zap.Logger) Option {
	return func(s *Selector) {
		s.logger = l
	}
}

// WithCandidates replaces the configured candidates.
func WithCandidates(c []regress.Candidate) Option {
	return func(s *Selector) {
		s.candidates = c
	}
}

// WithObserver registers an observer for selection events.
func WithObserver(o Observer) Option {
	return func(s *Selector) {
		s.observer = o
	}
}

// New creates a selector. A nil config selects DefaultConfig.
func New(cfg *Config, opts ...Option) (*Selector, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	candidates, err := cfg.Options.Candidates(cfg.Candidates)
	if err != nil {
		return nil, err
	}
	s := &Selector{
		config:     cfg,
		candidates: candidates,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if len(s.candidates) == 0 {
		return nil, errors.New("no candidates configured")
	}
	return s, nil
}

// Candidates returns the candidates in evaluation order.
func (s *Selector) Candidates() []regress.Candidate {
	return s.candidates
}

// Train selects a model for every target configured on the set. Targets are
// trained concurrently; a failure for one is recorded in the report's
// Omissions and does not affect the others.
func (s *Selector) Train(ctx context.Context, set *features.Set) (*Registry, *TrainingReport, error) {
	if set == nil || set.Config == nil {
		return nil, nil, errors.New("train: nil feature set")
	}

	targets := set.Config.Targets
	runID := uuid.New()

	type outcome struct {
		model *TargetModel
		diag  *Diagnostics
		err   error
	}
	results := make([]outcome, len(targets))

	limit := s.config.Parallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	var g errgroup.Group
	g.SetLimit(limit)
	for i, target := range targets {
		g.Go(func() error {
			m, d, err := s.selectAndFit(ctx, set, target, runID)
			results[i] = outcome{model: m, diag: d, err: err}
			return nil
		})
	}
	_ = g.Wait()

	registry := NewRegistry()
	report := &TrainingReport{
		RunID:       runID,
		Targets:     targets,
		Diagnostics: make(map[string]*Diagnostics),
		Omissions:   make(map[string]error),
	}
	for i, target := range targets {
		r := results[i]
		if r.err != nil {
			report.Omissions[target] = r.err
			s.logger.Warn("no model for target", zap.String("target", target), zap.Error(r.err))
			if s.observer != nil {
				s.observer.ObserveOmission(target, r.err)
			}
			continue
		}
		registry.Register(r.model)
		report.Diagnostics[target] = r.diag
	}

	s.logger.Info("training finished",
		zap.Stringer("run_id", runID),
		zap.Int("models", registry.Len()),
		zap.Int("omitted", len(report.Omissions)),
	)
	return registry, report, nil
}

// SelectAndFit cross-validates every candidate on target, refits the winner on
// all rows and freezes it.
func (s *Selector) SelectAndFit(ctx context.Context, set *features.Set, target string) (*TargetModel, *Diagnostics, error) {
	return s.selectAndFit(ctx, set, target, uuid.New())
}

func (s *Selector) selectAndFit(ctx context.Context, set *features.Set, target string, runID uuid.UUID) (*TargetModel, *Diagnostics, error) {
	started := time.Now()
	if !set.HasTarget(target) {
		return nil, nil, fmt.Errorf("%s: %w", target, ErrTargetMissing)
	}

	X, y := set.TrainingData(target)
	splits, err := WalkForward(len(X), s.config.Splits)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", target, err)
	}

	scaler := &regress.StandardScaler{}
	if err := scaler.Fit(X); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", target, err)
	}
	scaled, err := scaler.TransformAll(X)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", target, err)
	}

	scores, err := s.crossValidate(ctx, target, scaled, y, splits)
	if err != nil {
		return nil, nil, err
	}

	// Strict comparison keeps the earliest candidate on ties.
	best, bestScore := -1, math.Inf(1)
	for i, sc := range scores {
		if sc.Mean < bestScore {
			best, bestScore = i, sc.Mean
		}
	}
	if best < 0 {
		return nil, nil, fmt.Errorf("%s: no candidate produced a finite score", target)
	}

	winner := s.candidates[best]
	model := winner.New()
	if err := model.Fit(scaled, y); err != nil {
		return nil, nil, fmt.Errorf("%s: refit %s: %w", target, winner.Name, err)
	}

	fitted := regress.PredictAll(model, scaled)
	residuals := make([]float64, len(y))
	for i := range y {
		residuals[i] = y[i] - fitted[i]
	}

	diag := &Diagnostics{
		Target:   target,
		Model:    winner.Name,
		MSE:      stats.MSE(y, fitted),
		MAE:      stats.MAE(y, fitted),
		R2:       stats.R2(y, fitted),
		CVScores: scores,
		Rows:     len(y),
		Splits:   len(splits),
		LjungBox: stats.LjungBox(residuals, s.config.DiagnosticLags, 0),
	}
	if dw, ok := stats.DurbinWatson(residuals); ok {
		diag.DurbinWatson = &dw
	}

	frozen := &TargetModel{
		target:   target,
		name:     winner.Name,
		model:    model,
		scaler:   scaler,
		features: append([]string(nil), set.Names...),
		runID:    runID,
		rows:     len(y),
	}

	elapsed := time.Since(started)
	s.logger.Info("selected model",
		zap.String("target", target),
		zap.String("model", winner.Name),
		zap.Float64("cv_mse", bestScore),
		zap.Float64("r2", diag.R2),
		zap.Int("rows", len(y)),
		zap.Duration("elapsed", elapsed),
	)
	if s.observer != nil {
		s.observer.ObserveSelection(target, winner.Name, bestScore, elapsed)
	}
	return frozen, diag, nil
}

// crossValidate scores every candidate on every split. Each fold writes its own
// slot, so the scores do not depend on evaluation order.
func (s *Selector) crossValidate(ctx context.Context, target string, X [][]float64, y []float64, splits []Split) ([]CandidateScore, error) {
	folds := make([][]float64, len(s.candidates))
	for i := range folds {
		folds[i] = make([]float64, len(splits))
	}

	limit := s.config.CandidateParallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for ci, c := range s.candidates {
		for si, sp := range splits {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				model := c.New()
				if err := model.Fit(X[:sp.TrainEnd], y[:sp.TrainEnd]); err != nil {
					return fmt.Errorf("%s: fit %s on split %d: %w", target, c.Name, si, err)
				}
				predicted := regress.PredictAll(model, X[sp.TestStart():sp.TestEnd])
				folds[ci][si] = stats.MSE(y[sp.TestStart():sp.TestEnd], predicted)

				s.logger.Debug("scored fold",
					zap.String("target", target),
					zap.String("model", c.Name),
					zap.Int("split", si),
					zap.Int("train", sp.TrainEnd),
					zap.Int("test", sp.TestSize()),
					zap.Float64("mse", folds[ci][si]),
				)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s: %w: %w", target, ErrSelectionAborted, ctx.Err())
		}
		return nil, err
	}

	scores := make([]CandidateScore, len(s.candidates))
	for i, c := range s.candidates {
		sum := 0.0
		for _, v := range folds[i] {
			sum += v
		}
		scores[i] = CandidateScore{Name: c.Name, Mean: sum / float64(len(splits)), Folds: folds[i]}
	}
	return scores, nil
}
