package prep

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/tabprep-cli/internal/table"
)

// Stage is one named, pure table transform.
type Stage interface {
	Name() string
	Apply(t *table.Table) (*table.Table, error)
}

type stageFunc struct {
	name string
	fn   func(*table.Table) (*table.Table, error)
}

func (s stageFunc) Name() string                               { return s.name }
func (s stageFunc) Apply(t *table.Table) (*table.Table, error) { return s.fn(t) }

// NewStage wraps fn as a Stage.
func NewStage(name string, fn func(*table.Table) (*table.Table, error)) Stage {
	return stageFunc{name: name, fn: fn}
}

func ImputeStage() Stage { return NewStage("impute", Impute) }

func PruneStage(names []string) Stage {
	return NewStage("prune", func(t *table.Table) (*table.Table, error) { return Prune(t, names) })
}

func NormalizeStage(names []string) Stage {
	return NewStage("normalize", func(t *table.Table) (*table.Table, error) { return Normalize(t, names) })
}

func RowMeanStage(sources []string, name string) Stage {
	return NewStage("row mean", func(t *table.Table) (*table.Table, error) { return AddRowMean(t, sources, name) })
}

func QuantileBinStage(sources []string, name string, labels []string) Stage {
	return NewStage("quantile bin", func(t *table.Table) (*table.Table, error) {
		return AddQuantileBin(t, sources, name, labels)
	})
}

func OneHotStage(column string) Stage {
	return NewStage("one-hot "+column, func(t *table.Table) (*table.Table, error) { return OneHot(t, column) })
}

func BucketizeStage(column string, thresholds []float64, labels []string) Stage {
	return NewStage("bucketize "+column, func(t *table.Table) (*table.Table, error) {
		return BucketizeNumeric(t, column, thresholds, labels)
	})
}

func BinarizeStage(column string) Stage {
	return NewStage("binarize "+column, func(t *table.Table) (*table.Table, error) { return Binarize(t, column) })
}

func LabelEncodeStage(column string) Stage {
	return NewStage("label encode "+column, func(t *table.Table) (*table.Table, error) { return LabelEncode(t, column) })
}

func ClassificationStage(features []string, target string, thresholds []float64, labels []string) Stage {
	return NewStage("classification encode", func(t *table.Table) (*table.Table, error) {
		return EncodeForClassification(t, features, target, thresholds, labels)
	})
}

func AssociationStage() Stage { return NewStage("association encode", EncodeForAssociation) }

// StageError wraps the failure of a pipeline stage.
type StageError struct {
	Stage string
	Index int
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %d (%s): %v", e.Index+1, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Pipeline runs stages in order over a table. It holds no table state between runs.
type Pipeline struct {
	stages []Stage
	logger *slog.Logger
}

// NewPipeline builds a pipeline logging to slog.Default.
func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// WithLogger sets the logger used for stage diagnostics.
func (p *Pipeline) WithLogger(l *slog.Logger) *Pipeline {
	p.logger = l
	return p
}

// Then appends stages.
func (p *Pipeline) Then(stages ...Stage) *Pipeline {
	p.stages = append(p.stages, stages...)
	return p
}

// Len returns the number of stages.
func (p *Pipeline) Len() int { return len(p.stages) }

// String lists the stage names, e.g. "impute -> prune -> normalize".
func (p *Pipeline) String() string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return strings.Join(names, " -> ")
}

// Run applies every stage to t in order and returns the final table. The
// first failing stage stops the run; t itself is never modified. ctx is
// checked between stages only.
func (p *Pipeline) Run(ctx context.Context, t *table.Table) (*table.Table, error) {
	log := p.logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("run_id", uuid.NewString()))
	log.Debug("pipeline start",
		slog.String("stages", p.String()),
		slog.Int("rows", t.Rows()),
		slog.Int("columns", t.Width()))

	cur := t
	for i, s := range p.stages {
		if err := ctx.Err(); err != nil {
			return nil, &StageError{Stage: s.Name(), Index: i, Err: err}
		}
		start := time.Now()
		next, err := s.Apply(cur)
		if err != nil {
			log.Debug("stage failed", slog.String("stage", s.Name()), slog.String("error", err.Error()))
			return nil, &StageError{Stage: s.Name(), Index: i, Err: err}
		}
		log.Debug("stage done",
			slog.String("stage", s.Name()),
			slog.Int("rows", next.Rows()),
			slog.Int("columns", next.Width()),
			slog.Duration("took", time.Since(start)))
		cur = next
	}
	return cur, nil
}
