package registry

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/brightclass/admin-api/internal/bulkops/model"
)

// Simulator advances jobs on a wall-clock timer without touching any data.
// It stands in for a real job backend in demos and tests: progress moves in
// pseudo-random increments and per-target outcomes are synthesized with a
// fixed ratio. Nothing about those ratios is a business rule; a production
// deployment uses the directory-backed executor instead.
type Simulator struct {
	tickInterval time.Duration
	logger       *zap.SugaredLogger
}

var _ Runner = (*Simulator)(nil)

// NewSimulator creates a simulator ticking at the given cadence.
func NewSimulator(tickInterval time.Duration, logger *zap.SugaredLogger) *Simulator {
	return &Simulator{
		tickInterval: tickInterval,
		logger:       logger,
	}
}

// Run advances the job by 5-20 percentage points per tick until it reaches
// 100, then synthesizes the result.
func (s *Simulator) Run(ctx context.Context, op *model.Operation, tracker Tracker) (*model.RunOutcome, error) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	progress := 0.0
	for progress < 100 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			progress += 5 + rand.Float64()*15
			if progress > 100 {
				progress = 100
			}
			tracker.Advance(progress)
		}
	}

	targets := op.TargetRefs()
	outcome := &model.RunOutcome{
		PerTargetOutcomes: make([]model.TargetOutcome, 0, len(targets)),
	}

	for _, target := range targets {
		outcome.PerTargetOutcomes = append(outcome.PerTargetOutcomes, s.rollOutcome(target))
	}

	if op.Kind == model.KindExport {
		outcome.Export = s.simulatedExport(op, targets)
	}

	s.logger.Debugw("simulated run finished", "kind", op.Kind, "targets", len(targets))
	return outcome, nil
}

// rollOutcome assigns a synthetic outcome: roughly 95% success, 3% failure,
// 2% skipped.
func (s *Simulator) rollOutcome(target model.TargetRef) model.TargetOutcome {
	outcome := model.TargetOutcome{
		TargetID:    target.ID,
		TargetLabel: target.Label,
	}

	switch roll := rand.Float64(); {
	case roll < 0.95:
		outcome.Outcome = model.OutcomeSuccess
		outcome.Message = "operation completed"
	case roll < 0.98:
		outcome.Outcome = model.OutcomeFailed
		outcome.Message = "operation failed for this user"
	default:
		outcome.Outcome = model.OutcomeSkipped
		outcome.Message = "user skipped"
	}
	return outcome
}

// simulatedExport produces a minimal CSV so the download endpoint works in
// simulate mode.
func (s *Simulator) simulatedExport(op *model.Operation, targets []model.TargetRef) *model.ExportFile {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	_ = writer.Write([]string{"user_id", "label"})
	for _, target := range targets {
		_ = writer.Write([]string{target.ID, target.Label})
	}
	writer.Flush()

	return &model.ExportFile{
		FileName:    fmt.Sprintf("users-export-%d.csv", time.Now().Unix()),
		ContentType: "text/csv",
		Content:     buf.Bytes(),
	}
}
