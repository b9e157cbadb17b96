package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"talent-match/internal/batch"
)

type BatchFailure struct {
	ID    uuid.UUID `json:"id"`
	Error string    `json:"error"`
}

// BatchSummary is the per-batch outcome: individual failures are recorded
// and the batch keeps going, so one bad opportunity never aborts a
// nightly re-match run.
type BatchSummary struct {
	Total     int            `json:"total"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Skipped   int            `json:"skipped"`
	Failures  []BatchFailure `json:"failures,omitempty"`
}

// RematchOpportunities recomputes matches for a set of opportunities in
// fixed-size groups with bounded parallelism inside each group and a
// pause between groups, protecting the retrieval backend and rate-limited
// collaborators. Cancellation skips undispatched items; in-flight items
// finish.
func (u *Matching) RematchOpportunities(ctx context.Context, ids []uuid.UUID, intent Intent) (BatchSummary, error) {
	summary := BatchSummary{Total: len(ids)}
	if len(ids) == 0 {
		return summary, nil
	}

	groups := chunkIDs(ids, u.cfg.BatchGroupSize)
	for gi, group := range groups {
		if ctx.Err() != nil {
			for _, rest := range groups[gi:] {
				summary.Skipped += len(rest)
			}
			break
		}
		if gi > 0 && u.cfg.BatchGroupDelay > 0 {
			select {
			case <-ctx.Done():
				for _, rest := range groups[gi:] {
					summary.Skipped += len(rest)
				}
				return summary, nil
			case <-time.After(u.cfg.BatchGroupDelay):
			}
		}

		pool := batch.NewPool(u.cfg.BatchParallelism, len(group))
		for _, id := range group {
			id := id
			pool.Submit(batch.Task{ID: id, Fn: func(ctx context.Context) error {
				return u.rematchOne(ctx, id, intent)
			}})
		}
		pool.Close()

		seen := make(map[uuid.UUID]struct{}, len(group))
		for res := range pool.Run(ctx) {
			seen[res.ID] = struct{}{}
			if res.Err != nil {
				summary.Failed++
				summary.Failures = append(summary.Failures, BatchFailure{ID: res.ID, Error: res.Err.Error()})
				continue
			}
			summary.Succeeded++
		}
		// Items never dispatched before cancellation have no result.
		summary.Skipped += len(group) - len(seen)
	}

	if u.logger != nil {
		u.logger.Info("batch rematch finished",
			zap.Int("total", summary.Total),
			zap.Int("succeeded", summary.Succeeded),
			zap.Int("failed", summary.Failed),
			zap.Int("skipped", summary.Skipped),
		)
	}
	return summary, nil
}

// rematchOne drops the cached list first so the pipeline recomputes
// against current data instead of serving the stale entry.
func (u *Matching) rematchOne(ctx context.Context, id uuid.UUID, intent Intent) error {
	if err := u.cache.Invalidate(ctx, id); err != nil {
		u.logError("invalidate before rematch", err, zap.Stringer("opportunity_id", id))
	}
	_, err := u.FindCandidatesForOpportunity(ctx, id, MatchOptions{Intent: intent})
	return err
}

func chunkIDs(ids []uuid.UUID, size int) [][]uuid.UUID {
	if size <= 0 {
		size = 1
	}
	out := make([][]uuid.UUID, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		out = append(out, ids[start:end])
	}
	return out
}
