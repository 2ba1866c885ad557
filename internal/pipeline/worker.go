package pipeline

import (
	"context"
	"log/slog"
)

// Worker processes one cache-build job at a time: each document reference
// is resolved, extracted, normalized, and written through the cache.
type Worker struct {
	builder *Builder
	log     *slog.Logger
}

func NewWorker(builder *Builder, log *slog.Logger) *Worker {
	return &Worker{builder: builder, log: log}
}

// Process builds every document in the job. Per-document failures are
// recorded as results, not aborts: a batch can partially succeed.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID)
	job.SetStatus(StatusBuilding)

	failed := 0
	for _, ref := range job.Documents {
		select {
		case <-ctx.Done():
			job.SetStatus(StatusFailed)
			return
		default:
		}

		doc, err := w.builder.Build(ctx, ref, job.Force)
		if err != nil {
			log.Error("build failed", "document", ref, "error", err)
			job.AddResult(DocResult{Document: ref, Status: "failed", Error: err.Error()})
			failed++
			continue
		}
		log.Info("cached", "document", ref, "id", doc.ID)
		job.AddResult(DocResult{Document: ref, ID: doc.ID, Status: "cached"})
	}

	switch {
	case failed == 0:
		job.SetStatus(StatusCompleted)
	case failed == len(job.Documents):
		job.SetStatus(StatusFailed)
	default:
		job.SetStatus(StatusPartial)
	}
}
