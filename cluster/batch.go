// SPDX-License-Identifier: MIT

package cluster

import (
	"context"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/pathogist/matrix"
	"github.com/katalvlaran/pathogist/partition"
)

// Job is one correlation solve of a fan-out.
type Job struct {
	Name      string
	Matrix    *matrix.Dissimilarity
	Threshold float64
}

// Batch collects the outcome of CorrelateAll.
type Batch struct {
	// Partitions holds the successful solves by job name.
	Partitions map[string]*partition.Partition
	// Elapsed records the wall time of every job, failed ones included.
	Elapsed map[string]time.Duration
}

// CorrelateAll runs one Correlation per job on at most workers goroutines
// (workers ≤ 0 means runtime.NumCPU()) and waits for all of them. A failed
// job does not stop the others; failures are returned together as
// *PartialFailure next to a Batch holding every successful partition.
//
// Errors: *PreconditionError (duplicate job names), *PartialFailure.
func CorrelateAll(ctx context.Context, jobs []Job, workers int, opts CorrelationOptions) (*Batch, error) {
	seen := make(map[string]bool, len(jobs))
	for _, j := range jobs {
		if seen[j.Name] {
			return nil, &PreconditionError{Invariant: InvUniqueJobs, Modality: j.Name, Detail: "duplicate job name"}
		}
		seen[j.Name] = true
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var (
		mu     sync.Mutex
		g      errgroup.Group
		batch  = &Batch{Partitions: make(map[string]*partition.Partition, len(jobs)), Elapsed: make(map[string]time.Duration, len(jobs))}
		failed = make(map[string]error)
		log    = opts.logger()
	)
	g.SetLimit(workers)
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			jobOpts := opts
			jobOpts.Logger = log.With(zap.String("modality", j.Name))

			start := time.Now()
			p, err := Correlation(ctx, j.Matrix, j.Threshold, jobOpts)
			elapsed := time.Since(start)

			mu.Lock()
			defer mu.Unlock()
			batch.Elapsed[j.Name] = elapsed
			if err != nil {
				failed[j.Name] = err
				return nil
			}
			batch.Partitions[j.Name] = p

			return nil
		})
	}
	_ = g.Wait() // jobs report through failed

	if len(failed) > 0 {
		return batch, &PartialFailure{Failed: failed}
	}

	return batch, nil
}
