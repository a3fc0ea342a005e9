// SPDX-License-Identifier: MIT

package cluster

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/multierr"
)

// ErrPrecondition is matched by every *PreconditionError.
var ErrPrecondition = errors.New("cluster: precondition violated")

// Invariant names carried by PreconditionError.
const (
	InvPartitionsPresent = "partitions_present"
	InvIdenticalSamples  = "identical_samples"
	InvFineKnown         = "fine_known"
	InvWeightKnown       = "weight_known"
	InvWeightPositive    = "weight_positive"
	InvLinksKnown        = "links_known"
	InvSampleCovered     = "sample_covered"
	InvUniqueJobs        = "unique_jobs"
	InvInputPresent      = "input_present"
)

// PreconditionError is a fatal violation of an input invariant.
type PreconditionError struct {
	Invariant string
	Modality  string
	Detail    string
}

// Error implements error.
func (e *PreconditionError) Error() string {
	var b strings.Builder
	b.WriteString("cluster: precondition ")
	b.WriteString(e.Invariant)
	if e.Modality != "" {
		fmt.Fprintf(&b, " (modality %q)", e.Modality)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	return b.String()
}

// Unwrap exposes ErrPrecondition to errors.Is.
func (e *PreconditionError) Unwrap() error { return ErrPrecondition }

// PartialFailure reports the modalities whose solve failed in a fan-out;
// the other modalities' partitions are still returned.
type PartialFailure struct {
	Failed map[string]error
}

// names returns the failed modality names, sorted.
func (e *PartialFailure) names() []string {
	out := make([]string, 0, len(e.Failed))
	for name := range e.Failed {
		out = append(out, name)
	}
	sort.Strings(out)

	return out
}

// combined aggregates the failures in name order.
func (e *PartialFailure) combined() error {
	var err error
	for _, name := range e.names() {
		err = multierr.Append(err, fmt.Errorf("%s: %w", name, e.Failed[name]))
	}

	return err
}

// Error implements error.
func (e *PartialFailure) Error() string {
	return fmt.Sprintf("cluster: %d modalities failed: %v", len(e.Failed), e.combined())
}

// Unwrap exposes every per-modality error to errors.Is and errors.As.
func (e *PartialFailure) Unwrap() []error { return multierr.Errors(e.combined()) }
