// SPDX-License-Identifier: MIT

package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfig is matched by every *ConfigError.
var ErrConfig = errors.New("pipeline: invalid configuration")

// Invariant names carried by ConfigError.
const (
	InvParse               = "parse"
	InvSchema              = "schema"
	InvDisjoint            = "distances_genotyping_disjoint"
	InvThresholdsCover     = "thresholds_cover_modalities"
	InvFineSubset          = "fine_subset_of_modalities"
	InvGenotypingKindKnown = "genotyping_kind_known"
	InvWeightsSubset       = "weights_subset_of_modalities"
	InvAtLeastOneModality  = "at_least_one_modality"
)

// ConfigError reports a configuration that cannot be run.
type ConfigError struct {
	Invariant string
	// Keys lists the offending keys or fields, sorted.
	Keys []string
	Err  error
}

// Error implements error.
func (e *ConfigError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "pipeline: config %s", e.Invariant)
	if len(e.Keys) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(e.Keys, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}

	return b.String()
}

// Is matches ErrConfig.
func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// Unwrap exposes the cause.
func (e *ConfigError) Unwrap() error { return e.Err }
