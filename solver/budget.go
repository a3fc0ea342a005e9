// SPDX-License-Identifier: MIT

package solver

import (
	"context"
	"time"
)

// checkMask spaces out clock reads: one real check per 4096 ticks.
const checkMask = 4095

// budget combines Options.TimeLimit with a context. Once exhausted it stays
// exhausted and err holds the cause.
type budget struct {
	ctx      context.Context
	deadline time.Time
	limited  bool
	steps    int
	err      error
}

func newBudget(ctx context.Context, limit time.Duration) *budget {
	if ctx == nil {
		ctx = context.Background()
	}
	b := &budget{ctx: ctx}
	if limit > 0 {
		b.limited = true
		b.deadline = time.Now().Add(limit)
	}

	return b
}

// check reads the clock and the context now.
func (b *budget) check() bool {
	if b.err != nil {
		return true
	}
	if err := b.ctx.Err(); err != nil {
		b.err = err
		return true
	}
	if b.limited && time.Now().After(b.deadline) {
		b.err = context.DeadlineExceeded
		return true
	}

	return false
}

// tick is the hot-loop variant: the first call and every 4096th call check.
func (b *budget) tick() bool {
	b.steps++
	if b.err != nil {
		return true
	}
	if (b.steps-1)&checkMask != 0 {
		return false
	}

	return b.check()
}

// expired reports whether the budget ran out at some earlier check.
func (b *budget) expired() bool { return b.err != nil }
