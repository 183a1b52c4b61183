package in_memory

import (
	"sync/atomic"
	"time"
)

const dayLayout = "2006-01-02"

type quotaState struct {
	day   string
	count int
}

// QuotaStorage counts photo searches per calendar day. The day and the count live in one immutable value
// swapped with compare-and-swap, so a rollover and an increment can never interleave.
type QuotaStorage struct {
	state atomic.Pointer[quotaState]
	limit int
	now   func() time.Time
}

func NewQuotaStorage(limit int) *QuotaStorage {
	return newQuotaStorage(limit, time.Now)
}

func newQuotaStorage(limit int, now func() time.Time) *QuotaStorage {
	q := &QuotaStorage{
		limit: limit,
		now:   now,
	}
	q.state.Store(&quotaState{day: now().Format(dayLayout)})
	return q
}

// TryConsume takes one search from today's quota. It returns false when the quota is used up.
func (q *QuotaStorage) TryConsume() bool {
	today := q.now().Format(dayLayout)
	for {
		current := q.state.Load()
		count := current.count
		if current.day != today {
			count = 0
		}
		if count >= q.limit {
			if current.day != today && !q.state.CompareAndSwap(current, &quotaState{day: today}) {
				continue
			}
			return false
		}
		if q.state.CompareAndSwap(current, &quotaState{day: today, count: count + 1}) {
			return true
		}
	}
}

// Count returns the number of searches made today.
func (q *QuotaStorage) Count() int {
	current := q.state.Load()
	if current.day != q.now().Format(dayLayout) {
		return 0
	}
	return current.count
}
