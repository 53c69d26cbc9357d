package store

import (
	"encoding/json"

	"github.com/mamadbah2/smartbell/internal/domain/models"
)

// RecentCapacity is the number of production records kept in the recent view.
const RecentCapacity = 10

// RecentProductions is a fixed-capacity ring of production records ordered
// newest-first. It is a value type: Push returns a new ring and never touches
// the receiver, so a State holding one stays immutable.
type RecentProductions struct {
	buf  [RecentCapacity]models.Production
	head int // index of the newest record
	size int
}

// NewRecentProductions builds a ring from a newest-first list, keeping at most
// RecentCapacity records from its head.
func NewRecentProductions(newestFirst []models.Production) RecentProductions {
	var r RecentProductions
	n := len(newestFirst)
	if n > RecentCapacity {
		n = RecentCapacity
	}
	// Push oldest first so the head of the list ends up newest.
	for i := n - 1; i >= 0; i-- {
		r = r.Push(newestFirst[i])
	}
	return r
}

// Push returns a ring with p as the newest record. When full, the oldest record is dropped.
func (r RecentProductions) Push(p models.Production) RecentProductions {
	r.head = (r.head - 1 + RecentCapacity) % RecentCapacity
	r.buf[r.head] = p
	if r.size < RecentCapacity {
		r.size++
	}
	return r
}

// Len returns the number of records held.
func (r RecentProductions) Len() int {
	return r.size
}

// Items returns the records newest-first in a fresh slice.
func (r RecentProductions) Items() []models.Production {
	out := make([]models.Production, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.buf[(r.head+i)%RecentCapacity]
	}
	return out
}

// MarshalJSON encodes the ring as a newest-first array.
func (r RecentProductions) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Items())
}

// UnmarshalJSON decodes a newest-first array.
func (r *RecentProductions) UnmarshalJSON(data []byte) error {
	var items []models.Production
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*r = NewRecentProductions(items)
	return nil
}
