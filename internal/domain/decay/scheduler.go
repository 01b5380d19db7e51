package decay

import (
	"container/heap"
	"time"

	"mapstate/internal/domain/world"
)

// World is the part of the item arena the scheduler drives.
type World interface {
	Item(id world.ItemID) (*world.Item, bool)
	TransformItem(item *world.Item, typeID uint16) *world.Item
	RemoveItem(item *world.Item)
}

// Scheduler keeps decaying items bucketed by the millisecond tick they are
// due at. Items are referenced by handle: an item removed from the world
// while scheduled is skipped when its bucket is swept.
type Scheduler struct {
	world World
	now   func() time.Time

	buckets map[int64][]world.ItemID
	ticks   tickHeap
	index   map[world.ItemID]int64
}

func NewScheduler(w World, now func() time.Time) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		world:   w,
		now:     now,
		buckets: make(map[int64][]world.ItemID),
		index:   make(map[world.ItemID]int64),
	}
}

// StartDecay schedules item for its next decay step. A stored remaining
// duration wins over the type's decay time; a non-positive one steps the
// item right away. Items whose type does not decay lose any stale decay
// attributes and stay unscheduled.
func (s *Scheduler) StartDecay(item *world.Item) {
	if item == nil || item.ID() == 0 {
		return
	}
	attrs := item.Attributes()
	typ := item.Type()
	if !typ.CanDecay() {
		s.CancelDecay(item)
		attrs.Remove(world.AttrDuration)
		attrs.Remove(world.AttrDecayingState)
		return
	}
	remaining, hasRemaining := attrs.Int(world.AttrDuration)
	if hasRemaining && remaining <= 0 {
		s.CancelDecay(item)
		s.step(item)
		return
	}

	d := typ.DecayTime
	if hasRemaining {
		d = time.Duration(remaining) * time.Millisecond
	}
	s.unschedule(item.ID())
	tick := s.now().Add(d).UnixMilli()
	if _, ok := s.buckets[tick]; !ok {
		heap.Push(&s.ticks, tick)
	}
	s.buckets[tick] = append(s.buckets[tick], item.ID())
	s.index[item.ID()] = tick
	attrs.SetInt(world.AttrDecayingState, 1)
}

// CancelDecay drops the item from the schedule without touching its
// attributes.
func (s *Scheduler) CancelDecay(item *world.Item) {
	if item == nil {
		return
	}
	s.unschedule(item.ID())
}

// StopDecay pauses decay and records the time left in the duration
// attribute so a later StartDecay resumes where it stopped.
func (s *Scheduler) StopDecay(item *world.Item) {
	if item == nil {
		return
	}
	tick, ok := s.index[item.ID()]
	if !ok {
		return
	}
	s.unschedule(item.ID())
	left := tick - s.now().UnixMilli()
	if left < 0 {
		left = 0
	}
	item.Attributes().SetInt(world.AttrDuration, left)
	item.Attributes().Remove(world.AttrDecayingState)
}

// Sweep advances every item due at or before now by one decay step and
// reports how many items stepped.
func (s *Scheduler) Sweep(now time.Time) int {
	limit := now.UnixMilli()
	var due []world.ItemID
	for s.ticks.Len() > 0 && s.ticks[0] <= limit {
		tick := heap.Pop(&s.ticks).(int64)
		for _, id := range s.buckets[tick] {
			if s.index[id] == tick {
				delete(s.index, id)
				due = append(due, id)
			}
		}
		delete(s.buckets, tick)
	}

	stepped := 0
	for _, id := range due {
		item, ok := s.world.Item(id)
		if !ok {
			continue
		}
		s.step(item)
		stepped++
	}
	return stepped
}

func (s *Scheduler) step(item *world.Item) {
	attrs := item.Attributes()
	attrs.Remove(world.AttrDuration)
	attrs.Remove(world.AttrDecayingState)
	next := item.Type().DecayTo
	if next == 0 {
		s.world.RemoveItem(item)
		return
	}
	s.world.TransformItem(item, next)
}

// Scheduled returns the tick an item is due at.
func (s *Scheduler) Scheduled(id world.ItemID) (time.Time, bool) {
	tick, ok := s.index[id]
	if !ok {
		return time.Time{}, false
	}
	return time.UnixMilli(tick), true
}

func (s *Scheduler) Len() int {
	return len(s.index)
}

// NextTick returns the earliest pending tick.
func (s *Scheduler) NextTick() (time.Time, bool) {
	for s.ticks.Len() > 0 {
		tick := s.ticks[0]
		if len(s.buckets[tick]) > 0 {
			return time.UnixMilli(tick), true
		}
		heap.Pop(&s.ticks)
		delete(s.buckets, tick)
	}
	return time.Time{}, false
}

func (s *Scheduler) unschedule(id world.ItemID) {
	tick, ok := s.index[id]
	if !ok {
		return
	}
	delete(s.index, id)
	bucket := s.buckets[tick]
	for i, other := range bucket {
		if other == id {
			bucket = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	// the tick stays on the heap; Sweep and NextTick skip missing buckets
	if len(bucket) == 0 {
		delete(s.buckets, tick)
		return
	}
	s.buckets[tick] = bucket
}

type tickHeap []int64

func (h tickHeap) Len() int           { return len(h) }
func (h tickHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h tickHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *tickHeap) Push(x any) {
	*h = append(*h, x.(int64))
}

func (h *tickHeap) Pop() any {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}
