package core

// WatchedList tracks a list of child items against the list it was loaded
// with, so a repository can persist only what was added or removed.
type WatchedList[T any] struct {
	current []T
	initial []T
	added   []T
	removed []T
	equal   func(a, b T) bool
}

// NewWatchedList builds a list whose initial state is items. equal decides
// whether two items refer to the same child.
func NewWatchedList[T any](items []T, equal func(a, b T) bool) *WatchedList[T] {
	l := &WatchedList[T]{equal: equal}
	l.initial = append(l.initial, items...)
	l.current = append(l.current, items...)
	return l
}

func (l *WatchedList[T]) CurrentItems() []T { return clone(l.current) }

// NewItems returns items present now that were not in the initial list.
func (l *WatchedList[T]) NewItems() []T { return clone(l.added) }

// RemovedItems returns items of the initial list that are no longer present.
func (l *WatchedList[T]) RemovedItems() []T { return clone(l.removed) }

func (l *WatchedList[T]) Exists(item T) bool { return l.contains(l.current, item) }

func (l *WatchedList[T]) Add(item T) {
	if l.Exists(item) {
		return
	}
	l.current = append(l.current, item)
	if l.contains(l.initial, item) {
		l.removed = l.without(l.removed, item)
		return
	}
	l.added = append(l.added, item)
}

func (l *WatchedList[T]) Remove(item T) {
	if !l.Exists(item) {
		return
	}
	l.current = l.without(l.current, item)
	if l.contains(l.initial, item) {
		l.removed = append(l.removed, l.find(l.initial, item))
		return
	}
	l.added = l.without(l.added, item)
}

// Update replaces the current list with items and recomputes the new and
// removed sets against the initial list. Removed items are reported as they
// were loaded, so repositories can delete them by identity.
func (l *WatchedList[T]) Update(items []T) {
	var added, removed []T
	for _, it := range items {
		if !l.contains(l.initial, it) {
			added = append(added, it)
		}
	}
	for _, it := range l.initial {
		if !l.contains(items, it) {
			removed = append(removed, it)
		}
	}
	l.current = clone(items)
	l.added = added
	l.removed = removed
}

// Commit makes the current items the new baseline once they are persisted,
// so a later save does not replay the same additions and removals.
func (l *WatchedList[T]) Commit() {
	l.initial = clone(l.current)
	l.added = nil
	l.removed = nil
}

func (l *WatchedList[T]) contains(list []T, item T) bool {
	for _, it := range list {
		if l.equal(it, item) {
			return true
		}
	}
	return false
}

func (l *WatchedList[T]) find(list []T, item T) T {
	for _, it := range list {
		if l.equal(it, item) {
			return it
		}
	}
	return item
}

func (l *WatchedList[T]) without(list []T, item T) []T {
	out := list[:0:0]
	for _, it := range list {
		if !l.equal(it, item) {
			out = append(out, it)
		}
	}
	return out
}

func clone[T any](list []T) []T {
	out := make([]T, len(list))
	copy(out, list)
	return out
}
