package ecs

import (
	"fmt"

	"github.com/milk9111/tilepath/ecs/component"
)

func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	if !IsAlive(w, e) {
		return fmt.Errorf("%w: %s", component.ErrEntityNotAlive, e)
	}
	w.store(kind.ID(), true).Set(e.id(), value)
	return nil
}

func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if !IsAlive(w, e) {
		return nil, false
	}
	v, ok := w.store(kind.ID(), false).Get(e.id()).(*T)
	return v, ok
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	return IsAlive(w, e) && w.store(kind.ID(), false).Has(e.id())
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if !IsAlive(w, e) {
		return false
	}
	return w.store(kind.ID(), false).Remove(e.id())
}

// First returns the first live entity carrying kind.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, bool) {
	if w == nil {
		return 0, false
	}
	s := w.store(kind.ID(), false)
	if s == nil {
		return 0, false
	}
	for _, id := range s.denseIDs {
		if e, ok := w.entities.resolve(id); ok {
			return e, true
		}
	}
	return 0, false
}

func ForEach[A any](w *World, ka component.ComponentKind[A], fn func(Entity, *A)) {
	if w == nil {
		return
	}
	sa := w.store(ka.ID(), false)
	for _, id := range sa.ids() {
		e, ok := w.entities.resolve(id)
		if !ok {
			continue
		}
		a, ok := sa.Get(id).(*A)
		if !ok {
			continue
		}
		fn(e, a)
	}
}

func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	if w == nil {
		return
	}
	sa, sb := w.store(ka.ID(), false), w.store(kb.ID(), false)
	if sa == nil || sb == nil {
		return
	}
	for _, id := range intersect(sa, sb) {
		e, ok := w.entities.resolve(id)
		if !ok {
			continue
		}
		a, okA := sa.Get(id).(*A)
		b, okB := sb.Get(id).(*B)
		if okA && okB {
			fn(e, a, b)
		}
	}
}

func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	if w == nil {
		return
	}
	sa, sb, sc := w.store(ka.ID(), false), w.store(kb.ID(), false), w.store(kc.ID(), false)
	if sa == nil || sb == nil || sc == nil {
		return
	}
	for _, id := range intersect(sa, sb) {
		if !sc.Has(id) {
			continue
		}
		e, ok := w.entities.resolve(id)
		if !ok {
			continue
		}
		a, okA := sa.Get(id).(*A)
		b, okB := sb.Get(id).(*B)
		c, okC := sc.Get(id).(*C)
		if okA && okB && okC {
			fn(e, a, b, c)
		}
	}
}

// intersect returns ids present in both sets, iterating the smaller one.
func intersect(a, b *SparseSet) []entityID {
	if a.Len() > b.Len() {
		a, b = b, a
	}
	out := make([]entityID, 0, a.Len())
	for _, id := range a.denseIDs {
		if b.Has(id) {
			out = append(out, id)
		}
	}
	return out
}
