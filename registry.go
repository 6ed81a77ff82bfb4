package touchtable

import "sort"

// Owner is anything that can hold finger claims. Recognizers pass themselves.
type Owner interface {
	Name() string
}

// Registry maps finger identifiers to the single recognizer that owns them.
// One Registry is shared by every recognizer in an Engine; it is the only
// arbitration point between competing gestures.
//
// Registry is not safe for concurrent use; the engine is single-threaded.
type Registry struct {
	owners map[int]Owner
	order  []int // claim order, for deterministic Owned results

	claims    uint64
	conflicts uint64
	releases  uint64

	onConflict func(fingerID int, holder, challenger Owner)
}

// RegistryStats is a snapshot of the registry counters.
type RegistryStats struct {
	Claims    uint64 // successful first-time claims
	Conflicts uint64 // claims refused because another owner held the finger
	Releases  uint64 // claims removed
	Active    int    // fingers currently owned
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{owners: make(map[int]Owner)}
}

// TryClaim gives fingerID to owner. It succeeds when the finger is free or
// already held by the same owner, and fails without side effects otherwise.
func (r *Registry) TryClaim(fingerID int, owner Owner) bool {
	if owner == nil {
		return false
	}
	if cur, ok := r.owners[fingerID]; ok {
		if cur == owner {
			return true
		}
		r.conflicts++
		if r.onConflict != nil {
			r.onConflict(fingerID, cur, owner)
		}
		return false
	}
	r.owners[fingerID] = owner
	r.order = append(r.order, fingerID)
	r.claims++
	if debugEnabled() {
		l := componentLog("registry")
		l.Debug().Int("finger", fingerID).Str("owner", owner.Name()).Msg("claim")
	}
	return true
}

// Release frees fingerID if owner currently holds it. A stale owner releasing
// a finger it no longer holds is a no-op.
func (r *Registry) Release(fingerID int, owner Owner) {
	if cur, ok := r.owners[fingerID]; !ok || cur != owner {
		return
	}
	r.remove(fingerID)
	if debugEnabled() {
		l := componentLog("registry")
		l.Debug().Int("finger", fingerID).Str("owner", owner.Name()).Msg("release")
	}
}

// ReleaseAll frees every finger held by owner and returns how many were freed.
func (r *Registry) ReleaseAll(owner Owner) int {
	n := 0
	for _, id := range r.Owned(owner) {
		r.remove(id)
		n++
	}
	return n
}

// Owner returns the current owner of fingerID, or nil.
func (r *Registry) Owner(fingerID int) Owner {
	return r.owners[fingerID]
}

// IsOwnedBy reports whether owner holds fingerID.
func (r *Registry) IsOwnedBy(fingerID int, owner Owner) bool {
	cur, ok := r.owners[fingerID]
	return ok && cur == owner
}

// Owned returns the fingers held by owner in claim order.
func (r *Registry) Owned(owner Owner) []int {
	var ids []int
	for _, id := range r.order {
		if r.owners[id] == owner {
			ids = append(ids, id)
		}
	}
	return ids
}

// Len returns how many fingers are currently owned.
func (r *Registry) Len() int { return len(r.owners) }

// Stats returns a snapshot of the registry counters.
func (r *Registry) Stats() RegistryStats {
	return RegistryStats{
		Claims:    r.claims,
		Conflicts: r.conflicts,
		Releases:  r.releases,
		Active:    len(r.owners),
	}
}

// OwnedFingers returns every owned finger id in ascending order.
func (r *Registry) OwnedFingers() []int {
	ids := make([]int, 0, len(r.owners))
	for id := range r.owners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// OnConflict registers fn to be called whenever a claim is refused.
func (r *Registry) OnConflict(fn func(fingerID int, holder, challenger Owner)) {
	r.onConflict = fn
}

func (r *Registry) remove(fingerID int) {
	delete(r.owners, fingerID)
	for i, id := range r.order {
		if id == fingerID {
			copy(r.order[i:], r.order[i+1:])
			r.order = r.order[:len(r.order)-1]
			break
		}
	}
	r.releases++
}
