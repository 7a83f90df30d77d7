package collide

// CollisionGroups is the three-bitfield membership/whitelist/blacklist filter
// spec.md §3/§6 describes. No teacher analogue (feather has no notion of
// collision layers at all); built directly from the spec's bit-layout
// description since nothing in the pack implements this scheme either.
//
// 30 bits of each field are usable (group indices 0-29); bit 31 of Whitelist
// is reserved as the self-interaction flag, and bit 30 of every field is
// unused padding (spec.md §6: "groups 30-30 are disallowed").
type CollisionGroups struct {
	Membership uint32
	Whitelist  uint32
	Blacklist  uint32
}

// GroupMask covers the 30 usable group bits (indices 0-29) of any field.
const GroupMask uint32 = (1 << 30) - 1

// SelfInteractionBit is bit 31 of Whitelist: set it to let an object interact
// with another object using the very same handle.
const SelfInteractionBit uint32 = 1 << 31

// DefaultGroups returns a CollisionGroups that belongs to group 0 and
// interacts with every other group, matching the "accept everything until
// told otherwise" default most rigid-body engines ship.
func DefaultGroups() CollisionGroups {
	return CollisionGroups{Membership: 1, Whitelist: GroupMask, Blacklist: 0}
}

// WithGroup returns g with membership bit index set (0-29); out-of-range
// indices are ignored rather than panicking, per spec.md §7's "total
// functions" design.
func (g CollisionGroups) WithGroup(index uint) CollisionGroups {
	if index < 30 {
		g.Membership |= 1 << index
	}
	return g
}

// WithWhitelist returns g with whitelist bit index set.
func (g CollisionGroups) WithWhitelist(index uint) CollisionGroups {
	if index < 30 {
		g.Whitelist |= 1 << index
	}
	return g
}

// WithBlacklist returns g with blacklist bit index set.
func (g CollisionGroups) WithBlacklist(index uint) CollisionGroups {
	if index < 30 {
		g.Blacklist |= 1 << index
	}
	return g
}

// WithSelfInteraction returns g with the self-interaction bit toggled.
func (g CollisionGroups) WithSelfInteraction(enabled bool) CollisionGroups {
	if enabled {
		g.Whitelist |= SelfInteractionBit
	} else {
		g.Whitelist &^= SelfInteractionBit
	}
	return g
}

// CanSelfInteract reports whether g allows an object to interact with
// another object sharing its own handle.
func (g CollisionGroups) CanSelfInteract() bool {
	return g.Whitelist&SelfInteractionBit != 0
}

// CanInteract implements spec.md §3's four-clause symmetric test:
//
//	(a.membership & b.blacklist == 0) ∧ (b.membership & a.blacklist == 0) ∧
//	(a.membership & b.whitelist ≠ 0) ∧ (b.membership & a.whitelist ≠ 0)
//
// Symmetric by construction (spec.md §8's "collision groups symmetry"
// testable property): swapping a and b swaps the four clauses pairwise.
func (a CollisionGroups) CanInteract(b CollisionGroups) bool {
	if a.Membership&b.Blacklist&GroupMask != 0 {
		return false
	}
	if b.Membership&a.Blacklist&GroupMask != 0 {
		return false
	}
	if a.Membership&b.Whitelist&GroupMask == 0 {
		return false
	}
	if b.Membership&a.Whitelist&GroupMask == 0 {
		return false
	}
	return true
}
