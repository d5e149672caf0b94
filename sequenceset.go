package imapsrv

import "sort"

// largestSequenceNumber is the sentinel expectSequenceNumber returns for
// a bare "*" (seq-number's wildcard alternative). It is resolved against
// the folder size or left as an out-of-range UID by resolveSequenceSet,
// never compared as a real message number.
const largestSequenceNumber int32 = 1<<31 - 1

// sequenceRange is one "seq-number" or "seq-number:seq-number" item out
// of a parsed sequence-set (§4.1/§4.2). end is nil for a bare number.
type sequenceRange struct {
	start int32
	end   *int32
}

// resolveMode selects which of §4.2's two resolution semantics applies:
// sequenceMode clamps to the folder's current size, uidMode does not.
type resolveMode int

const (
	sequenceMode resolveMode = iota
	uidMode
)

// resolveSequenceSet expands a parsed sequence-set into a sorted,
// duplicate-free list of identifiers (§4.2). In sequenceMode, "*" maps
// to n and results are clamped to [1, n]; an empty folder (n == 0)
// always resolves to the empty list. In uidMode, numbers pass through
// unclamped and a bare "*" or a range with a "*" endpoint contributes
// nothing (the UID FETCH n:* special case is handled by its command,
// not by this general resolver).
func resolveSequenceSet(set []sequenceRange, n int, mode resolveMode) []uint64 {
	seen := make(map[uint64]bool)
	var out []uint64
	add := func(v uint64) {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}

	for _, item := range set {
		if item.end == nil {
			resolveSingle(item.start, n, mode, add)
			continue
		}
		resolveRange(item.start, *item.end, n, mode, add)
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func resolveSingle(v int32, n int, mode resolveMode, add func(uint64)) {
	if v == largestSequenceNumber {
		if mode == sequenceMode && n > 0 {
			add(uint64(n))
		}
		return
	}
	if mode == sequenceMode {
		if v >= 1 && v <= int32(n) {
			add(uint64(v))
		}
		return
	}
	add(uint64(v))
}

func resolveRange(a, b int32, n int, mode resolveMode, add func(uint64)) {
	if mode == uidMode {
		if a == largestSequenceNumber || b == largestSequenceNumber {
			return
		}
		if a > b {
			a, b = b, a
		}
		for v := a; v <= b; v++ {
			add(uint64(v))
		}
		return
	}

	if a == largestSequenceNumber {
		a = int32(n)
	}
	if b == largestSequenceNumber {
		b = int32(n)
	}
	if a > b {
		a, b = b, a
	}
	if a < 1 {
		a = 1
	}
	if b > int32(n) {
		b = int32(n)
	}
	for v := a; v <= b; v++ {
		add(uint64(v))
	}
}
