package value

// HashString computes the FNV-1a 32-bit hash of s, the string-identity
// hash the interner and every Table keyed by ObjString rely on. This
// snapshot of original_source/object.c predates string hashing (its
// ObjString has no Hash field), so the algorithm is taken from spec.md's
// §4.2, which names FNV-1a explicitly.
func HashString(s string) uint32 {
	var hash uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		hash ^= uint32(s[i])
		hash *= 16777619
	}
	return hash
}
