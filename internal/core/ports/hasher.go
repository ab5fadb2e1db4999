package ports

// PasswordHasher abstracts one-way credential hashing so the services stay
// independent of the concrete algorithm and its cost factor.
type PasswordHasher interface {
	// Hash produces a salted one-way hash of the plaintext.
	Hash(plaintext string) (string, error)

	// Compare reports whether plaintext matches hash. Implementations must
	// compare in constant time.
	Compare(hash, plaintext string) bool
}
