package domain

import "fmt"

// MaxCartKeyLen bounds the session key a cart is stored under.
const MaxCartKeyLen = 128

// ValidateCartKey accepts 1-128 characters from [A-Za-z0-9._-].
func ValidateCartKey(key string) error {
	if key == "" || len(key) > MaxCartKeyLen {
		return fmt.Errorf("%w: length must be 1-%d", ErrInvalidCartKey, MaxCartKeyLen)
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
		default:
			return fmt.Errorf("%w: unexpected character %q", ErrInvalidCartKey, r)
		}
	}
	return nil
}
