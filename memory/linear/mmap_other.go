//go:build !unix

package linear

import "os"

// Without mmap the reservation is a heap buffer and every access is checked.
const canGuard = false

func platformPageSize() int { return os.Getpagesize() }

func reserveRegion(size int) ([]byte, error) { return make([]byte, size), nil }

func protectRegion([]byte) error { return nil }

func releaseRegion([]byte) error { return nil }
