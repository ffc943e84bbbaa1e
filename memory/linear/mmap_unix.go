//go:build unix

package linear

import "golang.org/x/sys/unix"

const canGuard = true

func platformPageSize() int { return unix.Getpagesize() }

// reserveRegion maps size bytes of inaccessible anonymous memory.
func reserveRegion(size int) ([]byte, error) {
	return unix.Mmap(-1, 0, size, unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON)
}

func protectRegion(b []byte) error {
	return unix.Mprotect(b, unix.PROT_READ|unix.PROT_WRITE)
}

func releaseRegion(b []byte) error {
	return unix.Munmap(b)
}
