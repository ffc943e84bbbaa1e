package wasip1

import "strconv"

// Errno is a WASI Preview 1 error number, returned to the guest as i32.
type Errno uint16

const (
	ESUCCESS     Errno = 0
	E2BIG        Errno = 1
	EACCES       Errno = 2
	EBADF        Errno = 8
	EFAULT       Errno = 21
	EINVAL       Errno = 28
	EIO          Errno = 29
	ENAMETOOLONG Errno = 37
	ENOENT       Errno = 44
	ENOSYS       Errno = 52
	ENOTDIR      Errno = 54
	ENOTSUP      Errno = 58
	EOVERFLOW    Errno = 61
)

var errnoNames = map[Errno]string{
	ESUCCESS:     "ESUCCESS",
	E2BIG:        "E2BIG",
	EACCES:       "EACCES",
	EBADF:        "EBADF",
	EFAULT:       "EFAULT",
	EINVAL:       "EINVAL",
	EIO:          "EIO",
	ENAMETOOLONG: "ENAMETOOLONG",
	ENOENT:       "ENOENT",
	ENOSYS:       "ENOSYS",
	ENOTDIR:      "ENOTDIR",
	ENOTSUP:      "ENOTSUP",
	EOVERFLOW:    "EOVERFLOW",
}

func (e Errno) String() string {
	if name, ok := errnoNames[e]; ok {
		return name
	}
	return "errno(" + strconv.FormatUint(uint64(e), 10) + ")"
}

// Error lets an Errno travel as a Go error on the host side.
func (e Errno) Error() string { return e.String() }
