//go:build darwin

package file_tools

import (
	"os"
	"syscall"
	"time"
)

// fileTimes returns the access and birth times from the underlying
// stat, falling back to the modification time when unavailable.
func fileTimes(info os.FileInfo) (accessed, created time.Time) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime(), info.ModTime()
	}
	accessed = time.Unix(st.Atimespec.Sec, st.Atimespec.Nsec)
	created = time.Unix(st.Birthtimespec.Sec, st.Birthtimespec.Nsec)
	return accessed, created
}
