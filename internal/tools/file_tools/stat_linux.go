//go:build linux

package file_tools

import (
	"os"
	"syscall"
	"time"
)

// fileTimes returns the access and change times from the underlying
// stat, falling back to the modification time when unavailable.
func fileTimes(info os.FileInfo) (accessed, created time.Time) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime(), info.ModTime()
	}
	accessed = time.Unix(st.Atim.Sec, st.Atim.Nsec)
	created = time.Unix(st.Ctim.Sec, st.Ctim.Nsec)
	return accessed, created
}
