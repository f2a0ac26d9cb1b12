//go:build !linux && !darwin

package file_tools

import (
	"os"
	"time"
)

// fileTimes falls back to the modification time on platforms where the
// raw stat fields are not portable.
func fileTimes(info os.FileInfo) (accessed, created time.Time) {
	return info.ModTime(), info.ModTime()
}
