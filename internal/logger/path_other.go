//go:build !windows
// +build !windows

package logger

import (
	"os"
	"path/filepath"
)

func defaultLogPath() string {
	return filepath.Join(os.TempDir(), "mysvc.log")
}
