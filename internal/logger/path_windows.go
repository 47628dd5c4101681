//go:build windows
// +build windows

package logger

func defaultLogPath() string {
	return `C:\Windows\Temp\mysvc.log`
}
