package service

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/process"
)

// withProcessInfo adds the process and its parent to a log event. A service
// started by the supervisor has services.exe as its parent, which makes the
// start line useful when reading mixed logs.
func withProcessInfo(evt *zerolog.Event) *zerolog.Event {
	pid := os.Getpid()
	evt = evt.Int("pid", pid)

	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return evt
	}
	ppid, err := p.Ppid()
	if err != nil {
		return evt
	}
	evt = evt.Int32("ppid", ppid)

	parent, err := process.NewProcess(ppid)
	if err != nil {
		return evt
	}
	if name, err := parent.Name(); err == nil {
		evt = evt.Str("parent", name)
	}
	return evt
}
