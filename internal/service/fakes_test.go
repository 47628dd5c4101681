package service

import (
	"bytes"
	"io"
	"sync"
	"syscall"

	"github.com/rs/zerolog"
)

// errServiceExists is ERROR_SERVICE_EXISTS.
const errServiceExists = syscall.Errno(1073)

// syncBuffer is a log sink shared by the work loop and handler goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestLogger() (zerolog.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	return zerolog.New(buf), buf
}

// fakeSupervisor runs the service main function synchronously inside
// Dispatch, the way the SCM does.
type fakeSupervisor struct {
	dispatchErr error
	startArgs   []string
	registerErr error
	failStatus  func(st Status) error

	// onStatus is called after each successful publish while the reporter
	// holds its lock. It must not report status synchronously.
	onStatus func(st Status)

	mu       sync.Mutex
	handler  HandlerFunc
	attempts []Status
	statuses []Status
}

func (f *fakeSupervisor) Dispatch(name string, main MainFunc) error {
	if f.dispatchErr != nil {
		return f.dispatchErr
	}
	main(f.startArgs)
	return nil
}

func (f *fakeSupervisor) RegisterHandler(name string, h HandlerFunc) (Handle, error) {
	if f.registerErr != nil {
		return 0, f.registerErr
	}
	f.mu.Lock()
	f.handler = h
	f.mu.Unlock()
	return Handle(42), nil
}

func (f *fakeSupervisor) SetStatus(h Handle, st Status) error {
	f.mu.Lock()
	f.attempts = append(f.attempts, st)
	f.mu.Unlock()

	if f.failStatus != nil {
		if err := f.failStatus(st); err != nil {
			return err
		}
	}

	f.mu.Lock()
	f.statuses = append(f.statuses, st)
	f.mu.Unlock()

	if f.onStatus != nil {
		f.onStatus(st)
	}
	return nil
}

// control delivers a control request the way the dispatcher thread does.
func (f *fakeSupervisor) control(c Control) {
	f.mu.Lock()
	h := f.handler
	f.mu.Unlock()
	if h != nil {
		h(c)
	}
}

func (f *fakeSupervisor) published() []Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Status(nil), f.statuses...)
}

func (f *fakeSupervisor) attempted() []Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Status(nil), f.attempts...)
}

type registryEntry struct {
	id      Identity
	exePath string
	cfg     ServiceConfig
}

// fakeRegistry records created services and tracks open handles.
type fakeRegistry struct {
	openErr   error
	createErr error

	mu           sync.Mutex
	entries      map[string]registryEntry
	openConns    int
	openServices int
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{entries: make(map[string]registryEntry)}
}

func (r *fakeRegistry) Open() (RegistryConn, error) {
	if r.openErr != nil {
		return nil, r.openErr
	}
	r.mu.Lock()
	r.openConns++
	r.mu.Unlock()
	return &fakeConn{r: r}, nil
}

func (r *fakeRegistry) handles() (conns, services int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.openConns, r.openServices
}

type fakeConn struct {
	r *fakeRegistry
}

func (c *fakeConn) Close() error {
	c.r.mu.Lock()
	defer c.r.mu.Unlock()
	c.r.openConns--
	return nil
}

func (c *fakeConn) CreateService(id Identity, exePath string, cfg ServiceConfig) (io.Closer, error) {
	c.r.mu.Lock()
	defer c.r.mu.Unlock()

	if c.r.createErr != nil {
		return nil, c.r.createErr
	}
	if _, ok := c.r.entries[id.Name()]; ok {
		return nil, errServiceExists
	}
	c.r.entries[id.Name()] = registryEntry{id: id, exePath: exePath, cfg: cfg}
	c.r.openServices++
	return closerFunc(func() error {
		c.r.mu.Lock()
		defer c.r.mu.Unlock()
		c.r.openServices--
		return nil
	}), nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
