package attrsync

import (
	"context"
	"strings"
	"sync"
)

// fakeBackend is an in-memory FHEM that records every request
type fakeBackend struct {
	mu       sync.Mutex
	requests []string
	attrs    map[string]string
	readings map[string]string
	devices  map[string]int
	err      error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		attrs:    make(map[string]string),
		readings: make(map[string]string),
		devices:  make(map[string]int),
	}
}

func (f *fakeBackend) record(req string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.err
}

func (f *fakeBackend) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

// Commands returns the recorded requests that change FHEM state
func (f *fakeBackend) Commands() []string {
	var cmds []string
	for _, r := range f.Requests() {
		if !strings.HasPrefix(r, "jsonlist2 ") {
			cmds = append(cmds, r)
		}
	}
	return cmds
}

func (f *fakeBackend) SetAttr(_ context.Context, device, name, value string) error {
	if err := f.record("attr " + device + " " + name + " " + value); err != nil {
		return err
	}
	f.mu.Lock()
	f.attrs[device+"."+name] = value
	f.mu.Unlock()
	return nil
}

func (f *fakeBackend) DeleteAttr(_ context.Context, device, name string) error {
	if err := f.record("deleteattr " + device + " " + name); err != nil {
		return err
	}
	f.mu.Lock()
	delete(f.attrs, device+"."+name)
	f.mu.Unlock()
	return nil
}

func (f *fakeBackend) Set(_ context.Context, device string, args ...string) error {
	return f.record(strings.TrimSpace("set " + device + " " + strings.Join(args, " ")))
}

func (f *fakeBackend) Reading(_ context.Context, device, reading string) (string, bool, error) {
	if err := f.record("jsonlist2 " + device + " " + reading); err != nil {
		return "", false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.readings[device+"."+reading]
	return v, ok, nil
}

func (f *fakeBackend) Attribute(_ context.Context, device, attr string) (string, bool, error) {
	if err := f.record("jsonlist2 " + device + " " + attr); err != nil {
		return "", false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.attrs[device+"."+attr]
	return v, ok, nil
}

func (f *fakeBackend) DeviceCount(_ context.Context, devspec string) (int, error) {
	if err := f.record("jsonlist2 " + devspec + " NAME"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.devices[devspec], nil
}
