//go:build linux && !tinygo

package main

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/sys/unix"

	"knurl/core"
)

// Ticker drives the 1ms service cadence from a kernel timerfd. Unlike
// time.Ticker it reports missed expirations, so the knob is serviced once
// per elapsed millisecond even after a scheduling stall.
type Ticker struct {
	fd int
}

func NewTicker() (*Ticker, error) {
	fd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, 0)
	if err != nil {
		return nil, fmt.Errorf("timerfd_create: %w", err)
	}

	interval := unix.Timespec{Sec: 0, Nsec: int64(1000000000 / core.TickHz)}
	spec := unix.ItimerSpec{
		Interval: interval,
		Value:    interval,
	}
	if err := unix.TimerfdSettime(fd, 0, &spec, nil); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("timerfd_settime: %w", err)
	}

	return &Ticker{fd: fd}, nil
}

// Run blocks on the timer and invokes service once per elapsed tick,
// advancing the core millisecond clock first. It returns on read error,
// which in practice means the fd was closed.
func (t *Ticker) Run(service func()) error {
	var (
		buf [8]byte
		ms  uint32
	)
	for {
		n, err := unix.Read(t.fd, buf[:])
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return fmt.Errorf("timerfd read: %w", err)
		}
		if n != 8 {
			return fmt.Errorf("timerfd short read: %d bytes", n)
		}

		expirations := binary.NativeEndian.Uint64(buf[:])
		for i := uint64(0); i < expirations; i++ {
			ms++
			core.SetTimeMS(ms)
			service()
		}
	}
}

func (t *Ticker) Close() error {
	return unix.Close(t.fd)
}
