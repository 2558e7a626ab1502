// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ft245r

import (
	"testing"

	"github.com/nomakewan/avrdude/avrpart"
)

func newTestPager() (*pager, *fakeTransport) {
	ft := &fakeTransport{echo: true}
	ch := newChannel(ft, 0, 1)
	pins := &pinState{ch: ch, m: PinMap{SCK: PinSpec{Mask: 1}, SDO: PinSpec{Mask: 2}, SDI: PinSpec{Mask: 2}}}
	return newPager(ch, pins, avrpart.ATmega328P), ft
}

func TestPagedWrite_256Bytes_2Pages(t *testing.T) {
	p, _ := newTestPager()
	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i)
	}
	var writtenPages []int
	n, err := p.PagedWrite("flash", 0, 256, data, 128, func(addr int) error {
		writtenPages = append(writtenPages, addr)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if n != 256 {
		t.Fatalf("n = %d, want 256", n)
	}
	if len(writtenPages) != 2 {
		t.Fatalf("expected 2 write_page calls, got %d: %v", len(writtenPages), writtenPages)
	}
	if writtenPages[0] != 0 || writtenPages[1] != 128 {
		t.Errorf("write_page addrs = %v, want [0 128]", writtenPages)
	}
	if len(p.q.pending) != 0 {
		t.Errorf("%d requests left outstanding after drain", len(p.q.pending))
	}
}

func TestPager_issueRetiresPastOutstandingBound(t *testing.T) {
	p, _ := newTestPager()
	maxOutstanding := 0
	for i := 0; i < ReqOutstandings*3; i++ {
		frag := []byte{byte(i)}
		if err := p.issue(i, frag, 0, false, nil, 0); err != nil {
			t.Fatal(err)
		}
		if len(p.q.pending) > maxOutstanding {
			maxOutstanding = len(p.q.pending)
		}
	}
	if maxOutstanding > ReqOutstandings {
		t.Errorf("outstanding requests peaked at %d, want <= %d", maxOutstanding, ReqOutstandings)
	}
	if err := p.drainAll(nil, 0); err != nil {
		t.Fatal(err)
	}
	if len(p.q.pending) != 0 {
		t.Errorf("%d requests left outstanding after drainAll", len(p.q.pending))
	}
}

func TestPagedWrite_zeroBytes(t *testing.T) {
	p, ft := newTestPager()
	n, err := p.PagedWrite("flash", 0, 0, nil, 128, func(int) error {
		t.Fatal("write_page should not be called for a zero-length write")
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("n = %d, want 0", n)
	}
	if len(ft.buf) != 0 {
		t.Error("zero-length write should not touch the transport")
	}
}

func TestPagedWrite_unsupportedMemory(t *testing.T) {
	p, _ := newTestPager()
	// The pager only ever pipelines flash; eeprom's fallback lives one
	// level up in Programmer.PagedWrite and never reaches the pager.
	if _, err := p.PagedWrite("eeprom", 0, 4, []byte{1, 2, 3, 4}, 4, func(int) error { return nil }); err != ErrUnsupportedMemory {
		t.Errorf("got %v, want ErrUnsupportedMemory", err)
	}
}

func TestPagedLoad_128Bytes(t *testing.T) {
	p, _ := newTestPager()
	out := make([]byte, 128)
	n, err := p.PagedLoad("flash", 0, 128, out, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	if n != 128 {
		t.Errorf("n = %d, want 128", n)
	}
}

func TestPagedLoad_loadExtAddrOnce(t *testing.T) {
	p, _ := newTestPager()
	out := make([]byte, 16)
	calls := 0
	_, err := p.PagedLoad("flash", 0, 16, out, true, func(addr int) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("emitLoadExtAddr called %d times, want 1", calls)
	}
}

func TestPagedLoad_zeroBytes(t *testing.T) {
	p, _ := newTestPager()
	n, err := p.PagedLoad("flash", 0, 0, nil, false, nil)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("n = %d, want 0", n)
	}
}

func TestRequestQueue_freeListReuse(t *testing.T) {
	var q requestQueue
	r1 := q.alloc()
	r1.n = 7
	q.push(r1)
	got, ok := q.popFront()
	if !ok || got != r1 {
		t.Fatal("popFront did not return the pushed request")
	}
	q.release(got)
	r2 := q.alloc()
	if r2 != r1 {
		t.Error("alloc should reuse a released request struct")
	}
	if r2.n != 0 {
		t.Error("alloc should reset n on a reused request")
	}
}
