// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ft245r

import "github.com/nomakewan/avrdude/avrpart"

// request tracks one outstanding USB fragment: addr is the MCU address the
// fragment's first byte corresponds to, bytes is the already-encoded host
// byte stream sent for it, and n is the number of MCU bytes to recover on
// retirement (0 for a write, which only needs the echo drained and
// discarded).
type request struct {
	addr  int
	bytes []byte
	n     int
}

// requestQueue is a small FIFO of outstanding requests plus a free list of
// retired request structs, avoiding an allocation per fragment on a long
// paged transfer.
type requestQueue struct {
	pending []*request
	free    []*request
}

func (q *requestQueue) alloc() *request {
	if n := len(q.free); n > 0 {
		r := q.free[n-1]
		q.free = q.free[:n-1]
		r.bytes = r.bytes[:0]
		r.n = 0
		return r
	}
	return &request{}
}

func (q *requestQueue) release(r *request) {
	q.free = append(q.free, r)
}

func (q *requestQueue) push(r *request) {
	q.pending = append(q.pending, r)
}

func (q *requestQueue) popFront() (*request, bool) {
	if len(q.pending) == 0 {
		return nil, false
	}
	r := q.pending[0]
	q.pending = q.pending[1:]
	return r, true
}

// pager drives the pipelined paged-access writer/reader described in
// spec.md's Pipelined pager section: many USB fragments are issued before
// their echoes are harvested, since each MCU byte costs FT245RCmdSize host
// bytes and round-trips dominate the cost of waiting for one at a time.
type pager struct {
	ch   *channel
	pins *pinState
	part *avrpart.Part
	q    requestQueue
}

func newPager(ch *channel, pins *pinState, part *avrpart.Part) *pager {
	return &pager{ch: ch, pins: pins, part: part}
}

// doRequest retires one outstanding request: sends nothing (the bytes are
// already on the wire), blocks for exactly len(bytes) bytes of echo, and
// either discards them (n==0, a write) or extracts the reply byte (the
// fourth byte) of each of the fragment's n read commands into out at
// r.addr-relative offsets.
func (p *pager) doRequest(r *request, out []byte, base int) error {
	stream, err := p.ch.recv(len(r.bytes))
	if err != nil {
		return err
	}
	for j := 0; j < r.n; j++ {
		out[r.addr-base+j] = extractData(stream, j*4+3, p.pins.m.SDI)
	}
	return nil
}

// drainAll retires every outstanding request in order.
func (p *pager) drainAll(out []byte, base int) error {
	for {
		r, ok := p.q.popFront()
		if !ok {
			return nil
		}
		if err := p.doRequest(r, out, base); err != nil {
			return err
		}
		p.q.release(r)
	}
}

// issue closes the current fragment (appending a stretch or SCK-low
// trailing byte per closeFrag), sends it, and enqueues a request
// describing it. If this pushes the outstanding count past
// ReqOutstandings, one request is immediately retired.
func (p *pager) issue(fragAddr int, frag []byte, n int, isLast bool, out []byte, base int) error {
	if isLast {
		frag = p.pins.appendSCKLow(frag)
	} else {
		frag = p.pins.appendStretch(frag)
	}
	if err := p.ch.send(frag, false); err != nil {
		return err
	}
	r := p.q.alloc()
	r.addr = fragAddr
	r.bytes = append(r.bytes, frag...)
	r.n = n
	p.q.push(r)
	if len(p.q.pending) > ReqOutstandings {
		front, _ := p.q.popFront()
		if err := p.doRequest(front, out, base); err != nil {
			return err
		}
		p.q.release(front)
	}
	return nil
}

// PagedWrite writes flash data in pageSize-aligned pages, loading each byte
// via AVR_OP_LOADPAGE_LO/HI and committing each page with writePage once
// its bytes are all loaded. Only flash is pipelined this way; the eeprom
// fallback (spec §4.F) has no paging of its own and is handled one level
// up, in Programmer.PagedWrite, before the pager is ever called.
//
// writePage is called once per page at addr, the page-aligned start
// address; it should be bound to the external write_page primitive.
func (p *pager) PagedWrite(memory string, addr, n int, data []byte, pageSize int, writePage func(addr int) error) (int, error) {
	if n == 0 {
		return 0, nil
	}
	if memory != "flash" {
		return 0, ErrUnsupportedMemory
	}
	if pageSize <= 0 {
		return 0, ErrUnsupportedMemory
	}
	var frag []byte
	fragAddr := addr
	pageStart := addr - addr%pageSize

	flush := func(isLast bool) error {
		if len(frag) == 0 {
			return nil
		}
		err := p.issue(fragAddr, frag, 0, isLast, nil, 0)
		frag = nil
		return err
	}

	for i := 0; i < n; i++ {
		cur := addr + i
		op := avrpart.OpLoadPageLo
		if cur&1 != 0 {
			op = avrpart.OpLoadPageHi
		}
		code, ok := p.part.Opcode(op)
		if !ok {
			return i, ErrMissingOpcode
		}
		cmd := code.Fill(cur>>1, data[i])
		if len(frag) == 0 {
			fragAddr = cur
		}
		for _, b := range cmd {
			frag = p.pins.appendISPByte(frag, b)
		}

		atFragmentEnd := len(frag) >= FT245RFragmentSize
		atPageEnd := (cur+1)%pageSize == 0
		atRangeEnd := i == n-1

		if atFragmentEnd || atPageEnd || atRangeEnd {
			if err := flush(atRangeEnd); err != nil {
				return i, err
			}
		}
		if atPageEnd || atRangeEnd {
			if err := p.drainAll(nil, 0); err != nil {
				return i, err
			}
			if err := writePage(pageStart); err != nil {
				return i, err
			}
			pageStart = cur + 1 - (cur+1)%pageSize
		}
	}
	return n, nil
}

// PagedLoad reads n bytes of flash starting at addr into out. If
// loadExtAddr is true, one AVR_OP_LOAD_EXT_ADDR command is emitted once at
// the start of the range before any read fragment. As with PagedWrite, the
// eeprom fallback lives one level up in Programmer.PagedLoad.
func (p *pager) PagedLoad(memory string, addr, n int, out []byte, loadExtAddr bool, emitLoadExtAddr func(addr int) error) (int, error) {
	if n == 0 {
		return 0, nil
	}
	if memory != "flash" {
		return 0, ErrUnsupportedMemory
	}
	if loadExtAddr {
		if err := emitLoadExtAddr(addr); err != nil {
			return 0, err
		}
	}
	var frag []byte
	fragAddr := addr
	fragN := 0

	flush := func(isLast bool) error {
		if len(frag) == 0 {
			return nil
		}
		err := p.issue(fragAddr, frag, fragN, isLast, out, addr)
		frag = nil
		fragN = 0
		return err
	}

	for i := 0; i < n; i++ {
		cur := addr + i
		op := avrpart.OpReadLo
		if cur&1 != 0 {
			op = avrpart.OpReadHi
		}
		code, ok := p.part.Opcode(op)
		if !ok {
			return i, ErrMissingOpcode
		}
		cmd := code.Fill(cur>>1, 0)
		if len(frag) == 0 {
			fragAddr = cur
		}
		for _, b := range cmd {
			frag = p.pins.appendISPByte(frag, b)
		}
		fragN++

		atFragmentEnd := len(frag) >= FT245RFragmentSize
		atRangeEnd := i == n-1
		if atFragmentEnd || atRangeEnd {
			if err := flush(atRangeEnd); err != nil {
				return i, err
			}
		}
	}
	if err := p.drainAll(out, addr); err != nil {
		return n, err
	}
	return n, nil
}
