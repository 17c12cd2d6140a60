package authengine

import "sync"

// bytePool is a pool of reusable []byte buffers, reducing GC pressure from
// per-packet allocations on the hot path.
type bytePool struct {
	pool sync.Pool
}

func newBytePool(defaultCap int) *bytePool {
	p := &bytePool{}
	p.pool.New = func() any {
		return make([]byte, 0, defaultCap)
	}
	return p
}

func (p *bytePool) get(size int) []byte {
	b := p.pool.Get().([]byte)
	if cap(b) < size {
		p.pool.Put(b)
		return make([]byte, size)
	}
	b = b[:size]
	clear(b)
	return b
}

func (p *bytePool) put(b []byte) {
	if b == nil {
		return
	}
	p.pool.Put(b[:0])
}
