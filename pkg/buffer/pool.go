package buffer

import (
	"sync"
)

// DefaultSize matches the chunk size the relay reads HTTP bodies with.
const DefaultSize = 8 * 1024

type Pool struct {
	pool sync.Pool
	size int
}

func NewPool(size int) *Pool {
	if size <= 0 {
		size = DefaultSize
	}
	return &Pool{
		size: size,
		pool: sync.Pool{
			New: func() interface{} {
				return make([]byte, size)
			},
		},
	}
}

func (p *Pool) Size() int {
	return p.size
}

func (p *Pool) Get() []byte {
	return p.pool.Get().([]byte)
}

func (p *Pool) Put(b []byte) {
	if cap(b) < p.size {
		return
	}
	b = b[:p.size]
	p.pool.Put(b)
}

var Default = NewPool(DefaultSize)

func Get() []byte {
	return Default.Get()
}

func Put(b []byte) {
	Default.Put(b)
}
