// Package editor keeps the canonical copy of the editable specification text.
package editor

import "sync"

// Buffer holds the editable text. Every write is applied synchronously, and
// every input surface (the editor channel and the fallback form field) reads
// and writes this one value.
type Buffer struct {
	mu        sync.RWMutex
	text      string
	nextID    int
	listeners map[int]func(string)
}

// New returns a buffer seeded with initial text.
func New(initial string) *Buffer {
	return &Buffer{text: initial, listeners: make(map[int]func(string))}
}

// NewWithTemplate returns a buffer seeded with the starter specification.
func NewWithTemplate() *Buffer {
	return New(Template)
}

// Text returns the current editable text.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

// SetText replaces the text and notifies listeners outside the lock. No
// validation happens here.
func (b *Buffer) SetText(text string) {
	b.mu.Lock()
	b.text = text
	listeners := make([]func(string), 0, len(b.listeners))
	for _, fn := range b.listeners {
		listeners = append(listeners, fn)
	}
	b.mu.Unlock()

	for _, fn := range listeners {
		fn(text)
	}
}

// OnChange registers fn to run after every SetText. The returned func
// removes it.
func (b *Buffer) OnChange(fn func(string)) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.listeners, id)
	}
}
