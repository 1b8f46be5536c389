// Package capture stores raw AOV buffers dumped by a renderer integration so
// that they can be replayed through the harness without the renderer.
package capture

import (
	"sort"

	"github.com/achilleasa/aovtest/aov"
	"github.com/achilleasa/aovtest/frame"
)

// A Bundle maps renderer output selectors to recorded raw buffers.
type Bundle struct {
	Entries map[aov.Selector]*frame.RawBuffer
}

// Create an empty bundle.
func NewBundle() *Bundle {
	return &Bundle{
		Entries: make(map[aov.Selector]*frame.RawBuffer),
	}
}

// Add or replace a recorded buffer.
func (b *Bundle) Add(sel aov.Selector, buf *frame.RawBuffer) {
	b.Entries[sel] = buf
}

// Get the recorded buffer for a selector.
func (b *Bundle) Get(sel aov.Selector) (*frame.RawBuffer, bool) {
	buf, ok := b.Entries[sel]
	return buf, ok
}

// Get the recorded selectors in sorted order.
func (b *Bundle) Selectors() []aov.Selector {
	sels := make([]aov.Selector, 0, len(b.Entries))
	for sel := range b.Entries {
		sels = append(sels, sel)
	}
	sort.Slice(sels, func(i, j int) bool { return sels[i] < sels[j] })
	return sels
}

// Get the kinds whose selectors are present in the bundle.
func (b *Bundle) Kinds() []aov.Kind {
	var kinds []aov.Kind
	for _, k := range aov.All() {
		if _, ok := b.Entries[k.Selector()]; ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Get the frame dims shared by all entries. ok is false if the bundle is
// empty or the entries differ in size.
func (b *Bundle) FrameSize() (w, h uint32, ok bool) {
	for _, buf := range b.Entries {
		if !ok {
			w, h, ok = buf.Width, buf.Height, true
			continue
		}
		if buf.Width != w || buf.Height != h {
			return 0, 0, false
		}
	}
	return w, h, ok
}
