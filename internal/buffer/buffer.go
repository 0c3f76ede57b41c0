package buffer

// Buffer accumulates the bytes of a single request head while it arrives in pieces. Unlike
// a plain slice, it never grows beyond maxSize: appends that would overflow it are rejected
// instead of being silently accepted.
type Buffer struct {
	memory  []byte
	maxSize int
}

func New(initialSize, maxSize int) Buffer {
	return Buffer{
		memory:  make([]byte, 0, initialSize),
		maxSize: maxSize,
	}
}

// Append writes data, checking whether the new amount of bytes doesn't exceed the limit,
// otherwise discarding the data and returning false.
func (b *Buffer) Append(elements []byte) (ok bool) {
	if len(b.memory)+len(elements) > b.maxSize {
		return false
	}

	b.memory = append(b.memory, elements...)
	return true
}

// Free returns how many bytes can be appended before hitting the limit.
func (b *Buffer) Free() int {
	return b.maxSize - len(b.memory)
}

// Len returns the number of bytes stored.
func (b *Buffer) Len() int {
	return len(b.memory)
}

// Preview returns everything written since the last Clear. The returned slice is valid until
// the next Append or Clear.
func (b *Buffer) Preview() []byte {
	return b.memory
}

// Clear just resets the pointers, so old values may be overridden by new ones.
func (b *Buffer) Clear() {
	b.memory = b.memory[:0]
}
