package hostfuncs

// GuestMemory is the view of guest linear memory a host function needs.
// wazero's api.Memory satisfies it. Every method reports false when the
// range falls outside memory.
type GuestMemory interface {
	Read(offset, byteCount uint32) ([]byte, bool)
	Write(offset uint32, v []byte) bool
	WriteByte(offset uint32, v byte) bool
	WriteUint16Le(offset uint32, v uint16) bool
	WriteUint32Le(offset, v uint32) bool
	ReadUint32Le(offset uint32) (uint32, bool)
}

// SliceMemory is a GuestMemory backed by a byte slice. It lets host
// functions run without a WASM runtime, which is how they are tested.
type SliceMemory []byte

func (m SliceMemory) inRange(offset, n uint32) bool {
	return uint64(offset)+uint64(n) <= uint64(len(m))
}

// Read returns a view of n bytes at offset.
func (m SliceMemory) Read(offset, byteCount uint32) ([]byte, bool) {
	if !m.inRange(offset, byteCount) {
		return nil, false
	}
	return m[offset : offset+byteCount : offset+byteCount], true
}

// Write copies v to offset.
func (m SliceMemory) Write(offset uint32, v []byte) bool {
	if !m.inRange(offset, uint32(len(v))) {
		return false
	}
	copy(m[offset:], v)
	return true
}

// WriteByte writes a single byte.
func (m SliceMemory) WriteByte(offset uint32, v byte) bool {
	if !m.inRange(offset, 1) {
		return false
	}
	m[offset] = v
	return true
}

// WriteUint16Le writes v in little-endian order.
func (m SliceMemory) WriteUint16Le(offset uint32, v uint16) bool {
	if !m.inRange(offset, 2) {
		return false
	}
	m[offset] = byte(v)
	m[offset+1] = byte(v >> 8)
	return true
}

// WriteUint32Le writes v in little-endian order.
func (m SliceMemory) WriteUint32Le(offset, v uint32) bool {
	if !m.inRange(offset, 4) {
		return false
	}
	m[offset] = byte(v)
	m[offset+1] = byte(v >> 8)
	m[offset+2] = byte(v >> 16)
	m[offset+3] = byte(v >> 24)
	return true
}

// ReadUint32Le reads a little-endian uint32.
func (m SliceMemory) ReadUint32Le(offset uint32) (uint32, bool) {
	if !m.inRange(offset, 4) {
		return 0, false
	}
	return uint32(m[offset]) | uint32(m[offset+1])<<8 | uint32(m[offset+2])<<16 | uint32(m[offset+3])<<24, true
}
