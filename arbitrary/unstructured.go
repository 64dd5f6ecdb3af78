package arbitrary

import (
	"encoding/binary"

	"github.com/imapwire/imapfuzz"
)

// Unstructured is a read cursor over raw fuzzer input. Every method consumes
// input, so a generator driven by it always terminates.
type Unstructured struct {
	data []byte
	pos  int
}

// NewUnstructured returns a cursor at the start of data. Values taken from
// the cursor view data directly.
func NewUnstructured(data []byte) *Unstructured {
	return &Unstructured{data: data}
}

// Remaining returns the number of unread bytes.
func (u *Unstructured) Remaining() int {
	return len(u.data) - u.pos
}

// Consumed returns the number of bytes read so far.
func (u *Unstructured) Consumed() int {
	return u.pos
}

// Byte reads one byte.
func (u *Unstructured) Byte() (byte, error) {
	if u.pos >= len(u.data) {
		return 0, imapfuzz.ErrNotEnoughData
	}
	b := u.data[u.pos]
	u.pos++
	return b, nil
}

// Bool reads one byte and returns its low bit.
func (u *Unstructured) Bool() (bool, error) {
	b, err := u.Byte()
	return b&1 == 1, err
}

func (u *Unstructured) fixed(n int) ([]byte, error) {
	if u.Remaining() < n {
		return nil, imapfuzz.ErrNotEnoughData
	}
	b := u.data[u.pos : u.pos+n]
	u.pos += n
	return b, nil
}

// Uint16 reads two little endian bytes.
func (u *Unstructured) Uint16() (uint16, error) {
	b, err := u.fixed(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// Uint32 reads four little endian bytes.
func (u *Unstructured) Uint32() (uint32, error) {
	b, err := u.fixed(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Uint64 reads eight little endian bytes.
func (u *Unstructured) Uint64() (uint64, error) {
	b, err := u.fixed(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// IntN returns a value in [0, n). n below two consumes nothing.
func (u *Unstructured) IntN(n int) (int, error) {
	if n < 2 {
		return 0, nil
	}
	if n <= 256 {
		b, err := u.Byte()
		return int(b) % n, err
	}
	v, err := u.Uint32()
	return int(v % uint32(n)), err
}

// Between returns a value in [min, max].
func (u *Unstructured) Between(min, max int) (int, error) {
	if max <= min {
		return min, nil
	}
	n, err := u.IntN(max - min + 1)
	return min + n, err
}

// Choose picks an index with probability proportional to its weight. An
// all-zero table cannot be chosen from.
func (u *Unstructured) Choose(weights []uint8) (int, error) {
	total := 0
	for _, w := range weights {
		total += int(w)
	}
	if total == 0 {
		return 0, imapfuzz.ErrIncorrectFormat
	}
	r, err := u.IntN(total)
	if err != nil {
		return 0, err
	}
	for i, w := range weights {
		if r < int(w) {
			return i, nil
		}
		r -= int(w)
	}
	return len(weights) - 1, nil
}

// Take returns the next n bytes as a view of the input. The view's capacity
// ends with it, so appending to it never writes into the input.
func (u *Unstructured) Take(n int) ([]byte, error) {
	if n < 0 || u.Remaining() < n {
		return nil, imapfuzz.ErrNotEnoughData
	}
	b := u.data[u.pos : u.pos+n : u.pos+n]
	u.pos += n
	return b, nil
}

// TakeWhile returns the longest run of at most max bytes satisfying valid,
// as a view of the input. The run may be empty.
func (u *Unstructured) TakeWhile(max int, valid func(byte) bool) []byte {
	end := u.pos
	for end < len(u.data) && end-u.pos < max && valid(u.data[end]) {
		end++
	}
	b := u.data[u.pos:end:end]
	u.pos = end
	return b
}
