package arbitrary_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/imapwire/imapfuzz"
	"github.com/imapwire/imapfuzz/arbitrary"
)

func TestUnstructuredFixedWidth(t *testing.T) {
	u := arbitrary.NewUnstructured([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07})
	b, err := u.Byte()
	require.NoError(t, err)
	require.Equal(t, byte(0x01), b)

	v16, err := u.Uint16()
	require.NoError(t, err)
	require.Equal(t, uint16(0x0302), v16)

	v32, err := u.Uint32()
	require.NoError(t, err)
	require.Equal(t, uint32(0x07060504), v32)
	require.Equal(t, 7, u.Consumed())
	require.Zero(t, u.Remaining())

	_, err = u.Byte()
	require.ErrorIs(t, err, imapfuzz.ErrNotEnoughData)
	_, err = u.Uint64()
	require.ErrorIs(t, err, imapfuzz.ErrNotEnoughData)
}

func TestUnstructuredIntN(t *testing.T) {
	testCases := map[string]struct {
		input    []byte
		n        int
		expected int
		consumed int
	}{
		"single choice consumes nothing": {input: []byte{9}, n: 1, expected: 0, consumed: 0},
		"byte range":                     {input: []byte{9}, n: 4, expected: 1, consumed: 1},
		"full byte":                      {input: []byte{200}, n: 256, expected: 200, consumed: 1},
		"wide range":                     {input: []byte{0x10, 0x27, 0, 0}, n: 100000, expected: 10000, consumed: 4},
	}
	for name, data := range testCases {
		t.Run(name, func(t *testing.T) {
			u := arbitrary.NewUnstructured(data.input)
			v, err := u.IntN(data.n)
			require.NoError(t, err)
			require.Equal(t, data.expected, v)
			require.Equal(t, data.consumed, u.Consumed())
		})
	}
}

func TestUnstructuredBetween(t *testing.T) {
	u := arbitrary.NewUnstructured([]byte{5, 0})
	v, err := u.Between(10, 12)
	require.NoError(t, err)
	require.Equal(t, 12, v)
	v, err = u.Between(-3, 3)
	require.NoError(t, err)
	require.Equal(t, -3, v)
	v, err = u.Between(7, 7)
	require.NoError(t, err)
	require.Equal(t, 7, v)
	require.Equal(t, 2, u.Consumed())
}

func TestUnstructuredChoose(t *testing.T) {
	testCases := map[string]struct {
		input       []byte
		weights     []uint8
		expected    int
		expectedErr error
	}{
		"first":            {input: []byte{0}, weights: []uint8{1, 2, 3}, expected: 0},
		"second":           {input: []byte{2}, weights: []uint8{1, 2, 3}, expected: 1},
		"last":             {input: []byte{5}, weights: []uint8{1, 2, 3}, expected: 2},
		"wraps":            {input: []byte{6}, weights: []uint8{1, 2, 3}, expected: 0},
		"skips zero":       {input: []byte{1}, weights: []uint8{0, 1, 0, 1}, expected: 3},
		"all zero":         {input: []byte{0}, weights: []uint8{0, 0}, expectedErr: imapfuzz.ErrIncorrectFormat},
		"not enough input": {input: nil, weights: []uint8{1, 1}, expectedErr: imapfuzz.ErrNotEnoughData},
	}
	for name, data := range testCases {
		t.Run(name, func(t *testing.T) {
			i, err := arbitrary.NewUnstructured(data.input).Choose(data.weights)
			if data.expectedErr != nil {
				require.ErrorIs(t, err, data.expectedErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, data.expected, i)
		})
	}
}

func TestUnstructuredTake(t *testing.T) {
	input := []byte("abcdef")
	u := arbitrary.NewUnstructured(input)
	b, err := u.Take(3)
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), b)
	require.Same(t, &input[0], &b[0])

	// appending reallocates instead of writing over the rest of the input
	_ = append(b, 'X')
	require.Equal(t, []byte("abcdef"), input)

	_, err = u.Take(4)
	require.ErrorIs(t, err, imapfuzz.ErrNotEnoughData)
	require.Equal(t, 3, u.Remaining())
}

func TestUnstructuredTakeWhile(t *testing.T) {
	isLower := func(c byte) bool { return c >= 'a' && c <= 'z' }
	u := arbitrary.NewUnstructured([]byte("abc1de"))
	require.Equal(t, []byte("ab"), u.TakeWhile(2, isLower))
	require.Equal(t, []byte("c"), u.TakeWhile(10, isLower))
	require.Empty(t, u.TakeWhile(10, isLower))
	require.Equal(t, 3, u.Consumed())
}
