package encoding

import (
	"testing"

	"github.com/arloliu/tdms/errs"
	"github.com/stretchr/testify/require"
)

func TestReadString(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		data := []byte{0x05, 0x00, 0x00, 0x00, 'h', 'e', 'l', 'l', 'o', 0xAA}

		s, n, err := ReadString(data, 0)
		require.NoError(t, err)
		require.Equal(t, "hello", s)
		require.Equal(t, 9, n)
	})

	t.Run("empty", func(t *testing.T) {
		s, n, err := ReadString([]byte{0, 0, 0, 0}, 0)
		require.NoError(t, err)
		require.Empty(t, s)
		require.Equal(t, 4, n)
	})

	t.Run("multi-byte", func(t *testing.T) {
		data := AppendString([]byte{0xEE}, "µs/°C")

		s, n, err := ReadString(data, 1)
		require.NoError(t, err)
		require.Equal(t, "µs/°C", s)
		require.Equal(t, len(data)-1, n)
	})

	t.Run("invalid utf-8", func(t *testing.T) {
		_, _, err := ReadString([]byte{0x02, 0x00, 0x00, 0x00, 0xC3, 0x28}, 0)
		require.ErrorIs(t, err, errs.ErrMalformedString)
	})

	t.Run("truncated prefix", func(t *testing.T) {
		_, _, err := ReadString([]byte{0x02, 0x00}, 0)
		require.ErrorIs(t, err, errs.ErrTruncatedData)
	})

	t.Run("truncated payload", func(t *testing.T) {
		_, _, err := ReadString([]byte{0x08, 0x00, 0x00, 0x00, 'a', 'b'}, 0)
		require.ErrorIs(t, err, errs.ErrTruncatedData)
	})

	t.Run("huge length", func(t *testing.T) {
		_, _, err := ReadString([]byte{0xFF, 0xFF, 0xFF, 0xFF, 'a'}, 0)
		require.ErrorIs(t, err, errs.ErrTruncatedData)
	})
}

func TestAppendStringPrefixIsLittleEndian(t *testing.T) {
	require.Equal(t, []byte{0x02, 0x00, 0x00, 0x00, 'o', 'k'}, AppendString(nil, "ok"))
}
