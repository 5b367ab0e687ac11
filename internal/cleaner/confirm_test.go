package cleaner

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"yes\n", true},
		{"YES\n", true},
		{"Yes\r\n", true},
		{"yes", true},
		{"y\n", false},
		{"\n", false},
		{"", false},
		{"yes please\n", false},
		{"no\n", false},
	}
	for _, tt := range tests {
		got, err := Confirm(context.Background(), strings.NewReader(tt.in))
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, "%q", tt.in)
	}
}

func TestConfirm_Cancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	got, err := Confirm(ctx, pr)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestConfirm_ReadError(t *testing.T) {
	boom := errors.New("tty gone")
	_, err := Confirm(context.Background(), errReader{boom})
	assert.ErrorIs(t, err, boom)
}

type errReader struct{ err error }

func (e errReader) Read([]byte) (int, error) { return 0, e.err }
