package multiplayer

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	tests := []struct {
		name  string
		msg   Message
		frame [FrameSize]byte
	}{
		{"garbage one", GarbageMsg{Count: 1}, [FrameSize]byte{1, 1, 0, 1}},
		{"garbage max", GarbageMsg{Count: MaxGarbage}, [FrameSize]byte{1, 1, 0, MaxGarbage}},
		{"game over", GameOverMsg{}, [FrameSize]byte{1, 2, 0, 0}},
		{"heartbeat", HeartbeatMsg{}, [FrameSize]byte{1, 3, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := Encode(tt.msg)
			require.NoError(t, err)
			assert.Equal(t, tt.frame, frame)

			got, err := Decode(frame)
			require.NoError(t, err)
			assert.Equal(t, tt.msg, got)
		})
	}
}

func TestEncodeRejectsBadGarbage(t *testing.T) {
	for _, n := range []int{0, -1, MaxGarbage + 1} {
		_, err := Encode(GarbageMsg{Count: n})
		assert.Error(t, err, "count %d", n)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		frame [FrameSize]byte
	}{
		{"wrong version", [FrameSize]byte{2, 1, 0, 1}},
		{"zero version", [FrameSize]byte{0, 2, 0, 0}},
		{"unknown kind", [FrameSize]byte{1, 9, 0, 0}},
		{"zero kind", [FrameSize]byte{1, 0, 0, 0}},
		{"garbage zero", [FrameSize]byte{1, 1, 0, 0}},
		{"garbage too large", [FrameSize]byte{1, 1, 1, 0}},
		{"game over payload", [FrameSize]byte{1, 2, 0, 1}},
		{"heartbeat payload", [FrameSize]byte{1, 3, 0, 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.frame)
			assert.ErrorIs(t, err, ErrProtocol)
		})
	}
}

func TestReadWriteMessage(t *testing.T) {
	var buf bytes.Buffer
	msgs := []Message{GarbageMsg{Count: 3}, HeartbeatMsg{}, GameOverMsg{}}
	for _, m := range msgs {
		require.NoError(t, WriteMessage(&buf, m))
	}
	assert.Equal(t, len(msgs)*FrameSize, buf.Len())

	for _, want := range msgs {
		got, err := ReadMessage(&buf)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ReadMessage(&buf)
	assert.ErrorIs(t, err, ErrConnection)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadMessageTruncated(t *testing.T) {
	_, err := ReadMessage(bytes.NewReader([]byte{1, 1}))
	assert.ErrorIs(t, err, ErrConnection)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestReadMessageBadFrame(t *testing.T) {
	_, err := ReadMessage(bytes.NewReader([]byte{1, 42, 0, 0}))
	assert.ErrorIs(t, err, ErrProtocol)
	assert.NotErrorIs(t, err, ErrConnection)
}
