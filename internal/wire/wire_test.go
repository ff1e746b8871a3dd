package wire

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTextRoundTrip(t *testing.T) {
	payload, err := EncodeText("alice", "hello", "2024-01-01 10:00:00")
	require.NoError(t, err)

	msg, err := DecodeText(payload)
	require.NoError(t, err)
	require.Equal(t, "alice", msg.From)
	require.Equal(t, "hello", msg.Text)
	require.Equal(t, "2024-01-01 10:00:00", msg.Time)
}

func TestDecodeTextMalformed(t *testing.T) {
	for _, payload := range []string{
		"not json at all",
		"[1,2,3]",
		`"just a string"`,
		"null",
		"",
	} {
		_, err := DecodeText([]byte(payload))
		if !errors.Is(err, ErrMalformed) {
			t.Fatalf("payload %q: expected ErrMalformed, got %v", payload, err)
		}
	}
}

func TestDecodeTextMissingSender(t *testing.T) {
	msg, err := DecodeText([]byte(`{"text":"hi"}`))
	require.NoError(t, err)
	require.Equal(t, UnknownSender, msg.From)
}

func TestImageRoundTrip(t *testing.T) {
	// Exercise buffers that stress base64 padding and binary content.
	buffers := [][]byte{
		{},
		{0x00},
		{0xFF, 0xFE, 0xFD},
		[]byte("plain text pretending to be an image"),
	}
	long := make([]byte, 10_000)
	for i := range long {
		long[i] = byte(i * 31)
	}
	buffers = append(buffers, long)

	for _, raw := range buffers {
		payload, err := EncodeImage("a", "f.jpg", "t", raw)
		require.NoError(t, err)

		msg, decoded, err := DecodeImage(payload)
		require.NoError(t, err)
		require.Equal(t, "a", msg.From)
		require.Equal(t, "f.jpg", msg.Filename)
		require.Equal(t, "t", msg.Time)
		require.Equal(t, raw, decoded)
	}
}

func TestDecodeImageBadBase64(t *testing.T) {
	_, _, err := DecodeImage([]byte(`{"from":"a","filename":"f","data":"%%%not-base64%%%"}`))
	require.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeImageDefaults(t *testing.T) {
	msg, _, err := DecodeImage([]byte(`{"data":""}`))
	require.NoError(t, err)
	require.Equal(t, UnknownSender, msg.From)
	require.Equal(t, "image.jpg", msg.Filename)
}

func TestTopics(t *testing.T) {
	cases := map[string]string{
		MessagesTopic("bob"): "messages/bob",
		ASCIITopic("bob"):    "ascii/bob",
		ImagesTopic("bob"):   "images/bob",
		PresenceTopic("bob"): "presence/bob",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("topic: got %q want %q", got, want)
		}
	}
}

func TestFormatASCII(t *testing.T) {
	rows := []string{"##..", "..##"}
	payload := FormatASCII("alice", "2024-01-01 10:00:00", rows)

	lines := strings.Split(payload, "\n")
	require.Equal(t, "[ascii image from alice @ 2024-01-01 10:00:00]", lines[0])
	require.Equal(t, "##..", lines[1])
	require.Equal(t, "..##", lines[2])
	require.True(t, strings.HasSuffix(payload, "\n"), "rows are newline-terminated")
}
