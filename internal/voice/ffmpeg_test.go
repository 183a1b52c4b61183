package voice

import (
	"bytes"
	"context"
	"os/exec"
	"testing"

	"github.com/iamvkosarev/hecu-telegram-bot/pkg/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToVoiceProducesOgg(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath(DefaultBinary); err != nil {
		t.Skip("ffmpeg is not installed")
	}

	clip := wav.Clip{
		Format: wav.Format{AudioFormat: 1, Channels: 1, SampleRate: 16000, BitsPerSample: 16},
		Data:   make([]byte, 16000*2/4),
	}

	voice, err := NewFFmpeg(Config{}).ToVoice(context.Background(), wav.Encode(clip))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(voice, []byte("OggS")))
}

func TestToVoiceMissingBinary(t *testing.T) {
	t.Parallel()

	_, err := NewFFmpeg(Config{BinaryPath: "/nonexistent/ffmpeg"}).ToVoice(context.Background(), []byte("RIFF"))
	assert.Error(t, err)
}
