// Package voice converts assembled WAV audio into the OGG/Opus voice notes Telegram plays inline.
package voice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
)

const DefaultBinary = "ffmpeg"

var ErrEmptyOutput = errors.New("ffmpeg produced no output")

type Config struct {
	BinaryPath string
	Bitrate    int
}

// FFmpeg pipes WAV data through an ffmpeg process.
type FFmpeg struct {
	binary  string
	bitrate int
}

func NewFFmpeg(cfg Config) *FFmpeg {
	if cfg.BinaryPath == "" {
		cfg.BinaryPath = DefaultBinary
	}
	return &FFmpeg{
		binary:  cfg.BinaryPath,
		bitrate: cfg.Bitrate,
	}
}

func (f *FFmpeg) ToVoice(ctx context.Context, wav []byte) ([]byte, error) {
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-f", "wav", "-i", "pipe:0",
		"-c:a", "libopus",
	}
	if f.bitrate > 0 {
		args = append(args, "-b:a", strconv.Itoa(f.bitrate))
	}
	args = append(args, "-f", "ogg", "pipe:1")

	// #nosec G204 -- binary comes from configuration, arguments are fixed
	cmd := exec.CommandContext(ctx, f.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(wav)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg execution failed: %w - output: %s", err, stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, ErrEmptyOutput
	}
	return stdout.Bytes(), nil
}
