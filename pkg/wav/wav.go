// Package wav decodes, concatenates and encodes uncompressed RIFF/WAVE audio.
package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

const (
	riffHeaderSize  = 12
	chunkHeaderSize = 8
	fmtChunkMinSize = 16
	canonicalHeader = 44
)

var (
	ErrNotWAV          = errors.New("not a RIFF/WAVE stream")
	ErrNoFormatChunk   = errors.New("fmt chunk not found")
	ErrNoDataChunk     = errors.New("data chunk not found")
	ErrInvalidFormat   = errors.New("invalid wav format")
	ErrFormatMismatch  = errors.New("clips have different formats")
	ErrNothingToConcat = errors.New("no clips to concatenate")
)

// Format is the content of the fmt chunk that matters for PCM playback.
type Format struct {
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	BitsPerSample uint16
}

func (f Format) BlockAlign() int {
	return int(f.Channels) * int(f.BitsPerSample) / 8
}

func (f Format) ByteRate() int {
	return int(f.SampleRate) * f.BlockAlign()
}

// Clip is a run of whole audio frames in a single format.
type Clip struct {
	Format Format
	Data   []byte
}

// Frames returns the number of sample frames in the clip.
func (c Clip) Frames() int {
	align := c.Format.BlockAlign()
	if align == 0 {
		return 0
	}
	return len(c.Data) / align
}

func (c Clip) Duration() time.Duration {
	if c.Format.SampleRate == 0 {
		return 0
	}
	return time.Duration(c.Frames()) * time.Second / time.Duration(c.Format.SampleRate)
}

// Decode reads the fmt and data chunks of a RIFF/WAVE file. Other chunks are skipped.
func Decode(b []byte) (Clip, error) {
	if len(b) < riffHeaderSize || !bytes.HasPrefix(b, []byte("RIFF")) || !bytes.Equal(b[8:12], []byte("WAVE")) {
		return Clip{}, ErrNotWAV
	}

	var (
		format    Format
		hasFormat bool
	)
	i := riffHeaderSize
	for i+chunkHeaderSize <= len(b) {
		chunkID := string(b[i : i+4])
		chunkSize := int(binary.LittleEndian.Uint32(b[i+4 : i+8]))
		body := i + chunkHeaderSize
		next := body + chunkSize

		switch chunkID {
		case "fmt ":
			if chunkSize < fmtChunkMinSize || next > len(b) {
				return Clip{}, fmt.Errorf("%w: fmt chunk of %d bytes", ErrInvalidFormat, chunkSize)
			}
			format = Format{
				AudioFormat:   binary.LittleEndian.Uint16(b[body : body+2]),
				Channels:      binary.LittleEndian.Uint16(b[body+2 : body+4]),
				SampleRate:    binary.LittleEndian.Uint32(b[body+4 : body+8]),
				BitsPerSample: binary.LittleEndian.Uint16(b[body+14 : body+16]),
			}
			if format.BlockAlign() == 0 || format.SampleRate == 0 {
				return Clip{}, fmt.Errorf("%w: %+v", ErrInvalidFormat, format)
			}
			hasFormat = true
		case "data":
			if !hasFormat {
				return Clip{}, ErrNoFormatChunk
			}
			// some encoders write a bogus size for streamed data
			if next > len(b) {
				next = len(b)
			}
			data := b[body:next]
			data = data[:len(data)-len(data)%format.BlockAlign()]
			return Clip{Format: format, Data: data}, nil
		}

		if chunkSize%2 != 0 {
			next++
		}
		i = next
	}

	if !hasFormat {
		return Clip{}, ErrNoFormatChunk
	}
	return Clip{}, ErrNoDataChunk
}

// Concat joins clips in order. All clips must share the format of the first one.
func Concat(clips ...Clip) (Clip, error) {
	if len(clips) == 0 {
		return Clip{}, ErrNothingToConcat
	}
	format := clips[0].Format
	size := 0
	for i, clip := range clips {
		if clip.Format != format {
			return Clip{}, fmt.Errorf("%w: clip %d is %+v, want %+v", ErrFormatMismatch, i, clip.Format, format)
		}
		size += len(clip.Data)
	}

	data := make([]byte, 0, size)
	for _, clip := range clips {
		data = append(data, clip.Data...)
	}
	return Clip{Format: format, Data: data}, nil
}

// Encode writes the clip as a canonical 44-byte-header WAV file.
func Encode(c Clip) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, canonicalHeader+len(c.Data)))

	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, uint32(36+len(c.Data)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(fmtChunkMinSize))
	_ = binary.Write(buf, binary.LittleEndian, c.Format.AudioFormat)
	_ = binary.Write(buf, binary.LittleEndian, c.Format.Channels)
	_ = binary.Write(buf, binary.LittleEndian, c.Format.SampleRate)
	_ = binary.Write(buf, binary.LittleEndian, uint32(c.Format.ByteRate()))
	_ = binary.Write(buf, binary.LittleEndian, uint16(c.Format.BlockAlign()))
	_ = binary.Write(buf, binary.LittleEndian, c.Format.BitsPerSample)

	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, uint32(len(c.Data)))
	buf.Write(c.Data)

	return buf.Bytes()
}
