package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported encoding format")
	ErrInvalidWAV        = errors.New("invalid wav data")
)

// EncodeWAV wraps raw PCM in a RIFF/WAVE container.
func EncodeWAV(info EncodingInfo, pcm []byte) ([]byte, error) {
	if info.IsZero() {
		info = GetDefaultEncodingInfo()
	}
	tag := info.Format.wavFormatTag()
	if tag == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, info.Format.Name())
	}

	sampleSize := info.Format.ByteSize()
	samples := make([]int, 0, len(pcm)/sampleSize)
	for i := 0; i+sampleSize <= len(pcm); i += sampleSize {
		if sampleSize == 2 {
			samples = append(samples, int(int16(binary.LittleEndian.Uint16(pcm[i:]))))
			continue
		}
		samples = append(samples, int(pcm[i]))
	}

	out := &writeSeeker{}
	encoder := wav.NewEncoder(out, info.SampleRate, sampleSize*8, info.ChannelCount(), int(tag))
	err := encoder.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: info.ChannelCount(), SampleRate: info.SampleRate},
		Data:           samples,
		SourceBitDepth: sampleSize * 8,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode wav: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish wav: %w", err)
	}
	return out.buf, nil
}

// DecodeWAV reads a RIFF/WAVE container back into its encoding info and PCM
// payload. Chunks other than fmt and data are skipped wherever they appear.
func DecodeWAV(data []byte) (EncodingInfo, []byte, error) {
	decoder := wav.NewDecoder(bytes.NewReader(data))
	if err := decoder.FwdToPCM(); err != nil {
		return EncodingInfo{}, nil, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
	}
	if decoder.PCMChunk == nil {
		return EncodingInfo{}, nil, fmt.Errorf("%w: missing data chunk", ErrInvalidWAV)
	}

	var format encodingFormat
	switch {
	case decoder.WavAudioFormat == 1 && decoder.BitDepth == 16:
		format = EncodingLinear16
	case decoder.WavAudioFormat == 6:
		format = EncodingALaw
	case decoder.WavAudioFormat == 7:
		format = EncodingMulaw
	default:
		return EncodingInfo{}, nil, fmt.Errorf("%w: format %d at %d bits",
			ErrUnsupportedFormat, decoder.WavAudioFormat, decoder.BitDepth)
	}

	pcm := make([]byte, decoder.PCMChunk.Size)
	if _, err := io.ReadFull(decoder.PCMChunk, pcm); err != nil {
		return EncodingInfo{}, nil, fmt.Errorf("%w: data chunk truncated", ErrInvalidWAV)
	}

	return EncodingInfo{
		Format:     format,
		Channels:   int(decoder.NumChans),
		SampleRate: int(decoder.SampleRate),
	}, pcm, nil
}

// writeSeeker is the in-memory io.WriteSeeker the wav encoder patches its
// chunk sizes into.
type writeSeeker struct {
	buf []byte
	pos int
}

func (w *writeSeeker) Write(p []byte) (int, error) {
	if end := w.pos + len(p); end > len(w.buf) {
		w.buf = append(w.buf, make([]byte, end-len(w.buf))...)
	}
	n := copy(w.buf[w.pos:], p)
	w.pos += n
	return n, nil
}

func (w *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = int64(w.pos) + offset
	case io.SeekEnd:
		pos = int64(len(w.buf)) + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	if pos < 0 {
		return 0, errors.New("negative position")
	}
	w.pos = int(pos)
	return pos, nil
}
