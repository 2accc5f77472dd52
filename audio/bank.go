package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"
	"github.com/pkg/errors"

	"fungus/debug"
)

// DefaultSampleRate is the engine rate every clip is resampled to
const DefaultSampleRate = beep.SampleRate(44100)

// resampleQuality is beep's interpolation quality (1-64)
const resampleQuality = 4

var (
	ErrEmptyBank      = errors.New("sample bank is empty")
	ErrClipOutOfRange = errors.New("clip index out of range")
)

// Bank holds pre-decoded clips, one per track. Clips are read-only after
// loading so any number of voices can play the same clip at once.
type Bank struct {
	format beep.Format
	clips  []*beep.Buffer
	names  []string
}

// SamplePaths returns dir/0.ogg .. dir/(n-1).ogg
func SamplePaths(dir string, n int) []string {
	paths := make([]string, n)
	for i := range paths {
		paths[i] = filepath.Join(dir, fmt.Sprintf("%d.ogg", i))
	}
	return paths
}

// LoadBank decodes every file (wav, ogg, mp3) into memory at rate
func LoadBank(paths []string, rate beep.SampleRate) (*Bank, error) {
	if len(paths) == 0 {
		return nil, ErrEmptyBank
	}
	b := NewBank(rate)
	for _, p := range paths {
		if err := b.load(p); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// NewBank creates an empty stereo bank at rate
func NewBank(rate beep.SampleRate) *Bank {
	return &Bank{format: beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}}
}

func (b *Bank) load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open sample")
	}
	defer f.Close()

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		stream, format, err = wav.Decode(f)
	case ".ogg":
		stream, format, err = vorbis.Decode(f)
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	default:
		return errors.Errorf("%s: unsupported sample format", path)
	}
	if err != nil {
		return errors.Wrapf(err, "decode %s", path)
	}
	defer stream.Close()

	var s beep.Streamer = stream
	if format.SampleRate != b.format.SampleRate {
		s = beep.Resample(resampleQuality, format.SampleRate, b.format.SampleRate, stream)
	}
	buf := beep.NewBuffer(b.format)
	buf.Append(s)
	if err := stream.Err(); err != nil {
		return errors.Wrapf(err, "decode %s", path)
	}
	b.Add(filepath.Base(path), buf)
	debug.Log("audio", "loaded %s: %v at %d Hz", path, b.format.SampleRate.D(buf.Len()).Round(time.Millisecond), format.SampleRate)
	return nil
}

// Add appends an already decoded clip
func (b *Bank) Add(name string, clip *beep.Buffer) {
	b.clips = append(b.clips, clip)
	b.names = append(b.names, name)
}

func (b *Bank) Len() int {
	return len(b.clips)
}

// Format is the format shared by every clip
func (b *Bank) Format() beep.Format {
	return b.format
}

// Name returns the file name clip i was loaded from
func (b *Bank) Name(i int) string {
	if i < 0 || i >= len(b.names) {
		return ""
	}
	return b.names[i]
}

// Clip returns a fresh voice for clip i
func (b *Bank) Clip(i int) (beep.StreamSeeker, error) {
	if i < 0 || i >= len(b.clips) {
		return nil, fmt.Errorf("%w: %d (bank has %d)", ErrClipOutOfRange, i, len(b.clips))
	}
	buf := b.clips[i]
	return buf.Streamer(0, buf.Len()), nil
}
