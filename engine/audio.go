package engine

import (
	"encoding/binary"
	"math"
	"sync"
	"time"
	"unsafe"

	"github.com/Zyko0/go-sdl3/sdl"

	"github.com/annavanharmelen/Microsaccade-bias-experiment/response"
)

const (
	MaxActiveSounds   = 16
	AudioScratchBytes = 4096
	SampleRate        = 44100
	Channels          = 2
)

// Sound is signed 16-bit interleaved stereo at SampleRate.
type Sound struct {
	Data []byte
}

// AudioSpec is the format every Sound is in.
func AudioSpec() *sdl.AudioSpec {
	return &sdl.AudioSpec{Format: sdl.AUDIO_S16, Channels: Channels, Freq: SampleRate}
}

// Tone synthesises a sine tone with 5 ms ramps at both ends. volume is in
// [0, 1].
func Tone(freq float64, d time.Duration, volume float64) *Sound {
	n := int(d.Seconds() * SampleRate)
	ramp := SampleRate / 200 // 5 ms
	data := make([]byte, n*Channels*2)
	for i := 0; i < n; i++ {
		gain := volume
		if i < ramp {
			gain *= float64(i) / float64(ramp)
		} else if n-1-i < ramp {
			gain *= float64(n-1-i) / float64(ramp)
		}
		v := int16(gain * 32767 * math.Sin(2*math.Pi*freq*float64(i)/SampleRate))
		for c := 0; c < Channels; c++ {
			binary.NativeEndian.PutUint16(data[(i*Channels+c)*2:], uint16(v))
		}
	}
	return &Sound{Data: data}
}

type ActiveSound struct {
	Sound   *Sound
	PlayPos uint32
	Active  bool
}

type AudioMixer struct {
	Slots   [MaxActiveSounds]ActiveSound
	Mutex   sync.Mutex
	Scratch []byte
}

func NewAudioMixer() *AudioMixer {
	return &AudioMixer{
		Scratch: make([]byte, AudioScratchBytes),
	}
}

// mix adds the next len(buf) bytes of every active sound into buf, clipping
// to the int16 range.
func (m *AudioMixer) mix(buf []byte) {
	m.Mutex.Lock()
	defer m.Mutex.Unlock()

	dst := unsafe.Slice((*int16)(unsafe.Pointer(&buf[0])), len(buf)/2)
	for i := 0; i < MaxActiveSounds; i++ {
		s := &m.Slots[i]
		if !s.Active {
			continue
		}

		soundRemaining := uint32(len(s.Sound.Data)) - s.PlayPos
		toMix := uint32(len(buf))
		if toMix > soundRemaining {
			toMix = soundRemaining
		}

		if toMix > 0 {
			src := unsafe.Slice((*int16)(unsafe.Pointer(&s.Sound.Data[s.PlayPos])), toMix/2)
			for j := range src {
				val := int32(dst[j]) + int32(src[j])
				if val > math.MaxInt16 {
					val = math.MaxInt16
				} else if val < math.MinInt16 {
					val = math.MinInt16
				}
				dst[j] = int16(val)
			}
		}

		s.PlayPos += toMix
		if s.PlayPos >= uint32(len(s.Sound.Data)) {
			s.Active = false
		}
	}
}

func (m *AudioMixer) Callback(stream *sdl.AudioStream, additionalAmount, totalAmount int32) {
	remaining := int(additionalAmount)
	for remaining > 0 {
		chunk := remaining
		if chunk > AudioScratchBytes {
			chunk = AudioScratchBytes
		}
		clear(m.Scratch[:chunk])
		m.mix(m.Scratch[:chunk])
		stream.PutData(m.Scratch[:chunk])
		remaining -= chunk
	}
}

// Play starts snd in a free slot. It returns false if all slots are busy.
func (m *AudioMixer) Play(snd *Sound) bool {
	if snd == nil || len(snd.Data) == 0 {
		return false
	}
	m.Mutex.Lock()
	defer m.Mutex.Unlock()

	for i := 0; i < MaxActiveSounds; i++ {
		if !m.Slots[i].Active {
			m.Slots[i].Sound = snd
			m.Slots[i].PlayPos = 0
			m.Slots[i].Active = true
			return true
		}
	}
	return false
}

// ToneSounder plays a warning tone for feedback that needs the
// participant's attention.
type ToneSounder struct {
	mixer *AudioMixer
	tones map[string]*Sound
}

func NewToneSounder(mixer *AudioMixer) *ToneSounder {
	return &ToneSounder{
		mixer: mixer,
		tones: map[string]*Sound{
			response.FeedbackMissed: Tone(440, 200*time.Millisecond, 0.3),
			response.FeedbackBroken: Tone(220, 300*time.Millisecond, 0.4),
		},
	}
}

func (t *ToneSounder) Play(feedback string) {
	if snd, ok := t.tones[feedback]; ok {
		t.mixer.Play(snd)
	}
}
