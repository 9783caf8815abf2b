package recorder

import (
	"context"
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pipeWav(extra []byte, samples int) []byte {
	res := []byte("RIFF\xff\xff\xff\xffWAVE")
	fmtChunk := make([]byte, 24)
	copy(fmtChunk, "fmt ")
	binary.LittleEndian.PutUint32(fmtChunk[4:], 16)
	binary.LittleEndian.PutUint16(fmtChunk[8:], 1)
	binary.LittleEndian.PutUint16(fmtChunk[10:], 1)
	binary.LittleEndian.PutUint32(fmtChunk[12:], 44100)
	binary.LittleEndian.PutUint32(fmtChunk[16:], 88200)
	binary.LittleEndian.PutUint16(fmtChunk[20:], 2)
	binary.LittleEndian.PutUint16(fmtChunk[22:], 16)
	res = append(res, fmtChunk...)
	res = append(res, extra...)
	res = append(res, []byte("data\xff\xff\xff\xff")...)
	return append(res, make([]byte, samples*2)...)
}

func TestFixWavSizes(t *testing.T) {
	data := pipeWav(nil, 100)

	assert.True(t, fixWavSizes(data))

	assert.Equal(t, uint32(len(data)-8), binary.LittleEndian.Uint32(data[4:8]))
	assert.Equal(t, "data", string(data[36:40]))
	assert.Equal(t, uint32(200), binary.LittleEndian.Uint32(data[40:44]))
}

func TestFixWavSizes_SkipsChunks(t *testing.T) {
	list := []byte("LIST\x05\x00\x00\x00INFOx\x00")
	data := pipeWav(list, 10)

	assert.True(t, fixWavSizes(data))

	pos := 36 + len(list)
	assert.Equal(t, "data", string(data[pos:pos+4]))
	assert.Equal(t, uint32(20), binary.LittleEndian.Uint32(data[pos+4:pos+8]))
	assert.Equal(t, uint32(len(data)-8), binary.LittleEndian.Uint32(data[4:8]))
}

func TestFixWavSizes_NotWav(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "Short", data: []byte("RIFF")},
		{name: "Not RIFF", data: []byte("OggS\x00\x00\x00\x00WAVEfmt ")},
		{name: "No data chunk", data: pipeWav(nil, 0)[:36]},
		{name: "Broken chunk", data: []byte("RIFF\xff\xff\xff\xffWAVEfmt \xff\x00\x00\x00")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, fixWavSizes(tt.data))
		})
	}
}

func Test_isWav(t *testing.T) {
	assert.True(t, isWav("audio/wav"))
	assert.True(t, isWav("Audio/WAV"))
	assert.True(t, isWav("audio/wav;codecs=1"))
	assert.False(t, isWav("audio/webm"))
	assert.False(t, isWav(""))
}

func TestSession_StopFixesWavSizes(t *testing.T) {
	d := &fakeDevice{supported: map[string]bool{"audio/wav": true}}
	s, mc, _ := newTestSession(t, d)
	require.Nil(t, s.Start(context.Background(), testTask))
	data := pipeWav(nil, 50)
	st := d.last()
	st.ch <- data[:20]
	st.ch <- data[20:]
	mc.Add(4 * time.Second)

	rec, err := s.Stop()

	require.Nil(t, err)
	require.Equal(t, len(data), rec.Size())
	assert.Equal(t, uint32(len(data)-8), binary.LittleEndian.Uint32(rec.Data[4:8]))
	assert.Equal(t, uint32(100), binary.LittleEndian.Uint32(rec.Data[40:44]))
}
