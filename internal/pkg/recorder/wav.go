package recorder

import (
	"encoding/binary"
	"math"
	"strings"
)

const wavHeaderSize = 12

// fixWavSizes sets RIFF and data chunk sizes in place.
// ffmpeg writing wav to a pipe can not seek back, so both sizes are left as 0xFFFFFFFF
func fixWavSizes(data []byte) bool {
	if len(data) < wavHeaderSize || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return false
	}
	putSize(data[4:8], int64(len(data)-8))
	for pos := wavHeaderSize; pos+8 <= len(data); {
		id := string(data[pos : pos+4])
		if id == "data" {
			putSize(data[pos+4:pos+8], int64(len(data)-pos-8))
			return true
		}
		size := int64(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		if size > int64(len(data)-pos-8) {
			return false
		}
		pos += 8 + int(size+size%2)
	}
	return false
}

func putSize(b []byte, size int64) {
	if size > math.MaxUint32 {
		size = math.MaxUint32
	}
	binary.LittleEndian.PutUint32(b, uint32(size))
}

func isWav(mimeType string) bool {
	mt := strings.ToLower(mimeType)
	return mt == "audio/wav" || strings.HasPrefix(mt, "audio/wav;")
}
