package meter

import (
	"encoding/binary"
	"math"
)

// Floor is the level reported for silence or missing data.
const Floor = -160.0

// AveragePower returns the RMS level in dBFS of one channel of interleaved
// 16-bit little-endian PCM. Partial trailing frames are ignored.
func AveragePower(pcm []byte, channels, channel int) float64 {
	if channels < 1 || channel < 0 || channel >= channels {
		return Floor
	}
	frameSize := channels * 2
	frames := len(pcm) / frameSize
	if frames == 0 {
		return Floor
	}

	var sum float64
	for i := range frames {
		off := i*frameSize + channel*2
		s := float64(int16(binary.LittleEndian.Uint16(pcm[off:]))) / 32768.0
		sum += s * s
	}

	rms := math.Sqrt(sum / float64(frames))
	if rms == 0 {
		return Floor
	}
	return math.Max(20*math.Log10(rms), Floor)
}
