package player

import "encoding/binary"

func bytesToSamples(raw []byte) []int16 {
	out := make([]int16, len(raw)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	return out
}

// normalize converts a clip to the playback format: stereo s16le at
// sampleRate. Mono is duplicated to both channels and other rates are
// linearly resampled.
func normalize(c clip) []byte {
	srcFrames := len(c.samples) / c.channels
	if srcFrames == 0 {
		return nil
	}

	frame := func(i int) (int16, int16) {
		if c.channels == 1 {
			s := c.samples[i]
			return s, s
		}
		return c.samples[i*2], c.samples[i*2+1]
	}

	outFrames := srcFrames
	if c.sampleRate != sampleRate {
		outFrames = int(int64(srcFrames) * sampleRate / int64(c.sampleRate))
		if outFrames == 0 {
			outFrames = 1
		}
	}

	out := make([]byte, outFrames*frameSize)
	for i := range outFrames {
		var l, r int16
		if c.sampleRate == sampleRate {
			l, r = frame(i)
		} else {
			// Source position in fixed point: whole frame plus remainder
			// over sampleRate.
			num := int64(i) * int64(c.sampleRate)
			idx := int(num / sampleRate)
			frac := num % sampleRate
			l0, r0 := frame(idx)
			l1, r1 := l0, r0
			if idx+1 < srcFrames {
				l1, r1 = frame(idx + 1)
			}
			l = lerp16(l0, l1, frac)
			r = lerp16(r0, r1, frac)
		}
		binary.LittleEndian.PutUint16(out[i*frameSize:], uint16(l))
		binary.LittleEndian.PutUint16(out[i*frameSize+2:], uint16(r))
	}
	return out
}

func lerp16(a, b int16, frac int64) int16 {
	if frac == 0 || a == b {
		return a
	}
	diff := int64(b) - int64(a)
	return int16(int64(a) + diff*frac/sampleRate)
}
