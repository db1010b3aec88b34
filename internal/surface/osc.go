package surface

import "bytes"

// OSC sequences are ESC ] <code> ; <text> terminated by either BEL
// (0x07) or ST (ESC \). Retargeted from the teacher's CSI scanner
// (ansi.go's NextAnsiCode, which walks ESC[ ... <final byte>) to the
// OSC grammar instead: the teacher's "find ESC-introducer, then walk a
// classified byte region until a terminator" technique generalizes
// directly, just with different introducer/terminator bytes and no
// param/interm byte classification since OSC's payload is free text.
var oscEscBytes = []byte{0x1b, ']'}

// oscMatch is one fully-terminated OSC sequence found in a chunk.
type oscMatch struct {
	code string // the numeric code before the first ';'
	text string // the payload after the first ';'
}

// scanOscSequences finds every complete OSC sequence in data, in order.
// An OSC sequence left unterminated at the end of data (e.g. split
// across two read chunks) is not returned; IoReader's coalescing loop
// feeds enough of the stream that splits across reader iterations are
// rare, and a dropped OSC update is corrected by the next one.
func scanOscSequences(data []byte) []oscMatch {

	var matches []oscMatch
	offset := 0

	for {
		start := bytes.Index(data[offset:], oscEscBytes)
		if start == -1 {
			return matches
		}
		start += offset
		payloadStart := start + len(oscEscBytes)

		end, terminatorLen := findOscTerminator(data[payloadStart:])
		if end == -1 {
			return matches
		}
		payload := data[payloadStart : payloadStart+end]

		if code, text, ok := splitOscPayload(payload); ok {
			matches = append(matches, oscMatch{code: code, text: text})
		}

		offset = payloadStart + end + terminatorLen
	}
}

// findOscTerminator returns the offset of BEL or ESC-backslash (ST)
// within data, and the terminator's byte length, or -1 if neither
// appears.
func findOscTerminator(data []byte) (offset, length int) {

	for i := 0; i < len(data); i++ {
		switch data[i] {
		case 0x07:
			return i, 1
		case 0x1b:
			if i+1 < len(data) && data[i+1] == '\\' {
				return i, 2
			}
		}
	}
	return -1, 0
}

func splitOscPayload(payload []byte) (code, text string, ok bool) {

	i := bytes.IndexByte(payload, ';')
	if i == -1 {
		return string(payload), "", true
	}
	return string(payload[:i]), string(payload[i+1:]), true
}
