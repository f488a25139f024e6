package wire

// Frame layout:
//
//	byte 0    total frame length, FrameMin..FrameMax
//	byte 1    event type
//	bytes 2+  VLQ-encoded signed value
//	last 2    CRC16 over everything before it, big-endian

// AppendFrame appends the framed event to dst and returns the extended
// slice. The firmware side calls this from its report path with a reused
// scratch buffer, so it never allocates on its own.
func AppendFrame(dst []byte, e Event) []byte {
	start := len(dst)
	dst = append(dst, 0, byte(e.Type))
	dst = appendVLQInt(dst, e.Value)
	dst[start] = byte(len(dst) - start + 2)

	crc := CRC16(dst[start:])
	return append(dst, byte(crc>>8), byte(crc))
}

// Decoder incrementally parses the event stream. Corrupt length bytes, CRC
// mismatches and malformed payloads resynchronize by dropping a single byte
// and rescanning; a torn tail is kept until more bytes arrive.
type Decoder struct {
	buf []byte
}

// Feed appends raw stream bytes and returns the events completed by them.
func (d *Decoder) Feed(p []byte) []Event {
	d.buf = append(d.buf, p...)

	var events []Event
	for len(d.buf) > 0 {
		length := int(d.buf[0])
		if length < FrameMin || length > FrameMax {
			d.buf = d.buf[1:]
			continue
		}
		if len(d.buf) < length {
			break
		}

		frame := d.buf[:length]
		crc := uint16(frame[length-2])<<8 | uint16(frame[length-1])
		if CRC16(frame[:length-2]) != crc {
			d.buf = d.buf[1:]
			continue
		}

		value, n, err := decodeVLQInt(frame[2 : length-2])
		if err != nil || n != length-FrameMin {
			d.buf = d.buf[1:]
			continue
		}

		events = append(events, Event{Type: EventType(frame[1]), Value: value})
		d.buf = d.buf[length:]
	}

	if len(d.buf) == 0 {
		d.buf = nil
	}
	return events
}
