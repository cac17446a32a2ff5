package engine

import "encoding/binary"

// Container layout: 4-byte magic, then length-prefixed chunks. QHDR must
// come first; the metadata chunks are optional; QPIX carries the zstd frame
// of the filtered pixel rows; QEND terminates the stream.
//
//	"QOIR"
//	QHDR u32le(10) width:u32le height:u32le pixfmt:u8 lossiness:u8
//	CICP/ICCP/EXIF/"XMP " u32le(n) blob
//	QPIX u32le(n) zstd-frame
//	QEND u32le(0)
const (
	fileMagic = "QOIR"

	tagHeader = "QHDR"
	tagCICP   = "CICP"
	tagICCP   = "ICCP"
	tagEXIF   = "EXIF"
	tagXMP    = "XMP "
	tagPixels = "QPIX"
	tagEnd    = "QEND"

	headerPayloadLen = 10
)

// MaxDimension is the largest width or height the container can carry.
const MaxDimension = 0xFFFFFF

// Engine status messages. A non-empty status on a result record is the sole
// failure discriminant; the texts are surfaced verbatim to callers.
const (
	statusBadMagic      = "qoir: invalid header magic"
	statusTruncated     = "qoir: truncated data"
	statusBadHeader     = "qoir: malformed header chunk"
	statusBadPixFmt     = "qoir: unsupported pixel format"
	statusNoPixels      = "qoir: missing pixel chunk"
	statusBadPixelData  = "qoir: pixel payload size mismatch"
	statusEmptyClip     = "qoir: empty clip rectangle intersection"
	statusTooLarge      = "qoir: image dimensions too large"
	statusInvalidArg    = "qoir: invalid argument"
	statusUnsupportedLo = "qoir: unsupported lossiness"
)

type header struct {
	width     uint32
	height    uint32
	pixfmt    uint32
	lossiness uint32
}

func appendChunk(dst []byte, tag string, payload []byte) []byte {
	dst = append(dst, tag...)
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(payload)))
	return append(dst, payload...)
}

func appendHeaderChunk(dst []byte, h header) []byte {
	var p [headerPayloadLen]byte
	binary.LittleEndian.PutUint32(p[0:4], h.width)
	binary.LittleEndian.PutUint32(p[4:8], h.height)
	p[8] = byte(h.pixfmt)
	p[9] = byte(h.lossiness)
	return appendChunk(dst, tagHeader, p[:])
}

// chunkReader walks the chunk stream after the magic bytes.
type chunkReader struct {
	data []byte
	pos  int
}

func (cr *chunkReader) next() (tag string, payload []byte, ok bool) {
	if cr.pos+8 > len(cr.data) {
		return "", nil, false
	}
	tag = string(cr.data[cr.pos : cr.pos+4])
	n := int(binary.LittleEndian.Uint32(cr.data[cr.pos+4 : cr.pos+8]))
	cr.pos += 8
	if n < 0 || cr.pos+n > len(cr.data) {
		return "", nil, false
	}
	payload = cr.data[cr.pos : cr.pos+n]
	cr.pos += n
	return tag, payload, true
}

// parseHeader checks the magic and decodes the leading QHDR chunk. It
// returns a chunkReader positioned at the chunk after the header.
func parseHeader(data []byte) (header, *chunkReader, string) {
	if len(data) < len(fileMagic) || string(data[:len(fileMagic)]) != fileMagic {
		return header{}, nil, statusBadMagic
	}
	cr := &chunkReader{data: data, pos: len(fileMagic)}
	tag, payload, ok := cr.next()
	if !ok {
		return header{}, nil, statusTruncated
	}
	if tag != tagHeader || len(payload) != headerPayloadLen {
		return header{}, nil, statusBadHeader
	}
	h := header{
		width:     binary.LittleEndian.Uint32(payload[0:4]),
		height:    binary.LittleEndian.Uint32(payload[4:8]),
		pixfmt:    uint32(payload[8]),
		lossiness: uint32(payload[9]),
	}
	if h.width == 0 || h.height == 0 || h.width > MaxDimension || h.height > MaxDimension {
		return header{}, nil, statusBadHeader
	}
	if !Supported(h.pixfmt) {
		return header{}, nil, statusBadPixFmt
	}
	if h.lossiness > 7 {
		return header{}, nil, statusBadHeader
	}
	return h, cr, ""
}

type metadata struct {
	cicp []byte
	iccp []byte
	exif []byte
	xmp  []byte
}

// parseBody collects the metadata chunks and the pixel payload following the
// header. Unknown chunk tags are skipped.
func parseBody(cr *chunkReader) (metadata, []byte, string) {
	var meta metadata
	var pixels []byte
	seenPixels := false
	for {
		tag, payload, ok := cr.next()
		if !ok {
			return metadata{}, nil, statusTruncated
		}
		switch tag {
		case tagCICP:
			meta.cicp = payload
		case tagICCP:
			meta.iccp = payload
		case tagEXIF:
			meta.exif = payload
		case tagXMP:
			meta.xmp = payload
		case tagPixels:
			pixels = payload
			seenPixels = true
		case tagEnd:
			if !seenPixels {
				return metadata{}, nil, statusNoPixels
			}
			return meta, pixels, ""
		}
	}
}
