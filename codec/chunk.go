package codec

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
)

const (
	pngSignature = "\x89PNG\r\n\x1a\n"

	// Private, ancillary, safe-to-copy chunk marking float samples. The
	// payload names the sample layout.
	floatChunkType  = "hdRf"
	halfChunkData   = "binary16"
	singleChunkData = "binary32"
)

// Insert an ancillary chunk right after the IHDR chunk of an encoded PNG.
func insertChunk(png []byte, chunkType string, data []byte) []byte {
	const ihdrEnd = len(pngSignature) + 4 + 4 + 13 + 4

	chunk := make([]byte, 8+len(data)+4)
	binary.BigEndian.PutUint32(chunk[0:4], uint32(len(data)))
	copy(chunk[4:8], chunkType)
	copy(chunk[8:], data)
	binary.BigEndian.PutUint32(chunk[8+len(data):], crc32.ChecksumIEEE(chunk[4:8+len(data)]))

	out := make([]byte, 0, len(png)+len(chunk))
	out = append(out, png[:ihdrEnd]...)
	out = append(out, chunk...)
	return append(out, png[ihdrEnd:]...)
}

// Scan the chunks preceding the image data for the given chunk type and
// return its payload.
func findChunk(data []byte, chunkType string) ([]byte, bool) {
	if !bytes.HasPrefix(data, []byte(pngSignature)) {
		return nil, false
	}

	for off := len(pngSignature); off+8 <= len(data); {
		length := int(binary.BigEndian.Uint32(data[off : off+4]))
		typ := string(data[off+4 : off+8])
		switch typ {
		case chunkType:
			end := off + 8 + length
			if length < 0 || end > len(data) {
				return nil, false
			}
			return data[off+8 : end], true
		case "IDAT", "IEND":
			return nil, false
		}
		off += 8 + length + 4
	}
	return nil, false
}
