package canvas

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"strings"
)

const snapshotPrefix = "data:image/png;base64,"

// EncodeSnapshot serializes a raster to a portable base64 PNG data URL.
func EncodeSnapshot(img image.Image) string {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return ""
	}
	return snapshotPrefix + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// DecodeSnapshot restores a raster from a snapshot string. A corrupt or
// empty snapshot decodes to nil; callers treat that as a blank page.
func DecodeSnapshot(snapshot string) image.Image {
	data := strings.TrimPrefix(snapshot, snapshotPrefix)
	if data == "" {
		return nil
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil
	}

	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil
	}
	return img
}
