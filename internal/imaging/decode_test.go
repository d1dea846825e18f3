package imaging

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func solid(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestStripDataURI(t *testing.T) {
	assert.Equal(t, "iVBORw0KGgo=", StripDataURI("data:image/png;base64,iVBORw0KGgo="))
	assert.Equal(t, "iVBORw0KGgo=", StripDataURI("  iVBORw0KGgo=\n"))
	assert.Equal(t, "data:image/png;base64", StripDataURI("data:image/png;base64"))
}

func TestDecodeBase64_PrefixedAndBareMatch(t *testing.T) {
	raw := encodePNG(t, solid(4, 4, color.NRGBA{R: 200, G: 10, B: 10, A: 255}))
	bare := base64.StdEncoding.EncodeToString(raw)

	fromBare, err := DecodeBase64(bare)
	require.NoError(t, err)
	fromURI, err := DecodeBase64("data:image/png;base64," + bare)
	require.NoError(t, err)

	assert.Equal(t, raw, fromBare)
	assert.Equal(t, fromBare, fromURI)
}

func TestDecodeBase64_Tolerance(t *testing.T) {
	raw := []byte("eye image bytes!")
	enc := base64.StdEncoding.EncodeToString(raw)

	got, err := DecodeBase64(enc[:8] + "\n" + enc[8:])
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	unpadded := base64.RawStdEncoding.EncodeToString([]byte("ab"))
	got, err = DecodeBase64(unpadded)
	require.NoError(t, err)
	assert.Equal(t, []byte("ab"), got)
}

func TestDecodeBase64_Errors(t *testing.T) {
	_, err := DecodeBase64("")
	assert.ErrorIs(t, err, ErrEmptyPayload)

	_, err = DecodeBase64("data:image/png;base64,")
	assert.ErrorIs(t, err, ErrEmptyPayload)

	_, err = DecodeBase64("not*base64!")
	assert.ErrorIs(t, err, ErrBase64)
}

func TestDecode(t *testing.T) {
	img, err := Decode(encodePNG(t, solid(3, 2, color.White)))
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())

	_, err = Decode([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrImage)
}

// pngHeaderOnly returns a well-formed PNG signature and IHDR claiming w*h
// RGBA pixels, followed by a minimal IDAT and IEND.
func pngHeaderOnly(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	chunk := func(typ string, data []byte) {
		var n [4]byte
		binary.BigEndian.PutUint32(n[:], uint32(len(data)))
		buf.Write(n[:])
		crc := crc32.NewIEEE()
		crc.Write([]byte(typ))
		crc.Write(data)
		buf.WriteString(typ)
		buf.Write(data)
		binary.BigEndian.PutUint32(n[:], crc.Sum32())
		buf.Write(n[:])
	}
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], w)
	binary.BigEndian.PutUint32(ihdr[4:8], h)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 6 // RGBA
	chunk("IHDR", ihdr)
	chunk("IDAT", []byte{0x78, 0x9c, 0x03, 0x00, 0x00, 0x00, 0x00, 0x01})
	chunk("IEND", nil)
	return buf.Bytes()
}

func TestDecode_RejectsOversizedHeader(t *testing.T) {
	data := pngHeaderOnly(60000, 60000)
	assert.Less(t, len(data), 128)

	img, err := Decode(data)
	assert.Nil(t, img)
	assert.ErrorIs(t, err, ErrImage)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestDecode_PixelLimitIsOnArea(t *testing.T) {
	_, err := Decode(pngHeaderOnly(MaxPixels+1, 1))
	assert.ErrorIs(t, err, ErrImage)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestToRGB_KeepsStoredColourUnderAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 7, 7))
	src.SetNRGBA(5, 5, color.NRGBA{R: 10, G: 20, B: 30, A: 128})
	src.SetNRGBA(6, 5, color.NRGBA{R: 200, G: 100, B: 50, A: 0})

	dst := ToRGB(src)
	assert.Equal(t, image.Rect(0, 0, 2, 2), dst.Bounds())
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 128}, dst.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 200, G: 100, B: 50, A: 0}, dst.NRGBAAt(1, 0))
}

func TestToRGB_PalettedTransparency(t *testing.T) {
	pal := color.Palette{
		color.NRGBA{R: 0, G: 0, B: 0, A: 255},
		color.NRGBA{R: 90, G: 160, B: 240, A: 0},
	}
	src := image.NewPaletted(image.Rect(0, 0, 2, 1), pal)
	src.SetColorIndex(1, 0, 1)

	dst := ToRGB(src)
	assert.Equal(t, color.NRGBA{A: 255}, dst.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 90, G: 160, B: 240, A: 0}, dst.NRGBAAt(1, 0))
}

func TestToRGB_Gray(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 1, 1))
	src.SetGray(0, 0, color.Gray{Y: 77})

	px := ToRGB(src).NRGBAAt(0, 0)
	assert.Equal(t, color.NRGBA{R: 77, G: 77, B: 77, A: 255}, px)
}
