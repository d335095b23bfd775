package service

import (
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/multi"
)

// Barcode is one decoded symbol: its UTF-8 payload and the symbology
// name reported by the decoder.
type Barcode struct {
	Data   string `json:"data"`
	Format string `json:"format"`
}

// BarcodeDecoder locates and decodes zero or more barcodes in an
// image. Result order is decoder-reported order; the scan handler
// takes the first.
type BarcodeDecoder interface {
	Decode(img image.Image) ([]Barcode, error)
}

// ZXingDecoder decodes barcodes with the gozxing multi-format reader,
// covering the 1D retail symbologies plus QR.
type ZXingDecoder struct {
	reader *multi.GenericMultipleBarcodeReader
}

// NewZXingDecoder creates a new ZXingDecoder instance.
func NewZXingDecoder() *ZXingDecoder {
	return &ZXingDecoder{
		reader: multi.NewGenericMultipleBarcodeReader(gozxing.NewMultiFormatReader()),
	}
}

// Decode returns every barcode found in the image. An image the
// reader cannot find any symbol in yields an empty slice, not an
// error; by this point the image bytes have already decoded cleanly.
func (d *ZXingDecoder) Decode(img image.Image) ([]Barcode, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, err
	}

	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	results, err := d.reader.DecodeMultiple(bmp, hints)
	if err != nil {
		// gozxing reports "nothing found" as an error
		return []Barcode{}, nil
	}

	barcodes := make([]Barcode, 0, len(results))
	for _, r := range results {
		barcodes = append(barcodes, Barcode{
			Data:   r.GetText(),
			Format: r.GetBarcodeFormat().String(),
		})
	}
	return barcodes, nil
}
