// Package capture decodes local video files with OpenCV.
package capture

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/nguyentantai21042004/telop-review/internal/media"
)

type implDecoder struct {
	capture *gocv.VideoCapture
	mat     gocv.Mat
}

// Open opens path for sequential decoding. It satisfies media.OpenFunc.
func Open(path string) (media.Decoder, error) {
	capture, err := gocv.OpenVideoCapture(path)
	if err != nil {
		return nil, fmt.Errorf("open video capture: %w", err)
	}

	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("video capture is not opened: %s", path)
	}

	return &implDecoder{
		capture: capture,
		mat:     gocv.NewMat(),
	}, nil
}

func (d *implDecoder) FPS() float64 {
	return d.capture.Get(gocv.VideoCaptureFPS)
}

func (d *implDecoder) FrameCount() int {
	n := d.capture.Get(gocv.VideoCaptureFrameCount)
	if n < 0 {
		return 0
	}
	return int(n)
}

func (d *implDecoder) Advance() bool {
	return d.capture.Read(&d.mat) && !d.mat.Empty()
}

func (d *implDecoder) Image() (image.Image, error) {
	img, err := d.mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("convert mat: %w", err)
	}
	return img, nil
}

func (d *implDecoder) Close() error {
	if err := d.mat.Close(); err != nil {
		d.capture.Close()
		return err
	}
	return d.capture.Close()
}
