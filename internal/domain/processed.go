package domain

import (
	"fmt"
	"math"
	"strconv"

	"github.com/dunamismax/pixelpress/internal/handle"
)

// ProcessedImage is handed to the caller after a successful call. The
// pipeline keeps no reference to it; releasing the handles is the caller's job.
type ProcessedImage struct {
	Data            []byte
	ProcessedSize   int
	OriginalSize    int
	Format          Format
	Quality         int
	Width           int
	Height          int
	Filename        string
	OriginalHandle  *handle.Handle
	ProcessedHandle *handle.Handle
}

func (p ProcessedImage) BytesSaved() int {
	saved := p.OriginalSize - p.ProcessedSize
	if saved < 0 {
		return 0
	}
	return saved
}

// CompressionRatio renders the size reduction as a percentage, negative when
// the output grew.
func (p ProcessedImage) CompressionRatio() string {
	if p.OriginalSize == 0 {
		return "0%"
	}
	ratio := float64(p.OriginalSize-p.ProcessedSize) / float64(p.OriginalSize) * 100
	return fmt.Sprintf("%.1f%%", ratio)
}

// Release releases both display handles.
func (p ProcessedImage) Release() {
	if p.OriginalHandle != nil {
		p.OriginalHandle.Release()
	}
	if p.ProcessedHandle != nil {
		p.ProcessedHandle.Release()
	}
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(sizeUnits) {
		i = len(sizeUnits) - 1
	}
	value := float64(bytes) / math.Pow(1024, float64(i))
	value = math.Round(value*100) / 100
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + sizeUnits[i]
}
