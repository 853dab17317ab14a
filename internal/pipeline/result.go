package pipeline

import (
	"strings"

	"github.com/dunamismax/pixelpress/internal/domain"
	"github.com/dunamismax/pixelpress/internal/handle"
)

const defaultOutputStem = "image"

type transcoded struct {
	data   []byte
	width  int
	height int
}

func assembleResult(src domain.SourceImage, out transcoded, opts domain.ProcessingOptions) domain.ProcessedImage {
	return domain.ProcessedImage{
		Data:            out.data,
		ProcessedSize:   len(out.data),
		OriginalSize:    src.Size(),
		Format:          opts.Format,
		Quality:         opts.Quality,
		Width:           out.width,
		Height:          out.height,
		Filename:        OutputFilename(src.Name, opts.Format),
		OriginalHandle:  handle.New(src.Data, src.MIMEType),
		ProcessedHandle: handle.New(out.data, opts.Format.MIMEType()),
	}
}

// OutputFilename keeps the text of name before its first '.' and appends the
// extension of format. Directory components are dropped.
func OutputFilename(name string, format domain.Format) string {
	stem := strings.TrimSpace(name)
	if i := strings.LastIndexAny(stem, `/\`); i >= 0 {
		stem = stem[i+1:]
	}
	if i := strings.IndexByte(stem, '.'); i >= 0 {
		stem = stem[:i]
	}
	if stem == "" {
		stem = defaultOutputStem
	}
	return stem + "." + format.Extension()
}
