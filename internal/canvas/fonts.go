package canvas

import (
	"log"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Label faces are parsed once and cached per size; surfaces share them.
var (
	fontOnce    sync.Once
	regularFont *truetype.Font
	boldFont    *truetype.Font

	faceMu    sync.Mutex
	faceCache = map[faceKey]font.Face{}
)

type faceKey struct {
	size float64
	bold bool
}

func loadFonts() {
	var err error
	regularFont, err = truetype.Parse(goregular.TTF)
	if err != nil {
		log.Printf("canvas: parse regular font: %v", err)
	}
	boldFont, err = truetype.Parse(gobold.TTF)
	if err != nil {
		log.Printf("canvas: parse bold font: %v", err)
	}
}

// fontFace returns a cached face at the given pixel size. Returns nil only
// if the embedded fonts failed to parse, which callers treat as "skip text".
func fontFace(size float64, bold bool) font.Face {
	fontOnce.Do(loadFonts)

	if size <= 0 {
		size = 12
	}
	key := faceKey{size: size, bold: bold}

	faceMu.Lock()
	defer faceMu.Unlock()
	if f, ok := faceCache[key]; ok {
		return f
	}

	src := regularFont
	if bold {
		src = boldFont
	}
	if src == nil {
		return nil
	}
	f := truetype.NewFace(src, &truetype.Options{Size: size, DPI: 72})
	faceCache[key] = f
	return f
}
