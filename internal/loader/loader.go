// Package loader handles firmware image loading operations.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/retroenv/retrogolib/arch/system/nes/cartridge"
	"github.com/retroenv/retroproc/internal/detector"
	"github.com/retroenv/retroproc/internal/options"
	"github.com/retroenv/retroproc/internal/translate"
)

var f = translate.From

const (
	addressSpace = 0x10000
	prgBase      = 0x8000
	prgBankSize  = 0x4000
)

var (
	// ErrEmptyImage is returned for an image without any program data.
	ErrEmptyImage = errors.New(f("image contains no program data"))
	// ErrImageTooLarge is returned for an image that does not fit into the
	// address space at its start address.
	ErrImageTooLarge = errors.New(f("image does not fit into the address space"))
)

// Image is a firmware image placed in the processor address space.
type Image struct {
	Data   []byte
	Start  uint16
	Mapper uint16 // mapper number of an iNES cartridge, 0 for raw images
}

// End returns the last address covered by the image.
func (img *Image) End() uint16 {
	return img.Start + uint16(len(img.Data)-1)
}

// Loader handles loading image files from disk.
type Loader struct{}

// New creates a new image loader.
func New() *Loader {
	return &Loader{}
}

// Load opens the input file of the options and parses it in the given format.
func (l *Loader) Load(opts options.Program, run options.Run, format detector.Format) (*Image, error) {
	file, err := os.Open(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", opts.Input, err)
	}
	defer func() { _ = file.Close() }()

	return l.Parse(file, run, format)
}

// Parse reads an image in the given format from the reader.
func (l *Loader) Parse(reader io.Reader, run options.Run, format detector.Format) (*Image, error) {
	switch format {
	case detector.INES:
		cart, err := cartridge.LoadFile(reader)
		if err != nil {
			return nil, fmt.Errorf("loading cartridge: %w", err)
		}
		return placeCartridge(cart)

	case detector.Raw:
		data, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("reading raw image: %w", err)
		}
		// the buffer loader pads PRG to a multiple of 16 KiB
		cart, err := cartridge.LoadBuffer(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("loading raw image: %w", err)
		}
		return placeRaw(cart.PRG[:len(data)], run)

	default:
		return nil, fmt.Errorf("unsupported image format '%s'", format)
	}
}

// placeCartridge maps the PRG ROM of a cartridge so that it ends at $FFFF.
// A single 16 KiB bank is mirrored into $8000-$BFFF as on an NROM board.
func placeCartridge(cart *cartridge.Cartridge) (*Image, error) {
	prg := cart.PRG
	switch {
	case len(prg) == 0:
		return nil, ErrEmptyImage
	case len(prg) > addressSpace-prgBase:
		return nil, fmt.Errorf("PRG size %d without mapper support: %w", len(prg), ErrImageTooLarge)
	}

	data := make([]byte, 0, addressSpace-prgBase)
	data = append(data, prg...)
	if len(prg) == prgBankSize {
		data = append(data, prg...)
	}

	return &Image{
		Data:   data,
		Start:  uint16(addressSpace - len(data)),
		Mapper: cart.Mapper,
	}, nil
}

func placeRaw(data []byte, run options.Run) (*Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}

	start := addressSpace - len(data)
	if run.HasLoadAddress {
		start = int(run.LoadAddress)
	}
	if start < 0 || start+len(data) > addressSpace {
		return nil, fmt.Errorf("%d bytes at $%04X: %w", len(data), start, ErrImageTooLarge)
	}

	return &Image{
		Data:  data,
		Start: uint16(start),
	}, nil
}
