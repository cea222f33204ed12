package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/retroenv/retroproc/internal/loader"
	"github.com/retroenv/retroproc/internal/memory"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// ErrNoImage is returned when a machine description maps the program
// image but no image was loaded.
var ErrNoImage = errors.New("no program image loaded")

// DefaultMachine maps 8 KiB of RAM at $0000 and the image as ROM at its
// start address. An image loaded into the RAM range is copied into the RAM
// instead.
func DefaultMachine(img *loader.Image) (*memory.Controller, error) {
	ctrl := memory.NewController()

	ram, err := memory.NewRAM(DefaultRAMSize, DefaultRAMFill)
	if err != nil {
		return nil, fmt.Errorf("creating ram: %w", err)
	}
	if err := ctrl.Map("ram", DefaultRAMStart, ram); err != nil {
		return nil, fmt.Errorf("mapping ram: %w", err)
	}

	if img == nil {
		return ctrl, nil
	}
	if int(img.Start) < DefaultRAMStart+DefaultRAMSize {
		if err := copyToRAM(ram, img); err != nil {
			return nil, err
		}
		return ctrl, nil
	}

	rom, err := memory.NewROM(img.Data)
	if err != nil {
		return nil, fmt.Errorf("creating rom: %w", err)
	}
	if err := ctrl.Map("rom", img.Start, rom); err != nil {
		return nil, fmt.Errorf("mapping rom: %w", err)
	}
	return ctrl, nil
}

func copyToRAM(ram *memory.Device, img *loader.Image) error {
	if int(img.End()) >= DefaultRAMStart+DefaultRAMSize {
		return fmt.Errorf("image $%04X-$%04X crosses the end of ram: %w",
			img.Start, img.End(), memory.ErrOverlap)
	}

	offset := img.Start - DefaultRAMStart
	for i, value := range img.Data {
		if err := ram.Write8(offset+uint16(i), value); err != nil {
			return fmt.Errorf("copying image to ram: %w", err)
		}
	}
	return nil
}

// LoadMachine executes a Starlark machine description file. Image paths in
// the description are relative to the directory of the file.
func LoadMachine(filename string, img *loader.Image) (*memory.Controller, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading machine file: %w", err)
	}
	return ParseMachine(filename, src, img, filepath.Dir(filename))
}

// ParseMachine executes a Starlark machine description. The description
// maps devices by calling the predeclared functions:
//
//	ram(start, size, fill=0xFF, name="")
//	rom(start=IMAGE_START, image="", data=[], name="")
//
// rom without image and data maps the loaded program image. IMAGE_START and
// IMAGE_SIZE describe the loaded program image, they are 0 without one.
func ParseMachine(filename string, src []byte, img *loader.Image, baseDir string) (*memory.Controller, error) {
	b := &machineBuilder{
		ctrl:    memory.NewController(),
		img:     img,
		baseDir: baseDir,
	}

	predeclared := starlark.StringDict{
		"ram":         starlark.NewBuiltin("ram", b.ram),
		"rom":         starlark.NewBuiltin("rom", b.rom),
		"IMAGE_START": starlark.MakeInt(0),
		"IMAGE_SIZE":  starlark.MakeInt(0),
	}
	if img != nil {
		predeclared["IMAGE_START"] = starlark.MakeInt(int(img.Start))
		predeclared["IMAGE_SIZE"] = starlark.MakeInt(len(img.Data))
	}

	thread := starlark.Thread{Name: "machine"}
	opts := syntax.FileOptions{}
	if _, err := starlark.ExecFileOptions(&opts, &thread, filename, src, predeclared); err != nil {
		return nil, fmt.Errorf("executing machine file: %w", err)
	}
	return b.ctrl, nil
}

type machineBuilder struct {
	ctrl    *memory.Controller
	img     *loader.Image
	baseDir string
}

func (b *machineBuilder) ram(_ *starlark.Thread, fn *starlark.Builtin,
	args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {

	var start, size int
	fill := DefaultRAMFill
	var name string
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs,
		"start", &start, "size", &size, "fill?", &fill, "name?", &name); err != nil {
		return nil, err
	}
	if fill < 0 || fill > 0xFF {
		return nil, fmt.Errorf("%s: fill value %d out of range", fn.Name(), fill)
	}

	dev, err := memory.NewRAM(size, byte(fill))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}
	return starlark.None, b.mapDevice(fn.Name(), name, start, dev)
}

func (b *machineBuilder) rom(_ *starlark.Thread, fn *starlark.Builtin,
	args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {

	var start starlark.Value = starlark.None
	var image, name string
	var data *starlark.List
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs,
		"start?", &start, "image?", &image, "data?", &data, "name?", &name); err != nil {
		return nil, err
	}

	content, err := b.romContent(image, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}

	address, err := b.romStart(start, image, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}

	dev, err := memory.NewROM(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn.Name(), err)
	}
	return starlark.None, b.mapDevice(fn.Name(), name, address, dev)
}

func (b *machineBuilder) romContent(image string, data *starlark.List) ([]byte, error) {
	switch {
	case image != "" && data != nil:
		return nil, errors.New("image and data are mutually exclusive")

	case image != "":
		if !filepath.IsAbs(image) {
			image = filepath.Join(b.baseDir, image)
		}
		content, err := os.ReadFile(image)
		if err != nil {
			return nil, fmt.Errorf("reading image: %w", err)
		}
		return content, nil

	case data != nil:
		content := make([]byte, data.Len())
		for i := range data.Len() {
			value, err := starlark.AsInt32(data.Index(i))
			if err != nil {
				return nil, fmt.Errorf("data[%d]: %w", i, err)
			}
			if value < 0 || value > 0xFF {
				return nil, fmt.Errorf("data[%d]: value %d out of range", i, value)
			}
			content[i] = byte(value)
		}
		return content, nil

	default:
		if b.img == nil {
			return nil, ErrNoImage
		}
		return b.img.Data, nil
	}
}

func (b *machineBuilder) romStart(start starlark.Value, image string, data *starlark.List) (int, error) {
	if start == starlark.None {
		if image != "" || data != nil {
			return 0, errors.New("missing start address")
		}
		return int(b.img.Start), nil
	}

	address, err := starlark.AsInt32(start)
	if err != nil {
		return 0, fmt.Errorf("start address: %w", err)
	}
	return address, nil
}

func (b *machineBuilder) mapDevice(kind, name string, start int, dev *memory.Device) error {
	if start < 0 || start > 0xFFFF {
		return fmt.Errorf("%s: start address %d: %w", kind, start, memory.ErrRange)
	}
	if name == "" {
		name = fmt.Sprintf("%s@$%04X", kind, start)
	}
	if err := b.ctrl.Map(name, uint16(start), dev); err != nil {
		return fmt.Errorf("%s: %w", kind, err)
	}
	return nil
}
