package loader

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retroproc/internal/detector"
	"github.com/retroenv/retroproc/internal/options"
)

func nesFile(banks int, fill func(prg []byte)) []byte {
	data := make([]byte, 16+banks*prgBankSize)
	copy(data[0:4], []byte{'N', 'E', 'S', 0x1A})
	data[4] = byte(banks)
	if fill != nil {
		fill(data[16:])
	}
	return data
}

//nolint:funlen // test functions can be long
func TestLoad(t *testing.T) {
	t.Run("load raw file ending at $FFFF", func(t *testing.T) {
		tmpFile := createTempFile(t, []byte{0xA9, 0x01, 0x00, 0xFF})

		loader := New()
		opts := options.Program{}
		opts.Input = tmpFile

		img, err := loader.Load(opts, options.NewRun(), detector.Raw)
		assert.NoError(t, err)
		assert.Equal(t, uint16(0xFFFC), img.Start)
		assert.Equal(t, uint16(0xFFFF), img.End())
		assert.True(t, bytes.Equal([]byte{0xA9, 0x01, 0x00, 0xFF}, img.Data))
	})

	t.Run("load raw file at load address", func(t *testing.T) {
		tmpFile := createTempFile(t, []byte{0xEA, 0xEA})

		run := options.NewRun()
		run.LoadAddress = 0x0200
		run.HasLoadAddress = true

		opts := options.Program{}
		opts.Input = tmpFile

		img, err := New().Load(opts, run, detector.Raw)
		assert.NoError(t, err)
		assert.Equal(t, uint16(0x0200), img.Start)
		assert.Equal(t, uint16(0x0201), img.End())
	})

	t.Run("raw image smaller than a PRG bank", func(t *testing.T) {
		data := make([]byte, 0x100)
		data[0] = 0xEA
		data[0xFC] = 0x00 // reset vector low
		data[0xFD] = 0xFF // reset vector high

		img, err := New().Parse(bytes.NewReader(data), options.NewRun(), detector.Raw)
		assert.NoError(t, err)
		assert.Len(t, img.Data, 0x100)
		assert.Equal(t, uint16(0xFF00), img.Start)
		assert.Equal(t, byte(0x00), img.Data[0xFC])
		assert.Equal(t, byte(0xFF), img.Data[0xFD])
	})

	t.Run("raw image with odd length at load address", func(t *testing.T) {
		data := bytes.Repeat([]byte{0xEA}, 0x1234)
		run := options.NewRun()
		run.LoadAddress = 0xC000
		run.HasLoadAddress = true

		img, err := New().Parse(bytes.NewReader(data), run, detector.Raw)
		assert.NoError(t, err)
		assert.Len(t, img.Data, 0x1234)
		assert.Equal(t, uint16(0xC000), img.Start)
		assert.Equal(t, uint16(0xD233), img.End())
	})

	t.Run("raw file past end of address space", func(t *testing.T) {
		run := options.NewRun()
		run.LoadAddress = 0xFFFF
		run.HasLoadAddress = true

		_, err := New().Parse(bytes.NewReader([]byte{1, 2}), run, detector.Raw)
		assert.True(t, errors.Is(err, ErrImageTooLarge))
	})

	t.Run("empty raw file", func(t *testing.T) {
		_, err := New().Parse(bytes.NewReader(nil), options.NewRun(), detector.Raw)
		assert.Error(t, err)
	})

	t.Run("load NES file with single bank", func(t *testing.T) {
		data := nesFile(1, func(prg []byte) {
			prg[0] = 0xA9
			prg[len(prg)-4] = 0x00 // reset vector low
			prg[len(prg)-3] = 0xC0 // reset vector high
		})
		tmpFile := createTempFile(t, data)

		opts := options.Program{}
		opts.Input = tmpFile

		img, err := New().Load(opts, options.NewRun(), detector.INES)
		assert.NoError(t, err)
		assert.Equal(t, uint16(0x8000), img.Start)
		assert.Len(t, img.Data, 2*prgBankSize)
		assert.Equal(t, byte(0xA9), img.Data[0])
		assert.Equal(t, byte(0xA9), img.Data[prgBankSize])
		assert.Equal(t, byte(0xC0), img.Data[len(img.Data)-3])
	})

	t.Run("load NES file with two banks", func(t *testing.T) {
		data := nesFile(2, func(prg []byte) {
			prg[prgBankSize] = 0x42
		})

		img, err := New().Parse(bytes.NewReader(data), options.NewRun(), detector.INES)
		assert.NoError(t, err)
		assert.Equal(t, uint16(0x8000), img.Start)
		assert.Len(t, img.Data, 2*prgBankSize)
		assert.Equal(t, byte(0x42), img.Data[prgBankSize])
	})

	t.Run("NES file needing a mapper", func(t *testing.T) {
		data := nesFile(4, nil)

		_, err := New().Parse(bytes.NewReader(data), options.NewRun(), detector.INES)
		assert.True(t, errors.Is(err, ErrImageTooLarge))
	})

	t.Run("error on invalid NES header", func(t *testing.T) {
		_, err := New().Parse(bytes.NewReader([]byte("not a cartridge")), options.NewRun(), detector.INES)
		assert.Error(t, err)
	})

	t.Run("error on non-existent file", func(t *testing.T) {
		opts := options.Program{}
		opts.Input = "/nonexistent/file.nes"

		_, err := New().Load(opts, options.NewRun(), detector.INES)
		assert.ErrorContains(t, err, "opening file")
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := New().Parse(bytes.NewReader([]byte{1}), options.NewRun(), detector.Format("chip8"))
		assert.ErrorContains(t, err, "unsupported image format")
	})
}

func createTempFile(t *testing.T, data []byte) string {
	t.Helper()

	name := filepath.Join(t.TempDir(), "image.bin")
	assert.NoError(t, os.WriteFile(name, data, 0o600))
	return name
}
