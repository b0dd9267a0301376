/*
sram - Persisted SRAM state file.

Copyright 2026, vm68k contributors.

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

// Package sram models the 16 KiB battery-backed SRAM file that holds the
// host's persisted boot configuration across emulator runs.
package sram

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"
)

const (
	// Size is the full SRAM image size.
	Size = 16 * 1024

	memSizeOffset = 0x08
	bootFlagOffset = 0x1d

	// DefaultMemSize is installed when the stored memory-size field is
	// zero.
	DefaultMemSize = 4 * 1024 * 1024
	// DefaultBootFlag is installed when the stored boot-flag byte is
	// zero.
	DefaultBootFlag = 16
)

// State is the in-memory image of the SRAM file.
type State struct {
	data [Size]byte
	path string
}

// Load reads the SRAM file at path, growing it to Size on first use. A
// missing file is treated as a freshly-initialized one.
func Load(path string) (*State, error) {
	s := &State{path: path}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("sram: read %s: %w", path, err)
		}
		slog.Debug("sram: creating new image", "path", path)
	} else {
		copy(s.data[:], raw)
	}

	if s.MemSize() == 0 {
		s.SetMemSize(DefaultMemSize)
	}
	if s.BootFlag() == 0 {
		s.SetBootFlag(DefaultBootFlag)
	}
	if len(raw) < Size {
		if err := s.Save(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Save writes the SRAM image back to its backing file.
func (s *State) Save() error {
	if err := os.WriteFile(s.path, s.data[:], 0o644); err != nil {
		slog.Error(err.Error())
		return fmt.Errorf("sram: write %s: %w", s.path, err)
	}
	return nil
}

// MemSize returns the stored guest memory size in bytes.
func (s *State) MemSize() uint32 {
	return binary.BigEndian.Uint32(s.data[memSizeOffset : memSizeOffset+4])
}

// SetMemSize stores the guest memory size in bytes.
func (s *State) SetMemSize(v uint32) {
	binary.BigEndian.PutUint32(s.data[memSizeOffset:memSizeOffset+4], v)
}

// BootFlag returns the stored boot-up flag byte.
func (s *State) BootFlag() byte {
	return s.data[bootFlagOffset]
}

// SetBootFlag stores the boot-up flag byte.
func (s *State) SetBootFlag(v byte) {
	s.data[bootFlagOffset] = v
}

// Bytes returns the raw 16 KiB image, as mapped into guest address space
// by the host.
func (s *State) Bytes() []byte {
	return s.data[:]
}
