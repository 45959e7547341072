package vmbackend

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/containust/containust/internal/primitives"
)

const (
	cpioMagic      = "070701"
	cpioHeaderSize = 110
	cpioTrailer    = "TRAILER!!!"

	modeDir  = 0o040755
	modeExec = 0o100755
)

// CpioEntry is one file or directory packed into a newc-format cpio
// archive.
type CpioEntry struct {
	Name string
	Mode uint32
	Data []byte
}

// WriteCpio packs entries in order, bottom cpio "newc" format (spec §6):
// each entry is a 110-byte ASCII header beginning with "070701", twelve
// 8-hex-digit fields, a filename (NUL-terminated, 4-byte padded), and
// 4-byte-padded file data. A zero-size TRAILER!!! entry terminates the
// archive.
func WriteCpio(w io.Writer, entries []CpioEntry) error {
	var inode uint32 = 1
	for _, e := range entries {
		if err := writeCpioEntry(w, e.Name, e.Mode, e.Data, inode); err != nil {
			return err
		}
		inode++
	}
	return writeCpioEntry(w, cpioTrailer, 0, nil, 0)
}

func writeCpioEntry(w io.Writer, name string, mode uint32, data []byte, inode uint32) error {
	namesize := len(name) + 1 // NUL terminator
	header := cpioMagic +
		hex8(inode) + // ino
		hex8(mode) + // mode
		hex8(0) + // uid
		hex8(0) + // gid
		hex8(1) + // nlink
		hex8(0) + // mtime
		hex8(uint32(len(data))) + // filesize
		hex8(0) + // devmajor
		hex8(0) + // devminor
		hex8(0) + // rdevmajor
		hex8(0) + // rdevminor
		hex8(uint32(namesize)) + // namesize
		hex8(0) // check

	if len(header) != cpioHeaderSize {
		return primitives.NewSerialization(fmt.Sprintf("internal cpio header size %d != 110", len(header)), nil)
	}
	if _, err := io.WriteString(w, header); err != nil {
		return primitives.NewIo("", "writing cpio header", err)
	}
	if _, err := io.WriteString(w, name); err != nil {
		return primitives.NewIo("", "writing cpio name", err)
	}
	if _, err := w.Write([]byte{0}); err != nil {
		return primitives.NewIo("", "writing cpio name terminator", err)
	}
	if err := padTo4(w, cpioHeaderSize+namesize); err != nil {
		return err
	}
	if len(data) > 0 {
		if _, err := w.Write(data); err != nil {
			return primitives.NewIo("", "writing cpio data", err)
		}
	}
	return padTo4(w, len(data))
}

func hex8(v uint32) string {
	s := strconv.FormatUint(uint64(v), 16)
	for len(s) < 8 {
		s = "0" + s
	}
	return s
}

func padTo4(w io.Writer, n int) error {
	pad := (4 - n%4) % 4
	if pad == 0 {
		return nil
	}
	if _, err := w.Write(make([]byte, pad)); err != nil {
		return primitives.NewIo("", "writing cpio padding", err)
	}
	return nil
}

// ReadCpio unpacks a newc-format archive, skipping the trailer entry.
func ReadCpio(r io.Reader) ([]CpioEntry, error) {
	var entries []CpioEntry
	for {
		header := make([]byte, cpioHeaderSize)
		n, err := io.ReadFull(r, header)
		if err == io.EOF && n == 0 {
			break
		}
		if err != nil {
			return nil, primitives.NewSerialization("reading cpio header", err)
		}
		if string(header[:6]) != cpioMagic {
			return nil, primitives.NewConfig("cpio: bad magic %q", string(header[:6]))
		}
		mode, err := parseHex8(header, 14)
		if err != nil {
			return nil, err
		}
		filesize, err := parseHex8(header, 54)
		if err != nil {
			return nil, err
		}
		namesize, err := parseHex8(header, 94)
		if err != nil {
			return nil, err
		}

		nameBuf := make([]byte, namesize)
		if _, err := io.ReadFull(r, nameBuf); err != nil {
			return nil, primitives.NewSerialization("reading cpio name", err)
		}
		name := string(bytes.TrimRight(nameBuf, "\x00"))
		if err := consumePad(r, cpioHeaderSize+int(namesize)); err != nil {
			return nil, err
		}

		data := make([]byte, filesize)
		if filesize > 0 {
			if _, err := io.ReadFull(r, data); err != nil {
				return nil, primitives.NewSerialization("reading cpio data", err)
			}
		}
		if err := consumePad(r, int(filesize)); err != nil {
			return nil, err
		}

		if name == cpioTrailer {
			break
		}
		entries = append(entries, CpioEntry{Name: name, Mode: mode, Data: data})
	}
	return entries, nil
}

func parseHex8(header []byte, offset int) (uint32, error) {
	v, err := strconv.ParseUint(string(header[offset:offset+8]), 16, 32)
	if err != nil {
		return 0, primitives.NewSerialization("parsing cpio header field", err)
	}
	return uint32(v), nil
}

func consumePad(r io.Reader, n int) error {
	pad := (4 - n%4) % 4
	if pad == 0 {
		return nil
	}
	buf := make([]byte, pad)
	_, err := io.ReadFull(r, buf)
	if err != nil {
		return primitives.NewSerialization("reading cpio padding", err)
	}
	return nil
}
