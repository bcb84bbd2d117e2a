/*
Copyright 2022 by Milo Christiansen

This software is provided 'as-is', without any express or implied warranty. In
no event will the authors be held liable for any damages arising from the use of
this software.

Permission is granted to anyone to use this software for any purpose, including
commercial applications, and to alter it and redistribute it freely, subject to
the following restrictions:

1. The origin of this software must not be misrepresented; you must not claim
that you wrote the original software. If you use this software in a product, an
acknowledgment in the product documentation would be appreciated but is not
required.

2. Altered source versions must be plainly marked as such, and must not be
misrepresented as being the original software.

3. This notice may not be removed or altered from any source distribution.
*/

package tools

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	ledger "github.com/milochristiansen/financisto-ledger"
	"github.com/pkg/errors"
)

var gzipMagic = []byte{0x1f, 0x8b}

// OpenBackup opens a Financisto backup for reading. Backups are gzip compressed, but a plain text dump
// is accepted too. A file is decompressed if its name ends in .backup or .gz, or if it starts with the
// gzip magic number. The returned closer closes the file.
func OpenBackup(path string) (io.Reader, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening backup")
	}

	r, err := decompress(bufio.NewReader(f), path)
	if err != nil {
		f.Close()
		return nil, nil, errors.Wrapf(err, "decompressing %v", path)
	}
	return r, f, nil
}

// LoadBackup reads a whole Financisto backup into memory, decompressing it if needed.
func LoadBackup(path string) (string, error) {
	r, c, err := OpenBackup(path)
	if err != nil {
		return "", err
	}
	defer c.Close()

	content, err := io.ReadAll(r)
	if err != nil {
		return "", errors.Wrapf(err, "reading %v", path)
	}
	return string(content), nil
}

func decompress(br *bufio.Reader, path string) (io.Reader, error) {
	ext := strings.ToLower(filepath.Ext(path))
	compressed := ext == ".backup" || ext == ".gz"
	if !compressed {
		head, err := br.Peek(len(gzipMagic))
		if err != nil && err != io.EOF {
			return nil, err
		}
		compressed = bytes.Equal(head, gzipMagic)
	}

	if !compressed {
		return br, nil
	}
	return gzip.NewReader(br)
}

// WriteResult writes a conversion result to standard output, or to dir if it is not empty.
func WriteResult(r *ledger.Result, dir string) error {
	if dir == "" {
		_, err := r.WriteTo(os.Stdout)
		return err
	}
	return errors.Wrapf(r.WriteDir(dir), "writing to %v", dir)
}
