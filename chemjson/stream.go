/*
 * stream.go, part of pbfev.
 *
 * Copyright 2024 The pbfev authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package chemjson

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	gzipMagic = []byte{0x1f, 0x8b}
)

// RecordReader reads Records from a stream with one JSON record per line.
// The stream can be plain, or compressed with zstd or gzip.
type RecordReader struct {
	stream *bufio.Reader
	line   int
	closer func()
}

// NewRecordReader returns a RecordReader for in. The compression, if any,
// is detected from the first bytes of the stream.
func NewRecordReader(in io.Reader) (*RecordReader, error) {
	const funcname = "NewRecordReader"
	br := bufio.NewReader(in)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return nil, NewError("input", funcname, err)
	}
	R := &RecordReader{closer: func() {}}
	switch {
	case bytes.HasPrefix(head, zstdMagic):
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, NewError("input", funcname+"(zstd)", err)
		}
		R.stream = bufio.NewReader(dec)
		R.closer = dec.Close
	case bytes.HasPrefix(head, gzipMagic):
		dec, err := gzip.NewReader(br)
		if err != nil {
			return nil, NewError("input", funcname+"(gzip)", err)
		}
		R.stream = bufio.NewReader(dec)
		R.closer = func() { dec.Close() }
	default:
		R.stream = br
	}
	return R, nil
}

// Next returns the next record in the stream. Blank lines are skipped.
// It returns io.EOF, unwrapped, when there are no more records.
func (R *RecordReader) Next() (*Record, error) {
	for {
		line, err := R.stream.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) == 0 {
			if err == io.EOF {
				return nil, io.EOF
			}
			if err != nil {
				return nil, NewError("input", "RecordReader.Next", err)
			}
			R.line++
			continue
		}
		R.line++
		if err != nil && err != io.EOF {
			return nil, NewError("input", "RecordReader.Next", err)
		}
		rec := new(Record)
		if err2 := json.Unmarshal(line, rec); err2 != nil {
			return nil, R.lineError(err2)
		}
		return rec, nil
	}
}

// Line returns the line number of the last record read.
func (R *RecordReader) Line() int {
	return R.line
}

// lineError marks err as caused by the content of the current line, so
// the caller can skip the record and keep reading.
func (R *RecordReader) lineError(err error) *Error {
	jerr := NewError("input", "RecordReader.Next", err)
	jerr.Record = R.line
	return jerr
}

// Close releases the resources of the decompressor, if any.
// It doesn't close the underlying reader.
func (R *RecordReader) Close() {
	R.closer()
}

// NewWriter returns a WriteCloser that compresses what is written to it
// with the given format ("zstd" or "gzip") before writing it to out. An empty format means
// no compression. Closing the returned writer doesn't close out.
func NewWriter(out io.Writer, format string) (io.WriteCloser, error) {
	switch format {
	case "":
		return nopCloser{out}, nil
	case "zstd", "zst":
		enc, err := zstd.NewWriter(out)
		if err != nil {
			return nil, NewError("output", "NewWriter", err)
		}
		return enc, nil
	case "gzip", "gz":
		return gzip.NewWriter(out), nil
	}
	return nil, NewError("output", "NewWriter", fmt.Errorf("unknown compression format %q", format))
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
