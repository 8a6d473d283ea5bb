// Package stata reads and writes Stata dta binary data files, format
// releases 117 (Stata 13) and 118 (Stata 14).
//
// The codec decodes a dta file into a frame.Table of typed, labeled
// columns and encodes such a table back into a release 118 file. Numeric
// missing-value sentinels, value labels and the date/datetime display
// formats all round-trip. strL long strings are decoded (as categorical
// columns) but never written: the writer emits an empty strL section.
//
// # Basic Usage
//
// Reading a file:
//
//	import "github.com/arloliu/stata"
//
//	tbl, err := stata.ReadFile("survey.dta")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	age, _ := tbl.Column("age")
//
// Writing a table:
//
//	err = stata.WriteFile("out", tbl) // ".dta" appended when absent
//
// Large files decode in row slabs to bound peak memory; the chunk count is
// tunable and never changes the result:
//
//	tbl, err := stata.ReadFile("huge.dta", dta.WithChunks(20))
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the dta
// package, which holds the Reader and Writer for callers that work with
// streams or need configuration options.
package stata

import (
	"os"
	"strings"

	"github.com/arloliu/stata/dta"
	"github.com/arloliu/stata/frame"
)

// ReadFile decodes the dta file at path into a fully materialized table.
// The file descriptor is released before the call returns, on every path.
func ReadFile(path string, opts ...dta.ReaderOption) (*frame.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := dta.NewReader(f, opts...)
	if err != nil {
		return nil, err
	}

	return r.Read()
}

// WriteFile encodes t into a release 118 dta file at path, appending the
// ".dta" suffix when absent. Columns the format cannot represent are
// dropped and reported on standard output unless configured otherwise.
func WriteFile(path string, t *frame.Table, opts ...dta.WriterOption) error {
	if !strings.HasSuffix(path, ".dta") {
		path += ".dta"
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w, err := dta.NewWriter(f, opts...)
	if err != nil {
		f.Close()
		return err
	}
	if err := w.Write(t); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
