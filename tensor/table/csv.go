// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"

	"cogentcore.org/stingray/base/errors"
	"cogentcore.org/stingray/base/metadata"
	"cogentcore.org/stingray/tensor"
)

// Delims are standard CSV delimiter options (Tab, Comma, Space)
type Delims int32

const (
	// Tab is the tab rune delimiter, for TSV tab separated values
	Tab Delims = iota

	// Comma is the comma rune delimiter, for CSV comma separated values
	Comma

	// Space is the space rune delimiter, for SSV space separated value
	Space

	// Detect is used during reading a file -- reads the first line and detects tabs or commas
	Detect
)

func (dl Delims) Rune() rune {
	switch dl {
	case Tab:
		return '\t'
	case Comma:
		return ','
	case Space:
		return ' '
	}
	return '\t'
}

const (
	// Headers is passed to CSV methods for the headers arg, to use headers
	// that capture full type and tensor shape information.
	Headers = true

	// NoHeaders is passed to CSV methods for the headers arg, to not use headers
	NoHeaders = false
)

// detectDelim returns the delimiter of the first line of data:
// tabs if it has any, otherwise commas.
func detectDelim(data string) Delims {
	line, _, _ := strings.Cut(data, "\n")
	if strings.Contains(line, "\t") {
		return Tab
	}
	return Comma
}

// ReadCSV reads a table from a comma-separated-values (CSV) file
// (where comma = any delimiter, specified in the delim arg),
// using the Go standard encoding/csv reader conforming to the official CSV standard.
// If the table does not currently have any columns, the first row of the file
// is assumed to be headers, and columns are constructed therefrom.
// If the file was saved from table with headers, then these have full configuration
// information for tensor type and dimensionality.
// If the table DOES have existing columns, then those are used robustly
// for whatever information fits from each row of the file.
func (dt *Table) ReadCSV(r io.Reader, delim Delims) error {
	if delim == Detect {
		b, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		delim = detectDelim(string(b))
		r = strings.NewReader(string(b))
	}
	cr := csv.NewReader(r)
	cr.Comma = delim.Rune()
	cr.FieldsPerRecord = -1
	rec, err := cr.ReadAll()
	if err != nil || len(rec) == 0 {
		return err
	}
	rows := len(rec)
	strow := 0
	if dt.NumColumns() == 0 || DetectTableHeaders(rec[0]) {
		dt.DeleteAll()
		err := ConfigFromHeaders(dt, rec[0], rec)
		if err != nil {
			return errors.Log(err)
		}
		strow++
		rows--
	}
	dt.SetNumRows(rows)
	for ri := 0; ri < rows; ri++ {
		dt.ReadCSVRow(rec[ri+strow], ri)
	}
	return nil
}

// ReadCSVRow reads a record of CSV data into given row in table
func (dt *Table) ReadCSVRow(rec []string, row int) {
	tc := dt.NumColumns()
	ci := 0
	if len(rec) > 0 && rec[0] == "_D:" { // data row
		ci++
	}
	if ci >= len(rec) {
		return
	}
	nan := math.NaN()
	for j := 0; j < tc; j++ {
		tsr := dt.ColumnByIndex(j)
		_, csz := tsr.RowCellSize()
		stoff := row * csz
		for cc := 0; cc < csz; cc++ {
			str := strings.TrimSpace(rec[ci])
			switch {
			case tsr.IsString() || tsr.DataType() == reflect.Bool:
				tsr.SetString1D(str, stoff+cc)
			case str == "" || str == "NaN" || str == "-NaN":
				tsr.SetFloat1D(nan, stoff+cc)
			default:
				tsr.SetString1D(str, stoff+cc)
			}
			ci++
			if ci >= len(rec) {
				return
			}
		}
	}
}

// ConfigFromHeaders attempts to configure Table based on the headers.
// for non-table headers, data is examined to determine types.
func ConfigFromHeaders(dt *Table, hdrs []string, rec [][]string) error {
	if DetectTableHeaders(hdrs) {
		return ConfigFromTableHeaders(dt, hdrs)
	}
	return ConfigFromDataValues(dt, hdrs, rec)
}

// DetectTableHeaders looks for special header characters -- returns true if found
func DetectTableHeaders(hdrs []string) bool {
	for _, hd := range hdrs {
		hd = strings.TrimSpace(hd)
		if hd == "" {
			continue
		}
		if hd == "_H:" {
			return true
		}
		if _, ok := TableHeaderToType[hd[0]]; !ok { // all must be table
			return false
		}
	}
	return true
}

// ConfigFromTableHeaders attempts to configure a Table based on special table headers
func ConfigFromTableHeaders(dt *Table, hdrs []string) error {
	for _, hd := range hdrs {
		hd = strings.TrimSpace(hd)
		if hd == "" || hd == "_H:" {
			continue
		}
		typ, hd := TableColumnType(hd)
		dimst := strings.Index(hd, "]<")
		if dimst > 0 {
			dims := hd[dimst+2 : len(hd)-1]
			lbst := strings.Index(hd, "[")
			hd = hd[:lbst]
			csh, err := ShapeFromString(dims)
			if err != nil {
				return err
			}
			// new tensor starting
			dt.AddColumnOfType(hd, typ, csh...)
			continue
		}
		dimst = strings.Index(hd, "[")
		if dimst > 0 {
			continue
		}
		dt.AddColumnOfType(hd, typ)
	}
	return nil
}

// TableHeaderToType maps special header characters to data type
var TableHeaderToType = map[byte]reflect.Kind{
	'$': reflect.String,
	'%': reflect.Float32,
	'#': reflect.Float64,
	'|': reflect.Int,
	'^': reflect.Bool,
}

// TableHeaderChar returns the special header character based on given data type
func TableHeaderChar(typ reflect.Kind) byte {
	switch {
	case typ == reflect.Bool:
		return '^'
	case typ == reflect.Float32:
		return '%'
	case typ == reflect.Float64:
		return '#'
	case typ >= reflect.Int && typ <= reflect.Uintptr:
		return '|'
	default:
		return '$'
	}
}

// TableColumnType parses the column header for special table type information
func TableColumnType(nm string) (reflect.Kind, string) {
	typ, ok := TableHeaderToType[nm[0]]
	if ok {
		nm = nm[1:]
	} else {
		typ = reflect.String // most general, default
	}
	return typ, nm
}

// ShapeFromString parses string representation of shape as N:d,d,..
func ShapeFromString(dims string) ([]int, error) {
	nds, szs, ok := strings.Cut(dims, ":")
	if !ok {
		return nil, fmt.Errorf("table.ShapeFromString: missing ':' in %q", dims)
	}
	nd, err := strconv.Atoi(nds)
	if err != nil {
		return nil, fmt.Errorf("table.ShapeFromString: %w", err)
	}
	ds := strings.Split(szs, ",")
	if len(ds) != nd {
		return nil, fmt.Errorf("table.ShapeFromString: %q does not have %d dimensions", dims, nd)
	}
	sh := make([]int, nd)
	for i, d := range ds {
		sh[i], err = strconv.Atoi(d)
		if err != nil {
			return nil, fmt.Errorf("table.ShapeFromString: %w", err)
		}
	}
	return sh, nil
}

// ConfigFromDataValues configures a Table based on data types inferred
// from the string representation of given records, using header names if present.
func ConfigFromDataValues(dt *Table, hdrs []string, rec [][]string) error {
	nr := len(rec)
	for ci, hd := range hdrs {
		hd = strings.TrimSpace(hd)
		if hd == "" {
			hd = fmt.Sprintf("col_%d", ci)
		}
		typ := reflect.Invalid
	rows:
		for ri := 1; ri < nr; ri++ {
			if ci >= len(rec[ri]) {
				continue
			}
			rv := strings.TrimSpace(rec[ri][ci])
			if rv == "" {
				continue
			}
			ctyp := InferDataType(rv)
			switch {
			case ctyp == reflect.String: // definitive
				typ = ctyp
				break rows
			case typ == reflect.Invalid:
				typ = ctyp
			case typ == reflect.Int && ctyp == reflect.Float64: // upgrade
				typ = ctyp
			}
		}
		if typ == reflect.Invalid {
			typ = reflect.String
		}
		dt.AddColumnOfType(hd, typ)
	}
	return nil
}

// InferDataType returns the inferred data type for the given string
// only deals with float64, int, and string types
func InferDataType(str string) reflect.Kind {
	if strings.Contains(str, ".") {
		_, err := strconv.ParseFloat(str, 64)
		if err == nil {
			return reflect.Float64
		}
	}
	_, err := strconv.ParseInt(str, 10, 64)
	if err == nil {
		return reflect.Int
	}
	// try float again just in case..
	_, err = strconv.ParseFloat(str, 64)
	if err == nil {
		return reflect.Float64
	}
	return reflect.String
}

////////  WriteCSV

// WriteCSV writes a table to a comma-separated-values (CSV) file
// (where comma = any delimiter, specified in the delim arg).
// If headers = true then generate column headers that capture the type
// and tensor cell geometry of the columns, enabling full reloading
// of exactly the same table format and data (recommended).
// Otherwise, only the data is written.
// Complex columns must be split with [Table.SplitComplex] first.
func (dt *Table) WriteCSV(w io.Writer, delim Delims, headers bool) error {
	for i, tsr := range dt.Columns.Values {
		if tsr.DataType() == reflect.Complex128 {
			return fmt.Errorf("table.WriteCSV: complex column %q is not supported", dt.ColumnName(i))
		}
	}
	ncol := 0
	var err error
	if headers {
		ncol, err = dt.WriteCSVHeaders(w, delim)
		if err != nil {
			return err
		}
	}
	cw := csv.NewWriter(w)
	cw.Comma = delim.Rune()
	for ri := 0; ri < dt.NumRows(); ri++ {
		err = dt.WriteCSVRowWriter(cw, ri, ncol)
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVHeaders writes headers to a comma-separated-values (CSV) file
// (where comma = any delimiter, specified in the delim arg).
// Returns number of columns in header
func (dt *Table) WriteCSVHeaders(w io.Writer, delim Delims) (int, error) {
	cw := csv.NewWriter(w)
	cw.Comma = delim.Rune()
	hdrs := dt.TableHeaders()
	nc := len(hdrs)
	err := cw.Write(hdrs)
	if err != nil {
		return nc, err
	}
	cw.Flush()
	return nc, cw.Error()
}

// WriteCSVRowWriter uses csv.Writer to write one row
func (dt *Table) WriteCSVRowWriter(cw *csv.Writer, row int, ncol int) error {
	prec := -1
	if ps, err := metadata.Get[int](dt.Meta, "precision"); err == nil {
		prec = ps
	}
	rec := make([]string, 0, ncol)
	for _, tsr := range dt.Columns.Values {
		_, tc := tsr.RowCellSize()
		for ti := 0; ti < tc; ti++ {
			vl := ""
			if prec <= 0 || tsr.IsString() || tsr.DataType() == reflect.Bool {
				vl = tsr.String1D(row*tc + ti)
			} else {
				vl = strconv.FormatFloat(tsr.Float1D(row*tc+ti), 'g', prec, 64)
			}
			rec = append(rec, vl)
		}
	}
	return cw.Write(rec)
}

// TableHeaders generates special header strings from the table
// with full information about type and tensor cell dimensionality.
func (dt *Table) TableHeaders() []string {
	hdrs := []string{}
	for i, tsr := range dt.Columns.Values {
		nm := dt.ColumnName(i)
		nm = string([]byte{TableHeaderChar(tsr.DataType())}) + nm
		if tsr.NumDims() == 1 {
			hdrs = append(hdrs, nm)
			continue
		}
		csh := tensor.NewShape(tsr.Shape().CellSizes()...) // cell shape
		tc := csh.Len()
		nd := csh.NumDims()
		fnm := nm + fmt.Sprintf("[%v:", nd)
		dn := fmt.Sprintf("<%v:", nd)
		ffnm := fnm
		for di := 0; di < nd; di++ {
			ffnm += "0"
			dn += fmt.Sprintf("%v", csh.DimSize(di))
			if di < nd-1 {
				ffnm += ","
				dn += ","
			}
		}
		ffnm += "]" + dn + ">"
		hdrs = append(hdrs, ffnm)
		for ti := 1; ti < tc; ti++ {
			idx := csh.Index(ti)
			ffnm := fnm
			for di := 0; di < nd; di++ {
				ffnm += fmt.Sprintf("%v", idx[di])
				if di < nd-1 {
					ffnm += ","
				}
			}
			ffnm += "]"
			hdrs = append(hdrs, ffnm)
		}
	}
	return hdrs
}
