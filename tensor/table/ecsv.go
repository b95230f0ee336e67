// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package table

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"

	"cogentcore.org/stingray/tensor"
	"gopkg.in/yaml.v3"
)

// ECSVVersion is the version of the Enhanced Character Separated
// Values format written by [Table.WriteECSV].
const ECSVVersion = "1.0"

// ecsvColumn is one entry of the datatype list of an ECSV header.
// Columns with multidimensional cells have a string datatype and a
// subtype giving the element type and cell shape, e.g., float64[2,3],
// with each cell written as a JSON array.
type ecsvColumn struct {
	Name        string `yaml:"name"`
	Datatype    string `yaml:"datatype"`
	Subtype     string `yaml:"subtype,omitempty"`
	Unit        string `yaml:"unit,omitempty"`
	Description string `yaml:"description,omitempty"`
}

type ecsvHeader struct {
	Delimiter string         `yaml:"delimiter,omitempty"`
	Datatype  []ecsvColumn   `yaml:"datatype"`
	Meta      map[string]any `yaml:"meta,omitempty"`
}

// ecsvReadHeader keeps the meta as a node, which can be either a
// mapping or an ordered map (a sequence of single-key mappings).
type ecsvReadHeader struct {
	Delimiter string       `yaml:"delimiter"`
	Datatype  []ecsvColumn `yaml:"datatype"`
	Meta      yaml.Node    `yaml:"meta"`
	Schema    string       `yaml:"schema"`
}

// ecsvDatatype returns the ECSV datatype name for the given kind.
func ecsvDatatype(kind reflect.Kind) (string, error) {
	switch kind {
	case reflect.Float64:
		return "float64", nil
	case reflect.Float32:
		return "float32", nil
	case reflect.Int:
		return "int64", nil
	case reflect.Int32:
		return "int32", nil
	case reflect.Uint8:
		return "uint8", nil
	case reflect.Bool:
		return "bool", nil
	case reflect.String:
		return "string", nil
	}
	return "", fmt.Errorf("data type %v is not supported in ECSV text cells", kind)
}

// ecsvKind returns the tensor kind for the given ECSV datatype name.
func ecsvKind(dtype string) (reflect.Kind, error) {
	switch dtype {
	case "float64", "float128":
		return reflect.Float64, nil
	case "float32", "float16":
		return reflect.Float32, nil
	case "int64", "int16", "int8", "uint64", "uint32", "uint16":
		return reflect.Int, nil
	case "int32":
		return reflect.Int32, nil
	case "uint8":
		return reflect.Uint8, nil
	case "bool":
		return reflect.Bool, nil
	case "string":
		return reflect.String, nil
	}
	return reflect.Invalid, fmt.Errorf("ECSV datatype %q is not supported", dtype)
}

// WriteECSV writes the table in the ECSV format: a YAML header in
// comment lines with the column datatypes and, if meta is true, the
// table metadata, followed by space separated values.
// Complex columns must be split with [Table.SplitComplex] first.
func (dt *Table) WriteECSV(w io.Writer, meta bool) error {
	hdr := ecsvHeader{Datatype: make([]ecsvColumn, dt.NumColumns())}
	for i, tsr := range dt.Columns.Values {
		dtype, err := ecsvDatatype(tsr.DataType())
		if err != nil {
			return fmt.Errorf("table.WriteECSV: column %q: %w", dt.ColumnName(i), err)
		}
		col := ecsvColumn{Name: dt.ColumnName(i), Datatype: dtype}
		if tsr.NumDims() > 1 {
			col.Datatype = "string"
			col.Subtype = dtype + shapeString(tsr.Shape().CellSizes())
		}
		hdr.Datatype[i] = col
	}
	if meta {
		hdr.Meta = PlainMeta(dt.Meta)
	}
	yb, err := MarshalYAML(&hdr)
	if err != nil {
		return fmt.Errorf("table.WriteECSV: %w", err)
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %%ECSV %s\n# ---\n", ECSVVersion)
	for _, line := range strings.Split(strings.TrimRight(string(yb), "\n"), "\n") {
		bw.WriteString("# " + line + "\n")
	}
	cw := csv.NewWriter(bw)
	cw.Comma = ' '
	cw.Write(dt.ColumnNames())
	rec := make([]string, dt.NumColumns())
	for row := range dt.NumRows() {
		for i, tsr := range dt.Columns.Values {
			if tsr.NumDims() == 1 {
				rec[i] = ecsvValue(tsr, row)
				continue
			}
			_, cells := tsr.RowCellSize()
			cb, err := json.Marshal(cellValue(tsr, tsr.Shape().CellSizes(), row*cells))
			if err != nil {
				return fmt.Errorf("table.WriteECSV: column %q: %w", dt.ColumnName(i), err)
			}
			rec[i] = string(cb)
		}
		cw.Write(rec)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return bw.Flush()
}

// shapeString returns the given sizes as [d,d,...].
func shapeString(sizes []int) string {
	ss := make([]string, len(sizes))
	for i, s := range sizes {
		ss[i] = strconv.Itoa(s)
	}
	return "[" + strings.Join(ss, ",") + "]"
}

func ecsvValue(tsr tensor.Tensor, i int) string {
	if tsr.DataType() == reflect.Bool {
		if tsr.Float1D(i) != 0 {
			return "True"
		}
		return "False"
	}
	return tsr.String1D(i)
}

// cellValue returns the cell values starting at offset off as
// nested slices, with non-finite floats as nil (JSON null).
func cellValue(tsr tensor.Tensor, sizes []int, off int) any {
	_, inner := tensor.NewShape(sizes...).RowCellSize()
	vals := make([]any, sizes[0])
	for i := range vals {
		if len(sizes) > 1 {
			vals[i] = cellValue(tsr, sizes[1:], off+i*inner)
			continue
		}
		j := off + i
		switch tsr.DataType() {
		case reflect.String:
			vals[i] = tsr.String1D(j)
		case reflect.Bool:
			vals[i] = tsr.Float1D(j) != 0
		case reflect.Int, reflect.Int32, reflect.Uint8:
			vals[i] = tsr.Int1D(j)
		default:
			fv := tsr.Float1D(j)
			if math.IsNaN(fv) || math.IsInf(fv, 0) {
				vals[i] = nil
			} else {
				vals[i] = fv
			}
		}
	}
	return vals
}

// ReadECSV reads a table in the ECSV format, replacing any
// existing columns, and setting the metadata from the header.
func (dt *Table) ReadECSV(r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	var hlines []string
	rest := string(b)
	for rest != "" {
		line, after, _ := strings.Cut(rest, "\n")
		if !strings.HasPrefix(line, "#") {
			break
		}
		hlines = append(hlines, strings.TrimRight(line, "\r"))
		rest = after
	}
	if len(hlines) < 2 || !strings.HasPrefix(hlines[0], "# %ECSV") {
		return fmt.Errorf("table.ReadECSV: missing %%ECSV header line")
	}
	if strings.TrimSpace(strings.TrimPrefix(hlines[1], "#")) != "---" {
		return fmt.Errorf("table.ReadECSV: missing --- header start line")
	}
	var ys strings.Builder
	for _, line := range hlines[2:] {
		line = strings.TrimPrefix(line, "#")
		ys.WriteString(strings.TrimPrefix(line, " ") + "\n")
	}
	var hdr ecsvReadHeader
	if err := yaml.Unmarshal([]byte(ys.String()), &hdr); err != nil {
		return fmt.Errorf("table.ReadECSV: header: %w", err)
	}
	cr := csv.NewReader(strings.NewReader(rest))
	cr.Comma = ' '
	if hdr.Delimiter != "" {
		cr.Comma = []rune(hdr.Delimiter)[0]
	}
	cr.FieldsPerRecord = len(hdr.Datatype)
	recs, err := cr.ReadAll()
	if err != nil {
		return fmt.Errorf("table.ReadECSV: %w", err)
	}
	if len(recs) == 0 {
		return fmt.Errorf("table.ReadECSV: missing column names line")
	}
	for i, col := range hdr.Datatype {
		if recs[0][i] != col.Name {
			return fmt.Errorf("table.ReadECSV: column name %q does not match header name %q", recs[0][i], col.Name)
		}
	}
	rows := len(recs) - 1
	dt.DeleteAll()
	for ci, col := range hdr.Datatype {
		tsr, err := ecsvColumnTensor(col, rows)
		if err != nil {
			return fmt.Errorf("table.ReadECSV: column %q: %w", col.Name, err)
		}
		_, cells := tsr.RowCellSize()
		for row := range rows {
			field := recs[row+1][ci]
			if tsr.NumDims() == 1 {
				setECSVValue(tsr, field, row)
				continue
			}
			if err := setCellJSON(tsr, field, row*cells, cells); err != nil {
				return fmt.Errorf("table.ReadECSV: column %q row %d: %w", col.Name, row, err)
			}
		}
		if err := dt.AddColumn(col.Name, tsr); err != nil {
			return err
		}
	}
	md, err := decodeECSVMeta(&hdr.Meta)
	if err != nil {
		return fmt.Errorf("table.ReadECSV: meta: %w", err)
	}
	for k, v := range md {
		dt.Meta.Set(k, RestoreMeta(v))
	}
	return nil
}

// ecsvColumnTensor returns a new tensor for the given column header.
func ecsvColumnTensor(col ecsvColumn, rows int) (tensor.Tensor, error) {
	if col.Subtype == "" || col.Datatype != "string" {
		kind, err := ecsvKind(col.Datatype)
		if err != nil {
			return nil, err
		}
		return tensor.NewOfType(kind, rows), nil
	}
	base, dims, ok := strings.Cut(col.Subtype, "[")
	if !ok || !strings.HasSuffix(dims, "]") {
		return nil, fmt.Errorf("subtype %q is not supported", col.Subtype)
	}
	kind, err := ecsvKind(base)
	if err != nil {
		return nil, err
	}
	sizes := []int{rows}
	for _, d := range strings.Split(strings.TrimSuffix(dims, "]"), ",") {
		sz, err := strconv.Atoi(strings.TrimSpace(d))
		if err != nil {
			return nil, fmt.Errorf("subtype %q does not have a fixed shape", col.Subtype)
		}
		sizes = append(sizes, sz)
	}
	return tensor.NewOfType(kind, sizes...), nil
}

func setECSVValue(tsr tensor.Tensor, field string, i int) {
	if field == "" && !tsr.IsString() {
		tsr.SetFloat1D(math.NaN(), i)
		return
	}
	tsr.SetString1D(field, i)
}

// setCellJSON sets the cells values starting at offset off
// from a JSON array, nested as many times as there are cell dimensions.
func setCellJSON(tsr tensor.Tensor, field string, off, cells int) error {
	var v any
	if err := json.Unmarshal([]byte(field), &v); err != nil {
		return err
	}
	var leaves []any
	flattenJSON(v, &leaves)
	if len(leaves) != cells {
		return fmt.Errorf("cell has %d values instead of %d", len(leaves), cells)
	}
	for j, lv := range leaves {
		i := off + j
		switch x := lv.(type) {
		case nil:
			tsr.SetFloat1D(math.NaN(), i)
		case float64:
			tsr.SetFloat1D(x, i)
		case bool:
			b := 0
			if x {
				b = 1
			}
			tsr.SetInt1D(b, i)
		case string:
			tsr.SetString1D(x, i)
		default:
			return fmt.Errorf("unexpected cell value %v", x)
		}
	}
	return nil
}

func flattenJSON(v any, leaves *[]any) {
	if vs, ok := v.([]any); ok {
		for _, e := range vs {
			flattenJSON(e, leaves)
		}
		return
	}
	*leaves = append(*leaves, v)
}

// decodeECSVMeta decodes a meta mapping, or an ordered map
// as written by other ECSV writers.
func decodeECSVMeta(nd *yaml.Node) (map[string]any, error) {
	md := map[string]any{}
	switch nd.Kind {
	case 0:
		return md, nil
	case yaml.SequenceNode:
		for _, item := range nd.Content {
			var m map[string]any
			if err := item.Decode(&m); err != nil {
				return nil, err
			}
			for k, v := range m {
				md[k] = v
			}
		}
		return md, nil
	}
	err := nd.Decode(&md)
	return md, err
}
