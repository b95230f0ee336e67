// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tensorfs provides a hierarchical dataset as a virtual
// filesystem of named [tensor.Tensor] values, organized in
// directories with attributes. A directory of values with a common
// row dimension is a dataset of variables sharing that dimension.
package tensorfs

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"reflect"
	"slices"
	"strings"
	"time"

	"cogentcore.org/stingray/base/keylist"
	"cogentcore.org/stingray/base/metadata"
	"cogentcore.org/stingray/tensor"
)

// Nodes is a map of directory entry names to Nodes.
// It retains the order that nodes were added in, which is
// the natural order nodes are processed in.
type Nodes = keylist.List[string, *Node]

// Node is the element type for the filesystem, which can represent either
// a [tensor] Value as a "file" equivalent, or a "directory" containing other Nodes.
// The [tensor.Tensor] can represent everything from a single scalar value up to
// n-dimensional collections of patterns, in a range of data types.
// Directories have an ordered map of nodes.
type Node struct {
	// Parent is the parent data directory.
	Parent *Node

	// name is the name of this node.  it is not a path.
	name string

	// modTime tracks time added to directory, used for ordering.
	modTime time.Time

	// Tensor is the tensor value for a file or leaf Node in the FS,
	// represented using the universal [tensor] data type of
	// [tensor.Tensor], which can represent anything from a scalar
	// to n-dimensional data, in a range of data types.
	Tensor tensor.Tensor

	// nodes is for directory nodes, with all the nodes in the directory.
	nodes *Nodes

	// Attrs are the attributes of this node, e.g., the meta
	// attributes of an object stored in a directory.
	Attrs metadata.Data
}

// NewDir returns a new directory node with given name, within
// the given parent directory, if any.
// If the parent already has a node of that name, it is returned
// with an [fs.ErrExist] error.
func NewDir(name string, parent ...*Node) (*Node, error) {
	var par *Node
	if len(parent) == 1 {
		par = parent[0]
	}
	nd, err := newNode(par, name)
	if err == nil {
		nd.nodes = &Nodes{}
	}
	return nd, err
}

// newNode returns a new Node in given directory Node, which can be nil.
// If dir is not a directory, returns nil and an error.
// If an node already exists in dir with that name, that node is returned
// with an [fs.ErrExist] error, and the caller can decide how to proceed.
// The modTime is set to now. The name must be unique within parent.
func newNode(dir *Node, name string) (*Node, error) {
	if dir == nil {
		return &Node{name: name, modTime: time.Now()}, nil
	}
	if err := dir.mustDir("newNode", name); err != nil {
		return nil, err
	}
	if ex, ok := dir.nodes.AtTry(name); ok {
		return ex, fs.ErrExist
	}
	d := &Node{Parent: dir, name: name, modTime: time.Now()}
	dir.nodes.Add(name, d)
	return d, nil
}

// mustDir returns an error for given operation and path
// if this node is not a directory.
func (nd *Node) mustDir(op, path string) error {
	if !nd.IsDir() {
		return &fs.PathError{Op: op, Path: path, Err: errors.New("node is not a directory: " + nd.name)}
	}
	return nil
}

// Value creates / returns a Node with given name as a [tensor.Tensor]
// of given data type and shape sizes, in given directory Node.
// If it already exists, it is returned as-is (no checking against the
// type or sizes provided, for efficiency -- if there is doubt, check!),
// otherwise a new tensor is created.
func Value[T tensor.DataTypes](dir *Node, name string, sizes ...int) tensor.Tensor {
	if it := dir.Node(name); it != nil && it.Tensor != nil {
		return it.Tensor
	}
	tsr := tensor.New[T](sizes...)
	if _, err := NewForTensor(dir, tsr, name); err != nil {
		return nil
	}
	return tsr
}

// ValueType creates / returns a Node with given name as a [tensor.Tensor]
// of given data type specified as a reflect.Kind, with shape sizes,
// in given directory Node.
// Supported types are those of [tensor.NewOfType].
// If it already exists, it is returned as-is.
func ValueType(dir *Node, name string, typ reflect.Kind, sizes ...int) tensor.Tensor {
	if it := dir.Node(name); it != nil && it.Tensor != nil {
		return it.Tensor
	}
	tsr := tensor.NewOfType(typ, sizes...)
	if _, err := NewForTensor(dir, tsr, name); err != nil {
		return nil
	}
	return tsr
}

// NewForTensor creates a new Node node for given existing tensor with given name.
// If the name already exists, that Node is returned with [fs.ErrExists] error.
func NewForTensor(dir *Node, tsr tensor.Tensor, name string) (*Node, error) {
	nd, err := newNode(dir, name)
	if err != nil {
		return nd, err
	}
	nd.Tensor = tsr
	return nd, nil
}

// Float64 creates / returns a Node with given name as a [tensor.Float64]
// for given shape sizes, in given directory [Node].
// See [Value] function for more info.
func (dir *Node) Float64(name string, sizes ...int) *tensor.Float64 {
	return Value[float64](dir, name, sizes...).(*tensor.Float64)
}

// Int creates / returns a Node with given name as a [tensor.Int]
// for given shape sizes, in given directory [Node].
// See [Value] function for more info.
func (dir *Node) Int(name string, sizes ...int) *tensor.Int {
	return Value[int](dir, name, sizes...).(*tensor.Int)
}

// StringValue creates / returns a Node with given name as a [tensor.String]
// for given shape sizes, in given directory [Node].
// See [Value] function for more info.
func (dir *Node) StringValue(name string, sizes ...int) *tensor.String {
	return Value[string](dir, name, sizes...).(*tensor.String)
}

// Mkdir creates a new directory with the specified name in this
// directory, returning an existing one of that name if present.
func (dir *Node) Mkdir(name string) (*Node, error) {
	nd, err := NewDir(name, dir)
	if errors.Is(err, fs.ErrExist) {
		if !nd.IsDir() {
			return nil, &fs.PathError{Op: "Mkdir", Path: name, Err: errors.New("a value of that name exists")}
		}
		return nd, nil
	}
	return nd, err
}

// Node returns the node with given name in this directory,
// or nil if not a directory or not found.
func (dir *Node) Node(name string) *Node {
	if !dir.IsDir() {
		return nil
	}
	return dir.nodes.At(name)
}

// Nodes returns the nodes in this directory, in order.
func (dir *Node) Nodes() ([]*Node, error) {
	if err := dir.mustDir("Nodes", ""); err != nil {
		return nil, err
	}
	return slices.Clone(dir.nodes.Values), nil
}

// ValueNodes returns the value (non-directory) nodes in this directory, in order.
func (dir *Node) ValueNodes() []*Node {
	if !dir.IsDir() {
		return nil
	}
	var nds []*Node
	for _, nd := range dir.nodes.Values {
		if !nd.IsDir() {
			nds = append(nds, nd)
		}
	}
	return nds
}

// NodesFunc returns the value nodes in this directory and all
// subdirectories, in depth-first order, for which the given
// function returns true. A nil function includes all values.
func (dir *Node) NodesFunc(fun func(nd *Node) bool) []*Node {
	if !dir.IsDir() {
		return nil
	}
	var nds []*Node
	for _, nd := range dir.nodes.Values {
		if nd.IsDir() {
			nds = append(nds, nd.NodesFunc(fun)...)
			continue
		}
		if fun == nil || fun(nd) {
			nds = append(nds, nd)
		}
	}
	return nds
}

// Add adds the given node to this directory, setting its Parent.
// Returns an error if a node of that name already exists.
func (dir *Node) Add(nd *Node) error {
	if err := dir.mustDir("Add", nd.name); err != nil {
		return err
	}
	if err := dir.nodes.Add(nd.name, nd); err != nil {
		return &fs.PathError{Op: "Add", Path: nd.name, Err: fs.ErrExist}
	}
	nd.Parent = dir
	return nil
}

// Delete deletes the node of given name from this directory,
// returning false if it is not found.
func (dir *Node) Delete(name string) bool {
	if !dir.IsDir() {
		return false
	}
	return dir.nodes.DeleteByKey(name)
}

// Path returns the full path to this node, from the root.
func (nd *Node) Path() string {
	if nd.Parent == nil {
		return nd.name
	}
	return nd.Parent.Path() + "/" + nd.name
}

// NodeAtPath returns the node at the given slash-separated path,
// relative to this directory.
func (dir *Node) NodeAtPath(name string) (*Node, error) {
	if err := dir.mustDir("NodeAtPath", name); err != nil {
		return nil, err
	}
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "NodeAtPath", Path: name, Err: fs.ErrInvalid}
	}
	cur := dir
	if name == "." {
		return cur, nil
	}
	for _, el := range strings.Split(path.Clean(name), "/") {
		if !cur.IsDir() {
			return nil, &fs.PathError{Op: "NodeAtPath", Path: name, Err: errors.New(cur.name + " is not a directory")}
		}
		nd, ok := cur.nodes.AtTry(el)
		if !ok {
			return nil, &fs.PathError{Op: "NodeAtPath", Path: name, Err: fs.ErrNotExist}
		}
		cur = nd
	}
	return cur, nil
}

// DirAtPath returns the directory at the given slash-separated path,
// relative to this directory.
func (dir *Node) DirAtPath(name string) (*Node, error) {
	nd, err := dir.NodeAtPath(name)
	if err != nil {
		return nil, err
	}
	if err := nd.mustDir("DirAtPath", name); err != nil {
		return nil, err
	}
	return nd, nil
}

//////// Container

// Len returns the number of values (variables) in this directory.
func (dir *Node) Len() int {
	return len(dir.ValueNodes())
}

// ColumnNames returns the names of the values in this directory, in order.
func (dir *Node) ColumnNames() []string {
	nds := dir.ValueNodes()
	names := make([]string, len(nds))
	for i, nd := range nds {
		names[i] = nd.name
	}
	return names
}

// ColumnTry returns the tensor of the value with given name in
// this directory, or an error if there is no such value.
func (dir *Node) ColumnTry(name string) (tensor.Tensor, error) {
	nd := dir.Node(name)
	if nd == nil || nd.IsDir() {
		return nil, fmt.Errorf("tensorfs: value named %q not found in %q", name, dir.Path())
	}
	return nd.Tensor, nil
}

// SetColumn sets the value with given name in this directory
// to the given tensor, adding a new node if not present.
func (dir *Node) SetColumn(name string, tsr tensor.Tensor) error {
	if nd := dir.Node(name); nd != nil {
		if nd.IsDir() {
			return &fs.PathError{Op: "SetColumn", Path: name, Err: errors.New("a directory of that name exists")}
		}
		nd.Tensor = tsr
		nd.modTime = time.Now()
		return nil
	}
	_, err := NewForTensor(dir, tsr, name)
	return err
}

// Metadata returns the attributes of this node.
func (nd *Node) Metadata() *metadata.Data { return &nd.Attrs }
