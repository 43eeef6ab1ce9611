// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This package is based extensively on https://github.com/g3n/engine :
// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package obj parses the Wavefront OBJ file format (*.obj) into
// [asset.MeshData] buffers, and registers itself as the mesh importer
// for the .obj extension. Of the materials (mtllib, usemtl) only the
// diffuse texture map (map_Kd) is read; smoothing groups are ignored.
// Basic format info: https://en.wikipedia.org/wiki/Wavefront_.obj_file
package obj

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"cogentcore.org/scene3d/asset"
)

func init() {
	asset.RegisterMeshImporter(".obj", &Importer{})
}

// Importer imports .obj files as single merged meshes, or as one
// mesh per object or group. It implements [asset.MeshImporter],
// [asset.GroupImporter] and [asset.MaterialImporter].
type Importer struct {

	// FS is the filesystem to read from; if nil, the OS filesystem is used.
	FS fs.FS
}

// ImportMesh reads the given .obj file and returns all of its
// objects merged into one mesh.
func (im *Importer) ImportMesh(filename string) (*asset.MeshData, error) {
	dec, err := im.Open(filename)
	if err != nil {
		return nil, err
	}
	return dec.Mesh(), nil
}

// ImportGroups reads the given .obj file and returns one
// mesh per object or group that has faces.
func (im *Importer) ImportGroups(filename string) ([]asset.MeshGroup, error) {
	dec, err := im.Open(filename)
	if err != nil {
		return nil, err
	}
	return dec.Groups(), nil
}

// ImportMaterials reads the object names and material references of
// the given .obj file, skipping its geometry, and the material library
// it names. It returns one entry per object or group that has faces,
// in the same order as [Importer.ImportGroups].
func (im *Importer) ImportMaterials(filename string) ([]asset.Material, error) {
	dec := &Decoder{skipGeometry: true}
	if err := im.decode(filename, dec); err != nil {
		return nil, err
	}
	im.loadMatlib(filename, dec)
	return dec.GroupMaterials(), nil
}

// Open decodes the given .obj file, along with the material
// library it names if that can be read.
func (im *Importer) Open(filename string) (*Decoder, error) {
	dec := &Decoder{}
	if err := im.decode(filename, dec); err != nil {
		return nil, err
	}
	im.loadMatlib(filename, dec)
	return dec, nil
}

func (im *Importer) decode(filename string, dec *Decoder) error {
	fp, err := im.open(filename)
	if err != nil {
		return err
	}
	defer fp.Close()
	if err := dec.parse(fp); err != nil {
		return fmt.Errorf("obj: %s: %w", filename, err)
	}
	return nil
}

// loadMatlib reads the material library named by the decoded file,
// relative to the directory of that file. A library that is missing
// or malformed only adds a warning.
func (im *Importer) loadMatlib(filename string, dec *Decoder) {
	if dec.Matlib == "" {
		return
	}
	var mfn string
	if im.FS != nil {
		mfn = path.Join(path.Dir(filename), dec.Matlib)
	} else {
		mfn = filepath.Join(filepath.Dir(filename), dec.Matlib)
	}
	fp, err := im.open(mfn)
	if err != nil {
		dec.appendWarn("cannot open material library: " + err.Error())
		return
	}
	defer fp.Close()
	if err := dec.parseMtl(fp); err != nil {
		dec.appendWarn(err.Error())
	}
}

func (im *Importer) open(filename string) (io.ReadCloser, error) {
	if im.FS != nil {
		return im.FS.Open(filename)
	}
	return os.Open(filename)
}

// Decoder contains all decoded data from an .obj file.
type Decoder struct {
	Objects   []Object             // decoded objects, in file order
	Vertices  []float32            // vertex positions, 3 per vertex
	Normals   []float32            // vertex normals, 3 per normal
	Uvs       []float32            // texture coordinates, 2 per coordinate
	Matlib    string               // name of the material library file
	Materials map[string]*Material // materials by name
	Warnings  []string             // warning messages

	line         int       // current line number
	objCurrent   *Object   // current object
	matCurrent   *Material // current material while parsing a library
	skipGeometry bool      // only record objects, faces and materials
}

// Object contains the faces of one decoded object or group.
type Object struct {
	Name string

	// Material is the name of the first material used by the object.
	Material string

	Faces []Face
}

// Material is one material of a material library. Only
// the diffuse texture map is kept.
type Material struct {
	Name  string
	MapKd string // diffuse texture map file, relative to the library
}

// Face contains the per-corner indexes of one polygonal face.
// Uvs and Normals hold -1 for corners that do not specify them.
type Face struct {
	Vertices []int
	Uvs      []int
	Normals  []int
}

const blanks = "\r\n\t "

// Decode parses .obj data from the given reader.
func Decode(r io.Reader) (*Decoder, error) {
	dec := &Decoder{}
	if err := dec.parse(r); err != nil {
		return nil, err
	}
	return dec, nil
}

// Mesh returns all of the faces of all objects merged into one mesh.
func (dec *Decoder) Mesh() *asset.MeshData {
	mb := dec.newBuilder()
	for i := range dec.Objects {
		mb.addObject(&dec.Objects[i])
	}
	return mb.mesh()
}

// Groups returns one mesh per object that has faces, in file order.
func (dec *Decoder) Groups() []asset.MeshGroup {
	var gps []asset.MeshGroup
	for i := range dec.Objects {
		ob := &dec.Objects[i]
		if len(ob.Faces) == 0 {
			continue
		}
		mb := dec.newBuilder()
		mb.addObject(ob)
		gps = append(gps, asset.MeshGroup{Name: ob.Name, Mesh: mb.mesh()})
	}
	return gps
}

// GroupMaterials returns the diffuse texture of each object that has faces,
// in file order. Objects whose material has no diffuse map, or names
// no known material, get an empty DiffuseMap.
func (dec *Decoder) GroupMaterials() []asset.Material {
	var mats []asset.Material
	for i := range dec.Objects {
		ob := &dec.Objects[i]
		if len(ob.Faces) == 0 {
			continue
		}
		mt := asset.Material{Group: ob.Name}
		if m := dec.Materials[ob.Material]; m != nil {
			mt.DiffuseMap = m.MapKd
		}
		mats = append(mats, mt)
	}
	return mats
}

// parse reads the lines from the reader and parses each one.
func (dec *Decoder) parse(reader io.Reader) error {
	bufin := bufio.NewReader(reader)
	dec.line = 1
	for {
		line, err := bufin.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		line = strings.Trim(line, blanks)
		if perr := dec.parseLine(line); perr != nil {
			return perr
		}
		if err == io.EOF {
			break
		}
		dec.line++
	}
	return nil
}

// parseLine parses one line, dispatching on its type.
func (dec *Decoder) parseLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	ltype := fields[0]
	if strings.HasPrefix(ltype, "#") {
		return nil
	}
	switch ltype {
	// groups are treated the same as objects
	case "o", "g":
		return dec.parseObject(fields[1:])
	case "v", "vn", "vt":
		if dec.skipGeometry {
			return nil
		}
		switch ltype {
		case "v":
			return dec.parseFloats(fields[1:], 3, &dec.Vertices)
		case "vn":
			return dec.parseFloats(fields[1:], 3, &dec.Normals)
		}
		return dec.parseFloats(fields[1:], 2, &dec.Uvs)
	case "f":
		if dec.skipGeometry {
			ob := dec.currentObject()
			ob.Faces = append(ob.Faces, Face{})
			return nil
		}
		return dec.parseFace(fields[1:])
	case "mtllib":
		return dec.parseMatlib(fields[1:])
	case "usemtl":
		return dec.parseUsemtl(fields[1:])
	case "s":
	default:
		dec.appendWarn("field not supported: " + ltype)
	}
	return nil
}

// parseObject parses an object or group line:
// o [<name>]
// A line with no name starts an object named "default".
func (dec *Decoder) parseObject(fields []string) error {
	name := strings.Join(fields, " ")
	if name == "" {
		name = "default"
	}
	dec.Objects = append(dec.Objects, Object{Name: name})
	dec.objCurrent = &dec.Objects[len(dec.Objects)-1]
	return nil
}

// currentObject returns the current object, starting a
// default one for lines before any o or g line.
func (dec *Decoder) currentObject() *Object {
	if dec.objCurrent == nil {
		dec.Objects = append(dec.Objects, Object{Name: "default"})
		dec.objCurrent = &dec.Objects[len(dec.Objects)-1]
	}
	return dec.objCurrent
}

// parseMatlib parses a material library line:
// mtllib <name>
func (dec *Decoder) parseMatlib(fields []string) error {
	if len(fields) < 1 {
		return dec.formatError("material library (mtllib) with no fields")
	}
	dec.Matlib = strings.Join(fields, " ")
	return nil
}

// parseUsemtl parses a material use line:
// usemtl <name>
func (dec *Decoder) parseUsemtl(fields []string) error {
	if len(fields) < 1 {
		return dec.formatError("usemtl with no fields")
	}
	ob := dec.currentObject()
	if ob.Material == "" {
		ob.Material = fields[0]
	}
	return nil
}

// parseMtl reads the lines of a material library.
func (dec *Decoder) parseMtl(reader io.Reader) error {
	if dec.Materials == nil {
		dec.Materials = map[string]*Material{}
	}
	bufin := bufio.NewReader(reader)
	for ln := 1; ; ln++ {
		line, err := bufin.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		if perr := dec.parseMtlLine(strings.Trim(line, blanks)); perr != nil {
			return fmt.Errorf("%s: %w in line:%d", dec.Matlib, perr, ln)
		}
		if err == io.EOF {
			return nil
		}
	}
}

// parseMtlLine parses one material library line. Only newmtl
// and map_Kd are read; all other statements are ignored.
func (dec *Decoder) parseMtlLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}
	switch fields[0] {
	case "newmtl":
		if len(fields) < 2 {
			return errors.New("newmtl with no name")
		}
		dec.matCurrent = &Material{Name: fields[1]}
		dec.Materials[fields[1]] = dec.matCurrent
	case "map_Kd":
		if dec.matCurrent == nil {
			return errors.New("map_Kd before newmtl")
		}
		return dec.parseMapKd(fields[1:])
	}
	return nil
}

// parseMapKd parses a diffuse texture map line, skipping its options:
// map_Kd [-option value...] <filename>
func (dec *Decoder) parseMapKd(fields []string) error {
	if len(fields) == 0 {
		return errors.New("map_Kd with no file name")
	}
	// the file name is the last field; options come before it
	dec.matCurrent.MapKd = fields[len(fields)-1]
	return nil
}

// parseFloats parses the first n fields as floats and appends them,
// ignoring any extra fields (such as the w of a vertex).
func (dec *Decoder) parseFloats(fields []string, n int, to *[]float32) error {
	if len(fields) < n {
		return dec.formatError(fmt.Sprintf("less than %d values", n))
	}
	for _, f := range fields[:n] {
		val, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return dec.formatError(err.Error())
		}
		*to = append(*to, float32(val))
	}
	return nil
}

// parseFace parses a face description line:
// f v1[/vt1][/vn1] v2[/vt2][/vn2] v3[/vt3][/vn3] ...
func (dec *Decoder) parseFace(fields []string) error {
	ob := dec.currentObject()
	if len(fields) < 3 {
		return dec.formatError("face with less than 3 vertices")
	}
	face := Face{
		Vertices: make([]int, len(fields)),
		Uvs:      make([]int, len(fields)),
		Normals:  make([]int, len(fields)),
	}
	for pos, f := range fields {
		vfields := strings.Split(f, "/")
		var err error
		face.Vertices[pos], err = dec.parseIndex(vfields[0], len(dec.Vertices)/3)
		if err != nil {
			return err
		}
		face.Uvs[pos] = -1
		if len(vfields) > 1 && vfields[1] != "" {
			face.Uvs[pos], err = dec.parseIndex(vfields[1], len(dec.Uvs)/2)
			if err != nil {
				return err
			}
		}
		face.Normals[pos] = -1
		if len(vfields) > 2 && vfields[2] != "" {
			face.Normals[pos], err = dec.parseIndex(vfields[2], len(dec.Normals)/3)
			if err != nil {
				return err
			}
		}
	}
	ob.Faces = append(ob.Faces, face)
	return nil
}

// parseIndex parses a 1-based (or negative, relative to the end)
// index into a list of n elements defined so far, returning the 0-based index.
func (dec *Decoder) parseIndex(s string, n int) (int, error) {
	val, err := strconv.Atoi(s)
	if err != nil {
		return 0, dec.formatError(fmt.Sprintf("invalid face index %q", s))
	}
	var idx int
	switch {
	case val > 0:
		idx = val - 1
	case val < 0:
		idx = n + val
	default:
		return 0, dec.formatError("face index value equal to 0")
	}
	if idx < 0 || idx >= n {
		return 0, dec.formatError(fmt.Sprintf("face index %d out of range", val))
	}
	return idx, nil
}

func (dec *Decoder) formatError(msg string) error {
	return fmt.Errorf("%w: %s in line:%d", errFormat, msg, dec.line)
}

func (dec *Decoder) appendWarn(msg string) {
	dec.Warnings = append(dec.Warnings, fmt.Sprintf("obj(%d): %s", dec.line, msg))
}

var errFormat = errors.New("obj: invalid format")

// builder accumulates faces into a mesh, sharing one output vertex per
// unique (position, uv, normal) index triple.
type builder struct {
	dec    *Decoder
	verts  map[[3]int]uint32
	keys   [][3]int
	idxs   []uint32
	hasUv  bool
	hasNrm bool
}

func (dec *Decoder) newBuilder() *builder {
	return &builder{dec: dec, verts: map[[3]int]uint32{}}
}

func (mb *builder) vertex(face *Face, i int) uint32 {
	key := [3]int{face.Vertices[i], face.Uvs[i], face.Normals[i]}
	if vi, ok := mb.verts[key]; ok {
		return vi
	}
	vi := uint32(len(mb.keys))
	mb.verts[key] = vi
	mb.keys = append(mb.keys, key)
	mb.hasUv = mb.hasUv || key[1] >= 0
	mb.hasNrm = mb.hasNrm || key[2] >= 0
	return vi
}

// addObject adds the faces of the object, fan-triangulating polygons.
func (mb *builder) addObject(ob *Object) {
	for fi := range ob.Faces {
		face := &ob.Faces[fi]
		v0 := mb.vertex(face, 0)
		for i := 2; i < len(face.Vertices); i++ {
			mb.idxs = append(mb.idxs, v0, mb.vertex(face, i-1), mb.vertex(face, i))
		}
	}
}

// mesh returns the accumulated mesh. Corners that lack a uv or normal
// when others have one get zeros.
func (mb *builder) mesh() *asset.MeshData {
	nv := len(mb.keys)
	md := &asset.MeshData{Positions: make([]float32, 0, nv*3), Indices: mb.idxs}
	if md.Indices == nil {
		md.Indices = []uint32{}
	}
	if mb.hasNrm {
		md.Normals = make([]float32, 0, nv*3)
	}
	if mb.hasUv {
		md.TexCoords = make([]float32, 0, nv*2)
	}
	dec := mb.dec
	for _, key := range mb.keys {
		md.Positions = append(md.Positions, dec.Vertices[3*key[0]:3*key[0]+3]...)
		if mb.hasUv {
			if key[1] >= 0 {
				md.TexCoords = append(md.TexCoords, dec.Uvs[2*key[1]:2*key[1]+2]...)
			} else {
				md.TexCoords = append(md.TexCoords, 0, 0)
			}
		}
		if mb.hasNrm {
			if key[2] >= 0 {
				md.Normals = append(md.Normals, dec.Normals[3*key[2]:3*key[2]+3]...)
			} else {
				md.Normals = append(md.Normals, 0, 0, 0)
			}
		}
	}
	return md
}
