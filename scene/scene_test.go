// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"testing"

	"cogentcore.org/scene3d/asset"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(es []*Entity) []string {
	ns := make([]string, len(es))
	for i, e := range es {
		ns[i] = e.Name
	}
	return ns
}

// walkTree returns r -> (a -> (a1, a2), b -> (b1)).
func walkTree() *Entity {
	r := NewEntity("r")
	a := NewEntity("a")
	b := NewEntity("b")
	AttachChild(r, a)
	AttachChild(r, b)
	AttachChild(a, NewEntity("a1"))
	AttachChild(a, NewEntity("a2"))
	AttachChild(b, NewEntity("b1"))
	return r
}

func TestWalkDown(t *testing.T) {
	r := walkTree()
	var got []*Entity
	WalkDown(r, func(e *Entity) bool {
		got = append(got, e)
		return Continue
	})
	assert.Equal(t, []string{"r", "a", "a1", "a2", "b", "b1"}, names(got))

	got = nil
	WalkDown(r, func(e *Entity) bool {
		got = append(got, e)
		if e.Name == "a" {
			return Break
		}
		return Continue
	})
	assert.Equal(t, []string{"r", "a", "b", "b1"}, names(got))

	WalkDown(nil, func(e *Entity) bool {
		t.Fatal("called on nil")
		return Continue
	})
}

func TestWalkDownDeep(t *testing.T) {
	root := NewEmpty("0")
	cur := root
	for range 100000 {
		c := NewEmpty("c")
		AttachChild(cur, c)
		cur = c
	}
	n := 0
	WalkDown(root, func(e *Entity) bool {
		n++
		return Continue
	})
	assert.Equal(t, 100001, n)
	assert.Equal(t, 100000, cur.Depth())
	assert.Equal(t, mgl32.Ident4(), cur.WorldMatrix())
}

func TestWalkUp(t *testing.T) {
	r := walkTree()
	a2 := r.FindByName("a2")
	require.NotNil(t, a2)

	var got []*Entity
	assert.True(t, WalkUp(a2, func(e *Entity) bool {
		got = append(got, e)
		return Continue
	}))
	assert.Equal(t, []string{"a2", "a", "r"}, names(got))

	got = nil
	assert.False(t, WalkUpParent(a2, func(e *Entity) bool {
		got = append(got, e)
		return Break
	}))
	assert.Equal(t, []string{"a"}, names(got))
}

func TestEntityAccessors(t *testing.T) {
	r := walkTree()
	a := r.Child(0)
	b := r.Child(1)
	assert.Nil(t, r.Child(2))
	assert.Nil(t, r.Child(-1))
	assert.Same(t, b, r.ChildByID(b.ID))
	assert.Nil(t, r.ChildByID(r.FindByName("b1").ID))
	assert.Equal(t, 1, b.IndexInParent())
	assert.Equal(t, -1, r.IndexInParent())
	assert.Same(t, r, a.Root())
	assert.Equal(t, 0, r.Depth())
	assert.Equal(t, "/r/a/a1", a.Child(0).Path())

	a.Name = "x/y"
	assert.Equal(t, `/r/x\\y`, a.Path())
	assert.Same(t, a, r.FindByID(a.ID))
	assert.Nil(t, r.FindByName("missing"))
	assert.NotZero(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestComponents(t *testing.T) {
	e := NewEntity("e")
	require.NotNil(t, e.Transform())
	assert.Nil(t, e.Mesh())
	assert.Len(t, e.Components(), 1)

	md := asset.NewTriangle()
	assert.Nil(t, e.SetComponent(NewMesh(md, "tri.obj")))
	old := e.SetComponent(NewMesh(asset.NewPyramid(), ""))
	require.NotNil(t, old)
	assert.Same(t, md, old.(*Mesh).Data)
	e.SetComponent(NewCamera())

	kinds := []Kinds{}
	for _, c := range e.Components() {
		kinds = append(kinds, c.Kind())
		assert.True(t, c.AsBase().Active)
	}
	assert.Equal(t, []Kinds{KindTransform, KindMesh, KindCamera}, kinds)

	assert.NotNil(t, e.RemoveComponent(KindCamera))
	assert.Nil(t, e.RemoveComponent(KindCamera))
	assert.Nil(t, e.Camera())
	assert.Nil(t, e.Component(KindsN))
	assert.Equal(t, "Mesh", KindMesh.String())
	assert.Equal(t, "Kinds(4)", KindsN.String())

	empty := NewEmpty("g")
	assert.Nil(t, empty.Transform())
	assert.Equal(t, mgl32.Ident4(), empty.LocalMatrix())
}

func TestTransformMatrix(t *testing.T) {
	tr := NewTransform()
	assert.Equal(t, mgl32.Ident4(), tr.Matrix())

	tr.Position = mgl32.Vec3{1, 2, 3}
	tr.Scale = mgl32.Vec3{2, 3, 4}
	tr.SetEulerDegrees(10, 20, 30)
	m := tr.Matrix()

	other := NewTransform()
	require.True(t, other.SetMatrix(m))
	assertVec3(t, tr.Position, other.Position)
	assertVec3(t, tr.Scale, other.Scale)
	assertMat4(t, m, other.Matrix())

	// collapsed axis
	assert.False(t, other.SetMatrix(mgl32.Scale3D(1, 0, 1)))
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, other.Scale)
	assert.Equal(t, mgl32.Vec3{}, other.Position)

	// mirrored scale is clamped to the minimum
	require.True(t, other.SetMatrix(mgl32.Scale3D(-2, 1, 1)))
	for _, s := range other.Scale {
		assert.Greater(t, s, float32(0))
	}
}

func TestCamera(t *testing.T) {
	cm := NewCamera()
	assert.Equal(t, float32(60), cm.FOV)
	assert.Equal(t, float32(0.1), cm.Near)
	assert.Equal(t, float32(100), cm.Far)

	e := NewEntity("cam")
	e.SetComponent(cm)
	e.Transform().Position = mgl32.Vec3{0, 0, 5}
	view := cm.ViewMatrix(e)
	// the origin is 5 units in front of the camera
	p := mgl32.TransformCoordinate(mgl32.Vec3{}, view)
	assertVec3(t, mgl32.Vec3{0, 0, -5}, p)

	proj := cm.ProjectionMatrix(200, 100)
	assert.InDelta(t, proj[5]/2, proj[0], tol, "aspect ratio of 2")
}

func TestScene(t *testing.T) {
	sc := New()
	assert.Equal(t, RootName, sc.Root.Name)
	assert.Equal(t, 1, sc.Count())

	a := NewEntity("a")
	sc.Add(a)
	b := NewEntity("b")
	AttachChild(a, b)
	assert.Equal(t, 3, sc.Count())
	assert.Same(t, b, sc.Find(b.ID))

	assert.False(t, sc.Delete(sc.Root))
	assert.False(t, sc.Delete(NewEntity("loose")))
	assert.True(t, sc.Delete(a))
	assert.Equal(t, 1, sc.Count())
	assert.Nil(t, sc.Find(b.ID))
	assert.True(t, b.Destroyed())
}

func TestDrawables(t *testing.T) {
	sc := New()
	parent := NewEntity("parent")
	parent.Transform().Position = mgl32.Vec3{1, 0, 0}
	parent.SetComponent(NewMesh(asset.NewTriangle(), ""))
	sc.Add(parent)

	child := NewEntity("child")
	child.Transform().Position = mgl32.Vec3{0, 2, 0}
	child.SetComponent(NewMesh(asset.NewTriangle(), ""))
	child.SetComponent(NewTexture(asset.CheckerTexture(asset.CheckerSize, asset.CheckerSize), ""))
	AttachChild(parent, child)

	hidden := NewEntity("hidden")
	ms := NewMesh(asset.NewTriangle(), "")
	ms.Active = false
	hidden.SetComponent(ms)
	sc.Add(hidden)

	sc.Add(NewEntity("nomesh"))

	ds := sc.Drawables()
	require.Len(t, ds, 2)
	assert.Same(t, parent, ds[0].Entity)
	assert.Nil(t, ds[0].Texture)
	assert.Same(t, child, ds[1].Entity)
	assert.NotNil(t, ds[1].Texture)
	assertMat4(t, mgl32.Translate3D(1, 2, 0), ds[1].World)

	// an inactive entity does not hide its active descendants
	parent.Active = false
	ds = sc.Drawables()
	require.Len(t, ds, 1)
	assert.Same(t, child, ds[0].Entity)
	assertMat4(t, mgl32.Translate3D(1, 2, 0), ds[0].World)

	child.Texture().Active = false
	assert.Nil(t, sc.Drawables()[0].Texture)
}

func TestSceneCamera(t *testing.T) {
	sc := New()
	assert.Nil(t, sc.Camera())

	off := NewEntity("off")
	cm := NewCamera()
	cm.Active = false
	off.SetComponent(cm)
	sc.Add(off)
	assert.Nil(t, sc.Camera())

	on := NewEntity("on")
	on.SetComponent(NewCamera())
	AttachChild(off, on)
	assert.Same(t, on, sc.Camera())
}
