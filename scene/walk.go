// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

const (
	// Continue = true can be returned from walk functions to continue
	// processing down the tree, as compared to Break = false which stops this branch.
	Continue = true

	// Break = false can be returned from walk functions to stop processing
	// this branch of the tree.
	Break = false
)

// WalkDown calls the given function on the entity and all of its
// descendants in depth-first pre-order, visiting children in insertion
// order. It does not descend into the children of an entity for which the
// function returns [Break]. It is non-recursive, so it is safe on
// arbitrarily deep trees. The tree must not be modified during the walk.
func WalkDown(e *Entity, fun func(e *Entity) bool) {
	if e == nil {
		return
	}
	stack := []*Entity{e}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fun(cur) {
			continue
		}
		for i := len(cur.children) - 1; i >= 0; i-- {
			stack = append(stack, cur.children[i])
		}
	}
}

// WalkUp calls the given function on the entity and all of its
// ancestors, from the entity up to the root. It stops walking if the
// function returns [Break] and keeps walking if it returns [Continue].
// It returns whether walking was finished (false if it was aborted with [Break]).
func WalkUp(e *Entity, fun func(e *Entity) bool) bool {
	for cur := e; cur != nil; cur = cur.parent {
		if !fun(cur) {
			return false
		}
	}
	return true
}

// WalkUpParent is like [WalkUp], but does not call
// the function on the entity itself.
func WalkUpParent(e *Entity, fun func(e *Entity) bool) bool {
	if e == nil {
		return true
	}
	return WalkUp(e.parent, fun)
}
