package formtree

// Package formtree provides:
//
// - A field tree mirroring arbitrarily nested form data (primitives, objects, arrays)
//   with per-position value, touched, error, disabled and validating state
// - A stable error model via Issues (JSON Pointer, code, message)
// - Two-phase (on-change / on-submit) validation against a partial, parallel rule
//   tree, with concurrent fan-out over independent branches and a stale-result guard
// - A submit controller that touches and disables the whole tree, gates the submit
//   callback on validation, and restores state on every exit path
//
// Design policy:
// - Keep only public APIs in the root package; built-in validators live under rules/.
// - The committed field tree is an immutable snapshot; every mutation replaces it
//   through one single-writer state cell on Form.
// - Visit is the only place that dispatches on a field's structural kind.
//
// Typical usage:
//
//	initial, err := formtree.JSONBytes(data)
//	form := formtree.New(initial, formtree.Options{
//		OnSubmit: saveUser,
//		Rules:    userRules,
//	})
//	cancel := form.Subscribe(render)
//	defer cancel()
//
//	form.Root().Field("name").Set(ctx, "Ada")
//	err = form.Submit(ctx)
