package models

import (
	"encoding/json"
	"fmt"
)

// PatchOp tells how an optional field is changed by an update.
type PatchOp uint8

const (
	PatchKeep PatchOp = iota
	PatchSet
	PatchClear
)

var patchOpNames = map[PatchOp]string{
	PatchKeep:  "keep",
	PatchSet:   "set",
	PatchClear: "clear",
}

// Patch is a tri-state update instruction for an optional field. The zero
// value keeps the current value.
type Patch[T any] struct {
	op    PatchOp
	value T
}

func Keep[T any]() Patch[T]      { return Patch[T]{} }
func Set[T any](v T) Patch[T]    { return Patch[T]{op: PatchSet, value: v} }
func Clear[T any]() Patch[T]     { return Patch[T]{op: PatchClear} }
func (p Patch[T]) Op() PatchOp   { return p.op }
func (p Patch[T]) Value() T      { return p.value }
func (p Patch[T]) IsKeep() bool  { return p.op == PatchKeep }
func (p Patch[T]) IsClear() bool { return p.op == PatchClear }

type patchJSON[T any] struct {
	Op    string `json:"op"`
	Value *T     `json:"value,omitempty"`
}

func (p Patch[T]) MarshalJSON() ([]byte, error) {
	out := patchJSON[T]{Op: patchOpNames[p.op]}
	if p.op == PatchSet {
		v := p.value
		out.Value = &v
	}
	return json.Marshal(out)
}

func (p *Patch[T]) UnmarshalJSON(b []byte) error {
	var in patchJSON[T]
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}

	switch in.Op {
	case "", "keep":
		*p = Keep[T]()
	case "clear":
		*p = Clear[T]()
	case "set":
		if in.Value == nil {
			return fmt.Errorf("patch: set without value")
		}
		*p = Set(*in.Value)
	default:
		return fmt.Errorf("patch: unknown op %q", in.Op)
	}
	return nil
}
