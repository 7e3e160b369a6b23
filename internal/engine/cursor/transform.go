package cursor

// TransformOffset maps an offset across an edit so it denotes the same
// logical position in the post-edit document.
//
// Rules:
//   - Edit entirely before the offset: shift by the edit's delta.
//   - Edit at or after the offset: unchanged. Insertions exactly at the
//     offset push it right, so a cursor at the insert point ends up after
//     the new text.
//   - Offset strictly inside a replaced/deleted range: collapse to the end
//     of the new text (for a pure deletion, the deletion start).
func TransformOffset(offset ByteOffset, edit Edit) ByteOffset {
	if edit.Range.End <= offset {
		return offset + edit.Delta()
	}
	if edit.Range.Start >= offset {
		if edit.Range.Start == offset && edit.Range.IsEmpty() {
			return offset + ByteOffset(len(edit.NewText))
		}
		return offset
	}
	return edit.Range.Start + ByteOffset(len(edit.NewText))
}

// TransformSelection maps both endpoints of a selection across an edit.
func TransformSelection(sel Selection, edit Edit) Selection {
	return Selection{
		Anchor: TransformOffset(sel.Anchor, edit),
		Head:   TransformOffset(sel.Head, edit),
	}
}

// TransformSet updates every selection in the set after an edit. Must run
// before the mutation is considered complete, so cursor state is never
// observably stale.
func TransformSet(s *Set, edit Edit) {
	s.Map(func(sel Selection) Selection {
		return TransformSelection(sel, edit)
	})
}
