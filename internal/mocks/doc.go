// Package mocks provides hand-written test doubles with function fields.
// A nil function field falls back to the wrapped implementation when there
// is one, and to a zero result otherwise.
package mocks
