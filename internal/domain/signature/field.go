package signature

import (
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

const MaxInitials = 3

// ChangeFunc receives the signature data URL (empty when the surface is
// blank) and the current initials.
type ChangeFunc func(signature, initials string)

// Field captures a signature and initials on a Pad and reports every change
// that affects the stored signature value.
type Field struct {
	pad              Pad
	initialSignature string
	initials         string
	onChange         ChangeFunc
}

// NewField binds a pad, restoring initialSignature when the pad is empty.
func NewField(pad Pad, initialSignature, initialInitials string, onChange ChangeFunc) *Field {
	f := &Field{
		pad:              pad,
		initialSignature: initialSignature,
		initials:         NormalizeInitials(initialInitials),
		onChange:         onChange,
	}
	f.restore()
	return f
}

func (f *Field) Initials() string {
	return f.initials
}

// EndStroke draws a completed stroke and emits the serialized drawing.
func (f *Field) EndStroke(stroke Stroke) {
	f.pad.Draw(stroke)
	f.emit(f.current())
}

// Clear wipes the surface and emits an empty signature.
func (f *Field) Clear() {
	f.pad.Clear()
	f.emit("")
}

// SetInitials uppercases and truncates the value to three characters, then
// re-emits the current drawing.
func (f *Field) SetInitials(value string) {
	f.initials = NormalizeInitials(value)
	f.emit(f.current())
}

// Resize clears the surface and restores the initial signature if the
// surface is empty afterwards. Nothing is emitted.
func (f *Field) Resize(width, height int) {
	if resizable, ok := f.pad.(Resizable); ok {
		resizable.Resize(width, height)
	}
	f.pad.Clear()
	f.restore()
}

// Signature returns the serialized drawing, or empty when blank.
func (f *Field) Signature() string {
	return f.current()
}

func (f *Field) restore() {
	if f.initialSignature == "" || !f.pad.IsEmpty() {
		return
	}
	if err := f.pad.LoadImage(f.initialSignature); err != nil {
		log.Warn().Err(err).Msg("restore signature failed")
	}
}

func (f *Field) current() string {
	if f.pad.IsEmpty() {
		return ""
	}
	encoded, err := f.pad.ToImage()
	if err != nil {
		log.Warn().Err(err).Msg("serialize signature failed")
		return ""
	}
	return encoded
}

func (f *Field) emit(signature string) {
	if f.onChange != nil {
		f.onChange(signature, f.initials)
	}
}

// NormalizeInitials uppercases value and keeps at most three characters.
func NormalizeInitials(value string) string {
	value = strings.ToUpper(strings.TrimSpace(value))
	if utf8.RuneCountInString(value) <= MaxInitials {
		return value
	}
	return string([]rune(value)[:MaxInitials])
}
