package cursor

import (
	"fmt"
	"reflect"
	"strconv"

	"go.uber.org/multierr"

	"github.com/wippyai/jsbridge/errors"
	"github.com/wippyai/jsbridge/shape"
	"github.com/wippyai/jsbridge/types"
)

// State is the construction state of a Partial frame.
type State uint8

const (
	StateEmpty State = iota
	StateSelectingVariant
	StateFieldInProgress
	StateComplete
	StateAbandoned
)

var stateNames = [...]string{
	StateEmpty:            "empty",
	StateSelectingVariant: "selecting_variant",
	StateFieldInProgress:  "field_in_progress",
	StateComplete:         "complete",
	StateAbandoned:        "abandoned",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// slot tells End how a child frame is committed into its parent.
type slot uint8

const (
	slotRoot slot = iota
	slotField
	slotListItem
	slotArrayItem
	slotMapKey
	slotMapValue
	slotSetItem
	slotSome
	slotPointee
)

type frame struct {
	shape *shape.Shape
	value reflect.Value // addressable

	// fields is the shape whose Fields are tracked in set: the struct
	// itself, or the payload of the selected union variant. target is
	// the struct value those fields live in.
	fields  *shape.Shape
	target  reflect.Value
	set     []bool
	variant *shape.Variant

	key    reflect.Value
	hasKey bool
	items  int

	name  string
	slot  slot
	index int
	state State
}

// Partial is a write cursor that builds a Go value of a given shape one
// field, element or variant at a time. Children are opened with a Begin
// method and committed with End; Build returns the finished value and
// Abandon discards it. Partial is not safe for concurrent use.
type Partial struct {
	root      reflect.Value
	frames    []*frame
	abandoned bool
	built     bool
}

// New allocates a zero value of s and returns a cursor over it.
func New(s *shape.Shape) *Partial {
	ptr := reflect.New(s.Type)
	return &Partial{
		root:   ptr,
		frames: []*frame{newFrame(s, ptr.Elem(), slotRoot, 0, "")},
	}
}

func newFrame(s *shape.Shape, v reflect.Value, sl slot, index int, name string) *frame {
	f := &frame{shape: s, value: v, slot: sl, index: index, name: name}
	switch s.Kind {
	case shape.KindStruct, shape.KindTuple:
		f.fields = s
		f.target = v
		f.set = make([]bool, len(s.Fields))
	case shape.KindEnum:
		f.state = StateSelectingVariant
	}
	return f
}

// Shape returns the shape of the innermost open frame.
func (p *Partial) Shape() *shape.Shape {
	if len(p.frames) == 0 {
		return nil
	}
	return p.top().shape
}

// State returns the state of the innermost open frame.
func (p *Partial) State() State {
	if p.abandoned {
		return StateAbandoned
	}
	if len(p.frames) == 0 {
		return StateComplete
	}
	return p.top().state
}

// Variant returns the variant selected in the innermost frame, if any.
func (p *Partial) Variant() *shape.Variant {
	if len(p.frames) == 0 {
		return nil
	}
	return p.top().variant
}

// Depth returns the number of open frames, including the root.
func (p *Partial) Depth() int { return len(p.frames) }

// Path returns the location of the innermost frame, e.g. ["items", "[2]", "name"].
func (p *Partial) Path() []string {
	if len(p.frames) < 2 {
		return nil
	}
	path := make([]string, 0, len(p.frames)-1)
	for _, f := range p.frames[1:] {
		path = append(path, f.name)
	}
	return path
}

// FieldIndex returns the index of the field with JS name in the innermost
// frame, or -1.
func (p *Partial) FieldIndex(name string) int {
	if len(p.frames) == 0 {
		return -1
	}
	f := p.top()
	if f.fields == nil {
		return -1
	}
	return f.fields.FieldIndex(name)
}

func (p *Partial) top() *frame { return p.frames[len(p.frames)-1] }

func (p *Partial) current() (*frame, error) {
	switch {
	case p.abandoned:
		return nil, p.fail(nil, "partial was abandoned")
	case p.built:
		return nil, p.fail(nil, "partial was already built")
	}
	return p.top(), nil
}

func (p *Partial) fail(f *frame, detail string, args ...any) *errors.Error {
	b := errors.New(errors.PhaseBuild, errors.KindReflect).
		Path(p.Path()...).
		Detail(detail, args...)
	if f != nil {
		b.GoType(f.shape.String())
	}
	return b.Build()
}

// Set stores v in the innermost frame and completes it.
func (p *Partial) Set(v any) error {
	return p.SetValue(reflect.ValueOf(v))
}

// SetValue stores v in the innermost frame and completes it. v must be
// assignable to the frame type or share its underlying kind.
func (p *Partial) SetValue(v reflect.Value) error {
	f, err := p.current()
	if err != nil {
		return err
	}
	if !v.IsValid() {
		return p.fail(f, "cannot set an invalid value")
	}

	t := f.shape.Type
	switch {
	case v.Type().AssignableTo(t):
	case v.Kind() == t.Kind() && v.Type().ConvertibleTo(t):
		v = v.Convert(t)
	default:
		return p.fail(f, "cannot set %s", v.Type())
	}

	f.value.Set(v)
	p.complete(f)
	return nil
}

// SetDefault stores the declared default of the frame type, or its zero
// value, and completes the frame.
func (p *Partial) SetDefault() error {
	f, err := p.current()
	if err != nil {
		return err
	}
	f.value.Set(defaultValue(f.shape))
	p.complete(f)
	return nil
}

// SetNone stores absence in an option, pointer or interface frame.
func (p *Partial) SetNone() error {
	f, err := p.current()
	if err != nil {
		return err
	}
	switch f.shape.Kind {
	case shape.KindOption, shape.KindPointer, shape.KindDynamic, shape.KindEnum:
		if f.shape.Kind == shape.KindEnum && !f.shape.Enum.Union {
			return p.fail(f, "integer enums cannot be absent")
		}
		f.value.Set(reflect.Zero(f.shape.Type))
		p.complete(f)
		return nil
	}
	return p.fail(f, "%s values cannot be absent", f.shape.Kind)
}

func (p *Partial) complete(f *frame) {
	f.state = StateComplete
	for i := range f.set {
		f.set[i] = true
	}
}

// BeginField opens the field with JS name.
func (p *Partial) BeginField(name string) error {
	f, err := p.current()
	if err != nil {
		return err
	}
	if f.fields == nil {
		return p.fieldless(f)
	}
	i := f.fields.FieldIndex(name)
	if i < 0 {
		return p.fail(f, "no field %q", name)
	}
	return p.BeginNthField(i)
}

// BeginNthField opens the i-th field of a struct, tuple or selected variant.
func (p *Partial) BeginNthField(i int) error {
	f, err := p.current()
	if err != nil {
		return err
	}
	if f.fields == nil {
		return p.fieldless(f)
	}
	if i < 0 || i >= len(f.fields.Fields) {
		return p.fail(f, "field index %d out of range (%d fields)", i, len(f.fields.Fields))
	}

	field := &f.fields.Fields[i]
	p.push(f, newFrame(field.Shape, f.target.Field(field.Index), slotField, i, field.Name))
	return nil
}

func (p *Partial) fieldless(f *frame) error {
	if f.shape.Kind == shape.KindEnum {
		if f.variant == nil {
			return p.fail(f, "select a variant before setting fields")
		}
		return p.fail(f, "variant %q has no fields", f.variant.Name)
	}
	return p.fail(f, "%s values have no fields", f.shape.Kind)
}

func (p *Partial) push(parent, child *frame) {
	if parent.state != StateComplete {
		parent.state = StateFieldInProgress
	}
	p.frames = append(p.frames, child)
}

// BeginListItem opens the next element of a list or array.
func (p *Partial) BeginListItem() error {
	f, err := p.current()
	if err != nil {
		return err
	}
	name := "[" + strconv.Itoa(f.items) + "]"
	switch f.shape.Kind {
	case shape.KindList:
		elem := reflect.New(f.shape.Elem.Type).Elem()
		p.push(f, newFrame(f.shape.Elem, elem, slotListItem, f.items, name))
	case shape.KindArray:
		if f.items >= f.shape.Len {
			return errors.New(errors.PhaseBuild, errors.KindOverflow).
				Path(p.Path()...).
				GoType(f.shape.String()).
				Detail("array holds %d elements", f.shape.Len).
				Build()
		}
		p.push(f, newFrame(f.shape.Elem, f.value.Index(f.items), slotArrayItem, f.items, name))
	default:
		return p.fail(f, "%s values have no items", f.shape.Kind)
	}
	return nil
}

// BeginKey opens the key of the next map entry.
func (p *Partial) BeginKey() error {
	f, err := p.current()
	if err != nil {
		return err
	}
	if f.shape.Kind != shape.KindMap {
		return p.fail(f, "%s values have no keys", f.shape.Kind)
	}
	if f.hasKey {
		return p.fail(f, "key already set; begin its value")
	}
	key := reflect.New(f.shape.Key.Type).Elem()
	p.push(f, newFrame(f.shape.Key, key, slotMapKey, f.items, "<key>"))
	return nil
}

// BeginValue opens the value for the key committed by the last BeginKey.
func (p *Partial) BeginValue() error {
	f, err := p.current()
	if err != nil {
		return err
	}
	if f.shape.Kind != shape.KindMap {
		return p.fail(f, "%s values have no entries", f.shape.Kind)
	}
	if !f.hasKey {
		return p.fail(f, "begin a key before its value")
	}
	val := reflect.New(f.shape.Elem.Type).Elem()
	p.push(f, newFrame(f.shape.Elem, val, slotMapValue, f.items, "["+fmt.Sprint(f.key.Interface())+"]"))
	return nil
}

// BeginSetItem opens the next element of a set.
func (p *Partial) BeginSetItem() error {
	f, err := p.current()
	if err != nil {
		return err
	}
	if f.shape.Kind != shape.KindSet {
		return p.fail(f, "%s values have no set items", f.shape.Kind)
	}
	item := reflect.New(f.shape.Elem.Type).Elem()
	p.push(f, newFrame(f.shape.Elem, item, slotSetItem, f.items, "["+strconv.Itoa(f.items)+"]"))
	return nil
}

// BeginSome opens the value of an optional.
func (p *Partial) BeginSome() error {
	f, err := p.current()
	if err != nil {
		return err
	}
	if f.shape.Kind != shape.KindOption {
		return p.fail(f, "%s values are not optional", f.shape.Kind)
	}
	p.push(f, newFrame(f.shape.Elem, f.value.Field(0), slotSome, 0, "<some>"))
	return nil
}

// BeginPointee allocates a fresh value behind a pointer and opens it.
func (p *Partial) BeginPointee() error {
	f, err := p.current()
	if err != nil {
		return err
	}
	if f.shape.Kind != shape.KindPointer {
		return p.fail(f, "%s values are not pointers", f.shape.Kind)
	}
	pointee := reflect.New(f.shape.Elem.Type).Elem()
	p.push(f, newFrame(f.shape.Elem, pointee, slotPointee, 0, "<pointee>"))
	return nil
}

// SelectVariantNamed selects the variant called name.
func (p *Partial) SelectVariantNamed(name string) error {
	f, err := p.selecting()
	if err != nil {
		return err
	}
	v, ok := f.shape.Enum.ByName(name)
	if !ok {
		return errors.Variant(errors.PhaseBuild, p.Path(), f.shape.String(), name)
	}
	return p.selectVariant(f, v)
}

// SelectVariant selects the variant with discriminant disc.
func (p *Partial) SelectVariant(disc int64) error {
	f, err := p.selecting()
	if err != nil {
		return err
	}
	v, ok := f.shape.Enum.ByDiscriminant(disc)
	if !ok {
		return errors.Variant(errors.PhaseBuild, p.Path(), f.shape.String(), disc)
	}
	return p.selectVariant(f, v)
}

func (p *Partial) selecting() (*frame, error) {
	f, err := p.current()
	if err != nil {
		return nil, err
	}
	if f.shape.Kind != shape.KindEnum {
		return nil, p.fail(f, "%s values have no variants", f.shape.Kind)
	}
	if f.state != StateSelectingVariant {
		return nil, p.fail(f, "variant already selected")
	}
	return f, nil
}

func (p *Partial) selectVariant(f *frame, v *shape.Variant) error {
	f.variant = v

	if !f.shape.Enum.Union {
		if f.value.CanInt() {
			f.value.SetInt(v.Discriminant)
		} else {
			f.value.SetUint(uint64(v.Discriminant))
		}
		f.state = StateComplete
		return nil
	}

	payloadType := v.Type
	if v.Indirect {
		payloadType = payloadType.Elem()
	}
	ptr := reflect.New(payloadType)

	if v.Payload == nil {
		f.value.Set(variantValue(v, ptr))
		f.state = StateComplete
		return nil
	}

	f.fields = v.Payload
	f.target = ptr.Elem()
	f.set = make([]bool, len(v.Payload.Fields))
	f.state = StateFieldInProgress
	return nil
}

func variantValue(v *shape.Variant, ptr reflect.Value) reflect.Value {
	if v.Indirect {
		return ptr
	}
	return ptr.Elem()
}

// FillUnsetFromDefaults fills every unset field of the innermost frame.
// Values come from the declared defaults of the struct when it implements
// types.Defaulter; otherwise fields tagged default and optional, pointer or
// interface fields get their own default. Other fields stay unset.
func (p *Partial) FillUnsetFromDefaults() error {
	f, err := p.current()
	if err != nil {
		return err
	}
	if f.fields == nil {
		return nil
	}

	var defaults reflect.Value
	if f.fields.HasDefault {
		defaults = defaultValue(f.fields)
	}

	for i, done := range f.set {
		if done {
			continue
		}
		field := &f.fields.Fields[i]
		dst := f.target.Field(field.Index)
		switch {
		case defaults.IsValid():
			dst.Set(defaults.Field(field.Index))
		case field.Has(shape.FlagDefault) || implicitlyOptional(field.Shape):
			dst.Set(defaultValue(field.Shape))
		default:
			continue
		}
		f.set[i] = true
	}

	if allSet(f.set) {
		f.state = StateComplete
	}
	return nil
}

func implicitlyOptional(s *shape.Shape) bool {
	switch s.Kind {
	case shape.KindOption, shape.KindPointer, shape.KindDynamic:
		return true
	}
	return false
}

func defaultValue(s *shape.Shape) reflect.Value {
	if !s.HasDefault {
		return reflect.Zero(s.Type)
	}
	ptr := reflect.New(s.Type)
	ptr.Interface().(types.Defaulter).JSDefaults()
	return ptr.Elem()
}

func allSet(set []bool) bool {
	for _, done := range set {
		if !done {
			return false
		}
	}
	return true
}

// End validates the innermost frame and commits it into its parent.
func (p *Partial) End() error {
	f, err := p.current()
	if err != nil {
		return err
	}
	if len(p.frames) == 1 {
		return p.fail(f, "cannot end the root frame; use Build")
	}
	if err := p.validate(f); err != nil {
		return err
	}
	p.finalize(f)

	p.frames = p.frames[:len(p.frames)-1]
	parent := p.top()

	switch f.slot {
	case slotField:
		parent.set[f.index] = true
		if allSet(parent.set) {
			parent.state = StateComplete
		}
	case slotListItem:
		parent.value.Set(reflect.Append(parent.value, f.value))
		parent.items++
	case slotArrayItem:
		parent.items++
	case slotMapKey:
		parent.key = f.value
		parent.hasKey = true
	case slotMapValue:
		if parent.value.IsNil() {
			parent.value.Set(reflect.MakeMap(parent.shape.Type))
		}
		parent.value.SetMapIndex(parent.key, f.value)
		parent.key = reflect.Value{}
		parent.hasKey = false
		parent.items++
	case slotSetItem:
		if parent.value.Kind() == reflect.Map {
			if parent.value.IsNil() {
				parent.value.Set(reflect.MakeMap(parent.shape.Type))
			}
			parent.value.SetMapIndex(f.value, reflect.Zero(parent.shape.Type.Elem()))
		} else {
			parent.value.Addr().MethodByName("Add").Call([]reflect.Value{f.value})
		}
		parent.items++
	case slotSome:
		parent.value.Field(1).SetBool(true)
		parent.state = StateComplete
	case slotPointee:
		parent.value.Set(f.value.Addr())
		parent.state = StateComplete
	}
	return nil
}

func (p *Partial) validate(f *frame) error {
	switch f.shape.Kind {
	case shape.KindList, shape.KindMap, shape.KindSet:
		if f.hasKey {
			return p.fail(f, "map key without a value")
		}
		return nil
	case shape.KindArray:
		if f.state != StateComplete && f.items != f.shape.Len {
			return p.fail(f, "array needs %d elements, got %d", f.shape.Len, f.items)
		}
		return nil
	case shape.KindEnum:
		if f.state == StateSelectingVariant {
			return p.fail(f, "no variant selected")
		}
	}

	if f.set != nil && f.state != StateComplete {
		return p.missingFields(f)
	}
	if f.state != StateComplete {
		return p.fail(f, "value was not set")
	}
	return nil
}

func (p *Partial) missingFields(f *frame) error {
	var err error
	goType := f.fields.String()
	for i, done := range f.set {
		if !done {
			err = multierr.Append(err, errors.FieldMissing(errors.PhaseBuild, p.Path(), goType, f.fields.Fields[i].Name))
		}
	}
	return err
}

// finalize turns collected state into the frame's value.
func (p *Partial) finalize(f *frame) {
	switch f.shape.Kind {
	case shape.KindList:
		if f.value.IsNil() {
			f.value.Set(reflect.MakeSlice(f.shape.Type, 0, 0))
		}
	case shape.KindMap:
		if f.value.IsNil() {
			f.value.Set(reflect.MakeMap(f.shape.Type))
		}
	case shape.KindSet:
		if f.value.Kind() == reflect.Map && f.value.IsNil() {
			f.value.Set(reflect.MakeMap(f.shape.Type))
		}
	case shape.KindEnum:
		if f.shape.Enum.Union && f.variant != nil && f.variant.Payload != nil && f.target.IsValid() {
			f.value.Set(variantValue(f.variant, f.target.Addr()))
		}
	}
	f.state = StateComplete
}

// Build validates the root frame and returns the finished value.
func (p *Partial) Build() (reflect.Value, error) {
	f, err := p.current()
	if err != nil {
		return reflect.Value{}, err
	}
	if len(p.frames) != 1 {
		return reflect.Value{}, p.fail(f, "%d frames still open", len(p.frames)-1)
	}
	if err := p.validate(f); err != nil {
		return reflect.Value{}, err
	}
	p.finalize(f)
	p.built = true
	return p.root.Elem(), nil
}

// Abandon discards the value under construction. It is safe to call more
// than once and after Build has failed.
func (p *Partial) Abandon() {
	if p.abandoned {
		return
	}
	if !p.built {
		p.root.Elem().Set(reflect.Zero(p.root.Type().Elem()))
	}
	p.frames = nil
	p.abandoned = true
}

// BuildAs builds p and returns the value as T.
func BuildAs[T any](p *Partial) (T, error) {
	var zero T
	if _, err := p.Build(); err != nil {
		return zero, err
	}
	ptr, ok := p.root.Interface().(*T)
	if !ok {
		return zero, errors.New(errors.PhaseBuild, errors.KindReflect).
			GoType(p.root.Type().Elem().String()).
			Detail("cannot build as %s", reflect.TypeFor[T]()).
			Build()
	}
	return *ptr, nil
}
