// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1rt

import "slices"

// Value is the universal polymorphic handle for a runtime ASN.1 value. Every
// Value carries a pointer to its immutable [Descriptor] (its type identity)
// and a representation selected by the Descriptor's Variant: a tagged union
// with one enum, one struct, and a switch in every visitor method, instead
// of a hierarchy of concrete per-type classes.
//
// Two Values are assignment-compatible iff they reference the same
// Descriptor pointer. Assigning copies payload but never the Descriptor;
// [Value.Clone] preserves the Descriptor of the clone.
type Value struct {
	desc *Descriptor

	boolVal bool
	intVal  int64
	oid     ObjectIdentifier
	relOID  RelativeOID
	bits    BitString
	octets  []byte
	str     string
	units   []uint16 // BMPString code units
	time    GeneralizedTime

	// CHOICE
	choiceIndex int // -1 = unselected, -2 = unknown selection
	choiceChild *Value

	// SEQUENCE
	fields         []*Value
	fieldPresent   []bool
	extFields      []*Value
	extPresent     []bool
	hasExtensions  bool

	// SEQUENCE OF / SET OF
	elements []*Value

	// OPEN TYPE
	openValue *Value
	openRaw   []byte
	openSet   bool // true once either openValue or openRaw (even nil-length) has been set
}

// NewValue allocates a fresh, zero-initialized Value for d. This is what a
// Descriptor's Factory function is expected to call (or be).
func NewValue(d *Descriptor) *Value {
	v := &Value{desc: d, choiceIndex: -1}
	switch d.Variant {
	case VariantSequence:
		v.fields = make([]*Value, len(d.Sequence.Fields))
		v.fieldPresent = make([]bool, len(d.Sequence.Fields))
		for i, f := range d.Sequence.Fields {
			if !f.Optional {
				v.fields[i] = f.Desc.New(f.Desc)
				v.fieldPresent[i] = true
			}
		}
		if d.Sequence.Extensible {
			v.extFields = make([]*Value, len(d.Sequence.Extensions))
			v.extPresent = make([]bool, len(d.Sequence.Extensions))
		}
	case VariantOpenType:
		v.openSet = false
	}
	return v
}

// Descriptor returns the immutable type descriptor of v.
func (v *Value) Descriptor() *Descriptor { return v.desc }

// Variant returns the variant of v's descriptor.
func (v *Value) Variant() Variant { return v.desc.Variant }

// Tag returns the tag of v's descriptor, a convenient accessor for BER
// tag-mismatch diagnostics.
func (v *Value) Tag() Tag { return v.desc.Tag }

//region primitive accessors

func (v *Value) Bool() bool      { return v.boolVal }
func (v *Value) SetBool(b bool)  { v.boolVal = b }

func (v *Value) Int() int64     { return v.intVal }
func (v *Value) SetInt(i int64) { v.intVal = i }

func (v *Value) OID() ObjectIdentifier         { return v.oid }
func (v *Value) SetOID(oid ObjectIdentifier)   { v.oid = oid }
func (v *Value) RelativeOID() RelativeOID      { return v.relOID }
func (v *Value) SetRelativeOID(r RelativeOID)  { v.relOID = r }

func (v *Value) BitStringValue() BitString        { return v.bits }
func (v *Value) SetBitString(b BitString)         { v.bits = b }

func (v *Value) Bytes() []byte      { return v.octets }
func (v *Value) SetBytes(b []byte)  { v.octets = b }

func (v *Value) Str() string      { return v.str }
func (v *Value) SetStr(s string)  { v.str = s }

func (v *Value) CodeUnits() []uint16        { return v.units }
func (v *Value) SetCodeUnits(u []uint16)    { v.units = u }

func (v *Value) Time() GeneralizedTime        { return v.time }
func (v *Value) SetTime(t GeneralizedTime)    { v.time = t }

//endregion

//region CHOICE

// Selected returns the index of the currently selected alternative, or -1
// if no alternative has been selected, or -2 if the selected alternative is
// an unknown extension (decoded but not recognized by this Descriptor).
func (v *Value) Selected() int { return v.choiceIndex }

// Select marks index as the selected alternative, allocating (if not
// already present) a child Value using that alternative's Descriptor, and
// returns the child. index must be in [0, NumAlternatives()) or -2 for the
// "unknown selection" sentinel, in which case no child is allocated.
func (v *Value) Select(index int) *Value {
	if index == -2 {
		v.choiceIndex = -2
		v.choiceChild = nil
		return nil
	}
	alt := v.desc.Choice.Alternative(index)
	if v.choiceIndex != index || v.choiceChild == nil {
		v.choiceChild = alt.Desc.New(alt.Desc)
	}
	v.choiceIndex = index
	return v.choiceChild
}

// ChoiceValue returns the Value currently selected by a CHOICE Value, or nil
// if unselected or unknown.
func (v *Value) ChoiceValue() *Value { return v.choiceChild }

//endregion

//region SEQUENCE

// NumFields returns the number of extension-root fields.
func (v *Value) NumFields() int { return len(v.fields) }

// Field returns the Value in root field slot i. The result is only
// meaningful when FieldPresent(i) is true.
func (v *Value) Field(i int) *Value { return v.fields[i] }

// FieldPresent reports whether root field i carries a live value.
// Non-optional fields are always present.
func (v *Value) FieldPresent(i int) bool { return v.fieldPresent[i] }

// SetFieldPresent marks root field i present or absent. When marking a
// field present that was previously absent, a fresh Value is allocated via
// the field's Descriptor factory. Returns the field's Value, or nil if
// present is false.
func (v *Value) SetFieldPresent(i int, present bool) *Value {
	if present {
		if v.fields[i] == nil {
			f := v.desc.Sequence.Fields[i]
			v.fields[i] = f.Desc.New(f.Desc)
		}
		v.fieldPresent[i] = true
		return v.fields[i]
	}
	v.fieldPresent[i] = false
	return nil
}

// NumExtensions returns the number of known extension-addition fields.
func (v *Value) NumExtensions() int { return len(v.extFields) }

// Extension returns the Value in known-extension slot i.
func (v *Value) Extension(i int) *Value { return v.extFields[i] }

// ExtensionPresent reports whether known extension i carries a live value.
func (v *Value) ExtensionPresent(i int) bool { return v.extPresent[i] }

// SetExtensionPresent marks known extension i present or absent, allocating
// its Value on first use.
func (v *Value) SetExtensionPresent(i int, present bool) *Value {
	if present {
		if v.extFields[i] == nil {
			f := v.desc.Sequence.Extensions[i]
			v.extFields[i] = f.Desc.New(f.Desc)
		}
		v.extPresent[i] = true
		return v.extFields[i]
	}
	v.extPresent[i] = false
	return nil
}

// HasExtensions reports whether the PER extension bit is set for this
// SEQUENCE value, i.e. whether the encoding should consult the extension
// addition group at all.
func (v *Value) HasExtensions() bool { return v.hasExtensions }

// SetHasExtensions sets the extension bit directly. Encoders normally derive
// this from whether any ExtensionPresent(i) is true; decoders set it
// explicitly from the wire bit.
func (v *Value) SetHasExtensions(b bool) { v.hasExtensions = b }

//endregion

//region SEQUENCE OF / SET OF

// Elements returns the child values of a SEQUENCE OF / SET OF Value, in
// order.
func (v *Value) Elements() []*Value { return v.elements }

// SetElements replaces the children of a SEQUENCE OF / SET OF Value.
// Every element must share the container's element Descriptor.
func (v *Value) SetElements(elems []*Value) { v.elements = elems }

// AppendElement allocates a new element using the container's element
// Descriptor, appends it, and returns it.
func (v *Value) AppendElement() *Value {
	e := v.desc.SeqOf.Element.New(v.desc.SeqOf.Element)
	v.elements = append(v.elements, e)
	return e
}

//endregion

//region OPEN TYPE

// OpenRaw returns the raw undecoded bytes held by an OPEN TYPE Value and
// whether raw bytes (rather than a decoded Value or emptiness) are held.
func (v *Value) OpenRaw() ([]byte, bool) {
	if v.openSet && v.openValue == nil {
		return v.openRaw, true
	}
	return nil, false
}

// SetOpenRaw stores raw undecoded bytes into an OPEN TYPE Value. The BER
// and PER decoders store an open type's captured bytes this way.
func (v *Value) SetOpenRaw(b []byte) {
	v.openRaw = b
	v.openValue = nil
	v.openSet = true
}

// OpenValue returns the decoded Value held by an OPEN TYPE Value and whether
// a decoded Value (rather than raw bytes or emptiness) is held.
func (v *Value) OpenValue() (*Value, bool) {
	if v.openSet && v.openValue != nil {
		return v.openValue, true
	}
	return nil, false
}

// SetOpenValue stores an already-decoded Value into an OPEN TYPE Value.
func (v *Value) SetOpenValue(val *Value) {
	v.openValue = val
	v.openRaw = nil
	v.openSet = true
}

// OpenEmpty reports whether an OPEN TYPE Value holds neither raw bytes nor a
// decoded Value.
func (v *Value) OpenEmpty() bool { return !v.openSet }

//endregion

// Clone returns a deep copy of v. The clone shares v's Descriptor (cloning
// never changes type identity) but owns independent copies of every nested
// Value and mutable slice.
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	c := &Value{
		desc:          v.desc,
		boolVal:       v.boolVal,
		intVal:        v.intVal,
		oid:           slices.Clone(v.oid),
		relOID:        slices.Clone(v.relOID),
		bits:          BitString{Bytes: slices.Clone(v.bits.Bytes), BitLength: v.bits.BitLength},
		octets:        slices.Clone(v.octets),
		str:           v.str,
		units:         slices.Clone(v.units),
		time:          v.time,
		choiceIndex:   v.choiceIndex,
		hasExtensions: v.hasExtensions,
		openRaw:       slices.Clone(v.openRaw),
		openSet:       v.openSet,
	}
	c.choiceChild = v.choiceChild.Clone()
	c.openValue = v.openValue.Clone()
	if v.fields != nil {
		c.fields = make([]*Value, len(v.fields))
		for i, f := range v.fields {
			c.fields[i] = f.Clone()
		}
		c.fieldPresent = slices.Clone(v.fieldPresent)
	}
	if v.extFields != nil {
		c.extFields = make([]*Value, len(v.extFields))
		for i, f := range v.extFields {
			c.extFields[i] = f.Clone()
		}
		c.extPresent = slices.Clone(v.extPresent)
	}
	if v.elements != nil {
		c.elements = make([]*Value, len(v.elements))
		for i, e := range v.elements {
			c.elements[i] = e.Clone()
		}
	}
	return c
}

// Compare defines a strict total order between v and other. When v and
// other share a Descriptor, the order is structural (lexicographic
// for strings and bit strings, component-wise-then-length for object
// identifiers, field-wise for SEQUENCE, index-then-value for CHOICE,
// element-wise-then-length for SEQUENCE OF). When the descriptors differ,
// Compare orders first by Tag and then by Variant, so that Compare remains
// a valid total order over all Values, not only same-typed ones, at the
// cost of an otherwise arbitrary (but deterministic) cross-type ordering.
func (v *Value) Compare(other *Value) int {
	if v == other {
		return 0
	}
	if v == nil {
		return -1
	}
	if other == nil {
		return 1
	}
	if v.desc != other.desc {
		if c := cmpInt(int(v.desc.Tag), int(other.desc.Tag)); c != 0 {
			return c
		}
		return cmpInt(int(v.desc.Variant), int(other.desc.Variant))
	}
	switch v.desc.Variant {
	case VariantNull:
		return 0
	case VariantBoolean:
		return cmpBool(v.boolVal, other.boolVal)
	case VariantInteger, VariantEnumerated:
		return cmpInt64(v.intVal, other.intVal)
	case VariantOID:
		return v.oid.Compare(other.oid)
	case VariantRelativeOID:
		return ObjectIdentifier(v.relOID).Compare(ObjectIdentifier(other.relOID))
	case VariantBitString:
		return v.bits.Compare(other.bits)
	case VariantOctetString:
		return slices.Compare(v.octets, other.octets)
	case VariantString:
		return cmpString(v.str, other.str)
	case VariantBMPString:
		return slices.Compare(v.units, other.units)
	case VariantGeneralizedTime:
		return v.time.Compare(other.time)
	case VariantChoice:
		if c := cmpInt(v.choiceIndex, other.choiceIndex); c != 0 {
			return c
		}
		return v.choiceChild.Compare(other.choiceChild)
	case VariantSequence:
		for i := range v.fields {
			if c := cmpBool(v.fieldPresent[i], other.fieldPresent[i]); c != 0 {
				return c
			}
			if v.fieldPresent[i] {
				if c := v.fields[i].Compare(other.fields[i]); c != 0 {
					return c
				}
			}
		}
		for i := range v.extFields {
			if c := cmpBool(v.extPresent[i], other.extPresent[i]); c != 0 {
				return c
			}
			if v.extPresent[i] {
				if c := v.extFields[i].Compare(other.extFields[i]); c != 0 {
					return c
				}
			}
		}
		return 0
	case VariantSequenceOf, VariantSetOf:
		for i := 0; i < len(v.elements) && i < len(other.elements); i++ {
			if c := v.elements[i].Compare(other.elements[i]); c != 0 {
				return c
			}
		}
		return cmpInt(len(v.elements), len(other.elements))
	case VariantOpenType:
		vr, vok := v.OpenRaw()
		or, ook := other.OpenRaw()
		if vok && ook {
			return slices.Compare(vr, or)
		}
		vv, _ := v.OpenValue()
		ov, _ := other.OpenValue()
		return vv.Compare(ov)
	}
	return 0
}

// IsValid reports whether v is structurally well formed: every mandatory
// SEQUENCE field is present, every CHOICE has a known alternative selected,
// every BIT STRING holds enough bytes for its length and every
// GeneralizedTime has its fields in range, checked recursively through
// nested Values. A constraint violation is never itself a fatal decode
// error, and IsValid does not check range or size constraints at all;
// [Value.IsStrictlyValid] does. IsValid and [Value.IsStrictlyValid] never
// mutate v.
func (v *Value) IsValid() bool {
	return v.checkValid(false)
}

// IsStrictlyValid is like IsValid but additionally requires every value
// with a range or size constraint (INTEGER, ENUMERATED, BIT STRING, OCTET
// STRING, character strings, SEQUENCE OF / SET OF), at every nesting level,
// to satisfy it, not only its structural shape.
func (v *Value) IsStrictlyValid() bool {
	return v.checkValid(true)
}

func (v *Value) checkValid(strict bool) bool {
	switch v.desc.Variant {
	case VariantNull, VariantBoolean:
		return true
	case VariantInteger, VariantEnumerated:
		if !strict {
			return true
		}
		return v.desc.Constraint.Contains(v.intVal)
	case VariantOID, VariantRelativeOID:
		return true
	case VariantBitString:
		if !v.bits.IsValid() {
			return false
		}
		if !strict {
			return true
		}
		return v.desc.Constraint.Contains(int64(v.bits.BitLength))
	case VariantOctetString:
		if !strict {
			return true
		}
		return v.desc.Constraint.Contains(int64(len(v.octets)))
	case VariantString:
		if !strict {
			return true
		}
		return v.desc.String.Size.Contains(int64(len([]rune(v.str))))
	case VariantBMPString:
		if !strict {
			return true
		}
		return v.desc.String.Size.Contains(int64(len(v.units)))
	case VariantGeneralizedTime:
		return v.time.IsValid()
	case VariantChoice:
		if v.choiceIndex < 0 {
			return false
		}
		return v.choiceChild.checkValid(strict)
	case VariantSequence:
		for i, f := range v.desc.Sequence.Fields {
			if !f.Optional && !v.fieldPresent[i] {
				return false
			}
			if v.fieldPresent[i] && !v.fields[i].checkValid(strict) {
				return false
			}
		}
		for i := range v.extFields {
			if v.extPresent[i] && !v.extFields[i].checkValid(strict) {
				return false
			}
		}
		return true
	case VariantSequenceOf, VariantSetOf:
		if strict && !v.desc.SeqOf.Constraint.Contains(int64(len(v.elements))) {
			return false
		}
		for _, e := range v.elements {
			if !e.checkValid(strict) {
				return false
			}
		}
		return true
	case VariantOpenType:
		if val, ok := v.OpenValue(); ok {
			return val.checkValid(strict)
		}
		return true
	}
	return true
}

func cmpBool(a, b bool) int {
	if a == b {
		return 0
	}
	if !a {
		return -1
	}
	return 1
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
