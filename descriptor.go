// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1rt

//go:generate stringer -type=Variant

// Variant discriminates the shape of a [Descriptor] and, in turn, of the
// [Value] it describes: a single enum driving a switch in every visitor
// method, instead of virtual dispatch over a class hierarchy.
type Variant uint8

const (
	VariantNull Variant = iota
	VariantBoolean
	VariantInteger
	VariantEnumerated
	VariantOID
	VariantRelativeOID
	VariantBitString
	VariantOctetString
	VariantString // NumericString, PrintableString, VisibleString, IA5String, GeneralString
	VariantBMPString
	VariantGeneralizedTime
	VariantChoice
	VariantSequence
	VariantSequenceOf
	VariantSetOf
	VariantOpenType
)

// Factory constructs a fresh zero Value for the type described by a
// Descriptor. Every Descriptor carries one; it is how a decoder instantiates
// a SEQUENCE field, a SEQUENCE OF element, or a CHOICE alternative on demand
// without knowing its concrete type statically.
type Factory func(d *Descriptor) *Value

// NamedNumber associates an ASN.1 identifier with an integer value, used for
// INTEGER types with named numbers and for ENUMERATED types. Entries in a
// Descriptor's Names table are sorted by Value so codecs can binary search.
type NamedNumber struct {
	Name  string
	Value int64
}

// FieldDescriptor describes one declared field of a SEQUENCE, or one
// alternative of a CHOICE.
type FieldDescriptor struct {
	Name string
	Desc *Descriptor

	// Optional marks a SEQUENCE field as OPTIONAL. Ignored for CHOICE
	// alternatives.
	Optional bool

	// Tag is the tag the BER decoder expects to see for this field (after
	// applying any IMPLICIT/EXPLICIT tagging). HasTag is false for fields
	// whose expected tag cannot be determined statically (e.g. an untagged
	// embedded CHOICE), in which case the BER decoder always recurses
	// without checking the tag first.
	Tag    Tag
	HasTag bool

	// Explicit marks a field as EXPLICIT-tagged: the field's own encoding is
	// wrapped in an additional constructed TLV carrying Tag.
	Explicit bool
}

// SequenceInfo is the extra metadata attached to a Descriptor of
// [VariantSequence] (or [VariantSetOf] is not this; see SequenceOfInfo).
type SequenceInfo struct {
	// Extensible reports whether the SEQUENCE has a "..." extension marker.
	Extensible bool
	// Fields are the extension-root fields, in declared order.
	Fields []FieldDescriptor
	// Extensions are the known extension-addition fields, in declared
	// order. Only meaningful when Extensible is true.
	Extensions []FieldDescriptor
}

// NumOptional returns the number of OPTIONAL fields in the extension root.
// This is the width of the present-optional bitmap emitted by PER.
func (s *SequenceInfo) NumOptional() int {
	n := 0
	for _, f := range s.Fields {
		if f.Optional {
			n++
		}
	}
	return n
}

// ChoiceInfo is the extra metadata attached to a Descriptor of
// [VariantChoice].
type ChoiceInfo struct {
	// Extensible reports whether the CHOICE has a "..." extension marker.
	Extensible bool
	// Root holds the extension-root alternatives, in declared order. Their
	// index in this slice is the CHOICE selection index used by PER and by
	// [Value] for indices in [0, len(Root)).
	Root []FieldDescriptor
	// Extensions holds known extension alternatives. A Value selecting
	// Extensions[i] uses selection index len(Root)+i.
	Extensions []FieldDescriptor
	// tagTable is a tag-sorted view over Root ++ Extensions used by the BER
	// decoder to binary search for a matching alternative. Built by
	// NewChoiceDescriptor when the descriptor is constructed.
	tagTable []choiceTagEntry
}

type choiceTagEntry struct {
	tag   Tag
	index int
}

// FindTag reports the selection index of the alternative tagged tag, using
// binary search over c's sorted tag table. It is how the BER decoder
// resolves a CHOICE: read the next tag on the wire, then look it up here.
func (c *ChoiceInfo) FindTag(tag Tag) (index int, ok bool) {
	lo, hi := 0, len(c.tagTable)
	for lo < hi {
		mid := (lo + hi) / 2
		switch {
		case c.tagTable[mid].tag == tag:
			return c.tagTable[mid].index, true
		case c.tagTable[mid].tag < tag:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return 0, false
}

// EmbeddedChoiceIndex reports whether the first entry of c's tag table is an
// untagged embedded CHOICE sentinel (tag 0; see buildTagTable), returning
// its selection index if so. The BER CHOICE decoder recurses into that
// alternative's own ChoiceInfo when the wire tag matches no entry in
// FindTag: an untagged CHOICE nested inside another CHOICE carries no tag
// of its own, so its presence can only be detected by trying its own
// alternatives in turn.
func (c *ChoiceInfo) EmbeddedChoiceIndex() (index int, ok bool) {
	if len(c.tagTable) == 0 || c.tagTable[0].tag != TagReserved {
		return 0, false
	}
	return c.tagTable[0].index, true
}

// Alternative returns the FieldDescriptor for selection index i, where i is
// in [0, NumAlternatives()).
func (c *ChoiceInfo) Alternative(i int) FieldDescriptor {
	if i < len(c.Root) {
		return c.Root[i]
	}
	return c.Extensions[i-len(c.Root)]
}

// NumAlternatives returns len(Root)+len(Extensions).
func (c *ChoiceInfo) NumAlternatives() int {
	return len(c.Root) + len(c.Extensions)
}

// buildTagTable (re)computes the sorted tag table of c. Called by
// NewChoiceDescriptor after Root/Extensions are populated.
func (c *ChoiceInfo) buildTagTable() {
	all := make([]choiceTagEntry, 0, c.NumAlternatives())
	for i := 0; i < len(c.Root); i++ {
		all = append(all, choiceTagEntry{c.Root[i].Tag, i})
	}
	for i := 0; i < len(c.Extensions); i++ {
		all = append(all, choiceTagEntry{c.Extensions[i].Tag, len(c.Root) + i})
	}
	// stable sort by tag; a zero tag (untagged embedded CHOICE sentinel)
	// sorts first since Tag 0 is the smallest possible value.
	for i := 1; i < len(all); i++ {
		for j := i; j > 0 && all[j].tag < all[j-1].tag; j-- {
			all[j], all[j-1] = all[j-1], all[j]
		}
	}
	c.tagTable = all
}

// SequenceOfInfo is the extra metadata attached to a Descriptor of
// [VariantSequenceOf] or [VariantSetOf].
type SequenceOfInfo struct {
	Element    *Descriptor
	Constraint Constraint // size constraint on the element count
}

// StringInfo is the extra metadata attached to a Descriptor of
// [VariantString] or [VariantBMPString].
type StringInfo struct {
	// Alphabet lists the characters permitted by this string type, in their
	// canonical order. PER encodes each character as an index into this
	// alphabet using CharBits bits. An empty Alphabet means the character
	// repertoire is not restricted (e.g. IA5String, GeneralString); PER then
	// falls back to raw 8-bit passthrough per character after alignment.
	Alphabet string
	// CharBits is ceil(log2(len(Alphabet))), precomputed by the schema
	// compiler. Ignored when Alphabet is empty.
	CharBits int
	// Size is the size constraint on the character count.
	Size Constraint
}

// OpenTypeInfo is the extra metadata attached to a Descriptor of
// [VariantOpenType].
type OpenTypeInfo struct {
	// Content, if non-nil, makes the BER decoder decode the open type
	// directly into a Value of this Descriptor rather than capturing a raw
	// byte buffer; the PER decoder captures raw bytes regardless. Most open
	// types (ANY, embedded-PDV content) leave this nil and are left as raw
	// bytes.
	Content *Descriptor
}

// Descriptor is the immutable per-type metadata record that drives every
// codec in this runtime. Its Variant field selects which of the embedded
// Info pointers is meaningful; all others are nil. Two Values are
// assignment-compatible iff they share a pointer-identical Descriptor.
//
// A Descriptor is produced once (typically by a generated table) and never
// mutated afterward; it is safe to share across goroutines and across many
// Values.
type Descriptor struct {
	Variant Variant
	Tag     Tag
	New     Factory

	// Name is an optional human-readable type name. None of the codecs
	// consult it; it is not semantically required.
	Name string

	// Constraint applies to VariantInteger, VariantEnumerated,
	// VariantBitString and VariantOctetString (as a size constraint on the
	// latter two).
	Constraint Constraint
	// Names holds named numbers for VariantInteger (INTEGER with named
	// numbers) and VariantEnumerated, sorted by Value.
	Names []NamedNumber
	// Signed reports whether VariantInteger should be treated as a signed
	// 32-bit value. Determined by whether the descriptor's constraint lower
	// bound is negative.
	Signed bool

	Sequence   *SequenceInfo
	Choice     *ChoiceInfo
	SeqOf      *SequenceOfInfo
	String     *StringInfo
	OpenType   *OpenTypeInfo
}

// NewChoiceDescriptor builds a Descriptor of VariantChoice and pre-computes
// its BER tag table. Use this instead of constructing ChoiceInfo directly so
// the tag table stays in sync with Root/Extensions.
func NewChoiceDescriptor(tag Tag, name string, new Factory, extensible bool, root, extensions []FieldDescriptor) *Descriptor {
	c := &ChoiceInfo{Extensible: extensible, Root: root, Extensions: extensions}
	c.buildTagTable()
	return &Descriptor{Variant: VariantChoice, Tag: tag, New: new, Name: name, Choice: c}
}
