// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1rt

//go:generate stringer -type=HookResult

// HookResult is returned by every SEQUENCE visitor hook. It tells the
// dispatch trampoline in [Value.Accept] / [Value.AcceptConst] how to proceed.
type HookResult uint8

const (
	// ResultFail aborts the whole encode/decode operation.
	ResultFail HookResult = iota
	// ResultStop ends the SEQUENCE successfully without visiting any
	// further fields.
	ResultStop
	// ResultNoExtension causes only extension-root fields to be visited;
	// the extension-addition group is skipped entirely.
	ResultNoExtension
	// ResultContinue proceeds to the next step of the SEQUENCE protocol.
	ResultContinue
)

// Visitor is the mutating dispatch surface used by decoders. Every leaf
// variant gets its own handler; constructed types are driven through the
// SEQUENCE protocol hooks below. Implementations receive the Value being
// decoded into (already allocated by its Descriptor's Factory) and mutate
// it in place.
//
// This is a trait-object-style table, not a class hierarchy: a decoder
// implements Visitor once and [Value.Accept] switches on the Value's
// Descriptor.Variant to call the matching method.
type Visitor interface {
	VisitNull(v *Value) error
	VisitBoolean(v *Value) error
	VisitInteger(v *Value) error
	VisitEnumerated(v *Value) error
	VisitOID(v *Value) error
	VisitRelativeOID(v *Value) error
	VisitBitString(v *Value) error
	VisitOctetString(v *Value) error
	VisitString(v *Value) error
	VisitBMPString(v *Value) error
	VisitGeneralizedTime(v *Value) error
	VisitChoice(v *Value) error
	VisitOpenType(v *Value) error

	// SEQUENCE protocol, decode side:
	//   preDecodeExtensionRoots
	//   -> for each declared root field: decodeExtensionRoot
	//   -> if extension bit set: preDecodeExtensions
	//   -> for each known extension field: decodeKnownExtension
	//   -> decodeUnknownExtensions
	PreDecodeExtensionRoots(v *Value) HookResult
	DecodeExtensionRoot(v *Value, fieldIndex int) HookResult
	PreDecodeExtensions(v *Value) HookResult
	DecodeKnownExtension(v *Value, extIndex int) HookResult
	DecodeUnknownExtensions(v *Value) HookResult

	// SEQUENCE OF / SET OF protocol, decode side: the decoder repeatedly
	// calls DecodeElement to allocate and decode the next element until it
	// signals completion via the returned bool.
	DecodeElement(v *Value) (cont bool, err error)
}

// ConstVisitor is the observing dispatch surface used by encoders,
// validators, and formatters. It never mutates the Value it visits.
type ConstVisitor interface {
	VisitNullConst(v *Value) error
	VisitBooleanConst(v *Value) error
	VisitIntegerConst(v *Value) error
	VisitEnumeratedConst(v *Value) error
	VisitOIDConst(v *Value) error
	VisitRelativeOIDConst(v *Value) error
	VisitBitStringConst(v *Value) error
	VisitOctetStringConst(v *Value) error
	VisitStringConst(v *Value) error
	VisitBMPStringConst(v *Value) error
	VisitGeneralizedTimeConst(v *Value) error
	VisitChoiceConst(v *Value) error
	VisitOpenTypeConst(v *Value) error

	// SEQUENCE protocol, encode side:
	//   preEncodeExtensionRoots
	//   -> for each present root field: encodeExtensionRoot
	//   -> if any extension present: preEncodeExtensions
	//   -> for each present known extension: encodeKnownExtension
	//   -> afterEncodeSequence
	PreEncodeExtensionRoots(v *Value) HookResult
	EncodeExtensionRoot(v *Value, fieldIndex int) HookResult
	PreEncodeExtensions(v *Value) HookResult
	EncodeKnownExtension(v *Value, extIndex int) HookResult
	AfterEncodeSequence(v *Value) HookResult

	EncodeElementConst(v *Value, elem *Value, index int) error
}

// Accept dispatches v to the matching method of visitor, driving the
// SEQUENCE protocol for constructed variants, by switching over
// Descriptor.Variant rather than relying on virtual dispatch.
func (v *Value) Accept(visitor Visitor) error {
	switch v.desc.Variant {
	case VariantNull:
		return visitor.VisitNull(v)
	case VariantBoolean:
		return visitor.VisitBoolean(v)
	case VariantInteger:
		return visitor.VisitInteger(v)
	case VariantEnumerated:
		return visitor.VisitEnumerated(v)
	case VariantOID:
		return visitor.VisitOID(v)
	case VariantRelativeOID:
		return visitor.VisitRelativeOID(v)
	case VariantBitString:
		return visitor.VisitBitString(v)
	case VariantOctetString:
		return visitor.VisitOctetString(v)
	case VariantString:
		return visitor.VisitString(v)
	case VariantBMPString:
		return visitor.VisitBMPString(v)
	case VariantGeneralizedTime:
		return visitor.VisitGeneralizedTime(v)
	case VariantChoice:
		return visitor.VisitChoice(v)
	case VariantOpenType:
		return visitor.VisitOpenType(v)
	case VariantSequence:
		return acceptSequence(v, visitor)
	case VariantSequenceOf, VariantSetOf:
		return acceptSequenceOf(v, visitor)
	}
	panic("asn1rt: unknown variant")
}

func acceptSequence(v *Value, visitor Visitor) error {
	switch visitor.PreDecodeExtensionRoots(v) {
	case ResultFail:
		return ErrMalformedHeader
	case ResultStop:
		return nil
	}
	for i := range v.desc.Sequence.Fields {
		switch visitor.DecodeExtensionRoot(v, i) {
		case ResultFail:
			return ErrMalformedHeader
		case ResultStop:
			return nil
		}
	}
	if !v.desc.Sequence.Extensible {
		return nil
	}
	switch visitor.PreDecodeExtensions(v) {
	case ResultFail:
		return ErrMalformedHeader
	case ResultStop, ResultNoExtension:
		return nil
	}
	for i := range v.desc.Sequence.Extensions {
		switch visitor.DecodeKnownExtension(v, i) {
		case ResultFail:
			return ErrMalformedHeader
		case ResultStop:
			return nil
		}
	}
	if visitor.DecodeUnknownExtensions(v) == ResultFail {
		return ErrMalformedHeader
	}
	return nil
}

func acceptSequenceOf(v *Value, visitor Visitor) error {
	for {
		cont, err := visitor.DecodeElement(v)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
}

// AcceptConst dispatches v to the matching method of visitor for
// observation-only traversal (encode, validate, format).
func (v *Value) AcceptConst(visitor ConstVisitor) error {
	switch v.desc.Variant {
	case VariantNull:
		return visitor.VisitNullConst(v)
	case VariantBoolean:
		return visitor.VisitBooleanConst(v)
	case VariantInteger:
		return visitor.VisitIntegerConst(v)
	case VariantEnumerated:
		return visitor.VisitEnumeratedConst(v)
	case VariantOID:
		return visitor.VisitOIDConst(v)
	case VariantRelativeOID:
		return visitor.VisitRelativeOIDConst(v)
	case VariantBitString:
		return visitor.VisitBitStringConst(v)
	case VariantOctetString:
		return visitor.VisitOctetStringConst(v)
	case VariantString:
		return visitor.VisitStringConst(v)
	case VariantBMPString:
		return visitor.VisitBMPStringConst(v)
	case VariantGeneralizedTime:
		return visitor.VisitGeneralizedTimeConst(v)
	case VariantChoice:
		return visitor.VisitChoiceConst(v)
	case VariantOpenType:
		return visitor.VisitOpenTypeConst(v)
	case VariantSequence:
		return acceptSequenceConst(v, visitor)
	case VariantSequenceOf, VariantSetOf:
		return acceptSequenceOfConst(v, visitor)
	}
	panic("asn1rt: unknown variant")
}

func acceptSequenceConst(v *Value, visitor ConstVisitor) error {
	switch visitor.PreEncodeExtensionRoots(v) {
	case ResultFail:
		return ErrMalformedHeader
	case ResultStop:
		return nil
	}
	for i, present := range v.fieldPresent {
		if !present {
			continue
		}
		switch visitor.EncodeExtensionRoot(v, i) {
		case ResultFail:
			return ErrMalformedHeader
		case ResultStop:
			return nil
		}
	}
	anyExt := false
	for _, p := range v.extPresent {
		if p {
			anyExt = true
			break
		}
	}
	if anyExt {
		switch visitor.PreEncodeExtensions(v) {
		case ResultFail:
			return ErrMalformedHeader
		case ResultStop, ResultNoExtension:
			anyExt = false
		}
	}
	if anyExt {
		for i, present := range v.extPresent {
			if !present {
				continue
			}
			switch visitor.EncodeKnownExtension(v, i) {
			case ResultFail:
				return ErrMalformedHeader
			case ResultStop:
				return nil
			}
		}
	}
	if visitor.AfterEncodeSequence(v) == ResultFail {
		return ErrMalformedHeader
	}
	return nil
}

func acceptSequenceOfConst(v *Value, visitor ConstVisitor) error {
	for i, e := range v.elements {
		if err := visitor.EncodeElementConst(v, e, i); err != nil {
			return err
		}
	}
	return nil
}
