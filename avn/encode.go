// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package avn

import (
	"strconv"
	"strings"

	"github.com/go-asn1rt/asn1rt"
)

// Encoder implements [asn1rt.ConstVisitor], pretty-printing a Value as
// value notation with two-space-per-level indentation.
type Encoder struct {
	buf    strings.Builder
	indent int

	// seqSeps tracks, per nested SEQUENCE currently being encoded, whether a
	// field has already been written (so the next one is preceded by a
	// comma). EncodeExtensionRoot/EncodeKnownExtension share this stack
	// since value notation draws no distinction between a root field and a
	// known extension on the wire.
	seqSeps []bool

	// seqOfFirst tracks, per nested SEQUENCE OF / SET OF currently being
	// encoded, whether the next element is the first.
	seqOfFirst []bool
}

// Encode renders v as value notation.
func Encode(v *asn1rt.Value) (string, error) {
	e := &Encoder{}
	if err := e.encodeValue(v); err != nil {
		return "", err
	}
	return e.buf.String(), nil
}

func (e *Encoder) encodeValue(v *asn1rt.Value) error {
	desc := v.Descriptor()
	if desc.Variant != asn1rt.VariantSequenceOf && desc.Variant != asn1rt.VariantSetOf {
		return v.AcceptConst(e)
	}
	e.buf.WriteString("{\n")
	e.indent += 2
	e.seqOfFirst = append(e.seqOfFirst, true)
	err := v.AcceptConst(e)
	e.seqOfFirst = e.seqOfFirst[:len(e.seqOfFirst)-1]
	e.indent -= 2
	if err != nil {
		return err
	}
	if len(v.Elements()) > 0 {
		e.buf.WriteString("\n")
	}
	e.buf.WriteString(strings.Repeat(" ", e.indent))
	e.buf.WriteString("}")
	return nil
}

//region leaf variants

func (e *Encoder) VisitNullConst(v *asn1rt.Value) error {
	e.buf.WriteString("NULL")
	return nil
}

func (e *Encoder) VisitBooleanConst(v *asn1rt.Value) error {
	if v.Bool() {
		e.buf.WriteString("TRUE")
	} else {
		e.buf.WriteString("FALSE")
	}
	return nil
}

func (e *Encoder) VisitIntegerConst(v *asn1rt.Value) error {
	if name, ok := lookupNameByValue(v.Descriptor().Names, v.Int()); ok {
		e.buf.WriteString(name)
		return nil
	}
	e.buf.WriteString(strconv.FormatInt(v.Int(), 10))
	return nil
}

func (e *Encoder) VisitEnumeratedConst(v *asn1rt.Value) error {
	return e.VisitIntegerConst(v)
}

func (e *Encoder) VisitOIDConst(v *asn1rt.Value) error {
	e.buf.WriteString("{ ")
	for _, arc := range v.OID() {
		e.buf.WriteString(strconv.FormatUint(arc, 10))
		e.buf.WriteString(" ")
	}
	e.buf.WriteString("}")
	return nil
}

func (e *Encoder) VisitRelativeOIDConst(v *asn1rt.Value) error {
	e.buf.WriteString("{ ")
	for _, arc := range v.RelativeOID() {
		e.buf.WriteString(strconv.FormatUint(arc, 10))
		e.buf.WriteString(" ")
	}
	e.buf.WriteString("}")
	return nil
}

func (e *Encoder) VisitBitStringConst(v *asn1rt.Value) error {
	e.buf.WriteString("'")
	e.buf.WriteString(bitsToString(v.BitStringValue()))
	e.buf.WriteString("'B")
	return nil
}

func (e *Encoder) VisitOctetStringConst(v *asn1rt.Value) error {
	e.buf.WriteString("'")
	e.buf.WriteString(hexString(v.Bytes()))
	e.buf.WriteString("'H")
	return nil
}

func (e *Encoder) VisitStringConst(v *asn1rt.Value) error {
	e.buf.WriteString(`"`)
	e.buf.WriteString(v.Str())
	e.buf.WriteString(`"`)
	return nil
}

func (e *Encoder) VisitBMPStringConst(v *asn1rt.Value) error {
	units := v.CodeUnits()
	fitsASCII := true
	for _, u := range units {
		if u > 0x7F {
			fitsASCII = false
			break
		}
	}
	if fitsASCII {
		e.buf.WriteString(`"`)
		for _, u := range units {
			e.buf.WriteRune(rune(u))
		}
		e.buf.WriteString(`"`)
		return nil
	}
	e.buf.WriteString("{")
	for i, u := range units {
		if i > 0 {
			e.buf.WriteString(", ")
		}
		e.buf.WriteString("{ 0, 0, ")
		e.buf.WriteString(strconv.Itoa(int(u >> 8)))
		e.buf.WriteString(", ")
		e.buf.WriteString(strconv.Itoa(int(u & 0xFF)))
		e.buf.WriteString("}")
	}
	e.buf.WriteString("}")
	return nil
}

func (e *Encoder) VisitGeneralizedTimeConst(v *asn1rt.Value) error {
	e.buf.WriteString(`"`)
	e.buf.WriteString(v.Time().String())
	e.buf.WriteString(`"`)
	return nil
}

//endregion

func (e *Encoder) VisitChoiceConst(v *asn1rt.Value) error {
	idx := v.Selected()
	if idx < 0 {
		return asn1rt.ErrUnknownAlternative
	}
	alt := v.Descriptor().Choice.Alternative(idx)
	e.buf.WriteString(alt.Name)
	e.buf.WriteString(" : ")
	return e.encodeValue(v.ChoiceValue())
}

func (e *Encoder) VisitOpenTypeConst(v *asn1rt.Value) error {
	if inner, ok := v.OpenValue(); ok {
		return e.encodeValue(inner)
	}
	raw, _ := v.OpenRaw()
	e.buf.WriteString("'")
	e.buf.WriteString(hexString(raw))
	e.buf.WriteString("'H")
	return nil
}

//region SEQUENCE protocol

func (e *Encoder) PreEncodeExtensionRoots(v *asn1rt.Value) asn1rt.HookResult {
	e.buf.WriteString("{\n")
	e.indent += 2
	e.seqSeps = append(e.seqSeps, false)
	return asn1rt.ResultContinue
}

func (e *Encoder) writeField(name string, val *asn1rt.Value) error {
	top := len(e.seqSeps) - 1
	if e.seqSeps[top] {
		e.buf.WriteString(",\n")
	}
	e.buf.WriteString(strings.Repeat(" ", e.indent))
	e.buf.WriteString(name)
	e.buf.WriteString(" ")
	if err := e.encodeValue(val); err != nil {
		return err
	}
	e.seqSeps[top] = true
	return nil
}

func (e *Encoder) EncodeExtensionRoot(v *asn1rt.Value, fieldIndex int) asn1rt.HookResult {
	fd := v.Descriptor().Sequence.Fields[fieldIndex]
	if err := e.writeField(fd.Name, v.Field(fieldIndex)); err != nil {
		return asn1rt.ResultFail
	}
	return asn1rt.ResultContinue
}

func (e *Encoder) PreEncodeExtensions(v *asn1rt.Value) asn1rt.HookResult {
	return asn1rt.ResultContinue
}

func (e *Encoder) EncodeKnownExtension(v *asn1rt.Value, extIndex int) asn1rt.HookResult {
	fd := v.Descriptor().Sequence.Extensions[extIndex]
	if err := e.writeField(fd.Name, v.Extension(extIndex)); err != nil {
		return asn1rt.ResultFail
	}
	return asn1rt.ResultContinue
}

func (e *Encoder) AfterEncodeSequence(v *asn1rt.Value) asn1rt.HookResult {
	top := len(e.seqSeps) - 1
	if e.seqSeps[top] {
		e.buf.WriteString("\n")
	}
	e.seqSeps = e.seqSeps[:top]
	e.indent -= 2
	e.buf.WriteString(strings.Repeat(" ", e.indent))
	e.buf.WriteString("}")
	return asn1rt.ResultContinue
}

func (e *Encoder) EncodeElementConst(v *asn1rt.Value, elem *asn1rt.Value, index int) error {
	top := len(e.seqOfFirst) - 1
	if !e.seqOfFirst[top] {
		e.buf.WriteString(",\n")
	}
	e.seqOfFirst[top] = false
	e.buf.WriteString(strings.Repeat(" ", e.indent))
	return e.encodeValue(elem)
}

//endregion
