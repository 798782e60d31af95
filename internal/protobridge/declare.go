package protobridge

import (
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/novalang/novac/internal/emit"
)

// DeclareFile renders every message and enum in fd as ambient `declare
// interface`/`declare const enum` text, using internal/emit's Printer —
// the same indent-tracking writer internal/emit uses for checker-derived
// `.d.ts` output, so a proto-sourced lib file and a checker-emitted
// declaration file come out in the same shape.
func DeclareFile(fd *desc.FileDescriptor) string {
	p := emit.NewPrinter()
	for _, md := range fd.GetMessageTypes() {
		declareMessage(p, md)
	}
	for _, ed := range fd.GetEnumTypes() {
		declareEnum(p, ed)
	}
	return p.String()
}

func declareMessage(p *emit.Printer, md *desc.MessageDescriptor) {
	p.Line("declare interface %s {", md.GetName())
	p.Indent()
	for _, fld := range md.GetFields() {
		p.Line("%s: %s;", fld.GetName(), fieldType(fld))
	}
	p.Dedent()
	p.Line("}")
	for _, nested := range md.GetNestedMessageTypes() {
		declareMessage(p, nested)
	}
	for _, nested := range md.GetNestedEnumTypes() {
		declareEnum(p, nested)
	}
}

func declareEnum(p *emit.Printer, ed *desc.EnumDescriptor) {
	p.Line("declare const enum %s {", ed.GetName())
	p.Indent()
	for _, v := range ed.GetValues() {
		p.Line("%s = %d,", v.GetName(), v.GetNumber())
	}
	p.Dedent()
	p.Line("}")
}

// fieldType maps one protobuf field to its ambient TypeScript-shaped type
// text, following proto3 JSON mapping conventions (int64/uint64/fixed64
// widen to string in JSON, so they do here too, since a typed RPC client
// built against this declaration talks JSON over the wire) rather than
// protobuf's own wire-level integer widths, which don't matter to a
// checker that only sees the declared surface.
func fieldType(fld *desc.FieldDescriptor) string {
	base := scalarFieldType(fld)
	if fld.IsRepeated() && !fld.IsMap() {
		return base + "[]"
	}
	if fld.IsMap() {
		valueField := fld.GetMessageType().FindFieldByNumber(2)
		return fmt.Sprintf("Record<string, %s>", scalarFieldType(valueField))
	}
	return base
}

func scalarFieldType(fld *desc.FieldDescriptor) string {
	switch fld.GetType() {
	case descriptorpb.FieldDescriptorProto_TYPE_DOUBLE, descriptorpb.FieldDescriptorProto_TYPE_FLOAT,
		descriptorpb.FieldDescriptorProto_TYPE_INT32, descriptorpb.FieldDescriptorProto_TYPE_UINT32,
		descriptorpb.FieldDescriptorProto_TYPE_SINT32, descriptorpb.FieldDescriptorProto_TYPE_FIXED32,
		descriptorpb.FieldDescriptorProto_TYPE_SFIXED32:
		return "number"
	case descriptorpb.FieldDescriptorProto_TYPE_INT64, descriptorpb.FieldDescriptorProto_TYPE_UINT64,
		descriptorpb.FieldDescriptorProto_TYPE_SINT64, descriptorpb.FieldDescriptorProto_TYPE_FIXED64,
		descriptorpb.FieldDescriptorProto_TYPE_SFIXED64:
		return "string"
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		return "boolean"
	case descriptorpb.FieldDescriptorProto_TYPE_STRING:
		return "string"
	case descriptorpb.FieldDescriptorProto_TYPE_BYTES:
		return "Uint8Array"
	case descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, descriptorpb.FieldDescriptorProto_TYPE_GROUP:
		return fld.GetMessageType().GetName()
	case descriptorpb.FieldDescriptorProto_TYPE_ENUM:
		return fld.GetEnumType().GetName()
	default:
		return "unknown"
	}
}
