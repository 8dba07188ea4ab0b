package ir

// TypeKind is the closed set of advisory type descriptors (§3.2). Types guide
// emission decisions (numeric vs. string `+`, for instance) but are never
// checked for soundness.
type TypeKind string

const (
	TypePrimitive TypeKind = "Primitive"
	TypeArray     TypeKind = "Array"
	TypeObject    TypeKind = "Object"
	TypeFunction  TypeKind = "Function"
	TypeUnion     TypeKind = "Union"
	TypeAny       TypeKind = "Any"
	TypeRef       TypeKind = "Ref"
)

// Primitive is the closed set of primitive type names.
type Primitive string

const (
	PrimitiveNumber    Primitive = "number"
	PrimitiveBoolean   Primitive = "boolean"
	PrimitiveString    Primitive = "string"
	PrimitiveNull      Primitive = "null"
	PrimitiveUndefined Primitive = "undefined"
	PrimitiveVoid      Primitive = "void"
)

// Type is a flat descriptor covering every TypeKind; unused fields for a
// given Kind are left zero. This mirrors the IR Node's own "one struct, tag
// discriminates which fields matter" shape (see node.go).
type Type struct {
	Kind TypeKind `json:"kind"`

	// TypePrimitive
	Primitive Primitive `json:"primitive,omitempty"`

	// TypeArray
	Elem *Type `json:"elem,omitempty"`

	// TypeObject
	Fields map[string]*Type `json:"fields,omitempty"`

	// TypeFunction
	Params []*Type `json:"params,omitempty"`
	Return *Type    `json:"return,omitempty"`

	// TypeUnion
	Options []*Type `json:"options,omitempty"`

	// TypeRef
	RefName string `json:"refName,omitempty"`
}

// AnyType is the shared "no information" descriptor, returned whenever the
// lowerer cannot infer anything more specific.
var AnyType = &Type{Kind: TypeAny}

// NumberType, StringType, BooleanType are the primitive descriptors the
// lowerer and emitter reach for most often (numeric/string `+` dispatch,
// boolean short-circuit operands).
var (
	NumberType  = &Type{Kind: TypePrimitive, Primitive: PrimitiveNumber}
	StringType  = &Type{Kind: TypePrimitive, Primitive: PrimitiveString}
	BooleanType = &Type{Kind: TypePrimitive, Primitive: PrimitiveBoolean}
	NullType    = &Type{Kind: TypePrimitive, Primitive: PrimitiveNull}
	VoidType    = &Type{Kind: TypePrimitive, Primitive: PrimitiveVoid}
)
