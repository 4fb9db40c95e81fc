package syntax

// Kind is the closed set of structural node categories the engine knows.
// Kinds reported by the front end that are not listed map to KindOther and
// keep their raw tag in Node.RawKind.
type Kind uint8

const (
	KindOther Kind = iota
	KindFile
	KindCall
	KindArgument
	KindClosure
	KindParameter
	KindBrace
	KindClass
	KindStruct
	KindEnum
	KindProtocol
	KindExtension
	KindFunctionFree
	KindFunctionMethod
	KindVarLocal
	KindVarInstance
	KindIf
	KindGuard
	KindFor
	KindWhile
	KindSwitch
	KindCase
	kindCount
)

const kindPrefix = "source.lang.swift."

var kindNames = [kindCount]string{
	KindOther:          "other",
	KindFile:           "file",
	KindCall:           "expr.call",
	KindArgument:       "expr.argument",
	KindClosure:        "expr.closure",
	KindParameter:      "decl.var.parameter",
	KindBrace:          "stmt.brace",
	KindClass:          "decl.class",
	KindStruct:         "decl.struct",
	KindEnum:           "decl.enum",
	KindProtocol:       "decl.protocol",
	KindExtension:      "decl.extension",
	KindFunctionFree:   "decl.function.free",
	KindFunctionMethod: "decl.function.method.instance",
	KindVarLocal:       "decl.var.local",
	KindVarInstance:    "decl.var.instance",
	KindIf:             "stmt.if",
	KindGuard:          "stmt.guard",
	KindFor:            "stmt.foreach",
	KindWhile:          "stmt.while",
	KindSwitch:         "stmt.switch",
	KindCase:           "stmt.case",
}

var kindByTag = func() map[string]Kind {
	m := make(map[string]Kind, kindCount)
	for k := KindCall; k < kindCount; k++ {
		m[kindPrefix+kindNames[k]] = k
	}
	return m
}()

// ParseKind maps a front-end kind tag to a Kind. Both the fully qualified
// form ("source.lang.swift.expr.call") and the short form ("expr.call") are
// accepted.
func ParseKind(tag string) Kind {
	if k, ok := kindByTag[tag]; ok {
		return k
	}
	if k, ok := kindByTag[kindPrefix+tag]; ok {
		return k
	}
	return KindOther
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "invalid"
}

// Tag returns the fully qualified front-end tag for k.
func (k Kind) Tag() string {
	if k == KindOther || k == KindFile || k >= kindCount {
		return ""
	}
	return kindPrefix + kindNames[k]
}

// KindSet is a small set of kinds.
type KindSet uint32

// NewKindSet builds a set from the given kinds.
func NewKindSet(kinds ...Kind) KindSet {
	var s KindSet
	for _, k := range kinds {
		s |= 1 << k
	}
	return s
}

// Has reports whether k is in the set.
func (s KindSet) Has(k Kind) bool {
	return k < kindCount && s&(1<<k) != 0
}

// With returns a copy of s that also contains k.
func (s KindSet) With(k Kind) KindSet {
	return s | 1<<k
}
