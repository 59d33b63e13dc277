package shape

// Kind is the coarse classification of a shape. The engine dispatches on it.
type Kind uint8

const (
	KindScalar Kind = iota
	KindList
	KindArray
	KindMap
	KindSet
	KindStruct
	KindTuple
	KindEnum
	KindOption
	KindPointer
	KindWeak
	KindRawPointer
	KindFunc
	KindDynamic
	KindUnsupported
)

var kindNames = [...]string{
	KindScalar:      "scalar",
	KindList:        "list",
	KindArray:       "array",
	KindMap:         "map",
	KindSet:         "set",
	KindStruct:      "struct",
	KindTuple:       "tuple",
	KindEnum:        "enum",
	KindOption:      "option",
	KindPointer:     "pointer",
	KindWeak:        "weak",
	KindRawPointer:  "raw_pointer",
	KindFunc:        "func",
	KindDynamic:     "dynamic",
	KindUnsupported: "unsupported",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ScalarType identifies the primitive behind a KindScalar shape.
type ScalarType uint8

const (
	ScalarBool ScalarType = iota
	ScalarInt8
	ScalarInt16
	ScalarInt32
	ScalarInt64
	ScalarInt
	ScalarUint8
	ScalarUint16
	ScalarUint32
	ScalarUint64
	ScalarUint
	ScalarUintptr
	ScalarInt128
	ScalarUint128
	ScalarBigInt
	ScalarFloat32
	ScalarFloat64
	ScalarString
	ScalarChar
	ScalarUnit
	ScalarIPAddr
	ScalarAddrPort
	ScalarNetIP
	ScalarUUID
)

var scalarNames = [...]string{
	ScalarBool:     "bool",
	ScalarInt8:     "int8",
	ScalarInt16:    "int16",
	ScalarInt32:    "int32",
	ScalarInt64:    "int64",
	ScalarInt:      "int",
	ScalarUint8:    "uint8",
	ScalarUint16:   "uint16",
	ScalarUint32:   "uint32",
	ScalarUint64:   "uint64",
	ScalarUint:     "uint",
	ScalarUintptr:  "uintptr",
	ScalarInt128:   "int128",
	ScalarUint128:  "uint128",
	ScalarBigInt:   "bigint",
	ScalarFloat32:  "float32",
	ScalarFloat64:  "float64",
	ScalarString:   "string",
	ScalarChar:     "char",
	ScalarUnit:     "unit",
	ScalarIPAddr:   "ip_addr",
	ScalarAddrPort: "addr_port",
	ScalarNetIP:    "net_ip",
	ScalarUUID:     "uuid",
}

func (s ScalarType) String() string {
	if int(s) < len(scalarNames) {
		return scalarNames[s]
	}
	return "unknown"
}

// IsSmallInt reports whether the value fits a JS number exactly.
func (s ScalarType) IsSmallInt() bool {
	switch s {
	case ScalarInt8, ScalarInt16, ScalarInt32, ScalarUint8, ScalarUint16, ScalarUint32:
		return true
	}
	return false
}

// IsWideInt reports whether the value is carried as a BigInt.
func (s ScalarType) IsWideInt() bool {
	switch s {
	case ScalarInt64, ScalarInt, ScalarUint64, ScalarUint, ScalarUintptr,
		ScalarInt128, ScalarUint128, ScalarBigInt:
		return true
	}
	return false
}

// IsTextual reports whether the value round-trips through a string.
func (s ScalarType) IsTextual() bool {
	switch s {
	case ScalarString, ScalarChar, ScalarIPAddr, ScalarAddrPort, ScalarNetIP, ScalarUUID:
		return true
	}
	return false
}
