package shape

import "testing"

func TestKindString(t *testing.T) {
	tests := []struct {
		want string
		kind Kind
	}{
		{"scalar", KindScalar},
		{"list", KindList},
		{"array", KindArray},
		{"map", KindMap},
		{"set", KindSet},
		{"struct", KindStruct},
		{"tuple", KindTuple},
		{"enum", KindEnum},
		{"option", KindOption},
		{"pointer", KindPointer},
		{"weak", KindWeak},
		{"raw_pointer", KindRawPointer},
		{"func", KindFunc},
		{"dynamic", KindDynamic},
		{"unsupported", KindUnsupported},
		{"unknown", Kind(255)},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			if got := tc.kind.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestScalarClasses(t *testing.T) {
	for _, s := range []ScalarType{ScalarInt8, ScalarUint16, ScalarInt32, ScalarUint32} {
		if !s.IsSmallInt() || s.IsWideInt() {
			t.Errorf("%s should be a small int", s)
		}
	}
	for _, s := range []ScalarType{ScalarInt64, ScalarUint64, ScalarInt, ScalarUint, ScalarUintptr, ScalarInt128, ScalarUint128, ScalarBigInt} {
		if s.IsSmallInt() || !s.IsWideInt() {
			t.Errorf("%s should be a wide int", s)
		}
	}
	for _, s := range []ScalarType{ScalarString, ScalarChar, ScalarIPAddr, ScalarAddrPort, ScalarNetIP, ScalarUUID} {
		if !s.IsTextual() {
			t.Errorf("%s should be textual", s)
		}
	}
	if ScalarFloat64.IsSmallInt() || ScalarFloat64.IsWideInt() || ScalarFloat64.IsTextual() {
		t.Error("float64 is none of the integer or textual classes")
	}
	if got := ScalarType(200).String(); got != "unknown" {
		t.Errorf("String() = %q, want unknown", got)
	}
}
