package utils

import "testing"

func TestStrToNumber(t *testing.T) {
	tests := []struct {
		input    string
		asInt    int
		asFloat  float64
		asUint32 uint32
	}{
		{"1", 1, 1, 1},
		{"35000", 35000, 35000, 35000},
		{"35000.5", -1, 35000.5, 0},
		{"-12", -12, -12, 0},
		{"4294967296", 4294967296, 4294967296, 0},
		{"FL350", -1, -1, 0},
		{"", -1, -1, 0},
	}
	pass := 0
	fail := 0
	for _, test := range tests {
		ok := true
		if result := StrToInt(test.input, -1); result != test.asInt {
			ok = false
			t.Errorf("StrToInt(%q) = %v; expected %v", test.input, result, test.asInt)
		}
		if result := StrToFloat(test.input, -1); result != test.asFloat {
			ok = false
			t.Errorf("StrToFloat(%q) = %v; expected %v", test.input, result, test.asFloat)
		}
		if result := StrToUint32(test.input, 0); result != test.asUint32 {
			ok = false
			t.Errorf("StrToUint32(%q) = %v; expected %v", test.input, result, test.asUint32)
		}
		if ok {
			pass++
		} else {
			fail++
		}
	}
	t.Logf("TestStrToNumber: %d pass, %d fail", pass, fail)
}

func TestBoolToToken(t *testing.T) {
	if BoolToToken(true) != "1" || BoolToToken(false) != "0" {
		t.Errorf("BoolToToken returned %q/%q; expected 1/0", BoolToToken(true), BoolToToken(false))
	}
}
