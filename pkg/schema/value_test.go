package schema

import "testing"

func TestValueEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b *Value
		want bool
	}{
		{"both nil", nil, nil, true},
		{"nil vs value", nil, IntVal(1), false},
		{"same int", IntVal(3), IntVal(3), true},
		{"different int", IntVal(3), IntVal(4), false},
		{"same text", TextVal("x"), TextVal("x"), true},
		{"same float", FloatVal(1.5), FloatVal(1.5), true},
		{"kind mismatch", IntVal(1), FloatVal(1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValueClone(t *testing.T) {
	v := TextVal("orig")
	c := v.Clone()
	c.Text = "changed"
	if v.Text != "orig" {
		t.Error("Clone() shares storage with the original")
	}
	if (*Value)(nil).Clone() != nil {
		t.Error("Clone() of nil is not nil")
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		v    *Value
		want string
	}{
		{nil, "null"},
		{IntVal(42), "42"},
		{FloatVal(2.5), "2.5"},
		{TextVal("hi"), "hi"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
