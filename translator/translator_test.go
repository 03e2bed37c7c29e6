package translator

import "testing"

func TestMappedName(t *testing.T) {
	p := &Program{Uniforms: map[string]string{
		"uTime": "_uuTime",
		"uRes":  "",
	}}
	tests := []struct {
		name, want string
	}{
		{"uTime", "_uuTime"},
		{"uRes", "uRes"},     // empty mapping keeps the source name
		{"uMouse", "uMouse"}, // unreported uniform
	}
	for _, tt := range tests {
		if got := p.MappedName(tt.name); got != tt.want {
			t.Errorf("MappedName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
