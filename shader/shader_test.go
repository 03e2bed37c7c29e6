package shader

import (
	"strings"
	"testing"
)

func TestFragmentSourceDeclaresUniforms(t *testing.T) {
	decls := map[string]string{
		UniformTime:   "uniform float uTime;",
		UniformRes:    "uniform vec2  uRes;",
		UniformMouse:  "uniform vec2  uMouse;",
		UniformGrain:  "uniform float uGrain;",
		UniformDither: "uniform float uDither;",
	}
	if len(decls) != len(Uniforms) {
		t.Fatalf("Uniforms has %d names, want %d", len(Uniforms), len(decls))
	}
	for _, name := range Uniforms {
		decl, ok := decls[name]
		if !ok {
			t.Errorf("unexpected uniform %q", name)
			continue
		}
		if !strings.Contains(FragmentSource, decl) {
			t.Errorf("FragmentSource missing %q", decl)
		}
	}
}

func TestFragmentSourceLiterals(t *testing.T) {
	for _, lit := range []string{
		"vec2(123.34, 456.21)",
		"34.345",
		"uTime * 0.08",
		"0.06 * sin(uv.y * 6.0 + t * 2.5)",
		"0.05 * cos(uv.x * 5.0 - t * 2.2)",
		"noise(p * 2.1 + t)",
		"noise(p * 5.1 - t * 1.2)",
		"0.62 * n1 + 0.38 * n2",
		"exp(-distance(uv, uMouse) * 7.0) * 0.10",
		"smoothstep(1.2, 0.35, distance(uv, vec2(0.5)))",
		"vec3(0.20, 0.45, 1.00)",
		"mix(col, vec3(0.96, 0.97, 0.99), 0.20)",
		"(0.88 + 0.12 * v)",
		"0.09 * uGrain",
		"0.030 * uDither",
		"vec3(0.98)",
		"fragColor = vec4(col, 1.0)",
	} {
		if !strings.Contains(FragmentSource, lit) {
			t.Errorf("FragmentSource missing %q", lit)
		}
	}
}

func TestFragmentSourceBlendsBeforeVignette(t *testing.T) {
	blend := strings.Index(FragmentSource, "col = mix(col, vec3(0.96")
	vignette := strings.Index(FragmentSource, "col *= (0.88")
	if blend < 0 || vignette < 0 || blend > vignette {
		t.Errorf("blend at %d should precede vignette at %d", blend, vignette)
	}
}

func TestDialectSelection(t *testing.T) {
	if !strings.HasPrefix(GenerateVertexShader(false), "#version 410 core") {
		t.Error("desktop vertex shader should target GLSL 4.10")
	}
	if !strings.HasPrefix(GenerateVertexShader(true), "#version 300 es") {
		t.Error("GLES vertex shader should target ESSL 3.00")
	}
	if !strings.Contains(GetBlitFragmentShader(true), "precision mediump float;") {
		t.Error("GLES blit shader needs a default precision")
	}
	if strings.Contains(GetBlitFragmentShader(false), "precision") {
		t.Error("desktop blit shader should not declare precision")
	}
}
