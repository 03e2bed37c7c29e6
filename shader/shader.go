// Package shader holds the GLSL sources for the background program and the
// full-screen blit.
package shader

// ────────────────────────────────── Desktop GL ──────────────────────────────────

const vertexShaderSourceGL = `#version 410 core
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

const blitFragmentShaderSourceGL = `#version 410 core
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() { fragColor = texture(u_texture, frag_uv); }
`

// ──────────────────────────────────── GLES ──────────────────────────────────────

const vertexShaderSourceGLES = `#version 300 es
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

const blitFragmentShaderSourceGLES = `#version 300 es
precision mediump float;
in vec2 frag_uv;
out vec4 fragColor;
uniform sampler2D u_texture;
void main() { fragColor = texture(u_texture, frag_uv); }
`

// ─────────────────────────────── Background program ─────────────────────────────

// Uniform names declared by FragmentSource. The translator may rename them; look up
// the mapped name before querying locations.
const (
	UniformTime   = "uTime"
	UniformRes    = "uRes"
	UniformMouse  = "uMouse"
	UniformGrain  = "uGrain"
	UniformDither = "uDither"
)

// Uniforms lists every uniform the background program reads.
var Uniforms = []string{UniformTime, UniformRes, UniformMouse, UniformGrain, UniformDither}

// FragmentSource is the background compositor as a WebGL2 fragment shader. It is
// translated to the target dialect before compiling. uv comes from gl_FragCoord
// rather than a varying, since the translator renames user varyings.
//
// Keep the formulas in sync with package shade.
const FragmentSource = `#version 300 es
precision highp float;
precision highp int;

uniform float uTime;
uniform vec2  uRes;
uniform vec2  uMouse;
uniform float uGrain;
uniform float uDither;

out vec4 fragColor;

const int BAYER[16] = int[16](
    0,  8,  2,  10,
    12, 4,  14, 6,
    3,  11, 1,  9,
    15, 7,  13, 5
);

float hash(vec2 p) {
    p = fract(p * vec2(123.34, 456.21));
    p += dot(p, p + 34.345);
    return fract(p.x * p.y);
}

float noise(vec2 p) {
    vec2 i = floor(p);
    vec2 f = fract(p);
    float a = hash(i);
    float b = hash(i + vec2(1.0, 0.0));
    float c = hash(i + vec2(0.0, 1.0));
    float d = hash(i + vec2(1.0, 1.0));
    vec2 u = f * f * (3.0 - 2.0 * f);
    return mix(a, b, u.x) + (c - a) * u.y * (1.0 - u.x) + (d - b) * u.x * u.y;
}

float bayer4(vec2 p) {
    int x = int(mod(p.x, 4.0));
    int y = int(mod(p.y, 4.0));
    return float(BAYER[x + y * 4]) / 16.0;
}

vec3 palette(float t) {
    vec3 base = vec3(0.96, 0.97, 0.99);
    vec3 cool = vec3(0.90, 0.93, 0.97);
    vec3 blue = vec3(0.27, 0.55, 1.00);
    vec3 teal = vec3(0.08, 0.72, 0.65);

    vec3 mid = mix(base, cool, smoothstep(0.0, 1.0, t));
    vec3 acc = mix(blue, teal, smoothstep(0.2, 1.0, t));
    return mix(mid, acc, 0.10);
}

void main() {
    vec2 res = max(uRes, vec2(1.0));
    vec2 uv = gl_FragCoord.xy / res;
    vec2 px = gl_FragCoord.xy;

    float t = uTime * 0.08;

    // flow field
    vec2 p = uv;
    p.x += 0.06 * sin(uv.y * 6.0 + t * 2.5);
    p.y += 0.05 * cos(uv.x * 5.0 - t * 2.2);

    float n1 = noise(p * 2.1 + t);
    float n2 = noise(p * 5.1 - t * 1.2);
    float field = 0.62 * n1 + 0.38 * n2;

    float glow = exp(-distance(uv, uMouse) * 7.0) * 0.10;
    float v = smoothstep(1.2, 0.35, distance(uv, vec2(0.5)));

    vec3 col = palette(field);
    col += glow * vec3(0.20, 0.45, 1.00);
    col = mix(col, vec3(0.96, 0.97, 0.99), 0.20);
    col *= (0.88 + 0.12 * v);

    col += (hash(px + uTime) - 0.5) * 0.09 * uGrain;
    col += (bayer4(px) - 0.5) * 0.030 * uDither;

    col = pow(max(col, 0.0), vec3(0.98));
    fragColor = vec4(col, 1.0);
}
`

// ────────────────────────────────── Public API ─────────────────────────────────

func GenerateVertexShader(isGLES bool) string {
	if isGLES {
		return vertexShaderSourceGLES
	}
	return vertexShaderSourceGL
}

func GetBlitFragmentShader(isGLES bool) string {
	if isGLES {
		return blitFragmentShaderSourceGLES
	}
	return blitFragmentShaderSourceGL
}
