// Package translator wraps goshadertranslator to turn WebGL2 fragment sources
// into the dialect of the current GL context.
package translator

import (
	"context"
	"fmt"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
)

var (
	translator  *gst.ShaderTranslator
	translatorE error
	once        sync.Once
)

// GetTranslator returns the process-wide translator, creating it on first use.
func GetTranslator() (*gst.ShaderTranslator, error) {
	once.Do(func() {
		translator, translatorE = gst.NewShaderTranslator(context.Background())
	})
	return translator, translatorE
}

// Program is a translated fragment shader.
type Program struct {
	Code string
	// Uniforms maps each source uniform name to its name in Code.
	Uniforms map[string]string
}

// MappedName returns the translated name of a source uniform, falling back to the
// source name when the translator did not report it.
func (p *Program) MappedName(name string) string {
	if m, ok := p.Uniforms[name]; ok && m != "" {
		return m
	}
	return name
}

// Fragment translates a WebGL2 fragment shader. isGLES selects ESSL output,
// otherwise GLSL 4.10.
func Fragment(source string, isGLES bool) (*Program, error) {
	t, err := GetTranslator()
	if err != nil {
		return nil, fmt.Errorf("failed to create shader translator: %w", err)
	}

	outputFormat := gst.OutputFormatGLSL410
	if isGLES {
		outputFormat = gst.OutputFormatESSL
	}
	fs, err := t.TranslateShader(source, "fragment", gst.ShaderSpecWebGL2, outputFormat)
	if err != nil {
		return nil, fmt.Errorf("fragment shader translation failed: %w", err)
	}

	p := &Program{
		Code:     fs.Code,
		Uniforms: make(map[string]string, len(fs.Variables)),
	}
	for name, v := range fs.Variables {
		p.Uniforms[name] = v.MappedName
	}
	return p, nil
}
