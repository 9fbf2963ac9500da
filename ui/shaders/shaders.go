// Package shaders holds the embedded OpenGL shaders used to draw frames.
// Every fragment shader samples the frame from the "frame" texture, at the
// coordinates output by the quad vertex shader.
package shaders

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"

	"koala64/emu/log"
)

//go:embed *.vert *.frag
var files embed.FS

// DefaultName is the fragment shader drawing the frame as is.
const DefaultName = "plain"

// VertexName is the vertex shader shared by all fragment shaders.
const VertexName = "quad"

// A Stage is a step of the OpenGL pipeline a shader is compiled for.
type Stage struct {
	ext    string
	glType uint32
}

var (
	Vertex   = Stage{".vert", gl.VERTEX_SHADER}
	Fragment = Stage{".frag", gl.FRAGMENT_SHADER}
)

// Names returns the sorted names (without extension) of the embedded
// fragment shaders.
func Names() []string {
	matches, err := fs.Glob(files, "*"+Fragment.ext)
	if err != nil {
		panic(err)
	}
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = strings.TrimSuffix(m, path.Ext(m))
	}
	slices.Sort(names)
	return names
}

// Source returns the GLSL source of a shader.
func Source(name string, st Stage) (string, error) {
	buf, err := files.ReadFile(name + st.ext)
	if err != nil {
		return "", fmt.Errorf("shader %s: %w", name, err)
	}
	return string(buf), nil
}

// Compile compiles the named shader. Like every function of this package
// calling OpenGL, it must run on the thread owning the context.
func Compile(name string, st Stage) (uint32, error) {
	src, err := Source(name, st)
	if err != nil {
		return 0, err
	}
	csrc, free := gl.Strs(src + "\x00")
	defer free()

	sh := gl.CreateShader(st.glType)
	gl.ShaderSource(sh, 1, csrc, nil)
	gl.CompileShader(sh)

	var ok int32
	if gl.GetShaderiv(sh, gl.COMPILE_STATUS, &ok); ok == gl.FALSE {
		msg := infoLog(sh, gl.GetShaderiv, gl.GetShaderInfoLog)
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("shader %s%s: %s", name, st.ext, msg)
	}
	return sh, nil
}

// Program builds the program drawing frames with the named fragment shader.
// The frame sampler is bound to texture unit 0.
func Program(name string) (uint32, error) {
	vert, err := Compile(VertexName, Vertex)
	if err != nil {
		return 0, err
	}
	frag, err := Compile(name, Fragment)
	if err != nil {
		gl.DeleteShader(vert)
		return 0, err
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)
	gl.DeleteShader(vert)
	gl.DeleteShader(frag)

	var ok int32
	if gl.GetProgramiv(prog, gl.LINK_STATUS, &ok); ok == gl.FALSE {
		msg := infoLog(prog, gl.GetProgramiv, gl.GetProgramInfoLog)
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("shader %s: link: %s", name, msg)
	}

	gl.UseProgram(prog)
	gl.Uniform1i(gl.GetUniformLocation(prog, gl.Str("frame\x00")), 0)
	log.ModUI.DebugZ("shader program ready").String("shader", name).End()
	return prog, nil
}

// infoLog returns the compilation or link log of a shader or a program.
func infoLog(obj uint32,
	getiv func(uint32, uint32, *int32),
	getlog func(uint32, int32, *int32, *uint8),
) string {
	var n int32
	getiv(obj, gl.INFO_LOG_LENGTH, &n)
	if n == 0 {
		return "unknown error"
	}
	buf := make([]byte, n)
	getlog(obj, n, nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00\n")
}
