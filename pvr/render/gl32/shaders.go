// This file is part of GopherPVR.
//
// GopherPVR is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GopherPVR is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GopherPVR.  If not, see <https://www.gnu.org/licenses/>.

package gl32

import (
	"strings"

	"github.com/go-gl/gl/v3.2-core/gl"

	"github.com/gopherpvr/gopherpvr/curated"
)

const vertexShader = `
#version 150

uniform vec3 Screen;

in vec3 Position;
in vec4 Color;
in vec4 Offset;
in vec2 UV;

out vec4 vtxColor;
flat out vec4 vtxFlatColor;
out vec4 vtxOffset;
flat out vec4 vtxFlatOffset;
out vec2 vtxUV;

void main() {
	vtxColor = Color;
	vtxFlatColor = Color;
	vtxOffset = Offset;
	vtxFlatOffset = Offset;
	vtxUV = UV;

	// the z value of a vertex is 1/w. larger values are nearer the viewer
	float z = Position.z;
	float w = z > 0.0 ? 1.0 / z : 1.0;

	vec2 ndc = Position.xy / Screen.xy * 2.0 - 1.0;
	float depth = clamp(1.0 - z / Screen.z, 0.0, 1.0) * 2.0 - 1.0;

	gl_Position = vec4(ndc * w, depth * w, w);
}
`

const fragmentShader = `
#version 150

uniform sampler2D Texture;
uniform int Textured;
uniform int Shading;
uniform int Gouraud;
uniform int UseAlpha;
uniform int IgnoreTexA;
uniform int UseOffset;
uniform int PunchThrough;
uniform float PunchThroughRef;

in vec4 vtxColor;
flat in vec4 vtxFlatColor;
in vec4 vtxOffset;
flat in vec4 vtxFlatOffset;
in vec2 vtxUV;

out vec4 Out;

void main() {
	vec4 col = Gouraud != 0 ? vtxColor : vtxFlatColor;
	vec4 spc = Gouraud != 0 ? vtxOffset : vtxFlatOffset;

	if (Textured != 0) {
		vec4 tex = texture(Texture, vtxUV);
		if (IgnoreTexA != 0) {
			tex.a = 1.0;
		}

		if (Shading == 0) {
			col = tex;
		} else if (Shading == 1) {
			col = vec4(tex.rgb * col.rgb, tex.a);
		} else if (Shading == 2) {
			col = vec4(mix(col.rgb, tex.rgb, tex.a), col.a);
		} else {
			col = tex * col;
		}

		if (UseOffset != 0) {
			col.rgb += spc.rgb;
		}
	}

	if (UseAlpha == 0) {
		col.a = 1.0;
	}

	if (PunchThrough != 0 && col.a < PunchThroughRef) {
		discard;
	}

	Out = clamp(col, 0.0, 1.0);
}
`

type shader struct {
	handle uint32

	// vertex
	screen   int32 // uniform
	position int32
	color    int32
	offset   int32
	uv       int32

	// fragment uniforms
	texture         int32
	textured        int32
	shading         int32
	gouraud         int32
	useAlpha        int32
	ignoreTexA      int32
	useOffset       int32
	punchThrough    int32
	punchThroughRef int32
}

func (sh *shader) destroy() {
	if sh.handle != 0 {
		gl.DeleteProgram(sh.handle)
		sh.handle = 0
	}
}

// compile and link shader programs.
func (sh *shader) createProgram(vertProgram string, fragProgram string) error {
	sh.destroy()

	sh.handle = gl.CreateProgram()

	vertHandle := gl.CreateShader(gl.VERTEX_SHADER)
	fragHandle := gl.CreateShader(gl.FRAGMENT_SHADER)

	glShaderSource := func(handle uint32, source string) {
		csource, free := gl.Strs(source + "\x00")
		defer free()

		gl.ShaderSource(handle, 1, csource, nil)
	}

	glShaderSource(vertHandle, vertProgram)
	glShaderSource(fragHandle, fragProgram)

	gl.CompileShader(vertHandle)
	if log := getShaderCompileError(vertHandle); log != "" {
		return curated.Errorf("gl32: vertex shader: %v", log)
	}

	gl.CompileShader(fragHandle)
	if log := getShaderCompileError(fragHandle); log != "" {
		return curated.Errorf("gl32: fragment shader: %v", log)
	}

	gl.AttachShader(sh.handle, vertHandle)
	gl.AttachShader(sh.handle, fragHandle)
	gl.BindFragDataLocation(sh.handle, 0, gl.Str("Out\x00"))
	gl.LinkProgram(sh.handle)

	// now that the shader program has linked we no longer need the individual
	// shader programs
	gl.DeleteShader(fragHandle)
	gl.DeleteShader(vertHandle)

	// get references to shader attributes and uniforms variables
	sh.screen = gl.GetUniformLocation(sh.handle, gl.Str("Screen"+"\x00"))
	sh.position = gl.GetAttribLocation(sh.handle, gl.Str("Position"+"\x00"))
	sh.color = gl.GetAttribLocation(sh.handle, gl.Str("Color"+"\x00"))
	sh.offset = gl.GetAttribLocation(sh.handle, gl.Str("Offset"+"\x00"))
	sh.uv = gl.GetAttribLocation(sh.handle, gl.Str("UV"+"\x00"))
	sh.texture = gl.GetUniformLocation(sh.handle, gl.Str("Texture"+"\x00"))
	sh.textured = gl.GetUniformLocation(sh.handle, gl.Str("Textured"+"\x00"))
	sh.shading = gl.GetUniformLocation(sh.handle, gl.Str("Shading"+"\x00"))
	sh.gouraud = gl.GetUniformLocation(sh.handle, gl.Str("Gouraud"+"\x00"))
	sh.useAlpha = gl.GetUniformLocation(sh.handle, gl.Str("UseAlpha"+"\x00"))
	sh.ignoreTexA = gl.GetUniformLocation(sh.handle, gl.Str("IgnoreTexA"+"\x00"))
	sh.useOffset = gl.GetUniformLocation(sh.handle, gl.Str("UseOffset"+"\x00"))
	sh.punchThrough = gl.GetUniformLocation(sh.handle, gl.Str("PunchThrough"+"\x00"))
	sh.punchThroughRef = gl.GetUniformLocation(sh.handle, gl.Str("PunchThroughRef"+"\x00"))

	return nil
}

// getShaderCompileError returns the most recent error generated
// by the shader compiler.
func getShaderCompileError(shader uint32) string {
	var isCompiled int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &isCompiled)
	if isCompiled == 0 {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		if logLength > 0 {
			// The maxLength includes the NULL character
			log := strings.Repeat("\x00", int(logLength+1))
			gl.GetShaderInfoLog(shader, logLength, &logLength, gl.Str(log))
			return log
		}
		return "unknown error"
	}
	return ""
}

func boolToInt32(v bool) int32 {
	if v {
		return 1
	}
	return 0
}
