package renderer

import (
	"fmt"
	"os"
	"strings"

	"Scenery3D/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
)

// =============================================================
//
//	Shaders
//
// =============================================================
type Program struct {
	Name           string
	vertexSource   string
	fragmentSource string
	program        uint32
	uniforms       *UniformCache
}

// NewProgram returns an uncompiled program. Empty sources fall back to the
// built-in lit color shader.
func NewProgram(name, vertexSource, fragmentSource string) *Program {
	if vertexSource == "" {
		vertexSource = vertexShaderSource
	}
	if fragmentSource == "" {
		fragmentSource = fragmentShaderSource
	}
	return &Program{
		Name:           name,
		vertexSource:   terminate(vertexSource),
		fragmentSource: terminate(fragmentSource),
	}
}

// LoadProgram reads shader sources from disk. Empty paths use the built-in sources.
func LoadProgram(name, vertexPath, fragmentPath string) (*Program, error) {
	read := func(path string) (string, error) {
		if path == "" {
			return "", nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read shader %s: %w", path, err)
		}
		return string(data), nil
	}

	vs, err := read(vertexPath)
	if err != nil {
		return nil, err
	}
	fs, err := read(fragmentPath)
	if err != nil {
		return nil, err
	}
	return NewProgram(name, vs, fs), nil
}

func terminate(source string) string {
	if strings.HasSuffix(source, "\x00") {
		return source
	}
	return source + "\x00"
}

// Compile builds the GL program. Requires a current context.
func (p *Program) Compile() error {
	vs, err := GenShader(p.vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return fmt.Errorf("shader %q: %w", p.Name, err)
	}
	fs, err := GenShader(p.fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return fmt.Errorf("shader %q: %w", p.Name, err)
	}
	program, err := GenShaderProgram(vs, fs)
	if err != nil {
		return fmt.Errorf("shader %q: %w", p.Name, err)
	}
	p.program = program
	p.uniforms = NewUniformCache(program)
	logger.Log.Info("Shader program linked", zap.String("name", p.Name), zap.Uint32("program", program))
	return nil
}

func (p *Program) Use() {
	gl.UseProgram(p.program)
}

func (p *Program) Delete() {
	if p.program != 0 {
		gl.DeleteProgram(p.program)
		p.program = 0
	}
}

func GenShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	cSources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, cSources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))

		logger.Log.Error("Failed to compile", zap.Uint32("shaderType", shaderType), zap.String("log", log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %s", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func GenShaderProgram(vertexShader, fragmentShader uint32) (uint32, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	gl.DetachShader(program, vertexShader)
	gl.DeleteShader(vertexShader)
	gl.DetachShader(program, fragmentShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))

		logger.Log.Error("Failed to link program", zap.String("log", log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link failed: %s", strings.TrimRight(log, "\x00"))
	}
	return program, nil
}

var vertexShaderSource = `#version 410 core

layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec2 inTexCoord;
layout(location = 2) in vec3 inNormal;

uniform mat4 ModelMatrix;
uniform mat4 ViewMatrix;
uniform mat4 ProjectionMatrix;

out vec3 exPosition;
out vec3 exNormal;
out vec2 exTexCoord;

void main() {
    vec4 world = ModelMatrix * vec4(inPosition, 1.0);
    exPosition = world.xyz;
    exNormal = mat3(transpose(inverse(ModelMatrix))) * inNormal;
    exTexCoord = inTexCoord;
    gl_Position = ProjectionMatrix * ViewMatrix * world;
}
`

var fragmentShaderSource = `#version 410 core

in vec3 exPosition;
in vec3 exNormal;
in vec2 exTexCoord;

uniform vec3 Color;
uniform vec3 LightPosition;

out vec4 FragColor;

void main() {
    vec3 N = normalize(exNormal);
    vec3 L = normalize(LightPosition - exPosition);
    float diffuse = max(dot(N, L), 0.0);
    vec3 result = (0.2 + 0.8 * diffuse) * Color;
    FragColor = vec4(result, 1.0);
}
`
