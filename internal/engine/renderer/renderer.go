// Package renderer draws the loaded model plus the selection, lasso, and
// skeleton overlays.
package renderer

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/thenamesdyl/animation-poc/internal/engine/shader"
	"github.com/thenamesdyl/animation-poc/internal/logger"
	"github.com/thenamesdyl/animation-poc/internal/mesh"
	"github.com/thenamesdyl/animation-poc/pkg/math"
)

const meshVertexSrc = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;

uniform mat4 uMVP;
uniform mat4 uModel;

out vec3 vNormal;

void main() {
	gl_Position = uMVP * vec4(aPos, 1.0);
	vNormal = mat3(uModel) * aNormal;
}
`

const meshFragmentSrc = `
#version 410 core

in vec3 vNormal;

uniform vec3 uColor;
uniform vec3 uLightDir;

out vec4 FragColor;

void main() {
	vec3 n = normalize(vNormal);
	float diffuse = max(dot(n, normalize(uLightDir)), 0.0);
	vec3 color = uColor * (0.35 + 0.65 * diffuse);
	FragColor = vec4(color, 1.0);
}
`

const flatVertexSrc = `
#version 410 core

layout (location = 0) in vec3 aPos;

uniform mat4 uMVP;
uniform float uPointSize;

void main() {
	gl_Position = uMVP * vec4(aPos, 1.0);
	gl_PointSize = uPointSize;
}
`

const flatFragmentSrc = `
#version 410 core

uniform vec3 uColor;

out vec4 FragColor;

void main() {
	FragColor = vec4(uColor, 1.0);
}
`

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config

	// Lit mesh program
	meshProgram  uint32
	meshMVPLoc   int32
	meshModelLoc int32
	meshColorLoc int32
	meshLightLoc int32

	// Flat-color program for overlays (points and lines)
	flatProgram  uint32
	flatMVPLoc   int32
	flatColorLoc int32
	flatSizeLoc  int32

	// Uploaded model geometry
	meshVAO        uint32
	meshVBO        uint32
	meshEBO        uint32
	meshIndexCount int32

	// Dynamic buffer shared by all overlays
	overlayVAO uint32
	overlayVBO uint32
	overlayCap int
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
	}

	// Initialize OpenGL
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)

	var err error
	r.meshProgram, err = shader.CompileProgram(meshVertexSrc, meshFragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("mesh program: %w", err)
	}
	r.meshMVPLoc = shader.GetUniform(r.meshProgram, "uMVP")
	r.meshModelLoc = shader.GetUniform(r.meshProgram, "uModel")
	r.meshColorLoc = shader.GetUniform(r.meshProgram, "uColor")
	r.meshLightLoc = shader.GetUniform(r.meshProgram, "uLightDir")

	r.flatProgram, err = shader.CompileProgram(flatVertexSrc, flatFragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("flat program: %w", err)
	}
	r.flatMVPLoc = shader.GetUniform(r.flatProgram, "uMVP")
	r.flatColorLoc = shader.GetUniform(r.flatProgram, "uColor")
	r.flatSizeLoc = shader.GetUniform(r.flatProgram, "uPointSize")

	gl.GenVertexArrays(1, &r.overlayVAO)
	gl.GenBuffers(1, &r.overlayVBO)
	gl.BindVertexArray(r.overlayVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.overlayVBO)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	r.deleteMeshBuffers()
	if r.overlayVAO != 0 {
		gl.DeleteVertexArrays(1, &r.overlayVAO)
	}
	if r.overlayVBO != 0 {
		gl.DeleteBuffers(1, &r.overlayVBO)
	}
	if r.meshProgram != 0 {
		gl.DeleteProgram(r.meshProgram)
	}
	if r.flatProgram != 0 {
		gl.DeleteProgram(r.flatProgram)
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// End finishes the current frame.
func (r *Renderer) End() {
	// Nothing to do - batched draws would be flushed here
}

// UploadMesh uploads the model geometry to the GPU, replacing any
// previously uploaded mesh.
func (r *Renderer) UploadMesh(m *mesh.Mesh) error {
	if m.VertexCount() == 0 || len(m.Indices) == 0 {
		return fmt.Errorf("mesh %q has no geometry", m.Name)
	}

	r.deleteMeshBuffers()

	// Interleave position + normal
	data := make([]float32, 0, m.VertexCount()*6)
	for _, v := range m.Vertices {
		data = append(data, v.Position[0], v.Position[1], v.Position[2])
		data = append(data, v.Normal[0], v.Normal[1], v.Normal[2])
	}

	gl.GenVertexArrays(1, &r.meshVAO)
	gl.BindVertexArray(r.meshVAO)

	gl.GenBuffers(1, &r.meshVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.meshVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, unsafe.Pointer(&data[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &r.meshEBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.meshEBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)

	// Position attribute (location = 0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 6*4, nil)
	gl.EnableVertexAttribArray(0)

	// Normal attribute (location = 1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, 6*4, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	r.meshIndexCount = int32(len(m.Indices))

	logger.Debug("mesh uploaded",
		zap.String("name", m.Name),
		zap.Int("vertices", m.VertexCount()),
		zap.Int("indices", len(m.Indices)),
	)
	return nil
}

// DrawMesh draws the uploaded mesh with the given matrices.
func (r *Renderer) DrawMesh(viewProj, model math.Mat4) {
	if r.meshVAO == 0 {
		return
	}

	mvp := viewProj.Mul(model)

	gl.UseProgram(r.meshProgram)
	gl.UniformMatrix4fv(r.meshMVPLoc, 1, false, mvp.Ptr())
	gl.UniformMatrix4fv(r.meshModelLoc, 1, false, model.Ptr())
	gl.Uniform3f(r.meshColorLoc, 0.72, 0.72, 0.78)
	gl.Uniform3f(r.meshLightLoc, 0.4, 0.8, 0.6)

	gl.BindVertexArray(r.meshVAO)
	gl.DrawElements(gl.TRIANGLES, r.meshIndexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// DrawPoints draws world-space points as fixed-size markers.
func (r *Renderer) DrawPoints(viewProj math.Mat4, points []math.Vec3, color [3]float32, size float32) {
	if len(points) == 0 {
		return
	}

	data := make([]float32, 0, len(points)*3)
	for _, p := range points {
		data = append(data, p.X, p.Y, p.Z)
	}
	r.uploadOverlay(data)

	gl.UseProgram(r.flatProgram)
	gl.UniformMatrix4fv(r.flatMVPLoc, 1, false, viewProj.Ptr())
	gl.Uniform3f(r.flatColorLoc, color[0], color[1], color[2])
	gl.Uniform1f(r.flatSizeLoc, size)

	// Markers must stay visible on the model surface
	gl.Disable(gl.DEPTH_TEST)
	gl.BindVertexArray(r.overlayVAO)
	gl.DrawArrays(gl.POINTS, 0, int32(len(points)))
	gl.BindVertexArray(0)
	gl.Enable(gl.DEPTH_TEST)
}

// DrawLines draws world-space line segments. Points are consumed in pairs.
func (r *Renderer) DrawLines(viewProj math.Mat4, points []math.Vec3, color [3]float32) {
	if len(points) < 2 {
		return
	}

	data := make([]float32, 0, len(points)*3)
	for _, p := range points {
		data = append(data, p.X, p.Y, p.Z)
	}
	r.uploadOverlay(data)

	gl.UseProgram(r.flatProgram)
	gl.UniformMatrix4fv(r.flatMVPLoc, 1, false, viewProj.Ptr())
	gl.Uniform3f(r.flatColorLoc, color[0], color[1], color[2])
	gl.Uniform1f(r.flatSizeLoc, 1)

	gl.Disable(gl.DEPTH_TEST)
	gl.BindVertexArray(r.overlayVAO)
	gl.DrawArrays(gl.LINES, 0, int32(len(points)))
	gl.BindVertexArray(0)
	gl.Enable(gl.DEPTH_TEST)
}

// DrawLassoPath draws an in-progress lasso path in screen space.
func (r *Renderer) DrawLassoPath(path []math.Vec2, color [3]float32) {
	if len(path) < 2 {
		return
	}

	// Screen-space ortho with Y down to match pointer coordinates
	ortho := math.Ortho(0, float32(r.config.Width), float32(r.config.Height), 0, -1, 1)

	data := make([]float32, 0, len(path)*3)
	for _, p := range path {
		data = append(data, p.X, p.Y, 0)
	}
	r.uploadOverlay(data)

	gl.UseProgram(r.flatProgram)
	gl.UniformMatrix4fv(r.flatMVPLoc, 1, false, ortho.Ptr())
	gl.Uniform3f(r.flatColorLoc, color[0], color[1], color[2])
	gl.Uniform1f(r.flatSizeLoc, 1)

	gl.Disable(gl.DEPTH_TEST)
	gl.BindVertexArray(r.overlayVAO)
	gl.DrawArrays(gl.LINE_STRIP, 0, int32(len(path)))
	gl.BindVertexArray(0)
	gl.Enable(gl.DEPTH_TEST)
}

// ReadPixels reads the current framebuffer as RGBA bytes, bottom row first.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, w, h
}

// uploadOverlay streams vertex data into the shared overlay buffer,
// growing it when the data outgrows the current allocation.
func (r *Renderer) uploadOverlay(data []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, r.overlayVBO)
	if len(data) > r.overlayCap {
		r.overlayCap = len(data) * 2
		gl.BufferData(gl.ARRAY_BUFFER, r.overlayCap*4, nil, gl.DYNAMIC_DRAW)
	}
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(data)*4, unsafe.Pointer(&data[0]))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (r *Renderer) deleteMeshBuffers() {
	if r.meshVAO != 0 {
		gl.DeleteVertexArrays(1, &r.meshVAO)
		r.meshVAO = 0
	}
	if r.meshVBO != 0 {
		gl.DeleteBuffers(1, &r.meshVBO)
		r.meshVBO = 0
	}
	if r.meshEBO != 0 {
		gl.DeleteBuffers(1, &r.meshEBO)
		r.meshEBO = 0
	}
	r.meshIndexCount = 0
}
