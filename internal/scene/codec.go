package scene

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"Scenery3D/internal/logger"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

var (
	// ErrSceneNotFound is returned by Load when the scene file does not exist.
	ErrSceneNotFound = errors.New("scene file not found")
	// ErrInvalidID is returned by Encode for a mesh or shader id that would
	// break the one value per line layout.
	ErrInvalidID = errors.New("id contains a line break")
)

// ParseError locates a malformed or truncated scene file.
type ParseError struct {
	Line  int
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("scene line %d (%s): %v", e.Line, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NodeState is the persisted part of a node.
type NodeState struct {
	Scale     mgl32.Mat4
	Rotate    mgl32.Mat4
	Translate mgl32.Mat4
	Color     mgl32.Vec3
	MeshID    string
	ShaderID  string
}

// SceneState is everything a scene file holds.
type SceneState struct {
	Eye    mgl32.Vec3
	Center mgl32.Vec3
	Up     mgl32.Vec3
	Fovy   float32
	Aspect float32
	Near   float32
	Far    float32
	Light  mgl32.Vec3
	Nodes  []NodeState
}

// Encode writes s in the line oriented scene format: a label line before
// every value, matrices as four lines of one column each.
func Encode(w io.Writer, s *SceneState) error {
	for i, n := range s.Nodes {
		if strings.ContainsAny(n.MeshID, "\r\n") {
			return fmt.Errorf("node %d meshID %q: %w", i+1, n.MeshID, ErrInvalidID)
		}
		if strings.ContainsAny(n.ShaderID, "\r\n") {
			return fmt.Errorf("node %d shaderID %q: %w", i+1, n.ShaderID, ErrInvalidID)
		}
	}

	bw := bufio.NewWriter(w)
	p := func(format string, args ...any) {
		fmt.Fprintf(bw, format, args...)
	}
	vec := func(label string, v mgl32.Vec3) {
		p("%s:\n%s %s %s\n", label, ftoa(v[0]), ftoa(v[1]), ftoa(v[2]))
	}
	scalar := func(label string, f float32) {
		p("%s:\n%s\n", label, ftoa(f))
	}
	mat := func(label string, m mgl32.Mat4) {
		p("%s:\n", label)
		for c := 0; c < 4; c++ {
			col := m.Col(c)
			p("%s %s %s %s\n", ftoa(col[0]), ftoa(col[1]), ftoa(col[2]), ftoa(col[3]))
		}
	}

	p("Scenegraph\n")
	vec("eye", s.Eye)
	vec("center", s.Center)
	vec("up", s.Up)
	scalar("fovy", s.Fovy)
	scalar("aspect", s.Aspect)
	scalar("near", s.Near)
	scalar("far", s.Far)
	vec("light", s.Light)

	for _, n := range s.Nodes {
		p("Node\n")
		mat("scale", n.Scale)
		mat("rotate", n.Rotate)
		mat("translate", n.Translate)
		vec("color", n.Color)
		p("meshID:\n%s\n", n.MeshID)
		p("shaderID:\n%s\n", n.ShaderID)
	}
	return bw.Flush()
}

func ftoa(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

type decoder struct {
	scanner *bufio.Scanner
	line    int
}

// next returns the next line, io.EOF at end of input.
func (d *decoder) next() (string, error) {
	if !d.scanner.Scan() {
		if err := d.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	d.line++
	return strings.TrimRight(d.scanner.Text(), "\r"), nil
}

// must returns the next line; end of input is a truncation error.
func (d *decoder) must(field string) (string, error) {
	line, err := d.next()
	if errors.Is(err, io.EOF) {
		return "", &ParseError{Line: d.line + 1, Field: field, Err: io.ErrUnexpectedEOF}
	}
	if err != nil {
		return "", &ParseError{Line: d.line, Field: field, Err: err}
	}
	return line, nil
}

func (d *decoder) floats(field string, n int) ([]float32, error) {
	line, err := d.must(field)
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(line)
	if len(fields) != n {
		return nil, &ParseError{Line: d.line, Field: field, Err: fmt.Errorf("expected %d values, got %d", n, len(fields))}
	}
	out := make([]float32, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, &ParseError{Line: d.line, Field: field, Err: err}
		}
		out[i] = float32(v)
	}
	return out, nil
}

func (d *decoder) labelled(field string, n int) ([]float32, error) {
	if _, err := d.must(field + " label"); err != nil {
		return nil, err
	}
	return d.floats(field, n)
}

func (d *decoder) vec3(field string) (mgl32.Vec3, error) {
	v, err := d.labelled(field, 3)
	if err != nil {
		return mgl32.Vec3{}, err
	}
	return mgl32.Vec3{v[0], v[1], v[2]}, nil
}

func (d *decoder) scalar(field string) (float32, error) {
	v, err := d.labelled(field, 1)
	if err != nil {
		return 0, err
	}
	return v[0], nil
}

func (d *decoder) mat4(field string) (mgl32.Mat4, error) {
	var m mgl32.Mat4
	if _, err := d.must(field + " label"); err != nil {
		return m, err
	}
	for c := 0; c < 4; c++ {
		col, err := d.floats(field, 4)
		if err != nil {
			return m, err
		}
		copy(m[c*4:c*4+4], col)
	}
	return m, nil
}

// text returns the value line verbatim so ids keep surrounding spaces.
func (d *decoder) text(field string) (string, error) {
	if _, err := d.must(field + " label"); err != nil {
		return "", err
	}
	return d.must(field)
}

// Decode reads a scene. Label contents are not checked, only their
// positions. Any truncated or malformed record fails the whole decode.
func Decode(r io.Reader) (*SceneState, error) {
	d := &decoder{scanner: bufio.NewScanner(r)}
	s := &SceneState{}
	var err error

	if _, err = d.must("header"); err != nil {
		return nil, err
	}
	if s.Eye, err = d.vec3("eye"); err != nil {
		return nil, err
	}
	if s.Center, err = d.vec3("center"); err != nil {
		return nil, err
	}
	if s.Up, err = d.vec3("up"); err != nil {
		return nil, err
	}
	if s.Fovy, err = d.scalar("fovy"); err != nil {
		return nil, err
	}
	if s.Aspect, err = d.scalar("aspect"); err != nil {
		return nil, err
	}
	if s.Near, err = d.scalar("near"); err != nil {
		return nil, err
	}
	if s.Far, err = d.scalar("far"); err != nil {
		return nil, err
	}
	if s.Light, err = d.vec3("light"); err != nil {
		return nil, err
	}

	for {
		header, err := d.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Line: d.line, Field: "node", Err: err}
		}
		if strings.TrimSpace(header) == "" {
			continue
		}

		var n NodeState
		if n.Scale, err = d.mat4("scale"); err != nil {
			return nil, err
		}
		if n.Rotate, err = d.mat4("rotate"); err != nil {
			return nil, err
		}
		if n.Translate, err = d.mat4("translate"); err != nil {
			return nil, err
		}
		if n.Color, err = d.vec3("color"); err != nil {
			return nil, err
		}
		if n.MeshID, err = d.text("meshID"); err != nil {
			return nil, err
		}
		if n.ShaderID, err = d.text("shaderID"); err != nil {
			return nil, err
		}
		s.Nodes = append(s.Nodes, n)
	}
	return s, nil
}

// State snapshots the graph for persistence.
func (g *Graph) State() *SceneState {
	s := &SceneState{
		Eye:    g.eye,
		Center: g.center,
		Up:     g.up,
		Fovy:   g.fovy,
		Aspect: g.aspect,
		Near:   g.near,
		Far:    g.far,
		Light:  g.light,
		Nodes:  make([]NodeState, 0, len(g.nodes)),
	}
	for _, n := range g.nodes {
		s.Nodes = append(s.Nodes, NodeState{
			Scale:     n.scale,
			Rotate:    n.rotate,
			Translate: n.translate,
			Color:     n.color,
			MeshID:    n.meshID,
			ShaderID:  n.shaderID,
		})
	}
	return s
}

// Apply replaces the graph's view, projection, light and nodes with s.
// Nodes are added through AddNode so indices are assigned afresh. The
// selection is cleared. With a known surface size the camera keeps the
// window's aspect while the stored one is the saved value.
func (g *Graph) Apply(s *SceneState) {
	g.SetCameraView(s.Eye, s.Center, s.Up)
	g.SetCameraPerspective(s.Fovy, s.Aspect, s.Near, s.Far)
	if g.width > 0 && g.height > 0 {
		g.camera.SetAspect(float32(g.width) / float32(g.height))
	}
	g.SetLight(s.Light)

	g.Reset()
	for _, ns := range s.Nodes {
		n := NewNode().
			SetTransform(ns.Scale, ns.Rotate, ns.Translate).
			SetColor(ns.Color).
			SetMesh(ns.MeshID).
			SetShader(ns.ShaderID)
		g.AddNode(n)
	}
}

// Save writes the scene to its path, replacing any previous file.
func (g *Graph) Save() error {
	if err := writeFileAtomic(g.path, func(w io.Writer) error {
		return Encode(w, g.State())
	}); err != nil {
		return fmt.Errorf("save scene %s: %w", g.name, err)
	}
	logger.Log.Info("Scene saved", zap.String("path", g.path), zap.Int("nodes", len(g.nodes)))
	return nil
}

// Load restores the scene from its path. A missing or malformed file leaves
// the graph untouched.
func (g *Graph) Load() error {
	f, err := os.Open(g.path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Log.Warn("Scene file not found", zap.String("path", g.path))
		return fmt.Errorf("load scene %s: %w", g.path, ErrSceneNotFound)
	}
	if err != nil {
		return fmt.Errorf("load scene %s: %w", g.path, err)
	}
	defer f.Close()

	s, err := Decode(f)
	if err != nil {
		logger.Log.Error("Scene file is malformed", zap.String("path", g.path), zap.Error(err))
		return fmt.Errorf("load scene %s: %w", g.path, err)
	}

	g.Apply(s)
	logger.Log.Info("Scene loaded", zap.String("path", g.path), zap.Int("nodes", len(g.nodes)))
	return nil
}

// writeFileAtomic writes through a temporary file in the target directory
// and renames it over path, so a failed write keeps the old file.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return err
	}
	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
