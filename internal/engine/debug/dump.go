package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/skelanim/internal/engine/animation"
	"github.com/Faultbox/skelanim/pkg/pose"
)

// SampleRecord is one weighted sample in a dump.
type SampleRecord struct {
	Clip   string  `yaml:"clip"`
	Weight float32 `yaml:"weight"`
	Time   float32 `yaml:"time"`
}

// FrameRecord is the animation state of one character at one frame.
type FrameRecord struct {
	Frame     int            `yaml:"frame"`
	Character string         `yaml:"character"`
	State     string         `yaml:"state,omitempty"`
	Progress  float32        `yaml:"progress"`
	Samples   []SampleRecord `yaml:"samples"`
	Joints    [][3]float32   `yaml:"joints,flow,omitempty"`
	Bones     []float32      `yaml:"bones,flow,omitempty"`  // parent/child line vertices
	Bounds    []float32      `yaml:"bounds,flow,omitempty"` // min xyz, max xyz
	Box       []float32      `yaml:"box,flow,omitempty"`    // padded bounds wireframe
}

// BoxPadding grows the dumped bounds wireframe on every side.
const BoxPadding = 0.05

// NewFrameRecord captures samples and joint positions. skel may be nil, in
// which case no bone lines are recorded.
func NewFrameRecord(frame int, character string, skel *pose.Skeleton, state animation.State, progress float32,
	samples []animation.WeightedSample, world []mgl32.Mat4) FrameRecord {
	r := FrameRecord{
		Frame:     frame,
		Character: character,
		State:     string(state),
		Progress:  progress,
		Samples:   make([]SampleRecord, 0, len(samples)),
	}
	for _, s := range samples {
		r.Samples = append(r.Samples, SampleRecord{Clip: s.Clip.Name(), Weight: s.Weight, Time: s.Time})
	}
	for _, m := range world {
		p := pose.JointPosition(m)
		r.Joints = append(r.Joints, [3]float32{p.X(), p.Y(), p.Z()})
	}
	if skel != nil {
		r.Bones = SkeletonLineVertices(skel, world)
	}
	if bbox, ok := JointBounds(world); ok {
		r.Bounds = bbox[:]
		r.Box = BoxWireframe(bbox, BoxPadding)
	}
	return r
}

// FrameDumper collects frame records and writes them as one YAML file.
type FrameDumper struct {
	outputDir string
	prefix    string
	frames    []FrameRecord
}

// NewFrameDumper creates a new dumper.
func NewFrameDumper(outputDir, prefix string) *FrameDumper {
	return &FrameDumper{
		outputDir: outputDir,
		prefix:    prefix,
	}
}

// Record appends a frame.
func (d *FrameDumper) Record(r FrameRecord) {
	d.frames = append(d.frames, r)
}

// Len returns the number of recorded frames.
func (d *FrameDumper) Len() int {
	return len(d.frames)
}

// Frames returns the recorded frames.
func (d *FrameDumper) Frames() []FrameRecord {
	return d.frames
}

// Flush writes the recorded frames and clears them. Returns the file path.
func (d *FrameDumper) Flush() (string, error) {
	// Create output directory if needed
	if d.outputDir != "" {
		if err := os.MkdirAll(d.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := d.GenerateFilename()
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	enc := yaml.NewEncoder(file)
	enc.SetIndent(2)
	if err := enc.Encode(d.frames); err != nil {
		return "", fmt.Errorf("encoding frames: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding frames: %w", err)
	}

	d.frames = d.frames[:0]
	return filename, nil
}

// GenerateFilename generates a dump filename without saving.
func (d *FrameDumper) GenerateFilename() string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("%s_%s.yaml", d.prefix, timestamp)
	if d.outputDir != "" {
		filename = filepath.Join(d.outputDir, filename)
	}
	return filename
}
