// Command reverbtrace-demo wires a synthetic box-room voxel oracle and a
// stationary listener pose, drives one ReverbController render tick, and
// prints the resulting aggregate statistics and the number of submissions
// made to the mix sink. It does not print or draw the reflection paths
// themselves.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/go-audio/audio"

	"github.com/voxelworld/reverbtrace/internal/config"
	"github.com/voxelworld/reverbtrace/pkg/acoustics"
	"github.com/voxelworld/reverbtrace/pkg/geometry"
	"github.com/voxelworld/reverbtrace/pkg/inject"
	"github.com/voxelworld/reverbtrace/pkg/logging"
	"github.com/voxelworld/reverbtrace/pkg/reflection"
	"github.com/voxelworld/reverbtrace/pkg/reverb"
	"github.com/voxelworld/reverbtrace/pkg/worldapi"
)

// CLI defines the reverbtrace-demo command-line interface.
type CLI struct {
	Config     string  `help:"Path to a YAML configuration file." type:"existingfile" optional:""`
	Strategy   string  `help:"Override strategy: chain or diffusion." enum:"chain,diffusion," default:""`
	SampleRate int     `help:"Sample rate for the synthetic audio batch." default:"48000"`
	RoomWidth  float64 `help:"Synthetic room width in meters." default:"10"`
	RoomHeight float64 `help:"Synthetic room height in meters." default:"3"`
	RoomDepth  float64 `help:"Synthetic room depth in meters." default:"10"`
	Debug      bool    `help:"Enable debug logging."`
}

func main() {
	cli := &CLI{}
	kong.Parse(cli,
		kong.Name("reverbtrace-demo"),
		kong.Description("Demo driver for the reverbtrace acoustic reflection engine"),
		kong.UsageOnError(),
	)

	log := logging.Default()
	if cli.Debug {
		log.SetLevel(logging.LevelDebug)
	}

	params, err := loadParameters(cli)
	if err != nil {
		fmt.Fprintln(os.Stderr, "reverbtrace-demo:", err)
		os.Exit(1)
	}

	thresholds := reverb.DefaultThresholds()
	if cli.Config != "" {
		cfg, err := config.Load(cli.Config)
		if err == nil {
			thresholds = cfg.Thresholds()
		}
	}

	oracle := newBoxRoomOracle(cli.RoomWidth, cli.RoomHeight, cli.RoomDepth)
	model := acoustics.NewModel(params, nil)
	jitter := geometry.NewJitter(42)
	engine := reflection.New(params, model, oracle, jitter, log, acoustics.MaxActivePaths)

	stats := reverb.NewStatsTracker(nil)
	guard := inject.NewBufferGuard(log)
	injector := inject.New(model, params, float64(cli.SampleRate), guard, nil)

	controller := reverb.New(engine, params, model, injector, stats, log, thresholds)

	pose := worldapi.ListenerPose{
		Position:        geometry.Vec3{X: 0, Y: 0, Z: 0},
		Orientation:     geometry.Quat{Real: 1},
		HeadOrientation: geometry.Quat{Real: 1},
		LeftEarPosition: geometry.Vec3{X: -0.1, Y: 0, Z: 0},
		RightEarPosition: geometry.Vec3{X: 0.1, Y: 0, Z: 0},
	}

	batch := syntheticBatch(cli.SampleRate)
	sink := &printingSink{}

	if err := controller.Render(pose, batch, 0, sink); err != nil {
		fmt.Fprintln(os.Stderr, "reverbtrace-demo: render:", err)
		os.Exit(1)
	}

	printStats(controller.Stats())
	fmt.Printf("%d spatial submissions to mix sink\n", sink.count)
}

func loadParameters(cli *CLI) (*acoustics.Parameters, error) {
	if cli.Config != "" {
		cfg, err := config.Load(cli.Config)
		if err != nil {
			return nil, err
		}
		p, err := cfg.Parameters()
		if err != nil {
			return nil, err
		}
		if cli.Strategy != "" {
			applyStrategyOverride(p, cli.Strategy)
		}
		return p, nil
	}

	b := acoustics.NewParametersBuilder()
	if cli.Strategy == "chain" {
		b = b.WithStrategy(acoustics.Chain)
	}
	return b.Build()
}

func applyStrategyOverride(p *acoustics.Parameters, strategy string) {
	switch strategy {
	case "chain":
		p.Strategy = acoustics.Chain
	case "diffusion":
		p.Strategy = acoustics.Diffusion
	}
}

// syntheticBatch builds a tenth of a second of constant-amplitude (1000)
// stereo samples as the inbound audio batch, since the demo's point is the
// reflection geometry, not the input signal.
func syntheticBatch(sampleRate int) *audio.IntBuffer {
	frames := sampleRate / 10
	data := make([]int, frames*2)
	for i := 0; i < frames; i++ {
		data[2*i] = 1000
		data[2*i+1] = 1000
	}
	return &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
}

// printingSink is a worldapi.SpatialMixSink that counts submissions
// instead of actually mixing, standing in for a real audio backend.
type printingSink struct {
	count int
}

func (s *printingSink) AddSpatialAudioToBuffer(sampleTimeAnchor int64, pcm []byte, sampleCount int) {
	s.count++
}

func printStats(s reverb.Stats) {
	fmt.Printf("paths: %d total, %d diffusion-spawned, %d runaway terminations\n",
		s.TotalPaths, s.DiffusionPaths, s.RunawayTerminations)
	fmt.Printf("delay ms:    min=%.2f max=%.2f avg=%.2f\n", s.MinDelayMs, s.MaxDelayMs, s.AvgDelayMs)
	fmt.Printf("attenuation: min=%.4f max=%.4f avg=%.4f\n", s.MinAttenuation, s.MaxAttenuation, s.AvgAttenuation)
}
