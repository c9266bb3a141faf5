package main

import (
	"cmp"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"slices"
	"text/tabwriter"

	"github.com/born-ml/localgp/hyper"
	"github.com/born-ml/localgp/kernel"
	"github.com/born-ml/localgp/loss"
	"github.com/born-ml/localgp/solve"
	"github.com/born-ml/localgp/tensor"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// sweepConfig holds the sweep command flags.
type sweepConfig struct {
	Points    int     // Training points on [0, 1].
	Neighbors int     // nn per local batch.
	Nu        float64 // Fixed Matérn smoothness.
	Noise     float64 // Observation noise std.
	Nugget    float64 // Added to the diagonal of every local K.
	LengthMin float64
	LengthMax float64
	Steps     int
	Method    string
	Policy    string
	Seed      uint64
	Workers   int
	JSON      bool
}

func defaultSweepConfig() sweepConfig {
	return sweepConfig{
		Points:    200,
		Neighbors: 10,
		Nu:        1.5,
		Noise:     0.1,
		Nugget:    1e-2,
		LengthMin: 0.01,
		LengthMax: 1,
		Steps:     12,
		Method:    loss.MethodLOOL.String(),
		Policy:    solve.VarianceWarn.String(),
		Seed:      1,
	}
}

func (c sweepConfig) validate() error {
	switch {
	case c.Points < 2:
		return fmt.Errorf("-points must be >= 2, got %d", c.Points)
	case c.Neighbors < 1 || c.Neighbors >= c.Points:
		return fmt.Errorf("-neighbors must be in [1, %d), got %d", c.Points, c.Neighbors)
	case c.Steps < 2:
		return fmt.Errorf("-steps must be >= 2, got %d", c.Steps)
	case c.Noise < 0 || c.Nugget < 0:
		return errors.New("-noise and -nugget must be non-negative")
	}
	return nil
}

func parseSweepFlags(args []string) (sweepConfig, error) {
	cfg := defaultSweepConfig()
	fs := flag.NewFlagSet("sweep", flag.ContinueOnError)
	fs.IntVar(&cfg.Points, "points", cfg.Points, "number of synthetic training points")
	fs.IntVar(&cfg.Neighbors, "neighbors", cfg.Neighbors, "nearest neighbors per local batch")
	fs.Float64Var(&cfg.Nu, "nu", cfg.Nu, "Matérn smoothness (0.5, 1.5, 2.5, inf or any positive value)")
	fs.Float64Var(&cfg.Noise, "noise", cfg.Noise, "observation noise standard deviation")
	fs.Float64Var(&cfg.Nugget, "nugget", cfg.Nugget, "diagonal jitter added to each local kernel")
	fs.Float64Var(&cfg.LengthMin, "ls-min", cfg.LengthMin, "smallest length_scale in the sweep")
	fs.Float64Var(&cfg.LengthMax, "ls-max", cfg.LengthMax, "largest length_scale in the sweep")
	fs.IntVar(&cfg.Steps, "steps", cfg.Steps, "log-spaced length_scale values to try")
	fs.StringVar(&cfg.Method, "loss", cfg.Method, "objective: mse, cross-entropy, lool, pseudo-huber or looph")
	fs.StringVar(&cfg.Policy, "variance-policy", cfg.Policy, "negative variance handling: warn, clamp or strict")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "solve workers (0 = one per CPU)")
	fs.BoolVar(&cfg.JSON, "json", cfg.JSON, "emit JSON logs")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	return cfg, cfg.validate()
}

func newLogger(jsonLogs bool) (*zap.Logger, error) {
	if jsonLogs {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// problem is a leave-one-out regression set: every training point is a
// query against its nearest other training points.
type problem struct {
	pairwise  *tensor.Tensor // (n, nn, nn)
	crosswise *tensor.Tensor // (n, nn)
	targets   *tensor.Tensor // (n, nn, 1)
	truth     *tensor.Tensor // (n, 1)
}

// synthesize samples y = sin(2πx) + noise on [0, 1] and assembles the
// leave-one-out distance and target tensors by brute-force neighbor search.
func synthesize(cfg sweepConfig) (*problem, error) {
	src := rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)
	u := distuv.Uniform{Min: 0, Max: 1, Src: src}
	eps := distuv.Normal{Mu: 0, Sigma: cfg.Noise, Src: src}

	n, nn := cfg.Points, cfg.Neighbors
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range xs {
		xs[i] = u.Rand()
		ys[i] = math.Sin(2*math.Pi*xs[i]) + eps.Rand()
	}

	p := &problem{}
	var err error
	if p.pairwise, err = tensor.New(tensor.Shape{n, nn, nn}); err != nil {
		return nil, err
	}
	if p.crosswise, err = tensor.New(tensor.Shape{n, nn}); err != nil {
		return nil, err
	}
	if p.targets, err = tensor.New(tensor.Shape{n, nn, 1}); err != nil {
		return nil, err
	}
	if p.truth, err = tensor.FromSlice(ys, tensor.Shape{n, 1}); err != nil {
		return nil, err
	}

	others := make([]int, 0, n-1)
	for i := range xs {
		others = others[:0]
		for j := range xs {
			if j != i {
				others = append(others, j)
			}
		}
		slices.SortStableFunc(others, func(a, b int) int {
			return cmp.Compare(math.Abs(xs[a]-xs[i]), math.Abs(xs[b]-xs[i]))
		})
		nbrs := others[:nn]

		pair := p.pairwise.Batch(i)
		cross := p.crosswise.Batch(i)
		tgt := p.targets.Batch(i)
		for a, ja := range nbrs {
			cross[a] = math.Abs(xs[i] - xs[ja])
			tgt[a] = ys[ja]
			for b, jb := range nbrs {
				pair[a*nn+b] = math.Abs(xs[ja] - xs[jb])
			}
		}
	}
	return p, nil
}

// sweepRow is one evaluated candidate.
type sweepRow struct {
	LengthScale float64
	Objective   float64
	MSE         float64
	SigmaSq     float64
}

// evaluator runs the kernel → solve → loss pipeline for one candidate.
type evaluator struct {
	fn     *kernel.OptFn
	eng    *solve.Engine
	obj    loss.Func
	nugget float64
}

func (e *evaluator) run(p *problem, x []float64) (sweepRow, error) {
	K, err := e.fn.CallVector(p.pairwise, x)
	if err != nil {
		return sweepRow{}, err
	}
	addNugget(K, e.nugget)
	Kcross, err := e.fn.CallVector(p.crosswise, x)
	if err != nil {
		return sweepRow{}, err
	}

	mean, err := e.eng.ComputeSolve(K, Kcross, p.targets)
	if err != nil {
		return sweepRow{}, err
	}
	variances, err := e.eng.ComputeDiagonalVariance(K, Kcross)
	if err != nil {
		return sweepRow{}, err
	}
	sigmaSq, err := e.eng.AnalyticSigmaSq(K, p.targets)
	if err != nil {
		return sweepRow{}, err
	}

	value, err := e.obj(loss.Inputs{
		Predictions: mean,
		Targets:     p.truth,
		Variances:   variances,
		SigmaSq:     sigmaSq,
	})
	if err != nil {
		return sweepRow{}, err
	}
	mse, err := loss.MSE(mean, p.truth)
	if err != nil {
		return sweepRow{}, err
	}
	return sweepRow{
		LengthScale: x[len(x)-1],
		Objective:   value,
		MSE:         mse,
		SigmaSq:     sigmaSq.Data()[0],
	}, nil
}

func addNugget(K *tensor.Tensor, nugget float64) {
	if nugget == 0 {
		return
	}
	nn := K.Dim(1)
	for b := 0; b < K.Dim(0); b++ {
		slab := K.Batch(b)
		for i := 0; i < nn; i++ {
			slab[i*nn+i] += nugget
		}
	}
}

func runSweep(args []string, w io.Writer) error {
	cfg, err := parseSweepFlags(args)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.JSON)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	rows, err := sweep(cfg, logger)
	if err != nil {
		return err
	}
	return writeRows(w, rows)
}

// sweep evaluates every length_scale on the grid and writes the best one
// back into the kernel.
func sweep(cfg sweepConfig, logger *zap.Logger) ([]sweepRow, error) {
	method, err := loss.ParseMethod(cfg.Method)
	if err != nil {
		return nil, err
	}
	obj, err := loss.Objective(method, loss.DefaultOptions())
	if err != nil {
		return nil, err
	}
	policy, err := solve.ParseVariancePolicy(cfg.Policy)
	if err != nil {
		return nil, err
	}

	bounds := hyper.Bounds{Low: cfg.LengthMin, High: cfg.LengthMax}
	ls, err := hyper.New(kernel.LengthScaleName, cfg.LengthMin, bounds)
	if err != nil {
		return nil, err
	}
	m, err := kernel.NewMatern(hyper.Fixed(kernel.NuName, cfg.Nu), ls)
	if err != nil {
		return nil, err
	}
	names, _, _ := m.GetOptimParams()
	fn := m.GetOptFn()

	engCfg := solve.DefaultConfig()
	engCfg.Logger = logger
	engCfg.VariancePolicy = policy
	if cfg.Workers > 0 {
		engCfg.Parallel.NumWorkers = cfg.Workers
		engCfg.Parallel.Enabled = cfg.Workers > 1
	}
	ev := &evaluator{fn: fn, eng: solve.New(engCfg), obj: obj, nugget: cfg.Nugget}

	p, err := synthesize(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("sweep started",
		zap.Stringer("kernel", m),
		zap.Stringer("specialization", fn.Key()),
		zap.Stringer("loss", method),
		zap.Int("points", cfg.Points),
		zap.Int("neighbors", cfg.Neighbors))

	grid := floats.LogSpan(make([]float64, cfg.Steps), cfg.LengthMin, cfg.LengthMax)
	rows := make([]sweepRow, 0, len(grid))
	best := -1
	for _, l := range grid {
		l = math.Min(math.Max(l, cfg.LengthMin), cfg.LengthMax)
		row, err := ev.run(p, []float64{l})
		if err != nil {
			return nil, fmt.Errorf("length_scale=%g: %w", l, err)
		}
		logger.Debug("candidate",
			zap.Float64("length_scale", l),
			zap.Float64("objective", row.Objective),
			zap.Float64("mse", row.MSE))
		rows = append(rows, row)
		if best < 0 || row.Objective < rows[best].Objective {
			best = len(rows) - 1
		}
	}

	if err := m.SetOptimParams(names, []float64{rows[best].LengthScale}); err != nil {
		return nil, err
	}
	logger.Info("sweep finished",
		zap.Stringer("kernel", m),
		zap.Float64("objective", rows[best].Objective),
		zap.Float64("sigma_sq", rows[best].SigmaSq))
	return rows, nil
}

func writeRows(w io.Writer, rows []sweepRow) error {
	best := 0
	for i, r := range rows {
		if r.Objective < rows[best].Objective {
			best = i
		}
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "length_scale\tobjective\tmse\tsigma_sq\t")
	for i, r := range rows {
		mark := ""
		if i == best {
			mark = "*"
		}
		fmt.Fprintf(tw, "%.4g\t%.6g\t%.4g\t%.4g\t%s\n", r.LengthScale, r.Objective, r.MSE, r.SigmaSq, mark)
	}
	return tw.Flush()
}
