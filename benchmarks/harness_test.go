package benchmarks_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ssabench/benchmarks"
	"github.com/sarchlab/ssabench/ssa"
)

var _ = Describe("Harness", func() {
	var (
		outDir string
		output *bytes.Buffer
		stub   *stubSimulator
		bench  benchmarks.BenchmarkConfig
		config benchmarks.HarnessConfig
	)

	BeforeEach(func() {
		outDir = GinkgoT().TempDir()
		output = &bytes.Buffer{}
		stub = &stubSimulator{elapsed: 0.001}
		bench = benchmarks.BenchmarkConfig{
			ModelName: "toy",
			TFinal:    10.0,
			NSaves:    100,
			NReal:     5,
			Seed:      42,
			NSample:   2,
		}
		config = benchmarks.DefaultConfig()
		config.OutDir = outDir
		config.Output = output
	})

	readLines := func(path string) []string {
		data, err := os.ReadFile(path)
		Expect(err).ToNot(HaveOccurred())
		return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	}

	It("should write one line per sample for the toy model", func() {
		harness := benchmarks.NewHarness(config, bench, stub)

		results, err := harness.RunAll()
		Expect(err).ToNot(HaveOccurred())
		Expect(results).To(HaveLen(1))
		Expect(results[0].Method).To(Equal(ssa.Direct))
		Expect(results[0].Times).To(Equal([]float64{0.001, 0.001}))

		path := filepath.Join(outDir, "toy.txt")
		Expect(results[0].Path).To(Equal(path))
		Expect(readLines(path)).To(Equal([]string{"0.001", "0.001"}))
	})

	It("should load the model from the model directory", func() {
		_, err := benchmarks.NewHarness(config, bench, stub).RunAll()
		Expect(err).ToNot(HaveOccurred())
		Expect(stub.file).To(Equal("stochpy.psc"))
		Expect(stub.dir).To(Equal("./toy/"))
		Expect(stub.modelCalls).To(Equal(1))
	})

	It("should load the model before every method", func() {
		config.Methods = []ssa.Method{ssa.Direct, ssa.FirstReaction, ssa.TauLeap}

		_, err := benchmarks.NewHarness(config, bench, stub).RunAll()
		Expect(err).ToNot(HaveOccurred())
		Expect(stub.modelCalls).To(Equal(3))
	})

	It("should pass the run parameters to the simulator", func() {
		_, err := benchmarks.NewHarness(config, bench, stub).RunAll()
		Expect(err).ToNot(HaveOccurred())

		Expect(stub.opts).To(HaveLen(2))
		for _, opts := range stub.opts {
			Expect(opts.Trajectories).To(Equal(5))
			Expect(opts.End).To(Equal(10.0))
			Expect(opts.Method).To(Equal(ssa.Direct))
			Expect(opts.Mode).To(Equal(ssa.ModeTime))
		}
	})

	It("should print a progress line before every simulator call", func() {
		stub.log = output
		bench.NSample = 3

		_, err := benchmarks.NewHarness(config, bench, stub).RunAll()
		Expect(err).ToNot(HaveOccurred())
		Expect(output.String()).To(Equal(
			"sample 1 / 3\nrun\nsample 2 / 3\nrun\nsample 3 / 3\nrun\n"))
	})

	DescribeTable("sample counts",
		func(n int) {
			bench.NSample = n
			times, err := benchmarks.NewHarness(config, bench, stub).Sample(ssa.Direct, ssa.NewRand(1))
			Expect(err).ToNot(HaveOccurred())
			Expect(times).ToNot(BeNil())
			Expect(times).To(HaveLen(n))
			Expect(stub.calls).To(Equal(n))
			Expect(strings.Count(output.String(), "\n")).To(Equal(n))
		},
		Entry("none", 0),
		Entry("one", 1),
		Entry("several", 7),
	)

	It("should not seed again between samples", func() {
		rng := ssa.NewRand(9)
		_, err := benchmarks.NewHarness(config, bench, stub).Sample(ssa.Direct, rng)
		Expect(err).ToNot(HaveOccurred())

		Expect(stub.opts[0].Rand).To(BeIdenticalTo(rng))
		Expect(stub.opts[1].Rand).To(BeIdenticalTo(rng))
		Expect(stub.draws[0]).ToNot(Equal(stub.draws[1]))
	})

	It("should start every method from the seed", func() {
		config.Methods = []ssa.Method{ssa.Direct, ssa.NextReaction}
		bench.NSample = 1

		results, err := benchmarks.NewHarness(config, bench, stub).RunAll()
		Expect(err).ToNot(HaveOccurred())
		Expect(results).To(HaveLen(2))
		Expect(stub.opts[1].Method).To(Equal(ssa.NextReaction))
		Expect(stub.draws[0]).To(Equal(stub.draws[1]))

		// Both methods append to the same per-model file.
		Expect(readLines(filepath.Join(outDir, "toy.txt"))).To(HaveLen(2))
	})

	It("should write nothing when a sample fails", func() {
		stub.failOn = 2
		bench.NSample = 3

		_, err := benchmarks.NewHarness(config, bench, stub).RunAll()
		Expect(errors.Is(err, errStub)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("sample 2 / 3"))
		Expect(stub.calls).To(Equal(2))

		_, statErr := os.Stat(filepath.Join(outDir, "toy.txt"))
		Expect(os.IsNotExist(statErr)).To(BeTrue())
	})

	It("should leave an existing result file unchanged when a sample fails", func() {
		path := filepath.Join(outDir, "toy.txt")
		Expect(os.WriteFile(path, []byte("0.5\n"), 0644)).To(Succeed())
		stub.failOn = 2
		bench.NSample = 3

		_, err := benchmarks.NewHarness(config, bench, stub).RunAll()
		Expect(err).To(HaveOccurred())
		Expect(readLines(path)).To(Equal([]string{"0.5"}))
	})

	It("should keep the files of methods that finished before a failure", func() {
		config.Methods = []ssa.Method{ssa.Direct, ssa.FirstReaction}
		stub.failOn = 3

		results, err := benchmarks.NewHarness(config, bench, stub).RunAll()
		Expect(err).To(HaveOccurred())
		Expect(results).To(HaveLen(1))
		Expect(readLines(filepath.Join(outDir, "toy.txt"))).To(HaveLen(2))
	})

	It("should stop before sampling when the model cannot be loaded", func() {
		stub.loadErr = os.ErrNotExist

		_, err := benchmarks.NewHarness(config, bench, stub).RunAll()
		Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
		Expect(stub.calls).To(BeZero())
		Expect(output.String()).To(BeEmpty())
	})

	It("should fail when the output directory is missing", func() {
		config.OutDir = filepath.Join(outDir, "missing")

		_, err := benchmarks.NewHarness(config, bench, stub).RunAll()
		Expect(err).To(MatchError(ContainSubstring("failed to open result file")))
	})

	It("should advance the progress reporter once per sample", func() {
		progress := &countingReporter{}
		config.Progress = progress
		bench.NSample = 4

		_, err := benchmarks.NewHarness(config, bench, stub).RunAll()
		Expect(err).ToNot(HaveOccurred())
		Expect(progress.started).To(Equal([]int{4}))
		Expect(progress.advanced).To(Equal(4))
		Expect(progress.finished).To(Equal(1))
	})

	It("should serve repeated model loads from the simulator cache", func() {
		workDir := GinkgoT().TempDir()
		prev, err := os.Getwd()
		Expect(err).ToNot(HaveOccurred())
		Expect(os.Chdir(workDir)).To(Succeed())
		DeferCleanup(func() { Expect(os.Chdir(prev)).To(Succeed()) })

		Expect(os.Mkdir("toy", 0755)).To(Succeed())
		src := "R1:\n  A > B\n  k*A\nA = 20\nB = 0\nk = 1\n"
		Expect(os.WriteFile(filepath.Join("toy", benchmarks.ModelFile), []byte(src), 0644)).To(Succeed())

		config.Methods = []ssa.Method{ssa.Direct, ssa.NextReaction}
		bench.NReal = 1
		sim := ssa.NewSimulator()

		results, err := benchmarks.NewHarness(config, bench, sim).RunAll()
		Expect(err).ToNot(HaveOccurred())
		Expect(results).To(HaveLen(2))

		stats := sim.CacheStats()
		Expect(stats.Misses).To(Equal(uint64(1)))
		Expect(stats.Hits).To(Equal(uint64(1)))
	})

	It("should run the real simulator", func() {
		modelRoot := GinkgoT().TempDir()
		modelDir := filepath.Join(modelRoot, "toy")
		Expect(os.MkdirAll(modelDir, 0755)).To(Succeed())
		src := "R1:\n  A > B\n  k*A\nA = 50\nB = 0\nk = 1\n"
		Expect(os.WriteFile(filepath.Join(modelDir, "stochpy.psc"), []byte(src), 0644)).To(Succeed())

		sim := ssa.NewSimulator()
		Expect(sim.Model(benchmarks.ModelFile, modelDir)).To(Succeed())

		times, err := benchmarks.NewHarness(config, bench, sim).Sample(ssa.Direct, ssa.NewRand(42))
		Expect(err).ToNot(HaveOccurred())
		Expect(times).To(HaveLen(2))
		for _, t := range times {
			Expect(t).To(BeNumerically(">=", 0))
		}
	})
})

type countingReporter struct {
	started  []int
	advanced int
	finished int
}

func (r *countingReporter) Start(_ ssa.Method, total int) { r.started = append(r.started, total) }
func (r *countingReporter) Advance()                      { r.advanced++ }
func (r *countingReporter) Finish()                       { r.finished++ }
