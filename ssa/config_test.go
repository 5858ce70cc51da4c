package ssa_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ssabench/ssa"
)

var _ = Describe("Config", func() {
	It("should have valid defaults", func() {
		config := ssa.DefaultConfig()
		Expect(config.Validate()).To(Succeed())
		Expect(config.TauLeapEpsilon).To(Equal(0.03))
		Expect(config.ModelCacheSize).To(Equal(8))
	})

	It("should keep defaults for fields missing from the file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "ssa.json")
		Expect(os.WriteFile(path, []byte(`{"max_steps": 1000}`), 0644)).To(Succeed())

		config, err := ssa.LoadConfig(path)
		Expect(err).ToNot(HaveOccurred())
		Expect(config.MaxSteps).To(Equal(uint64(1000)))
		Expect(config.TauLeapEpsilon).To(Equal(0.03))
		Expect(config.TauLeapSSASteps).To(Equal(100))
	})

	It("should save a config that loads back unchanged", func() {
		path := filepath.Join(GinkgoT().TempDir(), "ssa.json")
		config := ssa.DefaultConfig()
		config.TauLeapEpsilon = 0.05

		Expect(config.SaveConfig(path)).To(Succeed())
		loaded, err := ssa.LoadConfig(path)
		Expect(err).ToNot(HaveOccurred())
		Expect(loaded).To(Equal(config))
	})

	It("should report unreadable and malformed files", func() {
		_, err := ssa.LoadConfig(filepath.Join(GinkgoT().TempDir(), "missing.json"))
		Expect(err).To(MatchError(ContainSubstring("failed to read")))

		path := filepath.Join(GinkgoT().TempDir(), "bad.json")
		Expect(os.WriteFile(path, []byte(`{`), 0644)).To(Succeed())
		_, err = ssa.LoadConfig(path)
		Expect(err).To(MatchError(ContainSubstring("failed to parse")))
	})

	It("should reject out of range values", func() {
		config := ssa.DefaultConfig()
		config.TauLeapEpsilon = 1.5
		Expect(config.Validate()).To(MatchError(ContainSubstring("tau_leap_epsilon")))

		config = ssa.DefaultConfig()
		config.ModelCacheSize = 0
		Expect(config.Validate()).To(MatchError(ContainSubstring("model_cache_size")))

		config = ssa.DefaultConfig()
		config.TauLeapSSASteps = 0
		Expect(config.Validate()).To(MatchError(ContainSubstring("tau_leap_ssa_steps")))
	})

	It("should clone independently", func() {
		config := ssa.DefaultConfig()
		clone := config.Clone()
		clone.MaxSteps = 7
		Expect(config.MaxSteps).To(BeZero())
	})
})
