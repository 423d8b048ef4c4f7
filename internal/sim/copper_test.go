package sim_test

import (
	"context"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/exp/rand"

	"github.com/san-kum/mdsim/internal/atoms"
	"github.com/san-kum/mdsim/internal/integrators"
	"github.com/san-kum/mdsim/internal/lattice"
	"github.com/san-kum/mdsim/internal/metrics"
	"github.com/san-kum/mdsim/internal/potentials"
	"github.com/san-kum/mdsim/internal/sim"
	"github.com/san-kum/mdsim/internal/trajectory"
	"github.com/san-kum/mdsim/internal/units"
)

func copperAt300K(seed int64) sim.Builder {
	return func() (*atoms.Atoms, error) {
		a, err := lattice.FaceCenteredCubic("Cu", [3]int{3, 3, 3}, [3]bool{true, true, true}, 0)
		if err != nil {
			return nil, err
		}
		a.SetCalculator(potentials.NewEMT())
		src := rand.NewSource(uint64(seed))
		if err := integrators.MaxwellBoltzmann(a, 300, src, integrators.VelocityOptions{}); err != nil {
			return nil, err
		}
		return a, nil
	}
}

var _ = Describe("Copper crystal at 300 K", func() {
	var (
		s        *sim.Simulator
		trajPath string
		cfg      sim.Config
	)

	BeforeEach(func() {
		trajPath = filepath.Join(GinkgoT().TempDir(), "cu_traj")
		s = sim.New(integrators.NewVelocityVerlet(), nil)
		s.SetTrajectory(func() (sim.TrajectoryWriter, error) {
			return trajectory.Create(trajPath)
		})
		Expect(s.Configure(copperAt300K(20240601))).To(Succeed())

		cfg = sim.Config{
			Dt:                 5 * units.Fs,
			StepsPerBatch:      3,
			Batches:            10,
			TrajectoryInterval: 10,
		}
	})

	It("starts configured with 108 atoms", func() {
		Expect(s.State()).To(Equal(sim.Configured))
		Expect(s.Atoms().Len()).To(Equal(108))
	})

	Context("after 10 batches of 3 steps", func() {
		var result *sim.Result

		BeforeEach(func() {
			var err error
			result, err = s.Run(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())
		})

		It("completes every step", func() {
			Expect(s.State()).To(Equal(sim.Completed))
			Expect(result.StepsTaken).To(Equal(30))
			Expect(result.Samples).To(HaveLen(11))
		})

		It("has heated the lattice above the EMT reference energy", func() {
			last := result.Samples[len(result.Samples)-1]
			Expect(last.Epot).To(BeNumerically(">", 0))
		})

		It("keeps every report consistent", func() {
			for _, sample := range result.Samples {
				Expect(sample.Etot).To(BeNumerically("~", sample.Epot+sample.Ekin, 1e-12))
				Expect(sample.Temperature).To(BeNumerically(">=", 0))
			}
		})

		It("conserves total energy", func() {
			Expect(result.EnergyDrift).To(BeNumerically("<", 1e-3))
		})

		It("reports the same energies when asked twice", func() {
			first, err := metrics.Compute(s.Atoms())
			Expect(err).NotTo(HaveOccurred())
			second, err := metrics.Compute(s.Atoms())
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(Equal(first))
		})

		It("writes a snapshot every 10 steps starting at step 0", func() {
			Expect(result.Frames).To(Equal(4))
			mol, err := trajectory.Read(trajPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(mol.Len()).To(Equal(108))
			Expect(mol.Coords).To(HaveLen(4))
		})
	})
})

var _ = Describe("Replicas", func() {
	It("runs independent seeds concurrently", func() {
		factory := func(seed int64) (*sim.Simulator, error) {
			s := sim.New(integrators.NewVelocityVerlet(), nil)
			if err := s.Configure(copperAt300K(seed)); err != nil {
				return nil, err
			}
			return s, nil
		}

		cfg := sim.Config{Dt: 5 * units.Fs, StepsPerBatch: 2, Batches: 1}
		results, err := sim.NewReplicas(factory, 2, 1).Run(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(2))
		Expect(results[0].Samples[0].Ekin).NotTo(Equal(results[1].Samples[0].Ekin))
	})
})
