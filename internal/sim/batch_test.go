package sim_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/beltsim/internal/sim"
)

var _ = Describe("Batch", func() {
	var engine *sim.Engine

	BeforeEach(func() {
		engine = sim.New(sim.WithLogger(quietLogger()))
	})

	It("returns results in input order", func() {
		params := make([]sim.Parameters, 4)
		for i := range params {
			params[i] = twoMaterials()
			params[i].BeltVelocity = float64(i + 1)
		}

		results, err := sim.NewBatch(engine, 2).Run(context.Background(), params)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(4))

		for i, p := range params {
			single, err := engine.Run(p)
			Expect(err).NotTo(HaveOccurred())
			Expect(results[i]).To(Equal(single))
		}
	})

	It("fails when any run fails", func() {
		bad := twoMaterials()
		bad.Sources = nil
		_, err := sim.NewBatch(engine, 0).Run(context.Background(), []sim.Parameters{twoMaterials(), bad})
		Expect(err).To(MatchError(sim.ErrInvalidParameters))
		Expect(err).To(MatchError(ContainSubstring("run 1")))
	})

	It("stops on a cancelled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := sim.NewBatch(engine, 1).Run(ctx, []sim.Parameters{twoMaterials()})
		Expect(err).To(MatchError(context.Canceled))
	})
})
