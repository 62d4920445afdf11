package sim_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/beltsim/internal/chem"
	"github.com/san-kum/beltsim/internal/sim"
)

var _ = Describe("Validate", func() {
	It("accepts well-formed parameters", func() {
		_, err := sim.Validate(twoMaterials())
		Expect(err).NotTo(HaveOccurred())
	})

	DescribeTable("rejects invalid parameters",
		func(mutate func(*sim.Parameters), field string, source int) {
			p := twoMaterials()
			mutate(&p)

			_, err := sim.Validate(p)
			Expect(err).To(MatchError(sim.ErrInvalidParameters))

			var verr *sim.ValidationError
			Expect(errors.As(err, &verr)).To(BeTrue())
			Expect(verr.Field).To(Equal(field))
			Expect(verr.Source).To(Equal(source))
		},
		Entry("zero total time", func(p *sim.Parameters) { p.TotalTime = 0 }, "total_time", -1),
		Entry("negative belt length", func(p *sim.Parameters) { p.BeltLength = -5 }, "belt_length", -1),
		Entry("zero resolution", func(p *sim.Parameters) { p.Resolution = 0 }, "resolution", -1),
		Entry("zero velocity", func(p *sim.Parameters) { p.BeltVelocity = 0 }, "belt_velocity", -1),
		Entry("resolution above length", func(p *sim.Parameters) { p.Resolution = 6 }, "resolution", -1),
		Entry("no materials", func(p *sim.Parameters) { p.Materials = nil }, "materials", -1),
		Entry("duplicate materials", func(p *sim.Parameters) { p.Materials[1] = "Sinter" }, "materials", -1),
		Entry("no sources", func(p *sim.Parameters) { p.Sources = nil }, "sources", -1),
		Entry("zero capacity", func(p *sim.Parameters) { p.Sources[1].Capacity = 0 }, "capacity", 1),
		Entry("zero flow rate", func(p *sim.Parameters) { p.Sources[0].FlowRate = 0 }, "flow_rate", 0),
		Entry("negative start", func(p *sim.Parameters) { p.Sources[0].StartTime = -1 }, "start_time", 0),
		Entry("row out of range", func(p *sim.Parameters) { p.Sources[1].MaterialRow = 2 }, "material_row", 1),
		Entry("column past the belt", func(p *sim.Parameters) { p.Sources[0].BeltColumn = 5 }, "belt_column", 0),
		Entry("negative column", func(p *sim.Parameters) { p.Sources[0].BeltColumn = -1 }, "belt_column", 0),
		Entry("start after the run", func(p *sim.Parameters) { p.Sources[0].StartTime = 11 }, "start_time", 0),
		Entry("ends too late", func(p *sim.Parameters) { p.Sources[1].Capacity = 40 }, "capacity", 1),
		Entry("missing chemistry", func(p *sim.Parameters) {
			p.MaterialChemistry = chem.Library{"Sinter": chem.DefaultLibrary()["Sinter"]}
		}, "material_chemistry", -1),
		Entry("chemistry above 100%", func(p *sim.Parameters) {
			lib := chem.DefaultLibrary().MustSubset(p.Materials)
			m := lib["Pellets"]
			m.Chemistry.SiO2 = 50
			lib["Pellets"] = m
			p.MaterialChemistry = lib
		}, "material_chemistry", -1),
		Entry("NaN chemistry", func(p *sim.Parameters) {
			lib := chem.DefaultLibrary().MustSubset(p.Materials)
			m := lib["Sinter"]
			m.Chemistry.Fe = math.NaN()
			lib["Sinter"] = m
			p.MaterialChemistry = lib
		}, "material_chemistry", -1),
		Entry("infinite density", func(p *sim.Parameters) {
			lib := chem.DefaultLibrary().MustSubset(p.Materials)
			m := lib["Pellets"]
			m.Density = math.Inf(1)
			lib["Pellets"] = m
			p.MaterialChemistry = lib
		}, "material_chemistry", -1),
	)

	It("names the source in the message", func() {
		p := twoMaterials()
		p.Sources[1].BeltColumn = 9
		_, err := sim.Validate(p)
		Expect(err).To(MatchError(ContainSubstring("sources[1].belt_column")))
	})

	It("flags oversized grids as resource errors", func() {
		e := sim.New(sim.WithLogger(quietLogger()), sim.WithLimits(sim.Limits{MaxColumns: 4}))
		_, err := e.Run(twoMaterials())
		Expect(err).To(MatchError(sim.ErrResourceLimit))

		var rerr *sim.ResourceError
		Expect(errors.As(err, &rerr)).To(BeTrue())
		Expect(rerr.Limit).To(Equal(4))
	})

	It("flags oversized flow tables", func() {
		e := sim.New(sim.WithLogger(quietLogger()), sim.WithLimits(sim.Limits{MaxCells: 10}))
		_, err := e.Run(twoMaterials())
		Expect(err).To(MatchError(sim.ErrResourceLimit))
	})

	It("keeps default limits for unset fields", func() {
		e := sim.New(sim.WithLimits(sim.Limits{MaxSteps: 50}))
		Expect(e.Limits().MaxSteps).To(Equal(50))
		Expect(e.Limits().MaxColumns).To(Equal(sim.DefaultLimits().MaxColumns))
	})

	Describe("warnings", func() {
		It("is empty for a clean run", func() {
			p := twoMaterials()
			p.Sources[1].Capacity = 20
			ws, err := sim.Validate(p)
			Expect(err).NotTo(HaveOccurred())
			Expect(ws).To(BeEmpty())
		})

		It("notes sources outlasting the run", func() {
			ws, err := sim.Validate(twoMaterials())
			Expect(err).NotTo(HaveOccurred())
			Expect(ws).To(HaveLen(1))
			Expect(ws[0].Source).To(Equal(1))
		})

		It("notes sources at the discharge column", func() {
			p := twoMaterials()
			p.Sources[1].Capacity = 20
			p.Sources[0].BeltColumn = 4
			ws, err := sim.Validate(p)
			Expect(err).NotTo(HaveOccurred())
			Expect(ws.Strings()).To(ConsistOf("sources[0]: placed at the discharge column"))
		})

		It("notes material that never arrives", func() {
			p := twoMaterials()
			p.Sources[1].Capacity = 20
			p.Sources[0].StartTime = 9
			p.Sources[0].Capacity = 3
			ws, err := sim.Validate(p)
			Expect(err).NotTo(HaveOccurred())
			Expect(ws.Strings()).To(ConsistOf(ContainSubstring("does not reach")))
		})
	})
})
