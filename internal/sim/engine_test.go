package sim_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/beltsim/internal/belt"
	"github.com/san-kum/beltsim/internal/chem"
	"github.com/san-kum/beltsim/internal/metrics"
	"github.com/san-kum/beltsim/internal/sim"
)

func twoMaterials() sim.Parameters {
	return sim.Parameters{
		TotalTime:    10,
		BeltLength:   5,
		Resolution:   1,
		BeltVelocity: 1,
		Materials:    []string{"Sinter", "Pellets"},
		Sources: []belt.Source{
			{Material: "Sinter", Capacity: 30, FlowRate: 3, MaterialRow: 0, BeltColumn: 2},
			{Material: "Pellets", Capacity: 30, FlowRate: 2, MaterialRow: 1, BeltColumn: 2},
		},
	}
}

var _ = Describe("Engine", func() {
	var engine *sim.Engine

	BeforeEach(func() {
		engine = sim.New(sim.WithLogger(quietLogger()))
	})

	Describe("a single source far from the discharge end", func() {
		var params sim.Parameters

		BeforeEach(func() {
			params = sim.Parameters{
				TotalTime:    20,
				BeltLength:   10,
				Resolution:   1,
				BeltVelocity: 1,
				Materials:    []string{"Ore"},
				Sources: []belt.Source{
					{Material: "Ore", Capacity: 1000, FlowRate: 10, MaterialRow: 0, BeltColumn: 0},
				},
			}
		})

		It("is rejected while the source outlasts the run margin", func() {
			_, err := engine.Run(params)
			Expect(err).To(MatchError(sim.ErrInvalidParameters))
		})

		It("produces a delayed step once the margin is relaxed", func() {
			engine = sim.New(sim.WithLogger(quietLogger()), sim.WithEndTimeMargin(0))
			res, err := engine.Run(params)
			Expect(err).NotTo(HaveOccurred())

			Expect(res.Flow).To(HaveLen(21))
			Expect(res.Metadata.Dt).To(Equal(1.0))
			Expect(res.Metadata.CellsPerStep).To(Equal(1))
			Expect(res.Metadata.FinalTime).To(Equal(20.0))

			totals := res.Totals()
			for i, v := range totals {
				// 10 columns: material injected at column 0 needs 9 shifts to reach the outlet.
				if i < 9 {
					Expect(v).To(BeZero(), "t=%d", i)
				} else {
					Expect(v).To(Equal(10.0), "t=%d", i)
				}
			}
			Expect(res.Discharged()).To(Equal([]float64{120}))
			Expect(res.Metadata.Metrics["first_arrival"]).To(Equal(9.0))
			Expect(res.Metadata.Warnings).To(ContainElement(ContainSubstring("still discharging")))
		})
	})

	Describe("two sources on the same cell", func() {
		It("keeps material rows apart", func() {
			res, err := engine.Run(twoMaterials())
			Expect(err).NotTo(HaveOccurred())

			for _, row := range res.Flow {
				Expect(row[0]).To(BeElementOf(0.0, 3.0))
				Expect(row[1]).To(BeElementOf(0.0, 2.0))
			}
			Expect(res.Flow[5]).To(Equal([]float64{3, 2, 5, 5}))
			Expect(res.Proportions[5][0]).To(BeNumerically("~", 60, 1e-9))
			Expect(res.Proportions[5][1]).To(BeNumerically("~", 40, 1e-9))
			Expect(res.FinalGrid[0]).NotTo(Equal(res.FinalGrid[1]))
		})
	})

	It("reports zero proportions while nothing is discharged", func() {
		res, err := engine.Run(twoMaterials())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Flow[0][3]).To(BeZero())
		Expect(res.Proportions[0]).To(Equal([]float64{0, 0}))
	})

	It("keeps the total column equal to the material sum", func() {
		res, err := engine.Run(twoMaterials())
		Expect(err).NotTo(HaveOccurred())
		for _, row := range res.Flow {
			Expect(row[3]).To(Equal(metrics.RowSum(row[:2])))
		}
	})

	It("conserves mass when everything reaches the discharge end", func() {
		p := sim.Parameters{
			TotalTime:    20,
			BeltLength:   5,
			Resolution:   1,
			BeltVelocity: 1,
			Materials:    []string{"Coke"},
			Sources: []belt.Source{
				{Material: "Coke", Capacity: 20, FlowRate: 2, BeltColumn: 0},
			},
		}
		res, err := engine.Run(p)
		Expect(err).NotTo(HaveOccurred())

		injected := 0.0
		for _, t := range res.Times() {
			if p.Sources[0].ActiveAt(t) {
				injected += p.Sources[0].Quantity(p.Dt())
			}
		}
		Expect(res.Discharged()[0]).To(BeNumerically("~", injected, 1e-9))
		Expect(res.Metadata.MassBalance.Error).To(BeZero())
		Expect(res.Metadata.MassBalance.ErrorPercent).To(BeZero())
	})

	It("gives a degenerate window exactly one step", func() {
		p := sim.Parameters{
			TotalTime:    10,
			BeltLength:   3,
			Resolution:   1,
			BeltVelocity: 1,
			Materials:    []string{"Quartzite"},
			Sources: []belt.Source{
				{Material: "Quartzite", Capacity: 1e-9, FlowRate: 1, BeltColumn: 0, StartTime: 2},
			},
		}
		res, err := engine.Run(p)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Discharged()[0]).To(Equal(1.0))
		Expect(res.Flow[4][0]).To(Equal(1.0))
	})

	It("refines the grid with the resolution", func() {
		p := twoMaterials()
		p.Resolution = 0.5
		Expect(p.CellsPerStep()).To(Equal(1))
		Expect(p.Columns()).To(Equal(10))
		Expect(p.Steps()).To(Equal(20))

		res, err := engine.Run(p)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Flow).To(HaveLen(21))
	})

	It("is deterministic", func() {
		p := twoMaterials()
		p.MaterialChemistry = chem.DefaultLibrary().MustSubset(p.Materials)

		a, err := engine.Run(p)
		Expect(err).NotTo(HaveOccurred())
		b, err := sim.New(sim.WithLogger(quietLogger())).Run(p)
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(Equal(b))
	})

	It("does not alias recorded samples", func() {
		res, err := engine.Run(twoMaterials())
		Expect(err).NotTo(HaveOccurred())
		res.Flow[5][0] = -1
		Expect(res.Flow[6][0]).To(Equal(3.0))
	})

	It("round-trips through JSON", func() {
		p := twoMaterials()
		p.MaterialChemistry = chem.DefaultLibrary().MustSubset(p.Materials)
		res, err := engine.Run(p)
		Expect(err).NotTo(HaveOccurred())

		data, err := json.Marshal(res)
		Expect(err).NotTo(HaveOccurred())

		var decoded sim.Results
		Expect(json.Unmarshal(data, &decoded)).To(Succeed())
		Expect(&decoded).To(Equal(res))
	})

	Describe("chemistry tracking", func() {
		var (
			params sim.Parameters
			res    *sim.Results
		)

		BeforeEach(func() {
			params = twoMaterials()
			params.MaterialChemistry = chem.DefaultLibrary().MustSubset(params.Materials)
			var err error
			res, err = engine.Run(params)
			Expect(err).NotTo(HaveOccurred())
		})

		It("is off without material chemistry", func() {
			plain, err := engine.Run(twoMaterials())
			Expect(err).NotTo(HaveOccurred())
			Expect(plain.Metadata.ChemistryTracked).To(BeFalse())
			_, err = plain.Chemistry()
			Expect(err).To(MatchError(sim.ErrNoChemistry))
		})

		It("omits time points without flow", func() {
			tr, err := res.Chemistry()
			Expect(err).NotTo(HaveOccurred())

			flowing := 0
			for _, v := range res.Totals() {
				if v > chem.FlowEpsilon {
					flowing++
				}
			}
			Expect(tr.Len()).To(Equal(flowing))
			Expect(tr.Time[0]).To(Equal(2.0))
		})

		It("blends by discharge share", func() {
			lib := params.MaterialChemistry
			want := lib["Sinter"].Chemistry.Fe*0.6 + lib["Pellets"].Chemistry.Fe*0.4
			Expect(res.ChemistryTrend.Fe[0]).To(BeNumerically("~", want, 1e-9))
			Expect(res.Quality).NotTo(BeNil())
			Expect(res.Quality.FeStability).To(Equal(chem.Good))
		})

		It("carries component mass in lockstep with the belt", func() {
			Expect(res.ChemistryGrid).To(HaveLen(2))
			for r, name := range params.Materials {
				fe := params.MaterialChemistry[name].Chemistry.Fe
				for c := range res.FinalGrid[r] {
					Expect(res.ChemistryGrid[r][c][chem.Fe]).To(
						BeNumerically("~", res.FinalGrid[r][c]*fe/100, 1e-9))
				}
			}
		})
	})
})
