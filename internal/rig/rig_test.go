package rig

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/bearingsim/internal/bearing"
	"github.com/san-kum/bearingsim/internal/control"
	"github.com/san-kum/bearingsim/internal/dynamo"
	"github.com/san-kum/bearingsim/internal/logging"
	"github.com/san-kum/bearingsim/internal/metrics"
	"github.com/san-kum/bearingsim/internal/physics"
)

type countingObserver struct{ n int }

func (c *countingObserver) OnStep(dynamo.Sample) { c.n++ }

func scenarioModel() *bearing.Model {
	m := bearing.NewModel()
	m.SetType(bearing.Hybrid)
	m.SetYoungsModulus(380)
	m.SetLoad(500)
	m.SetSpindleSpeed(10000)
	return m
}

var _ = Describe("Rig", func() {
	var (
		ctrl *control.Controller
		r    *Rig
	)

	BeforeEach(func() {
		ctrl = control.NewController()
		r = New(scenarioModel(), ctrl, logging.NewTestLogger())
	})

	Context("closed loop on the hybrid scenario", func() {
		It("keeps every sample inside the physical bounds", func() {
			res, err := r.Run(context.Background(), 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.StepsTaken).To(Equal(100))
			Expect(res.Samples).To(HaveLen(100))

			for _, s := range res.Samples {
				Expect(math.Abs(s.Displacement)).To(BeNumerically("<=", physics.MaxDisplacement))
				Expect(s.Temperature).To(BeNumerically(">=", physics.AmbientTemp))
				Expect(s.Temperature).To(BeNumerically("<=", physics.MaxTemperature))
				Expect(math.Abs(s.ControlForce)).To(BeNumerically("<=", physics.MaxForce))
			}
			Expect(res.Final().MagneticField).To(BeNumerically("~", 0.01257, 1e-5))
			Expect(res.Final().Time).To(BeNumerically("~", 1.0, 1e-9))
		})

		It("never decreases energy loss", func() {
			res, err := r.Run(context.Background(), 1000)
			Expect(err).NotTo(HaveOccurred())
			for i := 1; i < len(res.Samples); i++ {
				Expect(res.Samples[i].EnergyLoss).To(BeNumerically(">=", res.Samples[i-1].EnergyLoss))
			}
		})

		It("is deterministic across identically configured rigs", func() {
			other := New(scenarioModel(), control.NewController(), logging.NewTestLogger())
			a, err := r.Run(context.Background(), 500)
			Expect(err).NotTo(HaveOccurred())
			b, err := other.Run(context.Background(), 500)
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Samples).To(Equal(b.Samples))
		})

		It("populates metrics and notifies observers every tick", func() {
			for _, m := range metrics.Defaults() {
				r.AddMetric(m)
			}
			obs := &countingObserver{}
			r.AddObserver(obs)

			res, err := r.Run(context.Background(), 250)
			Expect(err).NotTo(HaveOccurred())
			Expect(obs.n).To(Equal(250))
			Expect(res.Metrics).To(HaveKey("energy_loss"))
			Expect(res.Metrics["energy_loss"]).To(Equal(res.Final().EnergyLoss))
			Expect(res.Metrics["peak_temperature"]).To(BeNumerically(">", physics.AmbientTemp))
		})
	})

	Context("controller coupling", func() {
		It("holds the controller output as next tick's force", func() {
			r.SetController(control.NewManual(250))
			s := r.Tick()
			Expect(s.ControlForce).To(Equal(250.0))
			Expect(r.Engine().ControlForce()).To(Equal(250.0))
		})

		It("clamps an out-of-range controller output", func() {
			r.SetController(control.NewManual(5000))
			Expect(r.Tick().ControlForce).To(Equal(physics.MaxForce))
		})

		It("runs open loop without a controller", func() {
			r.SetController(nil)
			Expect(r.Tick().ControlForce).To(Equal(0.0))
		})
	})

	Context("reset", func() {
		BeforeEach(func() {
			_, err := r.Run(context.Background(), 50)
			Expect(err).NotTo(HaveOccurred())
		})

		It("ResetPhysics leaves controller state alone", func() {
			est := ctrl.Estimator().Displacement()
			integral := ctrl.PID().Integral()
			Expect(est).NotTo(BeZero())
			Expect(integral).NotTo(BeZero())

			r.ResetPhysics()

			Expect(r.Engine().Snapshot()).To(Equal(dynamo.Sample{Temperature: physics.AmbientTemp}))
			Expect(ctrl.Estimator().Displacement()).To(Equal(est))
			Expect(ctrl.PID().Integral()).To(Equal(integral))
		})

		It("ResetAll clears the controller too", func() {
			r.ResetAll()
			Expect(ctrl.Estimator().Displacement()).To(BeZero())
			Expect(ctrl.PID().Integral()).To(BeZero())
			Expect(ctrl.Estimator().Covariance()).To(Equal(1.0))
		})
	})

	Context("run arguments and cancellation", func() {
		It("rejects a non-positive tick count", func() {
			_, err := r.Run(context.Background(), 0)
			Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
		})

		It("returns the partial result when canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			res, err := r.Run(ctx, 100)
			Expect(errors.Is(err, dynamo.ErrContextCanceled)).To(BeTrue())
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
			Expect(res).NotTo(BeNil())
			Expect(res.StepsTaken).To(BeZero())
		})
	})
})

var _ = Describe("Compare", func() {
	It("reports one row per bearing type", func() {
		base := scenarioModel()
		rows, err := Compare(context.Background(), base, CompareTicks, logging.NewTestLogger())
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(3))

		byType := map[bearing.Type]Comparison{}
		for _, row := range rows {
			byType[row.Type] = row
			Expect(row.Rigidity).To(BeNumerically("~", 3.8e9, 1))
			Expect(row.Friction).To(BeNumerically("~", 25, 1e-9))
		}

		Expect(byType[bearing.Ceramic].MagneticField).To(BeZero())
		Expect(byType[bearing.Ceramic].EnergyLoss).To(BeZero())
		Expect(byType[bearing.Hybrid].MagneticField).To(BeNumerically("~", 0.01257, 1e-5))
		Expect(byType[bearing.Magnetic].EnergyLoss).To(BeNumerically(">", 0))
		Expect(base.Type()).To(Equal(bearing.Hybrid))
	})

	It("matches a sequential run of the same type", func() {
		rows, err := Compare(context.Background(), scenarioModel(), CompareTicks, logging.NewTestLogger())
		Expect(err).NotTo(HaveOccurred())

		m := scenarioModel()
		m.SetType(bearing.Magnetic)
		res, err := New(m, control.NewNone(), logging.NewTestLogger()).Run(context.Background(), CompareTicks)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows[0].Type).To(Equal(bearing.Magnetic))
		Expect(rows[0].EnergyLoss).To(Equal(res.Final().EnergyLoss))
	})
})
