package control

import (
	"math"
	"testing"

	"github.com/san-kum/bearingsim/internal/dynamo"
)

func TestNone(t *testing.T) {
	ctrl := NewNone()
	u := ctrl.Compute(dynamo.State{1.0, 2.0}, 0.0)

	if len(u) != 1 || u[0] != 0 {
		t.Errorf("expected single zero control, got %v", u)
	}
}

func TestManual(t *testing.T) {
	ctrl := NewManual(12.5)
	if u := ctrl.Compute(dynamo.State{0, 0}, 0); u[0] != 12.5 {
		t.Errorf("expected 12.5, got %f", u[0])
	}
	if err := ctrl.SetParam("force", -3); err != nil {
		t.Fatal(err)
	}
	if u := ctrl.Compute(dynamo.State{0, 0}, 0); u[0] != -3 {
		t.Errorf("expected -3, got %f", u[0])
	}
	if err := ctrl.SetParam("kp", 1); err == nil {
		t.Error("expected unknown param error")
	}
}

func TestControllerDefaults(t *testing.T) {
	c := NewController()
	if c.Kp() != 1000 || c.Ki() != 10 || c.Kd() != 50 {
		t.Errorf("unexpected default gains %f/%f/%f", c.Kp(), c.Ki(), c.Kd())
	}
	if c.Estimator().Covariance() != 1.0 {
		t.Errorf("initial covariance = %f", c.Estimator().Covariance())
	}
}

func TestControllerOpposesDisplacement(t *testing.T) {
	c := NewController()
	u := c.Update(0.004, 0)
	if u >= 0 {
		t.Errorf("positive displacement should produce negative force, got %f", u)
	}

	c = NewController()
	u = c.Update(-0.004, 0)
	if u <= 0 {
		t.Errorf("negative displacement should produce positive force, got %f", u)
	}
}

func TestControllerNaNGuard(t *testing.T) {
	baseline := NewController()
	want := baseline.Update(0.002, 0.1)

	c := NewController()
	if got := c.Update(math.NaN(), 0.1); got != 0 {
		t.Errorf("NaN displacement returned %v, want 0", got)
	}
	if got := c.Update(0.002, math.NaN()); got != 0 {
		t.Errorf("NaN velocity returned %v, want 0", got)
	}
	if c.Estimator().Displacement() != 0 || c.Estimator().Covariance() != 1.0 {
		t.Error("NaN update mutated estimator state")
	}
	if c.PID().Integral() != 0 || c.PID().PreviousError() != 0 {
		t.Error("NaN update mutated integrator state")
	}

	if got := c.Update(0.002, 0.1); got != want {
		t.Errorf("post-NaN update = %v, want baseline %v", got, want)
	}
}

func TestControllerOutputBounded(t *testing.T) {
	c := NewController()
	c.SetKp(2000)
	c.SetKd(100)
	c.SetKi(50)
	for i := 0; i < 200; i++ {
		u := c.Update(0.01*math.Sin(float64(i)), 10*math.Cos(float64(i)))
		if u < -1000 || u > 1000 {
			t.Fatalf("tick %d: output %f out of bounds", i, u)
		}
	}
}

func TestGainSetters(t *testing.T) {
	tests := []struct {
		name string
		set  func(*Controller, float64)
		get  func(*Controller) float64
		in   float64
		want float64
	}{
		{"kp in range", (*Controller).SetKp, (*Controller).Kp, 1500, 1500},
		{"kp above", (*Controller).SetKp, (*Controller).Kp, 5000, 2000},
		{"kp negative", (*Controller).SetKp, (*Controller).Kp, -1, 0},
		{"kp NaN", (*Controller).SetKp, (*Controller).Kp, math.NaN(), 0},
		{"ki above", (*Controller).SetKi, (*Controller).Ki, 51, 50},
		{"ki Inf", (*Controller).SetKi, (*Controller).Ki, math.Inf(1), 0},
		{"kd above", (*Controller).SetKd, (*Controller).Kd, 101, 100},
		{"kd -Inf", (*Controller).SetKd, (*Controller).Kd, math.Inf(-1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController()
			tt.set(c, tt.in)
			if got := tt.get(c); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestControllerConfigurable(t *testing.T) {
	var cfg dynamo.Configurable = NewController()
	if err := cfg.SetParam("kp", 9999); err != nil {
		t.Fatal(err)
	}
	if got := cfg.GetParams()["kp"]; got != 2000 {
		t.Errorf("kp = %f, want clamped 2000", got)
	}
	if err := cfg.SetParam("target", 1); err == nil {
		t.Error("expected unknown param error")
	}
}

func TestControllerResetKeepsGains(t *testing.T) {
	c := NewController()
	c.SetKp(700)
	for i := 0; i < 10; i++ {
		c.Update(0.003, 0.2)
	}
	c.Reset()

	if c.Kp() != 700 {
		t.Errorf("reset changed kp to %f", c.Kp())
	}
	if c.Estimator().Displacement() != 0 || c.PID().Integral() != 0 {
		t.Error("reset left estimator or integrator state")
	}
}

func TestControllerCompute(t *testing.T) {
	c := NewController()
	ref := NewController()

	u := c.Compute(dynamo.State{0.001, 0.5}, 0)
	if len(u) != 1 || u[0] != ref.Update(0.001, 0.5) {
		t.Errorf("Compute disagrees with Update: %v", u)
	}
	if u := c.Compute(dynamo.State{0.001}, 0); u[0] != 0 {
		t.Errorf("short state should yield zero, got %v", u)
	}
}
