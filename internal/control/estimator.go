package control

import "github.com/san-kum/bearingsim/internal/dynamo"

const (
	DefaultProcessNoise     = 0.01
	DefaultMeasurementNoise = 0.1
	initialCovariance       = 1.0
)

// KalmanGain is the scalar gain for a prior covariance. It lies in (0, 1)
// for any covariance >= 0 and positive noise terms.
func KalmanGain(covariance, processNoise, measurementNoise float64) float64 {
	predicted := covariance + processNoise
	return predicted / (predicted + measurementNoise)
}

// Estimator fuses displacement and velocity measurements under a
// constant-velocity model. Velocity is corrected with the displacement gain
// rather than a separate 2x2 gain.
type Estimator struct {
	ProcessNoise     float64
	MeasurementNoise float64

	displacement float64
	velocity     float64
	covariance   float64
	gain         float64
}

func NewEstimator() *Estimator {
	return &Estimator{
		ProcessNoise:     DefaultProcessNoise,
		MeasurementNoise: DefaultMeasurementNoise,
		covariance:       initialCovariance,
	}
}

// Update runs one predict/correct cycle and returns the new estimates.
func (k *Estimator) Update(measuredDisplacement, measuredVelocity float64) (float64, float64) {
	predicted := k.displacement + dynamo.Dt*k.velocity
	predictedCov := k.covariance + k.ProcessNoise

	k.gain = KalmanGain(k.covariance, k.ProcessNoise, k.MeasurementNoise)
	k.displacement = predicted + k.gain*(measuredDisplacement-predicted)
	k.velocity = k.velocity + k.gain*(measuredVelocity-k.velocity)
	k.covariance = (1 - k.gain) * predictedCov

	return k.displacement, k.velocity
}

func (k *Estimator) Displacement() float64 { return k.displacement }
func (k *Estimator) Velocity() float64     { return k.velocity }
func (k *Estimator) Covariance() float64   { return k.covariance }

// Gain is the gain used by the most recent Update, 0 before the first.
func (k *Estimator) Gain() float64 { return k.gain }

func (k *Estimator) Reset() {
	k.displacement = 0
	k.velocity = 0
	k.covariance = initialCovariance
	k.gain = 0
}
