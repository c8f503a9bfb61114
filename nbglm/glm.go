package nbglm

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

const (
	irlsMaxIter = 50
	irlsTol     = 1e-8
	// linear predictors are clamped to keep all-zero genes finite.
	maxLinPred = 30.0
	minMu      = 1e-8
)

// irls fits one gene's counts y against the design with the given offsets
// and dispersion phi by iteratively reweighted least squares on the log
// link. phi == 0 is the Poisson limit. It returns the coefficients on the
// natural log scale, the fitted means and the deviance.
func irls(y []float64, design *mat.Dense, offsets []float64, phi float64) ([]float64, []float64, float64, error) {
	m, p := design.Dims()
	if len(y) != m || len(offsets) != m {
		return nil, nil, 0, errors.Errorf("irls: %d counts, %d offsets for %d design rows", len(y), len(offsets), m)
	}
	mu := make([]float64, m)
	lp := make([]float64, m)
	for j, v := range y {
		mj := v
		if mj < 1.0/6 {
			mj = 1.0 / 6
		}
		mu[j] = mj
		lp[j] = math.Log(mj)
	}
	beta := make([]float64, p)
	dev := deviance(y, mu, phi)

	xw := mat.NewDense(m, p, nil)
	zw := mat.NewVecDense(m, nil)
	var qr mat.QR
	var sol mat.Dense
	for iter := 0; iter < irlsMaxIter; iter++ {
		for j := 0; j < m; j++ {
			mj := math.Max(mu[j], minMu)
			w := mj / (1 + phi*mj)
			sw := math.Sqrt(w)
			z := (lp[j] - offsets[j]) + (y[j]-mj)/mj
			for k := 0; k < p; k++ {
				xw.Set(j, k, sw*design.At(j, k))
			}
			zw.SetVec(j, sw*z)
		}
		qr.Factorize(xw)
		if err := qr.SolveTo(&sol, false, zw); err != nil {
			return nil, nil, 0, errors.Wrap(err, "irls: weighted least squares")
		}
		for k := 0; k < p; k++ {
			beta[k] = sol.At(k, 0)
		}
		for j := 0; j < m; j++ {
			v := offsets[j]
			for k := 0; k < p; k++ {
				v += beta[k] * design.At(j, k)
			}
			if v > maxLinPred {
				v = maxLinPred
			} else if v < -maxLinPred {
				v = -maxLinPred
			}
			lp[j] = v
			mu[j] = math.Exp(v)
		}
		newDev := deviance(y, mu, phi)
		if math.Abs(newDev-dev) < irlsTol*(math.Abs(dev)+1) {
			dev = newDev
			break
		}
		dev = newDev
	}
	return beta, mu, dev, nil
}

// deviance is the negative-binomial deviance of y around mu at dispersion
// phi, reducing to the Poisson deviance at phi == 0.
func deviance(y, mu []float64, phi float64) float64 {
	var dev float64
	for j := range y {
		yj := y[j]
		mj := math.Max(mu[j], minMu)
		if phi == 0 {
			if yj > 0 {
				dev += yj*math.Log(yj/mj) - (yj - mj)
			} else {
				dev += mj
			}
			continue
		}
		if yj > 0 {
			dev += yj*math.Log(yj/mj) - (yj+1/phi)*math.Log((1+phi*yj)/(1+phi*mj))
		} else {
			dev += math.Log(1+phi*mj) / phi
		}
	}
	return 2 * dev
}
