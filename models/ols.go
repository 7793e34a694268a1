package models

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// OLSOptions configures ordinary least squares.
type OLSOptions struct {
	FitIntercept bool
}

// NewDefaultOLSOptions returns the default OLS options.
func NewDefaultOLSOptions() *OLSOptions {
	return &OLSOptions{FitIntercept: true}
}

// OLSRegression fits a linear model by QR decomposition.
type OLSRegression struct {
	opt *OLSOptions

	intercept float64
	coef      []float64
	trained   bool
}

func NewOLSRegression(opt *OLSOptions) *OLSRegression {
	if opt == nil {
		opt = NewDefaultOLSOptions()
	}
	return &OLSRegression{opt: opt}
}

func (o *OLSRegression) Fit(x mat.Matrix, y []float64) error {
	if x == nil {
		return ErrNoDesignMatrix
	}
	m, n := x.Dims()
	if m == 0 || n == 0 {
		return ErrNoTrainingData
	}
	if m != len(y) {
		return ErrObsYSizeMismatch
	}

	obs := mat.DenseCopyOf(x)
	if o.opt.FitIntercept {
		ones := make([]float64, m)
		for i := range ones {
			ones[i] = 1
		}
		aug := mat.NewDense(m, n+1, nil)
		aug.SetCol(0, ones)
		for j := 0; j < n; j++ {
			aug.SetCol(j+1, mat.Col(nil, j, obs))
		}
		obs = aug
		n++
	}

	var qr mat.QR
	qr.Factorize(obs)

	c := mat.NewDense(n, 1, nil)
	if err := qr.SolveTo(c, false, mat.NewDense(m, 1, y)); err != nil {
		return err
	}

	if o.opt.FitIntercept {
		o.intercept = c.At(0, 0)
		o.coef = make([]float64, n-1)
		for j := 1; j < n; j++ {
			o.coef[j-1] = c.At(j, 0)
		}
	} else {
		o.coef = make([]float64, n)
		for j := 0; j < n; j++ {
			o.coef[j] = c.At(j, 0)
		}
	}
	o.trained = true
	return nil
}

func (o *OLSRegression) Predict(x mat.Matrix) ([]float64, error) {
	if !o.trained {
		return nil, ErrUntrainedModel
	}
	if x == nil {
		return nil, ErrNoDesignMatrix
	}
	m, n := x.Dims()
	if n != len(o.coef) {
		return nil, ErrFeatureLenMismatch
	}

	res := make([]float64, m)
	for i := 0; i < m; i++ {
		v := o.intercept
		for j := 0; j < n; j++ {
			v += x.At(i, j) * o.coef[j]
		}
		res[i] = v
	}
	return res, nil
}

// Score computes the coefficient of determination of the prediction.
func (o *OLSRegression) Score(x mat.Matrix, y []float64) (float64, error) {
	predicted, err := o.Predict(x)
	if err != nil {
		return 0, err
	}
	if len(predicted) != len(y) {
		return 0, ErrObsYSizeMismatch
	}
	return stat.RSquaredFrom(predicted, y, nil), nil
}

func (o *OLSRegression) Intercept() float64 {
	return o.intercept
}

func (o *OLSRegression) Coef() []float64 {
	return o.coef
}
