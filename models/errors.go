package models

import "errors"

var (
	// ErrObsYSizeMismatch occurs when the number of matrix rows does not
	// match the number of target values.
	ErrObsYSizeMismatch = errors.New("observation and target counts do not match")

	// ErrNoTrainingData occurs when Fit is called with no observations.
	ErrNoTrainingData = errors.New("no training data")

	// ErrNoDesignMatrix occurs when a nil matrix is passed in.
	ErrNoDesignMatrix = errors.New("no design matrix")

	// ErrUntrainedModel occurs when Predict or Score is called before Fit.
	ErrUntrainedModel = errors.New("model has not been trained")

	// ErrFeatureLenMismatch occurs when a prediction matrix has a different
	// number of columns than the matrix the model was fit on.
	ErrFeatureLenMismatch = errors.New("prediction feature count does not match training")

	// ErrPenaltyLenMismatch occurs when the per-feature penalty weight
	// slice does not match the number of features.
	ErrPenaltyLenMismatch = errors.New("penalty weight count does not match feature count")
)
