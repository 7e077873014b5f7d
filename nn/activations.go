package nn

import (
	"math"
)

// activate applies the activation function to a single value
func activate(v float32, activation ActivationType) float32 {
	switch activation {
	case ActivationReLU:
		if v < 0 {
			v = 0
		}
		return v
	case ActivationTanh:
		return float32(math.Tanh(float64(v)))
	case ActivationSigmoid:
		return 1.0 / (1.0 + float32(math.Exp(float64(-v))))
	default:
		return v
	}
}

// activateDerivative computes the derivative of the activation function
// with respect to the pre-activation value
func activateDerivative(preActivation float32, activation ActivationType) float32 {
	switch activation {
	case ActivationReLU:
		// d/dv max(0, v) = 1 if v > 0, else 0
		if preActivation > 0 {
			return 1.0
		}
		return 0
	case ActivationTanh:
		// d/dv tanh(v) = 1 - tanh^2(v)
		t := float32(math.Tanh(float64(preActivation)))
		return 1.0 - t*t
	case ActivationSigmoid:
		// d/dv (1/(1+e^-v)) = sigmoid(v) * (1 - sigmoid(v))
		sig := 1.0 / (1.0 + float32(math.Exp(float64(-preActivation))))
		return sig * (1.0 - sig)
	default:
		return 1.0
	}
}

// sigmoid implements the sigmoid activation function
func sigmoid(x float32) float32 {
	return float32(1.0 / (1.0 + math.Exp(float64(-x))))
}
