package pitch

import (
	"fmt"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

// FFTFunc computes the forward discrete Fourier transform of x.
// The result has the same length as x; x must not be modified.
type FFTFunc func(x []complex128) []complex128

// GoDSPFFT is the default FFT backend.
func GoDSPFFT(x []complex128) []complex128 {
	return fft.FFT(x)
}

// GonumFFT computes the transform with gonum's complex FFT.
func GonumFFT(x []complex128) []complex128 {
	return fourier.NewCmplxFFT(len(x)).Coefficients(nil, x)
}

// FFTByName resolves a backend name as accepted on the command line.
func FFTByName(name string) (FFTFunc, error) {
	switch name {
	case "", "go-dsp":
		return GoDSPFFT, nil
	case "gonum":
		return GonumFFT, nil
	default:
		return nil, fmt.Errorf("unknown fft backend %q", name)
	}
}

// PowerSpectrum returns the squared magnitude of every DFT bin of samples,
// with bins whose frequency lies outside [lowHz, highHz] zeroed.
// Bin i corresponds to i*sampleRate/len(samples) Hz. A nil transform selects GoDSPFFT.
func PowerSpectrum(samples []float32, sampleRate int, lowHz, highHz float64, transform FFTFunc) []float64 {
	if transform == nil {
		transform = GoDSPFFT
	}

	// Convert from []float32 to []complex128 for the FFT
	complexSamples := make([]complex128, len(samples))
	for i, sample := range samples {
		complexSamples[i] = complex(float64(sample), 0)
	}

	spectrum := transform(complexSamples)

	binSizeHz := float64(sampleRate) / float64(len(spectrum))
	power := make([]float64, len(spectrum))
	for i, c := range spectrum {
		freq := float64(i) * binSizeHz
		if freq < lowHz || freq > highHz {
			continue
		}
		power[i] = real(c)*real(c) + imag(c)*imag(c)
	}
	return power
}
