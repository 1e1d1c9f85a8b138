package measure_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/labfit/internal/measure"
)

var _ = Describe("Propagation", func() {
	pairs := []struct{ a, b measure.Measurement }{
		{measure.New(10, 0.1), measure.New(5, 0.1)},
		{measure.New(-3.2, 0.4), measure.New(7.5, 0)},
		{measure.New(1e-3, 2e-5), measure.New(-4e4, 150)},
		{measure.New(1.23, 0.01), measure.New(4.56, 0.02)},
	}

	It("multiplies commutatively", func() {
		for _, p := range pairs {
			ab, err := p.a.Mul(p.b)
			Expect(err).NotTo(HaveOccurred())
			ba, err := p.b.Mul(p.a)
			Expect(err).NotTo(HaveOccurred())

			Expect(ab.Value()).To(Equal(ba.Value()))
			Expect(ab.Uncertainty()).To(Equal(ba.Uncertainty()))
		}
	})

	It("adds uncertainties in quadrature", func() {
		for _, p := range pairs {
			sum := p.a.Add(p.b)
			ua, ub := p.a.Uncertainty(), p.b.Uncertainty()
			Expect(sum.Uncertainty()).To(Equal(math.Sqrt(ua*ua + ub*ub)))
		}
	})

	It("leaves uncertainty unchanged by a constant shift", func() {
		for _, p := range pairs {
			Expect(p.a.AddScalar(42).Uncertainty()).To(Equal(p.a.Uncertainty()))
		}
	})

	It("scales uncertainty by the magnitude of a constant", func() {
		for _, p := range pairs {
			for _, c := range []float64{-3, 0, 0.5, 12} {
				Expect(p.a.Scale(c).Uncertainty()).To(Equal(p.a.Uncertainty() * math.Abs(c)))
			}
		}
	})

	It("gives quotients the same relative error as products", func() {
		for _, p := range pairs {
			prod, err := p.a.Mul(p.b)
			Expect(err).NotTo(HaveOccurred())
			quot, err := p.a.Div(p.b)
			Expect(err).NotTo(HaveOccurred())

			relProd := prod.Uncertainty() / math.Abs(prod.Value())
			relQuot := quot.Uncertainty() / math.Abs(quot.Value())
			Expect(relQuot).To(BeNumerically("~", relProd, 1e-12))
		}
	})

	Context("with a zero-valued operand", func() {
		zero := measure.New(0, 0.5)

		It("refuses to multiply", func() {
			_, err := measure.Multiply(zero, measure.New(2, 0.1))
			Expect(err).To(MatchError(measure.ErrZeroValue))
		})

		It("refuses to divide", func() {
			_, err := measure.Divide(measure.New(2, 0.1), zero)
			Expect(err).To(MatchError(measure.ErrZeroValue))
		})

		It("still scales exactly", func() {
			got, err := measure.Multiply(measure.Scalar(4), zero)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(measure.New(0, 2)))
		})
	})

	It("reproduces the kinetic energy example", func() {
		mass := measure.New(1.23, 0.01)
		velocity := measure.New(4.56, 0.02)

		half, err := measure.Multiply(measure.Scalar(0.5), mass)
		Expect(err).NotTo(HaveOccurred())
		v2, err := velocity.Mul(velocity)
		Expect(err).NotTo(HaveOccurred())
		ke, err := half.Mul(v2)
		Expect(err).NotTo(HaveOccurred())

		Expect(ke.Value()).To(BeNumerically("~", 12.788, 1e-3))
		Expect(ke.String()).To(HavePrefix("12.8 ± "))
	})
})
