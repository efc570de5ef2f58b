package spline

// Cubic Hermite basis on a knot interval of width h, parameterized by
// t = (x - left)/h in [0, 1]. A segment is the blend
//
//	f(x) = h00(t)·v0 + h·h10(t)·m0 + h01(t)·v1 + h·h11(t)·m1
//
// of the endpoint values v and slopes m. Derivatives with respect to x pick
// up a 1/h factor per order by the chain rule on the substitution.

// basisRow returns the four weights multiplying (v0, m0, v1, m1) for the
// given derivative order in {0, 1, 2, 3}.
func basisRow(order int, t, h float64) [4]float64 {
	switch order {
	case 0:
		t2 := t * t
		t3 := t2 * t
		return [4]float64{
			2*t3 - 3*t2 + 1,
			h * (t3 - 2*t2 + t),
			-2*t3 + 3*t2,
			h * (t3 - t2),
		}
	case 1:
		t2 := t * t
		return [4]float64{
			(6*t2 - 6*t) / h,
			3*t2 - 4*t + 1,
			(-6*t2 + 6*t) / h,
			3*t2 - 2*t,
		}
	case 2:
		return [4]float64{
			(12*t - 6) / (h * h),
			(6*t - 4) / h,
			(-12*t + 6) / (h * h),
			(6*t - 2) / h,
		}
	case 3:
		return [4]float64{
			12 / (h * h * h),
			6 / (h * h),
			-12 / (h * h * h),
			6 / (h * h),
		}
	}
	panic("spline: basisRow order out of range")
}
