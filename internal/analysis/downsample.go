package analysis

// DefaultSampleCeiling is the point budget for per-record visualisations.
//
// Downsampling bounds rendering cost only; it is not needed for correctness.
// When n exceeds the ceiling, stride = ceil(n/ceiling) and every element whose
// index is a multiple of stride is kept, in original order.
const DefaultSampleCeiling = 10000

// Stride returns the sampling stride for n items under ceiling (1 when no
// reduction is needed).
func Stride(n, ceiling int) int {
	if ceiling <= 0 {
		ceiling = DefaultSampleCeiling
	}
	if n <= ceiling {
		return 1
	}
	return (n + ceiling - 1) / ceiling
}

// Downsample keeps every stride-th element of in.
func Downsample[T any](in []T, ceiling int) []T {
	stride := Stride(len(in), ceiling)
	if stride == 1 {
		return in
	}
	out := make([]T, 0, (len(in)+stride-1)/stride)
	for i := 0; i < len(in); i += stride {
		out = append(out, in[i])
	}
	return out
}
