package types

// ImportMethod records how an assessment was produced. The value is free text;
// the constants below are the ones written by this application.
type ImportMethod string

const (
	ImportMethodManual ImportMethod = "manual"
	ImportMethodTest   ImportMethod = "test"
	ImportMethodSeed   ImportMethod = "seed"
)

func (m ImportMethod) String() string {
	return string(m)
}
