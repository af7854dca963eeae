package calc

// Option is an option for evaluation.
type Option interface {
	calcOption()
}

type (
	lenientopt bool
	recopt     struct {
		r Recorder
	}
)

func (lenientopt) calcOption() {}
func (recopt) calcOption()     {}

// Lenient tells the evaluator to tolerate malformed input the way a
// forgiving keypad calculator does: unknown runes are skipped, a close
// bracket with no open bracket does nothing, an open bracket that is never
// closed is dropped, and if several values remain at the end, the last one
// is the result. Stack underflow and invalid numbers are errors regardless.
func Lenient() Option {
	return lenientopt(true)
}

// Strict undoes the effect of any previous Lenient. Strict evaluation is the
// default.
func Strict() Option {
	return lenientopt(false)
}

// Record sets a Recorder to notify after each successful Calculate. A nil
// Recorder disables recording.
func Record(r Recorder) Option {
	return recopt{r}
}

// Recorder receives successful calculations, e.g. to keep a history. expr is
// the input as the user typed it and result is the formatted result.
type Recorder interface {
	Record(expr, result string)
}

// RecorderFunc adapts a function to a Recorder.
type RecorderFunc func(expr, result string)

// Record calls f(expr, result).
func (f RecorderFunc) Record(expr, result string) {
	f(expr, result)
}

// settings holds the effect of a list of options.
type settings struct {
	lenient bool
	rec     Recorder
}

func apply(opts []Option) settings {
	var s settings
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case lenientopt:
			s.lenient = bool(opt)
		case recopt:
			s.rec = opt.r
		default:
			panic("calc: unknown option type")
		}
	}
	return s
}
