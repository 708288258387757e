package indicators

// emaState: потоковая EMA. Первые period значений копятся в SMA-затравку,
// дальше обычное сглаживание alpha = 2/(N+1).
type emaState struct {
	period int
	alpha  float64
	value  float64
	sum    float64
	warmup int
}

func newEMA(period int) emaState {
	if period <= 1 {
		period = 1
	}
	return emaState{
		period: period,
		alpha:  2.0 / (float64(period) + 1),
	}
}

func (e *emaState) Update(price float64) {
	if e.warmup < e.period {
		e.sum += price
		e.warmup++
		if e.warmup == e.period {
			e.value = e.sum / float64(e.period)
		}
		return
	}
	e.value = e.alpha*price + (1-e.alpha)*e.value
}

func (e *emaState) Ready() bool    { return e.warmup >= e.period }
func (e *emaState) Value() float64 { return e.value }

// EMASeries считает EMA по всей серии. out[i] соответствует xs[period-1+i].
func EMASeries(xs []float64, period int) ([]float64, error) {
	if err := need(len(xs), period, period); err != nil {
		return nil, err
	}
	e := newEMA(period)
	out := make([]float64, 0, len(xs)-period+1)
	for _, x := range xs {
		e.Update(x)
		if e.Ready() {
			out = append(out, e.Value())
		}
	}
	return out, nil
}

// EMA: последнее значение EMASeries.
func EMA(xs []float64, period int) (float64, error) {
	s, err := EMASeries(xs, period)
	if err != nil {
		return 0, err
	}
	return s[len(s)-1], nil
}
