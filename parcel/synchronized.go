package parcel

// Synchronized runs f as the parcel's critical section: it acquires the
// Mutex, unwraps the current value, calls f, wraps the result (or the
// original value if f reports no replacement), and releases the Mutex on
// every exit path including failure.
//
// f's second return value follows a null-coalescing rule: when it is
// false, f's V return is ignored and the v that f received is wrapped
// back, letting callers that only mutate v's contents in place signal
// "no replacement" instead of re-returning it.
func (p *Parcel[V]) Synchronized(f func(v V) (V, bool, error)) (V, error) {
	var zero V
	p.mu.Lock()
	mtx := p.mutex
	p.mu.Unlock()

	guard, err := mtx.Acquire()
	if err != nil {
		return zero, err
	}
	defer guard.Release()

	v, err := p.Unwrap()
	if err != nil {
		return zero, err
	}

	result, replace, err := f(v)
	if err != nil {
		return zero, err
	}

	if !replace {
		result = v
	}
	if err := p.Wrap(result); err != nil {
		return zero, err
	}
	return result, nil
}

// Mutate is a convenience wrapper over Synchronized for callbacks that
// mutate v in place and signal failure only, never a replacement value.
func (p *Parcel[V]) Mutate(f func(v *V) error) error {
	_, err := p.Synchronized(func(v V) (V, bool, error) {
		if err := f(&v); err != nil {
			var zero V
			return zero, false, err
		}
		return v, true, nil
	})
	return err
}
