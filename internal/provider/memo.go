package provider

// memo holds a lazily computed value until reset.
type memo[T any] struct {
	value T
	done  bool
}

func (m *memo[T]) get(compute func() T) T {
	if !m.done {
		m.value = compute()
		m.done = true
	}
	return m.value
}

func (m *memo[T]) reset() {
	var zero T
	m.value = zero
	m.done = false
}
