package kosmoss

// Integrable defines something which can be advanced by the fixed-step
// integrators: any state carrying vector-space addition and scalar
// multiplication. The integrator never inspects individual fields.
type Integrable[S any] interface {
	Add(S) S
	Scale(float64) S
}

// EquationsOfMotion computes the time derivative of a state.
type EquationsOfMotion[S any] interface {
	Derivative(S) S
}

// RK4 is the classic fourth-order Runge-Kutta integrator, parametric over the
// equations of motion. It is purely functional: four derivative evaluations
// per step, no error estimate, no state retained between calls.
type RK4[S Integrable[S]] struct {
	eom EquationsOfMotion[S]
}

// NewRK4 returns an RK4 integrator for the given equations of motion.
func NewRK4[S Integrable[S]](eom EquationsOfMotion[S]) RK4[S] {
	if eom == nil {
		panic("equations of motion may not be nil")
	}
	return RK4[S]{eom: eom}
}

// Step advances the state by one fixed step dt.
func (r RK4[S]) Step(s S, dt float64) S {
	if dt <= 0 {
		panic("step size must be positive")
	}
	k1 := r.eom.Derivative(s)
	k2 := r.eom.Derivative(s.Add(k1.Scale(dt / 2)))
	k3 := r.eom.Derivative(s.Add(k2.Scale(dt / 2)))
	k4 := r.eom.Derivative(s.Add(k3.Scale(dt)))
	incr := k1.Add(k2.Scale(2)).Add(k3.Scale(2)).Add(k4).Scale(dt / 6)
	return s.Add(incr)
}
