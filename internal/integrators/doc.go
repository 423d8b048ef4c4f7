// Package integrators advances an [atoms.Atoms] ensemble in time and
// prepares its initial momenta.
//
// [VelocityVerlet] is the constant-energy integrator. [MaxwellBoltzmann]
// samples thermal momenta from an explicit random source so that runs are
// reproducible from their seed.
package integrators
