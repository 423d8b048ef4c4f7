// Package sim drives a molecular dynamics run.
//
// A [Simulator] moves through Unbuilt → Configured → Running → Completed
// (or Failed). [Simulator.Configure] builds the ensemble; [Simulator.Run]
// opens the trajectory, steps the integrator in fixed batches and fires
// step-indexed observers inline, in registration order:
//
//	s := sim.New(integrators.NewVelocityVerlet(), logger)
//	s.SetTrajectory(opener)
//	s.SetReporter(func(x metrics.Sample) { fmt.Println(x.Report) })
//	if err := s.Configure(build); err != nil { ... }
//	result, err := s.Run(ctx, cfg)
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. For concurrent independent runs
// use [Replicas], which gives every replica its own simulator.
package sim
