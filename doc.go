// Package rayoptics implements the ray propagation core of a 2D ray-optics
// sandbox: geometric intersection against line segments and circular arcs,
// per-element interaction laws (mirror, thin lens, refractive interface,
// beamsplitter, waveplate, dichroic), and a branch-and-bound propagation
// driver that turns a scene of sources and elements into a set of colored
// ray polylines.
//
// The package is a pure function of its inputs: Trace and TraceParallel
// never mutate the elements or sources passed to them, hold no state
// between calls, and do not perform I/O. Concurrency, if any, is the
// caller's to add (TraceParallel fans out over independent initial rays).
package rayoptics
