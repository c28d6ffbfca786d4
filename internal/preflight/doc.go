// Package preflight provides readiness checks for the filesystem paths,
// stored credentials, and upstream hosts that Prospector depends on.
//
// The CLI "prospector preflight" command runs RunAll and exits non-zero when
// any check fails. Network probes are opt-in because they leave the machine.
package preflight
