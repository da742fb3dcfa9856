// Package core defines the shared data model of the validation simulator:
// validation items and their interview transcripts, the mutable run state the
// state machine advances, the pluggable terminal-status vocabulary (Scheme),
// the collaborator contracts backed by language models in production, and the
// event records delivered to streaming consumers.
package core
