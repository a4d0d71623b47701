// Package suite loads scenario files and compiles them into runnable steps.
//
// A scenario file is YAML (.yaml, .yml) or CUE (.cue) with the same shape:
//
//	name: checkout
//	description: optional text
//	session: { user: alice }
//	steps:
//	  - set: { key: total, value: 3 }
//	  - assert: { key: total, equals: 3 }
//	  - eventually:
//	      max_time: 200ms
//	      interval: 10ms
//	      steps:
//	        - read_file: { path: /tmp/ready, key: ready }
//
// Loading is strict: unknown fields are rejected in both formats, and every
// step entry must name exactly one action. Compile maps each entry onto the
// built-in step library (set, assert, debug, read_file, attach, eventually).
package suite
