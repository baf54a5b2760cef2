// SPDX-License-Identifier: MPL-2.0

// Package manifest models a lazypkg package manifest: the single declarative
// file describing a package's metadata, dependencies, file movements and
// lifecycle scripts.
//
// Manifests are written in YAML or CUE and checked against the embedded
// manifest_schema.cue before being decoded:
//
//	name: onionr
//	version: 0.1
//	dependencies:
//	  - deb: python3.7
//	    pkgbuild: python
//	    build: true
//	movements:
//	  - install/onionr: /usr/bin/
//	    chmod: 755
//	scripts:
//	  - post_install: install/post_install.sh
//
// List order is preserved everywhere because generated recipes emit entries
// in declaration order.
package manifest
