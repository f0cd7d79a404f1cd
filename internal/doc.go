// Package internal contains the implementation packages of patternlab.
//
// # Package Organization
//
//   - identifier: naming grammar of pattern files and references
//   - engine: template engines and the engine registry
//   - scanner: discovery of pattern templates on disk
//   - registry: the pattern set with lookup, duplicates and lineage graph
//   - data: data files and the value model passed to templates
//   - config: the settings file and command line options
//   - state: lifecycle state resolution across includes
//   - taxonomy: navigation, link table and view-all pages
//   - mediaquery: breakpoints used by stylesheets
//   - provider: the memoized compilation session tying the above together
//   - renderer: rendering patterns and pages
//   - build: static site export
//   - errors, logging, ui, version: ambient support
//
// # Data Flow
//
// A provider.Provider reads the settings, selects the engine, scans the
// source directory into a registry and derives states, navigation and
// breakpoints on demand. The renderer and the exporter only read from the
// session.
package internal
