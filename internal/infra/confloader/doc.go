// Package confloader provides the configuration loading mechanism.
//
// A Loader is a thin layer over koanf that collects attributes from
// several sources into one keyed bag. Each load overlays the previous
// ones, so callers load the lowest-priority source first. Load applies
// the configured YAML file, then GMM7550_ environment variables.
// LoadBytes and LoadMap cover embedded documents and Go-built maps.
//
// Watcher reports writes to configuration files so callers can reload.
package confloader
