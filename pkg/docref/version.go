// Package docref carries module-level metadata shared by the CLI and
// library consumers.
package docref

// Version is the docref release version, bumped on tagged releases.
const Version = "0.1.0"
